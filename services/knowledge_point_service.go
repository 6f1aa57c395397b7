package services

import (
	"context"
	"fmt"

	"github.com/sahilchouksey/curriculum-catalog/model"
	"github.com/sahilchouksey/curriculum-catalog/utils/validation"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var knowledgePointOrdering = map[string]clause.Column{
	"order":      column("knowledge_points", "order"),
	"name":       column("knowledge_points", "name"),
	"difficulty": column("knowledge_points", "difficulty"),
}

// KnowledgePointAttributes are the writable fields of a knowledge point.
// Callers decoding a create request should start from NewKnowledgePointAttributes
// so an omitted difficulty defaults to medium.
type KnowledgePointAttributes struct {
	ChapterID   uint             `json:"chapter" validate:"required"`
	Name        string           `json:"name" validate:"required,max=255"`
	Description *string          `json:"description"`
	Difficulty  model.Difficulty `json:"difficulty" validate:"oneof=1 2 3 4"`
	Order       int              `json:"order" validate:"min=0"`
}

// NewKnowledgePointAttributes returns attributes pre-filled with defaults.
func NewKnowledgePointAttributes() KnowledgePointAttributes {
	return KnowledgePointAttributes{Difficulty: model.DefaultDifficulty}
}

// KnowledgePointPatch carries the fields sent on an update.
type KnowledgePointPatch struct {
	ChapterID   *uint                          `json:"chapter"`
	Name        *string                        `json:"name"`
	Description validation.PatchField[string] `json:"description"`
	Difficulty  *model.Difficulty              `json:"difficulty"`
	Order       *int                           `json:"order"`
}

// KnowledgePointFilter narrows a knowledge point listing.
type KnowledgePointFilter struct {
	ChapterID  *uint
	Difficulty *int
}

// KnowledgePointService stores knowledge points
type KnowledgePointService struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewKnowledgePointService creates a new knowledge point service
func NewKnowledgePointService(db *gorm.DB) *KnowledgePointService {
	return &KnowledgePointService{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// List returns knowledge points with their resources, by position unless another ordering is requested.
func (s *KnowledgePointService) List(ctx context.Context, filter KnowledgePointFilter, opts ListOptions) ([]KnowledgePointView, error) {
	query := s.db.WithContext(ctx).Model(&model.KnowledgePoint{})
	if filter.ChapterID != nil {
		query = query.Where("knowledge_points.chapter_id = ?", *filter.ChapterID)
	}
	if filter.Difficulty != nil {
		if !model.Difficulty(*filter.Difficulty).Valid() {
			return nil, NewValidationError("difficulty", invalidChoice(*filter.Difficulty))
		}
		query = query.Where("knowledge_points.difficulty = ?", *filter.Difficulty)
	}
	query = applySearch(query, opts.Search, "knowledge_points.name", "knowledge_points.description")
	query = applyOrdering(query, "knowledge_points", opts.Ordering, knowledgePointOrdering, ascending("knowledge_points", "order"))

	var points []model.KnowledgePoint
	if err := withResources(query).Find(&points).Error; err != nil {
		return nil, err
	}

	views := make([]KnowledgePointView, 0, len(points))
	for _, kp := range points {
		views = append(views, NewKnowledgePointView(kp))
	}
	return views, nil
}

// Get returns one knowledge point with its resources.
func (s *KnowledgePointService) Get(ctx context.Context, id uint) (*KnowledgePointView, error) {
	return s.view(s.db.WithContext(ctx), id)
}

// Create stores a knowledge point under an existing chapter.
func (s *KnowledgePointService) Create(ctx context.Context, attrs KnowledgePointAttributes) (*KnowledgePointView, error) {
	attrs.Name = validation.SanitizeString(attrs.Name)
	attrs.Description = validation.SanitizeOptional(attrs.Description)
	if err := validateAttributes(s.validator, attrs); err != nil {
		return nil, err
	}

	var view *KnowledgePointView
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireParent(tx, &model.Chapter{}, attrs.ChapterID, "chapter"); err != nil {
			return err
		}

		point := model.KnowledgePoint{
			ChapterID:   attrs.ChapterID,
			Name:        attrs.Name,
			Description: attrs.Description,
			Difficulty:  attrs.Difficulty,
			Order:       uint(attrs.Order),
		}
		if err := tx.Create(&point).Error; err != nil {
			return err
		}

		var err error
		view, err = s.view(tx, point.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// Update applies patch to the knowledge point. A rejected patch leaves the stored row untouched.
func (s *KnowledgePointService) Update(ctx context.Context, id uint, patch KnowledgePointPatch, partial bool) (*KnowledgePointView, error) {
	var view *KnowledgePointView
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var point model.KnowledgePoint
		if err := tx.First(&point, id).Error; err != nil {
			return notFound(err)
		}

		if !partial {
			if missing := requireFields(map[string]bool{
				"chapter": patch.ChapterID != nil,
				"name":    patch.Name != nil,
			}); missing != nil {
				return missing
			}
		}

		attrs := KnowledgePointAttributes{
			ChapterID:   point.ChapterID,
			Name:        point.Name,
			Description: point.Description,
			Difficulty:  point.Difficulty,
			Order:       int(point.Order),
		}
		if patch.ChapterID != nil {
			attrs.ChapterID = *patch.ChapterID
		}
		if patch.Name != nil {
			attrs.Name = validation.SanitizeString(*patch.Name)
		}
		patch.Description.Apply(&attrs.Description)
		attrs.Description = validation.SanitizeOptional(attrs.Description)
		if patch.Difficulty != nil {
			attrs.Difficulty = *patch.Difficulty
		}
		if patch.Order != nil {
			attrs.Order = *patch.Order
		}
		if err := validateAttributes(s.validator, attrs); err != nil {
			return err
		}
		if err := requireParent(tx, &model.Chapter{}, attrs.ChapterID, "chapter"); err != nil {
			return err
		}

		point.ChapterID = attrs.ChapterID
		point.Name = attrs.Name
		point.Description = attrs.Description
		point.Difficulty = attrs.Difficulty
		point.Order = uint(attrs.Order)
		if err := tx.Omit(clause.Associations).Save(&point).Error; err != nil {
			return err
		}

		var err error
		view, err = s.view(tx, point.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// Delete removes the knowledge point and its resources.
func (s *KnowledgePointService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteTree(tx, &model.KnowledgePoint{}, id, resourceLinks())
	})
}

// ByCurriculum returns every knowledge point under the curriculum's chapters,
// ordered by chapter position then point position. A curriculum without
// chapters or points yields an empty slice; an unknown curriculum yields ErrNotFound.
func (s *KnowledgePointService) ByCurriculum(ctx context.Context, curriculumID uint) ([]KnowledgePointSimple, error) {
	db := s.db.WithContext(ctx)
	found, err := exists(db, &model.Curriculum{}, curriculumID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNotFound
	}

	var points []model.KnowledgePoint
	err = db.Model(&model.KnowledgePoint{}).
		Select("knowledge_points.*").
		Joins("JOIN chapters ON chapters.id = knowledge_points.chapter_id").
		Where("chapters.curriculum_id = ?", curriculumID).
		Order(clause.OrderBy{Columns: []clause.OrderByColumn{
			ascending("chapters", "order"),
			ascending("knowledge_points", "order"),
			ascending("knowledge_points", "id"),
		}}).
		Find(&points).Error
	if err != nil {
		return nil, err
	}

	views := make([]KnowledgePointSimple, 0, len(points))
	for _, kp := range points {
		views = append(views, NewKnowledgePointSimple(kp))
	}
	return views, nil
}

func (s *KnowledgePointService) view(db *gorm.DB, id uint) (*KnowledgePointView, error) {
	var point model.KnowledgePoint
	if err := withResources(db).First(&point, id).Error; err != nil {
		return nil, notFound(err)
	}
	view := NewKnowledgePointView(point)
	return &view, nil
}

// withResources preloads a knowledge point's resources in creation order.
func withResources(db *gorm.DB) *gorm.DB {
	return db.Preload("Resources", func(db *gorm.DB) *gorm.DB {
		return db.Order(ascending("learning_resources", "id"))
	})
}

func invalidChoice(v interface{}) string {
	return fmt.Sprintf("Select a valid choice. %v is not one of the available choices.", v)
}
