package services

import (
	"context"

	"github.com/sahilchouksey/curriculum-catalog/model"
	"github.com/sahilchouksey/curriculum-catalog/utils/validation"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var chapterOrdering = map[string]clause.Column{
	"order": column("chapters", "order"),
	"name":  column("chapters", "name"),
}

// ChapterAttributes are the writable fields of a chapter.
type ChapterAttributes struct {
	CurriculumID uint   `json:"curriculum" validate:"required"`
	Name         string `json:"name" validate:"required,max=200"`
	Order        int    `json:"order" validate:"min=0"`
}

// ChapterPatch carries the fields sent on an update.
type ChapterPatch struct {
	CurriculumID *uint   `json:"curriculum"`
	Name         *string `json:"name"`
	Order        *int    `json:"order"`
}

// ChapterFilter narrows a chapter listing.
type ChapterFilter struct {
	CurriculumID *uint
}

// ChapterService stores chapters
type ChapterService struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewChapterService creates a new chapter service
func NewChapterService(db *gorm.DB) *ChapterService {
	return &ChapterService{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// List returns chapters, by position unless another ordering is requested.
func (s *ChapterService) List(ctx context.Context, filter ChapterFilter, opts ListOptions) ([]ChapterView, error) {
	query := s.db.WithContext(ctx).Model(&model.Chapter{})
	if filter.CurriculumID != nil {
		query = query.Where("chapters.curriculum_id = ?", *filter.CurriculumID)
	}
	query = applySearch(query, opts.Search, "chapters.name")
	query = applyOrdering(query, "chapters", opts.Ordering, chapterOrdering, ascending("chapters", "order"))

	var chapters []model.Chapter
	if err := withKnowledgePoints(query).Find(&chapters).Error; err != nil {
		return nil, err
	}

	views := make([]ChapterView, 0, len(chapters))
	for _, ch := range chapters {
		views = append(views, NewChapterView(ch))
	}
	return views, nil
}

// Get returns one chapter with its knowledge points.
func (s *ChapterService) Get(ctx context.Context, id uint) (*ChapterView, error) {
	return s.view(s.db.WithContext(ctx), id)
}

// Create stores a chapter under an existing curriculum.
func (s *ChapterService) Create(ctx context.Context, attrs ChapterAttributes) (*ChapterView, error) {
	attrs.Name = validation.SanitizeString(attrs.Name)
	if err := validateAttributes(s.validator, attrs); err != nil {
		return nil, err
	}

	var view *ChapterView
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireParent(tx, &model.Curriculum{}, attrs.CurriculumID, "curriculum"); err != nil {
			return err
		}

		chapter := model.Chapter{
			CurriculumID: attrs.CurriculumID,
			Name:         attrs.Name,
			Order:        uint(attrs.Order),
		}
		if err := tx.Create(&chapter).Error; err != nil {
			return err
		}

		var err error
		view, err = s.view(tx, chapter.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// Update applies patch to the chapter.
func (s *ChapterService) Update(ctx context.Context, id uint, patch ChapterPatch, partial bool) (*ChapterView, error) {
	var view *ChapterView
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var chapter model.Chapter
		if err := tx.First(&chapter, id).Error; err != nil {
			return notFound(err)
		}

		if !partial {
			if missing := requireFields(map[string]bool{
				"curriculum": patch.CurriculumID != nil,
				"name":       patch.Name != nil,
			}); missing != nil {
				return missing
			}
		}

		attrs := ChapterAttributes{
			CurriculumID: chapter.CurriculumID,
			Name:         chapter.Name,
			Order:        int(chapter.Order),
		}
		if patch.CurriculumID != nil {
			attrs.CurriculumID = *patch.CurriculumID
		}
		if patch.Name != nil {
			attrs.Name = validation.SanitizeString(*patch.Name)
		}
		if patch.Order != nil {
			attrs.Order = *patch.Order
		}
		if err := validateAttributes(s.validator, attrs); err != nil {
			return err
		}
		if err := requireParent(tx, &model.Curriculum{}, attrs.CurriculumID, "curriculum"); err != nil {
			return err
		}

		chapter.CurriculumID = attrs.CurriculumID
		chapter.Name = attrs.Name
		chapter.Order = uint(attrs.Order)
		if err := tx.Omit(clause.Associations).Save(&chapter).Error; err != nil {
			return err
		}

		var err error
		view, err = s.view(tx, chapter.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// Delete removes the chapter, its knowledge points and their resources.
func (s *ChapterService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteTree(tx, &model.Chapter{}, id, knowledgePointLinks())
	})
}

func (s *ChapterService) view(db *gorm.DB, id uint) (*ChapterView, error) {
	var chapter model.Chapter
	if err := withKnowledgePoints(db).First(&chapter, id).Error; err != nil {
		return nil, notFound(err)
	}
	view := NewChapterView(chapter)
	return &view, nil
}

// withKnowledgePoints preloads a chapter's knowledge points in position order.
func withKnowledgePoints(db *gorm.DB) *gorm.DB {
	return db.Preload("KnowledgePoints", func(db *gorm.DB) *gorm.DB {
		return db.Order(byPosition("knowledge_points"))
	})
}
