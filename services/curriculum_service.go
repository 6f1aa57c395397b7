package services

import (
	"context"
	"fmt"

	"github.com/sahilchouksey/curriculum-catalog/model"
	"github.com/sahilchouksey/curriculum-catalog/utils/validation"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const duplicateCurriculum = "The fields subject, grade, name must make a unique set."

var curriculumOrdering = map[string]clause.Column{
	"name":          column("curriculums", "name"),
	"subject__name": column("subjects", "name"),
	"grade__name":   column("grades", "name"),
}

// CurriculumAttributes are the writable fields of a curriculum.
type CurriculumAttributes struct {
	SubjectID   uint    `json:"subject" validate:"required"`
	GradeID     uint    `json:"grade" validate:"required"`
	Name        string  `json:"name" validate:"required,max=200"`
	Description *string `json:"description"`
}

// CurriculumPatch carries the fields sent on an update.
type CurriculumPatch struct {
	SubjectID   *uint                          `json:"subject"`
	GradeID     *uint                          `json:"grade"`
	Name        *string                        `json:"name"`
	Description validation.PatchField[string] `json:"description"`
}

// CurriculumFilter narrows a curriculum listing by parent.
type CurriculumFilter struct {
	SubjectID *uint
	GradeID   *uint
}

// CurriculumService stores curricula and builds their nested views
type CurriculumService struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewCurriculumService creates a new curriculum service
func NewCurriculumService(db *gorm.DB) *CurriculumService {
	return &CurriculumService{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// List returns curricula with their subject and grade names and lightweight chapters.
func (s *CurriculumService) List(ctx context.Context, filter CurriculumFilter, opts ListOptions) ([]CurriculumView, error) {
	query := s.db.WithContext(ctx).Model(&model.Curriculum{}).
		Select("curriculums.*").
		Joins("JOIN subjects ON subjects.id = curriculums.subject_id").
		Joins("JOIN grades ON grades.id = curriculums.grade_id")

	if filter.SubjectID != nil {
		query = query.Where("curriculums.subject_id = ?", *filter.SubjectID)
	}
	if filter.GradeID != nil {
		query = query.Where("curriculums.grade_id = ?", *filter.GradeID)
	}
	query = applySearch(query, opts.Search, "curriculums.name", "curriculums.description")
	query = applyOrdering(query, "curriculums", opts.Ordering, curriculumOrdering)

	var curriculums []model.Curriculum
	if err := withChapters(query.Preload("Subject").Preload("Grade")).Find(&curriculums).Error; err != nil {
		return nil, err
	}

	views := make([]CurriculumView, 0, len(curriculums))
	for _, c := range curriculums {
		views = append(views, NewCurriculumView(c))
	}
	return views, nil
}

// Get returns the detailed view of one curriculum.
func (s *CurriculumService) Get(ctx context.Context, id uint) (*CurriculumDetailView, error) {
	return s.detail(s.db.WithContext(ctx), id)
}

// Create stores a new curriculum under an existing subject and grade.
func (s *CurriculumService) Create(ctx context.Context, attrs CurriculumAttributes) (*CurriculumView, error) {
	attrs.Name = validation.SanitizeString(attrs.Name)
	attrs.Description = validation.SanitizeOptional(attrs.Description)
	if err := validateAttributes(s.validator, attrs); err != nil {
		return nil, err
	}

	var view *CurriculumView
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.checkReferences(tx, attrs, 0); err != nil {
			return err
		}

		curriculum := model.Curriculum{
			SubjectID:   attrs.SubjectID,
			GradeID:     attrs.GradeID,
			Name:        attrs.Name,
			Description: attrs.Description,
		}
		if err := tx.Create(&curriculum).Error; err != nil {
			return uniqueViolation(err, NonFieldErrors, duplicateCurriculum)
		}

		var err error
		view, err = s.summary(tx, curriculum.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// Update applies patch and returns the detailed view.
func (s *CurriculumService) Update(ctx context.Context, id uint, patch CurriculumPatch, partial bool) (*CurriculumDetailView, error) {
	var view *CurriculumDetailView
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var curriculum model.Curriculum
		if err := tx.First(&curriculum, id).Error; err != nil {
			return notFound(err)
		}

		if !partial {
			if missing := requireFields(map[string]bool{
				"subject": patch.SubjectID != nil,
				"grade":   patch.GradeID != nil,
				"name":    patch.Name != nil,
			}); missing != nil {
				return missing
			}
		}

		attrs := CurriculumAttributes{
			SubjectID:   curriculum.SubjectID,
			GradeID:     curriculum.GradeID,
			Name:        curriculum.Name,
			Description: curriculum.Description,
		}
		if patch.SubjectID != nil {
			attrs.SubjectID = *patch.SubjectID
		}
		if patch.GradeID != nil {
			attrs.GradeID = *patch.GradeID
		}
		if patch.Name != nil {
			attrs.Name = validation.SanitizeString(*patch.Name)
		}
		patch.Description.Apply(&attrs.Description)
		attrs.Description = validation.SanitizeOptional(attrs.Description)

		if err := validateAttributes(s.validator, attrs); err != nil {
			return err
		}
		if err := s.checkReferences(tx, attrs, curriculum.ID); err != nil {
			return err
		}

		curriculum.SubjectID = attrs.SubjectID
		curriculum.GradeID = attrs.GradeID
		curriculum.Name = attrs.Name
		curriculum.Description = attrs.Description
		if err := tx.Omit(clause.Associations).Save(&curriculum).Error; err != nil {
			return uniqueViolation(err, NonFieldErrors, duplicateCurriculum)
		}

		var err error
		view, err = s.detail(tx, curriculum.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// Delete removes the curriculum, its chapters, their knowledge points and resources.
func (s *CurriculumService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteTree(tx, &model.Curriculum{}, id, chapterLinks())
	})
}

// checkReferences verifies the parents exist and the (subject, grade, name) triple is free.
func (s *CurriculumService) checkReferences(tx *gorm.DB, attrs CurriculumAttributes, exceptID uint) error {
	fields := make(map[string]string)
	subjectFound, err := exists(tx, &model.Subject{}, attrs.SubjectID)
	if err != nil {
		return err
	}
	if !subjectFound {
		fields["subject"] = missingParent(attrs.SubjectID)
	}
	gradeFound, err := exists(tx, &model.Grade{}, attrs.GradeID)
	if err != nil {
		return err
	}
	if !gradeFound {
		fields["grade"] = missingParent(attrs.GradeID)
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}

	var count int64
	if err := tx.Model(&model.Curriculum{}).
		Where("subject_id = ? AND grade_id = ? AND name = ? AND id <> ?", attrs.SubjectID, attrs.GradeID, attrs.Name, exceptID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return NewValidationError(NonFieldErrors, duplicateCurriculum)
	}
	return nil
}

func (s *CurriculumService) summary(db *gorm.DB, id uint) (*CurriculumView, error) {
	var curriculum model.Curriculum
	if err := withChapters(db.Preload("Subject").Preload("Grade")).First(&curriculum, id).Error; err != nil {
		return nil, notFound(err)
	}
	view := NewCurriculumView(curriculum)
	return &view, nil
}

func (s *CurriculumService) detail(db *gorm.DB, id uint) (*CurriculumDetailView, error) {
	var curriculum model.Curriculum
	err := withChapters(db.Preload("Subject").Preload("Grade")).
		Preload("Chapters.KnowledgePoints", func(db *gorm.DB) *gorm.DB {
			return db.Order(byPosition("knowledge_points"))
		}).
		First(&curriculum, id).Error
	if err != nil {
		return nil, notFound(err)
	}
	view := NewCurriculumDetailView(curriculum)
	return &view, nil
}

// withChapters preloads a curriculum's chapters in position order.
func withChapters(db *gorm.DB) *gorm.DB {
	return db.Preload("Chapters", func(db *gorm.DB) *gorm.DB {
		return db.Order(byPosition("chapters"))
	})
}

// exists reports whether a row with id is present in m's table.
func exists(tx *gorm.DB, m interface{}, id uint) (bool, error) {
	if id == 0 {
		return false, nil
	}
	var count int64
	if err := tx.Model(m).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to look up %T %d: %w", m, id, err)
	}
	return count > 0, nil
}

// requireParent returns a ValidationError on field when the parent row is missing.
func requireParent(tx *gorm.DB, m interface{}, id uint, field string) error {
	ok, err := exists(tx, m, id)
	if err != nil {
		return err
	}
	if !ok {
		return NewValidationError(field, missingParent(id))
	}
	return nil
}
