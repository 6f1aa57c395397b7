package services

import (
	"context"

	"github.com/sahilchouksey/curriculum-catalog/model"
	"github.com/sahilchouksey/curriculum-catalog/utils/validation"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const duplicateGradeCode = "grade with this code already exists."

var gradeOrdering = map[string]clause.Column{
	"name": column("grades", "name"),
	"code": column("grades", "code"),
}

// GradeAttributes are the writable fields of a grade.
type GradeAttributes struct {
	Name string `json:"name" validate:"required,max=50"`
	Code string `json:"code" validate:"required,max=20"`
}

// GradePatch carries the fields sent on an update; nil means "not sent".
type GradePatch struct {
	Name *string `json:"name"`
	Code *string `json:"code"`
}

// GradeService stores grades
type GradeService struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewGradeService creates a new grade service
func NewGradeService(db *gorm.DB) *GradeService {
	return &GradeService{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// List returns grades matching opts, searching name and code.
func (s *GradeService) List(ctx context.Context, opts ListOptions) ([]GradeView, error) {
	query := s.db.WithContext(ctx).Model(&model.Grade{})
	query = applySearch(query, opts.Search, "grades.name", "grades.code")
	query = applyOrdering(query, "grades", opts.Ordering, gradeOrdering)

	var grades []model.Grade
	if err := query.Find(&grades).Error; err != nil {
		return nil, err
	}

	views := make([]GradeView, 0, len(grades))
	for _, grade := range grades {
		views = append(views, NewGradeView(grade))
	}
	return views, nil
}

// Get returns one grade.
func (s *GradeService) Get(ctx context.Context, id uint) (*GradeView, error) {
	var grade model.Grade
	if err := s.db.WithContext(ctx).First(&grade, id).Error; err != nil {
		return nil, notFound(err)
	}
	view := NewGradeView(grade)
	return &view, nil
}

// Create stores a new grade. The code must be unique.
func (s *GradeService) Create(ctx context.Context, attrs GradeAttributes) (*GradeView, error) {
	attrs.Name = validation.SanitizeString(attrs.Name)
	attrs.Code = validation.SanitizeString(attrs.Code)
	if err := validateAttributes(s.validator, attrs); err != nil {
		return nil, err
	}

	grade := model.Grade{Name: attrs.Name, Code: attrs.Code}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.checkCodeFree(tx, attrs.Code, 0); err != nil {
			return err
		}
		return uniqueViolation(tx.Create(&grade).Error, "code", duplicateGradeCode)
	})
	if err != nil {
		return nil, err
	}

	view := NewGradeView(grade)
	return &view, nil
}

// Update applies patch to the grade. When partial is false every required
// field must be present, as for a full replacement.
func (s *GradeService) Update(ctx context.Context, id uint, patch GradePatch, partial bool) (*GradeView, error) {
	var grade model.Grade
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&grade, id).Error; err != nil {
			return notFound(err)
		}

		if !partial {
			missing := requireFields(map[string]bool{"name": patch.Name != nil, "code": patch.Code != nil})
			if missing != nil {
				return missing
			}
		}

		attrs := GradeAttributes{Name: grade.Name, Code: grade.Code}
		if patch.Name != nil {
			attrs.Name = validation.SanitizeString(*patch.Name)
		}
		if patch.Code != nil {
			attrs.Code = validation.SanitizeString(*patch.Code)
		}
		if err := validateAttributes(s.validator, attrs); err != nil {
			return err
		}
		if err := s.checkCodeFree(tx, attrs.Code, grade.ID); err != nil {
			return err
		}

		grade.Name = attrs.Name
		grade.Code = attrs.Code
		return uniqueViolation(tx.Save(&grade).Error, "code", duplicateGradeCode)
	})
	if err != nil {
		return nil, err
	}

	view := NewGradeView(grade)
	return &view, nil
}

// Delete removes the grade together with its curricula and everything below them.
func (s *GradeService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteTree(tx, &model.Grade{}, id, curriculumLinks("grade_id"))
	})
}

func (s *GradeService) checkCodeFree(tx *gorm.DB, code string, exceptID uint) error {
	var count int64
	if err := tx.Model(&model.Grade{}).Where("code = ? AND id <> ?", code, exceptID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return NewValidationError("code", duplicateGradeCode)
	}
	return nil
}
