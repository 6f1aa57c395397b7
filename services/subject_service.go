package services

import (
	"context"

	"github.com/sahilchouksey/curriculum-catalog/model"
	"github.com/sahilchouksey/curriculum-catalog/utils/validation"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const duplicateSubjectCode = "subject with this code already exists."

var subjectOrdering = map[string]clause.Column{
	"name": column("subjects", "name"),
	"code": column("subjects", "code"),
}

// SubjectAttributes are the writable fields of a subject.
type SubjectAttributes struct {
	Name string `json:"name" validate:"required,max=100"`
	Code string `json:"code" validate:"required,max=50"`
}

// SubjectPatch carries the fields sent on an update; nil means "not sent".
type SubjectPatch struct {
	Name *string `json:"name"`
	Code *string `json:"code"`
}

// SubjectService stores subjects
type SubjectService struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewSubjectService creates a new subject service
func NewSubjectService(db *gorm.DB) *SubjectService {
	return &SubjectService{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// List returns subjects matching opts, searching name and code.
func (s *SubjectService) List(ctx context.Context, opts ListOptions) ([]SubjectView, error) {
	query := s.db.WithContext(ctx).Model(&model.Subject{})
	query = applySearch(query, opts.Search, "subjects.name", "subjects.code")
	query = applyOrdering(query, "subjects", opts.Ordering, subjectOrdering)

	var subjects []model.Subject
	if err := query.Find(&subjects).Error; err != nil {
		return nil, err
	}

	views := make([]SubjectView, 0, len(subjects))
	for _, subject := range subjects {
		views = append(views, NewSubjectView(subject))
	}
	return views, nil
}

// Get returns one subject.
func (s *SubjectService) Get(ctx context.Context, id uint) (*SubjectView, error) {
	var subject model.Subject
	if err := s.db.WithContext(ctx).First(&subject, id).Error; err != nil {
		return nil, notFound(err)
	}
	view := NewSubjectView(subject)
	return &view, nil
}

// Create stores a new subject. The code must be unique.
func (s *SubjectService) Create(ctx context.Context, attrs SubjectAttributes) (*SubjectView, error) {
	attrs.Name = validation.SanitizeString(attrs.Name)
	attrs.Code = validation.SanitizeString(attrs.Code)
	if err := validateAttributes(s.validator, attrs); err != nil {
		return nil, err
	}

	subject := model.Subject{Name: attrs.Name, Code: attrs.Code}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.checkCodeFree(tx, attrs.Code, 0); err != nil {
			return err
		}
		return uniqueViolation(tx.Create(&subject).Error, "code", duplicateSubjectCode)
	})
	if err != nil {
		return nil, err
	}

	view := NewSubjectView(subject)
	return &view, nil
}

// Update applies patch to the subject. When partial is false every required
// field must be present, as for a full replacement.
func (s *SubjectService) Update(ctx context.Context, id uint, patch SubjectPatch, partial bool) (*SubjectView, error) {
	var subject model.Subject
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&subject, id).Error; err != nil {
			return notFound(err)
		}

		if !partial {
			missing := requireFields(map[string]bool{"name": patch.Name != nil, "code": patch.Code != nil})
			if missing != nil {
				return missing
			}
		}

		attrs := SubjectAttributes{Name: subject.Name, Code: subject.Code}
		if patch.Name != nil {
			attrs.Name = validation.SanitizeString(*patch.Name)
		}
		if patch.Code != nil {
			attrs.Code = validation.SanitizeString(*patch.Code)
		}
		if err := validateAttributes(s.validator, attrs); err != nil {
			return err
		}
		if err := s.checkCodeFree(tx, attrs.Code, subject.ID); err != nil {
			return err
		}

		subject.Name = attrs.Name
		subject.Code = attrs.Code
		return uniqueViolation(tx.Save(&subject).Error, "code", duplicateSubjectCode)
	})
	if err != nil {
		return nil, err
	}

	view := NewSubjectView(subject)
	return &view, nil
}

// Delete removes the subject together with its curricula and everything below them.
func (s *SubjectService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteTree(tx, &model.Subject{}, id, curriculumLinks("subject_id"))
	})
}

func (s *SubjectService) checkCodeFree(tx *gorm.DB, code string, exceptID uint) error {
	var count int64
	if err := tx.Model(&model.Subject{}).Where("code = ? AND id <> ?", code, exceptID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return NewValidationError("code", duplicateSubjectCode)
	}
	return nil
}
