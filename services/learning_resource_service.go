package services

import (
	"context"

	"github.com/sahilchouksey/curriculum-catalog/model"
	"github.com/sahilchouksey/curriculum-catalog/utils/validation"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var resourceOrdering = map[string]clause.Column{
	"title":         column("learning_resources", "title"),
	"resource_type": column("learning_resources", "resource_type"),
}

// LearningResourceAttributes are the writable fields of a learning resource.
type LearningResourceAttributes struct {
	KnowledgePointID uint               `json:"knowledge_point" validate:"required"`
	Title            string             `json:"title" validate:"required,max=255"`
	ResourceType     model.ResourceType `json:"resource_type" validate:"required,oneof=video article exercise book"`
	URL              string             `json:"url" validate:"required,max=200,resource_url"`
	Description      *string            `json:"description"`
	IsRecommended    bool               `json:"is_recommended"`
}

// LearningResourcePatch carries the fields sent on an update.
type LearningResourcePatch struct {
	KnowledgePointID *uint                          `json:"knowledge_point"`
	Title            *string                        `json:"title"`
	ResourceType     *model.ResourceType            `json:"resource_type"`
	URL              *string                        `json:"url"`
	Description      validation.PatchField[string] `json:"description"`
	IsRecommended    *bool                          `json:"is_recommended"`
}

// LearningResourceFilter narrows a resource listing.
type LearningResourceFilter struct {
	KnowledgePointID *uint
	ResourceType     *string
	IsRecommended    *bool
}

// LearningResourceService stores learning resources
type LearningResourceService struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewLearningResourceService creates a new learning resource service
func NewLearningResourceService(db *gorm.DB) *LearningResourceService {
	return &LearningResourceService{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// List returns learning resources matching filter.
func (s *LearningResourceService) List(ctx context.Context, filter LearningResourceFilter, opts ListOptions) ([]LearningResourceView, error) {
	query := s.db.WithContext(ctx).Model(&model.LearningResource{})
	if filter.KnowledgePointID != nil {
		query = query.Where("learning_resources.knowledge_point_id = ?", *filter.KnowledgePointID)
	}
	if filter.ResourceType != nil {
		if !model.ResourceType(*filter.ResourceType).Valid() {
			return nil, NewValidationError("resource_type", invalidChoice(*filter.ResourceType))
		}
		query = query.Where("learning_resources.resource_type = ?", *filter.ResourceType)
	}
	if filter.IsRecommended != nil {
		query = query.Where("learning_resources.is_recommended = ?", *filter.IsRecommended)
	}
	query = applySearch(query, opts.Search, "learning_resources.title", "learning_resources.description")
	query = applyOrdering(query, "learning_resources", opts.Ordering, resourceOrdering)

	var resources []model.LearningResource
	if err := query.Find(&resources).Error; err != nil {
		return nil, err
	}

	views := make([]LearningResourceView, 0, len(resources))
	for _, r := range resources {
		views = append(views, NewLearningResourceView(r))
	}
	return views, nil
}

// Get returns one learning resource.
func (s *LearningResourceService) Get(ctx context.Context, id uint) (*LearningResourceView, error) {
	var resource model.LearningResource
	if err := s.db.WithContext(ctx).First(&resource, id).Error; err != nil {
		return nil, notFound(err)
	}
	view := NewLearningResourceView(resource)
	return &view, nil
}

// Create stores a resource under an existing knowledge point.
func (s *LearningResourceService) Create(ctx context.Context, attrs LearningResourceAttributes) (*LearningResourceView, error) {
	attrs.Title = validation.SanitizeString(attrs.Title)
	attrs.URL = validation.SanitizeString(attrs.URL)
	attrs.Description = validation.SanitizeOptional(attrs.Description)
	if err := validateAttributes(s.validator, attrs); err != nil {
		return nil, err
	}

	var resource model.LearningResource
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireParent(tx, &model.KnowledgePoint{}, attrs.KnowledgePointID, "knowledge_point"); err != nil {
			return err
		}

		resource = model.LearningResource{
			KnowledgePointID: attrs.KnowledgePointID,
			Title:            attrs.Title,
			ResourceType:     attrs.ResourceType,
			URL:              attrs.URL,
			Description:      attrs.Description,
			IsRecommended:    attrs.IsRecommended,
		}
		return tx.Create(&resource).Error
	})
	if err != nil {
		return nil, err
	}

	view := NewLearningResourceView(resource)
	return &view, nil
}

// Update applies patch to the resource.
func (s *LearningResourceService) Update(ctx context.Context, id uint, patch LearningResourcePatch, partial bool) (*LearningResourceView, error) {
	var resource model.LearningResource
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&resource, id).Error; err != nil {
			return notFound(err)
		}

		if !partial {
			if missing := requireFields(map[string]bool{
				"knowledge_point": patch.KnowledgePointID != nil,
				"title":           patch.Title != nil,
				"resource_type":   patch.ResourceType != nil,
				"url":             patch.URL != nil,
			}); missing != nil {
				return missing
			}
		}

		attrs := LearningResourceAttributes{
			KnowledgePointID: resource.KnowledgePointID,
			Title:            resource.Title,
			ResourceType:     resource.ResourceType,
			URL:              resource.URL,
			Description:      resource.Description,
			IsRecommended:    resource.IsRecommended,
		}
		if patch.KnowledgePointID != nil {
			attrs.KnowledgePointID = *patch.KnowledgePointID
		}
		if patch.Title != nil {
			attrs.Title = validation.SanitizeString(*patch.Title)
		}
		if patch.ResourceType != nil {
			attrs.ResourceType = *patch.ResourceType
		}
		if patch.URL != nil {
			attrs.URL = validation.SanitizeString(*patch.URL)
		}
		patch.Description.Apply(&attrs.Description)
		attrs.Description = validation.SanitizeOptional(attrs.Description)
		if patch.IsRecommended != nil {
			attrs.IsRecommended = *patch.IsRecommended
		}
		if err := validateAttributes(s.validator, attrs); err != nil {
			return err
		}
		if err := requireParent(tx, &model.KnowledgePoint{}, attrs.KnowledgePointID, "knowledge_point"); err != nil {
			return err
		}

		resource.KnowledgePointID = attrs.KnowledgePointID
		resource.Title = attrs.Title
		resource.ResourceType = attrs.ResourceType
		resource.URL = attrs.URL
		resource.Description = attrs.Description
		resource.IsRecommended = attrs.IsRecommended
		return tx.Omit(clause.Associations).Save(&resource).Error
	})
	if err != nil {
		return nil, err
	}

	view := NewLearningResourceView(resource)
	return &view, nil
}

// Delete removes the resource.
func (s *LearningResourceService) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&model.LearningResource{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
