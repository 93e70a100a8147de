package services

import (
	"context"
	"errors"
	"time"

	"educycle-api/internal/adapters/persistence/models"
	"educycle-api/internal/adapters/persistence/repositories"
	"educycle-api/internal/core/domain"
	"educycle-api/internal/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CategoryService manages the category catalog
type CategoryService struct {
	store *repositories.Store
}

// NewCategoryService creates a new category service
func NewCategoryService(store *repositories.Store) *CategoryService {
	return &CategoryService{store: store}
}

// CreateCategoryInput represents create category input
type CreateCategoryInput struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description"`
}

// UpdateCategoryInput is a partial category update
type UpdateCategoryInput struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description"`
}

// Create adds a category; names are unique, compared case-sensitively
func (s *CategoryService) Create(ctx context.Context, input *CreateCategoryInput) (*models.Category, error) {
	if err := s.ensureNameFree(ctx, input.Name, ""); err != nil {
		return nil, err
	}

	category := &models.Category{
		ID:          uuid.New().String(),
		Name:        input.Name,
		Description: input.Description,
		CreatedAt:   time.Now(),
	}
	if err := s.store.Categories.Create(ctx, category); err != nil {
		return nil, err
	}

	logger.L().Info("category created", zap.String("category_id", category.ID), zap.String("name", category.Name))
	return category, nil
}

// Update renames or re-describes a category. Keeping its own name is not a conflict.
func (s *CategoryService) Update(ctx context.Context, id string, input *UpdateCategoryInput) (*models.Category, error) {
	category, err := s.store.Categories.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, domain.ErrCategoryNotFound)
	}

	if input.Name != nil {
		if err := s.ensureNameFree(ctx, *input.Name, category.ID); err != nil {
			return nil, err
		}
		category.Name = *input.Name
	}
	if input.Description != nil {
		category.Description = *input.Description
	}

	if err := s.store.Categories.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// Delete removes a category that no item references
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	return s.store.Transaction(ctx, func(tx *repositories.Store) error {
		if _, err := tx.Categories.GetByID(ctx, id); err != nil {
			return translate(err, domain.ErrCategoryNotFound)
		}
		inUse, err := tx.Categories.CountItems(ctx, id)
		if err != nil {
			return err
		}
		if inUse > 0 {
			return domain.ErrCategoryInUse
		}
		return tx.Categories.Delete(ctx, id)
	})
}

// GetByID gets a category by ID
func (s *CategoryService) GetByID(ctx context.Context, id string) (*models.Category, error) {
	category, err := s.store.Categories.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, domain.ErrCategoryNotFound)
	}
	return category, nil
}

// List lists every category
func (s *CategoryService) List(ctx context.Context) ([]*models.Category, error) {
	return s.store.Categories.List(ctx)
}

// ensureNameFree fails when name belongs to a category other than selfID
func (s *CategoryService) ensureNameFree(ctx context.Context, name, selfID string) error {
	existing, err := s.store.Categories.GetByName(ctx, name)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID != selfID {
		return domain.ErrDuplicateCategory
	}
	return nil
}
