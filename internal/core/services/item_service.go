package services

import (
	"context"
	"time"

	"educycle-api/internal/adapters/persistence/models"
	"educycle-api/internal/adapters/persistence/repositories"
	"educycle-api/internal/core/domain"

	"github.com/google/uuid"
)

// ItemService manages catalog items
type ItemService struct {
	store *repositories.Store
}

// NewItemService creates a new item service
func NewItemService(store *repositories.Store) *ItemService {
	return &ItemService{store: store}
}

// ItemInput is used for both create and full-replace update
type ItemInput struct {
	Name        string `json:"item_name" validate:"required,max=255"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url" validate:"omitempty,url"`
	OwnerID     string `json:"owner_id" validate:"required"`
	CategoryID  string `json:"category_id" validate:"required"`
}

// Create adds an item after resolving its owner and category
func (s *ItemService) Create(ctx context.Context, input *ItemInput) (*models.Item, error) {
	owner, category, err := s.resolveRefs(ctx, s.store, input)
	if err != nil {
		return nil, err
	}

	item := &models.Item{
		ID:          uuid.New().String(),
		Name:        input.Name,
		Description: input.Description,
		ImageURL:    input.ImageURL,
		OwnerID:     owner.ID,
		CategoryID:  category.ID,
		CreatedAt:   time.Now(),
	}
	if err := s.store.Items.Create(ctx, item); err != nil {
		return nil, err
	}

	item.Owner = owner
	item.Category = category
	return item, nil
}

// Update replaces every editable field of an item. Only the owner or an
// admin may update it.
func (s *ItemService) Update(ctx context.Context, actor Actor, id string, input *ItemInput) (*models.Item, error) {
	item, err := s.store.Items.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, domain.ErrItemNotFound)
	}
	if !actor.canModify(item.OwnerID) {
		return nil, domain.ErrNotItemOwner
	}

	owner, category, err := s.resolveRefs(ctx, s.store, input)
	if err != nil {
		return nil, err
	}

	item.Name = input.Name
	item.Description = input.Description
	item.ImageURL = input.ImageURL
	item.OwnerID = owner.ID
	item.CategoryID = category.ID

	if err := s.store.Items.Update(ctx, item); err != nil {
		return nil, err
	}

	item.Owner = owner
	item.Category = category
	return item, nil
}

// Delete removes an item that backs no listing
func (s *ItemService) Delete(ctx context.Context, actor Actor, id string) error {
	return s.store.Transaction(ctx, func(tx *repositories.Store) error {
		item, err := tx.Items.GetByID(ctx, id)
		if err != nil {
			return translate(err, domain.ErrItemNotFound)
		}
		if !actor.canModify(item.OwnerID) {
			return domain.ErrNotItemOwner
		}
		n, err := tx.Items.CountListings(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return domain.ErrItemInUse
		}
		return tx.Items.Delete(ctx, id)
	})
}

// GetByID gets an item by ID
func (s *ItemService) GetByID(ctx context.Context, id string) (*models.Item, error) {
	item, err := s.store.Items.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, domain.ErrItemNotFound)
	}
	return item, nil
}

// List lists every item
func (s *ItemService) List(ctx context.Context) ([]*models.Item, error) {
	return s.store.Items.List(ctx)
}

func (s *ItemService) resolveRefs(ctx context.Context, store *repositories.Store, input *ItemInput) (*models.User, *models.Category, error) {
	owner, err := store.Users.GetByID(ctx, input.OwnerID)
	if err != nil {
		return nil, nil, translate(err, domain.ErrOwnerNotFound)
	}
	category, err := store.Categories.GetByID(ctx, input.CategoryID)
	if err != nil {
		return nil, nil, translate(err, domain.ErrCategoryNotFound)
	}
	return owner, category, nil
}
