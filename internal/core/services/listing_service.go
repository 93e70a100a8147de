package services

import (
	"context"
	"errors"
	"time"

	"educycle-api/internal/adapters/persistence/models"
	"educycle-api/internal/adapters/persistence/repositories"
	"educycle-api/internal/config"
	"educycle-api/internal/core/domain"
	"educycle-api/internal/pkg/logger"
	"educycle-api/internal/pkg/metrics"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ListingService runs the marketplace post lifecycle
type ListingService struct {
	store *repositories.Store
	cfg   *config.Config
}

// NewListingService creates a new listing service
func NewListingService(store *repositories.Store, cfg *config.Config) *ListingService {
	return &ListingService{store: store, cfg: cfg}
}

// CreateListingInput represents a new post. Status and state are always
// initialised to Pending, whatever the caller sends.
type CreateListingInput struct {
	SellerID    string           `json:"seller_id" validate:"required"`
	CategoryID  string           `json:"category_id" validate:"required"`
	Title       string           `json:"title" validate:"required,max=255"`
	Description string           `json:"description" validate:"required"`
	ImageURL    string           `json:"image_url"`
	Price       *decimal.Decimal `json:"price" validate:"required"`
	Type        string           `json:"type" validate:"required"`
}

// UpdateListingInput overwrites price, status, state and type.
// Version is optional; when set the update fails if the post has moved on.
type UpdateListingInput struct {
	Price   *decimal.Decimal `json:"price" validate:"required"`
	Status  string           `json:"status" validate:"required"`
	State   string           `json:"state" validate:"required"`
	Type    string           `json:"type" validate:"required"`
	Version *int             `json:"version"`
}

// Create stores a new backing item and the post in one transaction
func (s *ListingService) Create(ctx context.Context, input *CreateListingInput) (*models.Listing, error) {
	postType, err := domain.ParsePostType(input.Type)
	if err != nil {
		return nil, err
	}
	if input.Price == nil || input.Price.IsNegative() {
		return nil, domain.ErrInvalidPrice
	}

	var listingID string
	err = s.store.Transaction(ctx, func(tx *repositories.Store) error {
		seller, err := tx.Users.GetByID(ctx, input.SellerID)
		if err != nil {
			return translate(err, domain.ErrSellerNotFound)
		}
		category, err := tx.Categories.GetByID(ctx, input.CategoryID)
		if err != nil {
			return translate(err, domain.ErrCategoryNotFound)
		}

		now := time.Now()
		item := &models.Item{
			ID:          uuid.New().String(),
			Name:        input.Title,
			Description: input.Description,
			ImageURL:    input.ImageURL,
			OwnerID:     seller.ID,
			CategoryID:  category.ID,
			CreatedAt:   now,
		}
		if err := tx.Items.Create(ctx, item); err != nil {
			return err
		}

		listing := &models.Listing{
			ID:          uuid.New().String(),
			SellerID:    seller.ID,
			ItemID:      item.ID,
			Title:       input.Title,
			Description: input.Description,
			Price:       *input.Price,
			Type:        postType,
			ProductType: category.Name,
			Status:      domain.PostStatusPending,
			State:       domain.PostStatePending,
			Version:     1,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := tx.Listings.Create(ctx, listing); err != nil {
			return err
		}
		listingID = listing.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.ListingsCreatedTotal.Inc()
	logger.L().Info("post created",
		zap.String("post_id", listingID),
		zap.String("seller_id", input.SellerID),
		zap.String("type", string(postType)),
	)
	return s.GetByID(ctx, listingID)
}

// GetByID gets a post by ID
func (s *ListingService) GetByID(ctx context.Context, id string) (*models.Listing, error) {
	listing, err := s.store.Listings.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, domain.ErrListingNotFound)
	}
	return listing, nil
}

// GetAll lists every post
func (s *ListingService) GetAll(ctx context.Context) ([]*models.Listing, error) {
	return s.store.Listings.List(ctx, repositories.ListingFilter{})
}

// GetBySeller lists the posts of one seller
func (s *ListingService) GetBySeller(ctx context.Context, sellerID string) ([]*models.Listing, error) {
	return s.store.Listings.List(ctx, repositories.ListingFilter{SellerID: sellerID})
}

// GetByCategory lists posts whose backing item is in the category
func (s *ListingService) GetByCategory(ctx context.Context, categoryID string) ([]*models.Listing, error) {
	return s.store.Listings.List(ctx, repositories.ListingFilter{CategoryID: categoryID})
}

// GetByType lists posts of a type given by name
func (s *ListingService) GetByType(ctx context.Context, raw string) ([]*models.Listing, error) {
	postType, err := domain.ParsePostType(raw)
	if err != nil {
		return nil, err
	}
	return s.store.Listings.List(ctx, repositories.ListingFilter{Type: postType})
}

// GetByStatus lists posts with a moderation status given by name
func (s *ListingService) GetByStatus(ctx context.Context, raw string) ([]*models.Listing, error) {
	status, err := domain.ParsePostStatus(raw)
	if err != nil {
		return nil, err
	}
	return s.store.Listings.List(ctx, repositories.ListingFilter{Status: status})
}

// GetByState lists posts with a fulfillment state given by name
func (s *ListingService) GetByState(ctx context.Context, raw string) ([]*models.Listing, error) {
	state, err := domain.ParsePostState(raw)
	if err != nil {
		return nil, err
	}
	return s.store.Listings.List(ctx, repositories.ListingFilter{State: state})
}

// Update overwrites the mutable lifecycle fields of a post. Only the seller
// or an admin may update it.
func (s *ListingService) Update(ctx context.Context, actor Actor, id string, input *UpdateListingInput) (*models.Listing, error) {
	if input.Price == nil || input.Price.IsNegative() {
		return nil, domain.ErrInvalidPrice
	}
	status, err := domain.ParsePostStatus(input.Status)
	if err != nil {
		return nil, err
	}
	state, err := domain.ParsePostState(input.State)
	if err != nil {
		return nil, err
	}
	postType, err := domain.ParsePostType(input.Type)
	if err != nil {
		return nil, err
	}

	err = s.store.Transaction(ctx, func(tx *repositories.Store) error {
		listing, err := tx.Listings.GetByID(ctx, id)
		if err != nil {
			return translate(err, domain.ErrListingNotFound)
		}
		if !actor.canModify(listing.SellerID) {
			return domain.ErrNotPostSeller
		}
		if input.Version != nil && *input.Version != listing.Version {
			return domain.ErrStaleListing
		}
		if s.cfg.Marketplace.EnforceTransitions &&
			(!domain.CanTransitionStatus(listing.Status, status) || !domain.CanTransitionState(listing.State, state)) {
			return domain.ErrIllegalTransition
		}

		listing.Price = *input.Price
		listing.Status = status
		listing.State = state
		listing.Type = postType
		return s.save(ctx, tx, listing)
	})
	if err != nil {
		return nil, err
	}

	metrics.ListingUpdatesTotal.WithLabelValues("update").Inc()
	logger.L().Info("post updated",
		zap.String("post_id", id),
		zap.String("status", string(status)),
		zap.String("state", string(state)),
	)
	return s.GetByID(ctx, id)
}

// Patch applies an admin field map. Unknown keys are ignored; a recognised
// key with a value that cannot be coerced fails the whole patch.
func (s *ListingService) Patch(ctx context.Context, id string, fields Patch) (*models.Listing, error) {
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		listing, err := tx.Listings.GetByID(ctx, id)
		if err != nil {
			return translate(err, domain.ErrListingNotFound)
		}
		if err := s.applyPatch(ctx, tx, listing, fields); err != nil {
			return err
		}
		return s.save(ctx, tx, listing)
	})
	if err != nil {
		return nil, err
	}

	metrics.ListingUpdatesTotal.WithLabelValues("patch").Inc()
	logger.L().Info("post patched", zap.String("post_id", id), zap.Int("fields", len(fields)))
	return s.GetByID(ctx, id)
}

// Delete removes a post; false when it did not exist
func (s *ListingService) Delete(ctx context.Context, actor Actor, id string) (bool, error) {
	var deleted bool
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		listing, err := tx.Listings.GetByID(ctx, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if !actor.canModify(listing.SellerID) {
			return domain.ErrNotPostSeller
		}
		deleted, err = tx.Listings.Delete(ctx, id)
		return err
	})
	if err != nil {
		return false, err
	}
	if deleted {
		logger.L().Info("post deleted", zap.String("post_id", id))
	}
	return deleted, nil
}

// save refreshes updated_at, bumps the version and writes the row
func (s *ListingService) save(ctx context.Context, tx *repositories.Store, listing *models.Listing) error {
	expected := listing.Version
	listing.Version = expected + 1
	listing.UpdatedAt = time.Now()
	return tx.Listings.Update(ctx, listing, expected)
}

func (s *ListingService) applyPatch(ctx context.Context, tx *repositories.Store, listing *models.Listing, fields Patch) error {
	if v, ok, err := fields.getInt("version"); err != nil {
		return err
	} else if ok && v != listing.Version {
		return domain.ErrStaleListing
	}
	if v, ok, err := fields.getString("title"); err != nil {
		return err
	} else if ok {
		listing.Title = v
	}
	if v, ok, err := fields.getString("description"); err != nil {
		return err
	} else if ok {
		listing.Description = v
	}
	if v, ok, err := fields.getDecimal("price"); err != nil {
		return err
	} else if ok {
		if v.IsNegative() {
			return domain.ErrInvalidPrice
		}
		listing.Price = v
	}
	if v, ok, err := patchEnum(fields, "type", domain.ParsePostType); err != nil {
		return err
	} else if ok {
		listing.Type = v
	}
	if v, ok, err := patchEnum(fields, "status", domain.ParsePostStatus); err != nil {
		return err
	} else if ok {
		listing.Status = v
	}
	if v, ok, err := patchEnum(fields, "state", domain.ParsePostState); err != nil {
		return err
	} else if ok {
		listing.State = v
	}
	if v, ok, err := fields.getString("productType"); err != nil {
		return err
	} else if ok {
		listing.ProductType = v
	}
	if v, ok, err := fields.getTime("createdAt"); err != nil {
		return err
	} else if ok {
		listing.CreatedAt = v
	}
	// updatedAt is validated but always replaced by save
	if _, _, err := fields.getTime("updatedAt"); err != nil {
		return err
	}
	if v, ok, err := fields.getString("sellerId"); err != nil {
		return err
	} else if ok {
		seller, err := tx.Users.GetByID(ctx, v)
		if err != nil {
			return translate(err, domain.ErrSellerNotFound)
		}
		listing.SellerID = seller.ID
	}
	if v, ok, err := fields.getString("itemId"); err != nil {
		return err
	} else if ok {
		item, err := tx.Items.GetByID(ctx, v)
		if err != nil {
			return translate(err, domain.ErrItemNotFound)
		}
		listing.ItemID = item.ID
	}
	return nil
}
