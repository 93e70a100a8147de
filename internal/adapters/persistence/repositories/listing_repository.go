package repositories

import (
	"context"

	"educycle-api/internal/adapters/persistence/models"
	"educycle-api/internal/core/domain"

	"gorm.io/gorm"
)

type listingRepository struct {
	db *gorm.DB
}

// NewListingRepository creates a new listing repository
func NewListingRepository(db *gorm.DB) ListingRepository {
	return &listingRepository{db: db}
}

func (r *listingRepository) Create(ctx context.Context, listing *models.Listing) error {
	return r.db.WithContext(ctx).Omit("Seller", "Item").Create(listing).Error
}

func (r *listingRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Seller").
		Preload("Item").
		Preload("Item.Category")
}

// GetByID gets a listing with its seller and backing item
func (r *listingRepository) GetByID(ctx context.Context, id string) (*models.Listing, error) {
	var listing models.Listing
	err := r.preloaded(ctx).Where("post_id = ?", id).First(&listing).Error
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

// List returns listings matching every non-zero field of filter in storage order
func (r *listingRepository) List(ctx context.Context, filter ListingFilter) ([]*models.Listing, error) {
	q := r.preloaded(ctx).Model(&models.Listing{})

	if filter.SellerID != "" {
		q = q.Where("sell_exchange_posts.seller_id = ?", filter.SellerID)
	}
	if filter.Type != "" {
		q = q.Where("sell_exchange_posts.type = ?", filter.Type)
	}
	if filter.Status != "" {
		q = q.Where("sell_exchange_posts.status = ?", filter.Status)
	}
	if filter.State != "" {
		q = q.Where("sell_exchange_posts.state = ?", filter.State)
	}
	if filter.CategoryID != "" {
		q = q.Joins("JOIN items ON items.id = sell_exchange_posts.item_id").
			Where("items.category_id = ?", filter.CategoryID)
	}

	var listings []*models.Listing
	err := q.Order("sell_exchange_posts.created_at").Find(&listings).Error
	return listings, err
}

// Update writes every column of listing, guarded by expectedVersion.
// The caller bumps listing.Version beforehand.
func (r *listingRepository) Update(ctx context.Context, listing *models.Listing, expectedVersion int) error {
	result := r.db.WithContext(ctx).
		Model(&models.Listing{}).
		Where("post_id = ? AND version = ?", listing.ID, expectedVersion).
		Updates(map[string]interface{}{
			"seller_id":    listing.SellerID,
			"item_id":      listing.ItemID,
			"title":        listing.Title,
			"description":  listing.Description,
			"price":        listing.Price,
			"type":         listing.Type,
			"product_type": listing.ProductType,
			"status":       listing.Status,
			"state":        listing.State,
			"version":      listing.Version,
			"created_at":   listing.CreatedAt,
			"updated_at":   listing.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrStaleListing
	}
	return nil
}

// Delete removes the listing and its activity links; false when absent
func (r *listingRepository) Delete(ctx context.Context, id string) (bool, error) {
	if err := r.db.WithContext(ctx).Where("post_id = ?", id).Delete(&models.ActivityListing{}).Error; err != nil {
		return false, err
	}
	result := r.db.WithContext(ctx).Where("post_id = ?", id).Delete(&models.Listing{})
	return result.RowsAffected > 0, result.Error
}

func (r *listingRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Listing{}).Where("post_id = ?", id).Count(&count).Error
	return count > 0, err
}
