package repositories

import (
	"context"

	"educycle-api/internal/adapters/persistence/models"
	"educycle-api/internal/core/domain"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type activityRepository struct {
	db *gorm.DB
}

// NewActivityRepository creates a new activity repository
func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Create(ctx context.Context, activity *models.Activity) error {
	return r.db.WithContext(ctx).Omit("Organizer", "Listings").Create(activity).Error
}

// GetByID gets an activity with its organizer
func (r *activityRepository) GetByID(ctx context.Context, id string) (*models.Activity, error) {
	var activity models.Activity
	err := r.db.WithContext(ctx).Preload("Organizer").Where("id = ?", id).First(&activity).Error
	if err != nil {
		return nil, err
	}
	return &activity, nil
}

func (r *activityRepository) List(ctx context.Context) ([]*models.Activity, error) {
	var activities []*models.Activity
	err := r.db.WithContext(ctx).Preload("Organizer").Order("created_at").Find(&activities).Error
	return activities, err
}

func (r *activityRepository) ListIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&models.Activity{}).Order("created_at").Pluck("id", &ids).Error
	return ids, err
}

// Update writes every column of activity, guarded by expectedVersion.
// The caller bumps activity.Version beforehand.
func (r *activityRepository) Update(ctx context.Context, activity *models.Activity, expectedVersion int) error {
	result := r.db.WithContext(ctx).
		Model(&models.Activity{}).
		Where("id = ? AND version = ?", activity.ID, expectedVersion).
		Updates(map[string]interface{}{
			"organizer_id":  activity.OrganizerID,
			"title":         activity.Title,
			"description":   activity.Description,
			"goal_amount":   activity.GoalAmount,
			"amount_raised": activity.AmountRaised,
			"image":         activity.Image,
			"activity_type": activity.ActivityType,
			"start_date":    activity.StartDate,
			"end_date":      activity.EndDate,
			"version":       activity.Version,
			"created_at":    activity.CreatedAt,
			"updated_at":    activity.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrStaleActivity
	}
	return nil
}

// Delete removes the activity and its listing links; false when absent
func (r *activityRepository) Delete(ctx context.Context, id string) (bool, error) {
	if err := r.db.WithContext(ctx).Where("activity_id = ?", id).Delete(&models.ActivityListing{}).Error; err != nil {
		return false, err
	}
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Activity{})
	return result.RowsAffected > 0, result.Error
}

// AddRaised increments amount_raised in a single statement
func (r *activityRepository) AddRaised(ctx context.Context, id string, amount decimal.Decimal) error {
	result := r.db.WithContext(ctx).
		Model(&models.Activity{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"amount_raised": gorm.Expr("amount_raised + ?", amount),
			"version":       gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrActivityNotFound
	}
	return nil
}

// SetRaised overwrites amount_raised without touching the version
func (r *activityRepository) SetRaised(ctx context.Context, id string, amount decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&models.Activity{}).
		Where("id = ?", id).
		UpdateColumn("amount_raised", amount).Error
}

// LinkListing attaches a listing to an activity; linking twice is a no-op
func (r *activityRepository) LinkListing(ctx context.Context, activityID, listingID string) error {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ActivityListing{}).
		Where("activity_id = ? AND post_id = ?", activityID, listingID).
		Count(&count).Error
	if err != nil || count > 0 {
		return err
	}
	return r.db.WithContext(ctx).Create(&models.ActivityListing{ActivityID: activityID, ListingID: listingID}).Error
}

func (r *activityRepository) UnlinkListing(ctx context.Context, activityID, listingID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("activity_id = ? AND post_id = ?", activityID, listingID).
		Delete(&models.ActivityListing{})
	return result.RowsAffected > 0, result.Error
}

// ListListings returns the listings linked to an activity
func (r *activityRepository) ListListings(ctx context.Context, activityID string) ([]*models.Listing, error) {
	var listings []*models.Listing
	err := r.db.WithContext(ctx).
		Preload("Item").
		Joins("JOIN activity_posts ON activity_posts.post_id = sell_exchange_posts.post_id").
		Where("activity_posts.activity_id = ?", activityID).
		Order("activity_posts.added_at").
		Find(&listings).Error
	return listings, err
}
