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

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ActivityService manages fundraising activities
type ActivityService struct {
	store *repositories.Store
	cfg   *config.Config
}

// NewActivityService creates a new activity service
func NewActivityService(store *repositories.Store, cfg *config.Config) *ActivityService {
	return &ActivityService{store: store, cfg: cfg}
}

// CreateActivityInput represents a new activity
type CreateActivityInput struct {
	ID           string           `json:"activity_id"`
	OrganizerID  string           `json:"organizer_id" validate:"required"`
	Title        string           `json:"title" validate:"required,max=255"`
	Description  string           `json:"description" validate:"required"`
	GoalAmount   *decimal.Decimal `json:"goal_amount" validate:"required"`
	AmountRaised *decimal.Decimal `json:"amount_raised"`
	Image        string           `json:"image" validate:"required"`
	ActivityType string           `json:"activity_type" validate:"required"`
	StartDate    *time.Time       `json:"start_date"`
	EndDate      *time.Time       `json:"end_date" validate:"required"`
	PostIDs      []string         `json:"post_ids"`
}

// UpdateActivityInput overwrites an activity. AmountRaised is honoured only
// while totals are not owned by the ledger.
type UpdateActivityInput struct {
	Title        string           `json:"title" validate:"required,max=255"`
	Description  string           `json:"description" validate:"required"`
	GoalAmount   *decimal.Decimal `json:"goal_amount" validate:"required"`
	AmountRaised *decimal.Decimal `json:"amount_raised"`
	Image        string           `json:"image" validate:"required"`
	ActivityType string           `json:"activity_type" validate:"required"`
	EndDate      *time.Time       `json:"end_date" validate:"required"`
	Version      *int             `json:"version"`
}

func (s *ActivityService) ledgerOwnsRaised() bool {
	return s.cfg.Marketplace.RaisedMode == domain.RaisedModeLedger
}

// Create stores an activity and links any listed posts
func (s *ActivityService) Create(ctx context.Context, input *CreateActivityInput) (*models.Activity, error) {
	activityType, err := domain.ParseActivityType(input.ActivityType)
	if err != nil {
		return nil, err
	}
	if input.GoalAmount == nil || input.GoalAmount.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}
	if input.EndDate == nil {
		return nil, domain.ErrEndDateRequired
	}

	now := time.Now()
	activity := &models.Activity{
		ID:           input.ID,
		Title:        input.Title,
		Description:  input.Description,
		GoalAmount:   *input.GoalAmount,
		AmountRaised: decimal.Zero,
		Image:        input.Image,
		ActivityType: activityType,
		StartDate:    now,
		EndDate:      *input.EndDate,
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if activity.ID == "" {
		activity.ID = uuid.New().String()
	}
	if input.StartDate != nil {
		activity.StartDate = *input.StartDate
	}
	if input.AmountRaised != nil && !s.ledgerOwnsRaised() {
		activity.AmountRaised = *input.AmountRaised
	}

	err = s.store.Transaction(ctx, func(tx *repositories.Store) error {
		organizer, err := tx.Users.GetByID(ctx, input.OrganizerID)
		if err != nil {
			return translate(err, domain.ErrOrganizerNotFound)
		}
		activity.OrganizerID = organizer.ID

		if err := tx.Activities.Create(ctx, activity); err != nil {
			return err
		}
		for _, postID := range input.PostIDs {
			if err := linkListing(ctx, tx, activity.ID, postID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.L().Info("activity created",
		zap.String("activity_id", activity.ID),
		zap.String("organizer_id", activity.OrganizerID),
		zap.Int("posts", len(input.PostIDs)),
	)
	return s.GetByID(ctx, activity.ID)
}

// GetByID gets an activity by ID
func (s *ActivityService) GetByID(ctx context.Context, id string) (*models.Activity, error) {
	activity, err := s.store.Activities.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, domain.ErrActivityNotFound)
	}
	return activity, nil
}

// List lists every activity
func (s *ActivityService) List(ctx context.Context) ([]*models.Activity, error) {
	return s.store.Activities.List(ctx)
}

// Update overwrites an activity's editable fields. Only the organizer or an
// admin may update it.
func (s *ActivityService) Update(ctx context.Context, actor Actor, id string, input *UpdateActivityInput) (*models.Activity, error) {
	activityType, err := domain.ParseActivityType(input.ActivityType)
	if err != nil {
		return nil, err
	}
	if input.GoalAmount == nil || input.GoalAmount.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}
	if input.EndDate == nil {
		return nil, domain.ErrEndDateRequired
	}

	err = s.store.Transaction(ctx, func(tx *repositories.Store) error {
		activity, err := tx.Activities.GetByID(ctx, id)
		if err != nil {
			return translate(err, domain.ErrActivityNotFound)
		}
		if !actor.canModify(activity.OrganizerID) {
			return domain.ErrNotOrganizer
		}
		if input.Version != nil && *input.Version != activity.Version {
			return domain.ErrStaleActivity
		}

		activity.Title = input.Title
		activity.Description = input.Description
		activity.GoalAmount = *input.GoalAmount
		activity.Image = input.Image
		activity.ActivityType = activityType
		activity.EndDate = *input.EndDate
		if input.AmountRaised != nil && !s.ledgerOwnsRaised() {
			activity.AmountRaised = *input.AmountRaised
		}
		return s.save(ctx, tx, activity)
	})
	if err != nil {
		return nil, err
	}

	logger.L().Info("activity updated", zap.String("activity_id", id))
	return s.GetByID(ctx, id)
}

// Patch applies an admin field map with the same coercion rules as posts
func (s *ActivityService) Patch(ctx context.Context, id string, fields Patch) (*models.Activity, error) {
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		activity, err := tx.Activities.GetByID(ctx, id)
		if err != nil {
			return translate(err, domain.ErrActivityNotFound)
		}
		if err := s.applyPatch(ctx, tx, activity, fields); err != nil {
			return err
		}
		return s.save(ctx, tx, activity)
	})
	if err != nil {
		return nil, err
	}

	logger.L().Info("activity patched", zap.String("activity_id", id), zap.Int("fields", len(fields)))
	return s.GetByID(ctx, id)
}

// Delete removes an activity; false when it did not exist
func (s *ActivityService) Delete(ctx context.Context, actor Actor, id string) (bool, error) {
	var deleted bool
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		activity, err := tx.Activities.GetByID(ctx, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if !actor.canModify(activity.OrganizerID) {
			return domain.ErrNotOrganizer
		}
		deleted, err = tx.Activities.Delete(ctx, id)
		return err
	})
	if err != nil {
		return false, err
	}
	if deleted {
		logger.L().Info("activity deleted", zap.String("activity_id", id))
	}
	return deleted, nil
}

// LinkListing attaches an existing post to an activity the actor organizes
func (s *ActivityService) LinkListing(ctx context.Context, actor Actor, activityID, postID string) error {
	return s.store.Transaction(ctx, func(tx *repositories.Store) error {
		if err := s.authorize(ctx, tx, actor, activityID); err != nil {
			return err
		}
		return linkListing(ctx, tx, activityID, postID)
	})
}

// UnlinkListing detaches a post; false when it was not linked
func (s *ActivityService) UnlinkListing(ctx context.Context, actor Actor, activityID, postID string) (bool, error) {
	if err := s.authorize(ctx, s.store, actor, activityID); err != nil {
		return false, err
	}
	return s.store.Activities.UnlinkListing(ctx, activityID, postID)
}

func (s *ActivityService) authorize(ctx context.Context, store *repositories.Store, actor Actor, activityID string) error {
	activity, err := store.Activities.GetByID(ctx, activityID)
	if err != nil {
		return translate(err, domain.ErrActivityNotFound)
	}
	if !actor.canModify(activity.OrganizerID) {
		return domain.ErrNotOrganizer
	}
	return nil
}

// ListListings lists the posts linked to an activity
func (s *ActivityService) ListListings(ctx context.Context, activityID string) ([]*models.Listing, error) {
	if _, err := s.GetByID(ctx, activityID); err != nil {
		return nil, err
	}
	return s.store.Activities.ListListings(ctx, activityID)
}

func linkListing(ctx context.Context, tx *repositories.Store, activityID, postID string) error {
	exists, err := tx.Listings.Exists(ctx, postID)
	if err != nil {
		return err
	}
	if !exists {
		return domain.ErrListingNotFound
	}
	return tx.Activities.LinkListing(ctx, activityID, postID)
}

func (s *ActivityService) save(ctx context.Context, tx *repositories.Store, activity *models.Activity) error {
	expected := activity.Version
	activity.Version = expected + 1
	activity.UpdatedAt = time.Now()
	return tx.Activities.Update(ctx, activity, expected)
}

func (s *ActivityService) applyPatch(ctx context.Context, tx *repositories.Store, activity *models.Activity, fields Patch) error {
	if v, ok, err := fields.getInt("version"); err != nil {
		return err
	} else if ok && v != activity.Version {
		return domain.ErrStaleActivity
	}
	if v, ok, err := fields.getString("title"); err != nil {
		return err
	} else if ok {
		activity.Title = v
	}
	if v, ok, err := fields.getString("description"); err != nil {
		return err
	} else if ok {
		activity.Description = v
	}
	if v, ok, err := fields.getString("image"); err != nil {
		return err
	} else if ok {
		activity.Image = v
	}
	if v, ok, err := fields.getDecimal("goalAmount"); err != nil {
		return err
	} else if ok {
		if v.IsNegative() {
			return domain.ErrInvalidAmount
		}
		activity.GoalAmount = v
	}
	if v, ok, err := fields.getDecimal("amountRaised"); err != nil {
		return err
	} else if ok && !s.ledgerOwnsRaised() {
		activity.AmountRaised = v
	}
	if v, ok, err := patchEnum(fields, "activityType", domain.ParseActivityType); err != nil {
		return err
	} else if ok {
		activity.ActivityType = v
	}
	if v, ok, err := fields.getTime("startDate"); err != nil {
		return err
	} else if ok {
		activity.StartDate = v
	}
	if v, ok, err := fields.getTime("endDate"); err != nil {
		return err
	} else if ok {
		activity.EndDate = v
	}
	if v, ok, err := fields.getTime("createdAt"); err != nil {
		return err
	} else if ok {
		activity.CreatedAt = v
	}
	if _, _, err := fields.getTime("updatedAt"); err != nil {
		return err
	}
	if v, ok, err := fields.getString("organizerId"); err != nil {
		return err
	} else if ok {
		organizer, err := tx.Users.GetByID(ctx, v)
		if err != nil {
			return translate(err, domain.ErrOrganizerNotFound)
		}
		activity.OrganizerID = organizer.ID
	}
	return nil
}
