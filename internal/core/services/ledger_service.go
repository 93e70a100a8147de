package services

import (
	"context"
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
)

// LedgerService records and reads immutable transaction entries
type LedgerService struct {
	store     *repositories.Store
	cfg       *config.Config
	publisher LedgerPublisher
}

// NewLedgerService creates a new ledger service. A nil publisher disables event publishing.
func NewLedgerService(store *repositories.Store, cfg *config.Config, publisher LedgerPublisher) *LedgerService {
	if publisher == nil {
		publisher = NoopLedgerPublisher{}
	}
	return &LedgerService{store: store, cfg: cfg, publisher: publisher}
}

// RecordListingInput records an action against a post
type RecordListingInput struct {
	PostID string `json:"post_id" validate:"required"`
	UserID string `json:"user_id"`
	Type   string `json:"type" validate:"required,max=50"`
}

// RecordActivityInput records an action against an activity
type RecordActivityInput struct {
	ActivityID string           `json:"activity_id" validate:"required"`
	UserID     string           `json:"user_id"`
	Type       string           `json:"type" validate:"required,max=50"`
	Amount     *decimal.Decimal `json:"amount"`
}

// RecordListingTransaction appends an entry referencing a post and its backing item
func (s *LedgerService) RecordListingTransaction(ctx context.Context, input *RecordListingInput) (*models.Transaction, error) {
	if input.Type == "" {
		return nil, domain.ErrTransactionType
	}

	var txn *models.Transaction
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		listing, err := tx.Listings.GetByID(ctx, input.PostID)
		if err != nil {
			return translate(err, domain.ErrListingNotFound)
		}
		item, err := tx.Items.GetByID(ctx, listing.ItemID)
		if err != nil {
			return translate(err, domain.ErrItemNotFound)
		}
		user, err := tx.Users.GetByID(ctx, input.UserID)
		if err != nil {
			return translate(err, domain.ErrUserNotFound)
		}

		txn = &models.Transaction{
			ID:        uuid.New().String(),
			ListingID: &listing.ID,
			ItemID:    &item.ID,
			UserID:    user.ID,
			Type:      input.Type,
			Status:    domain.TransactionStatusPending,
			CreatedAt: time.Now(),
		}
		return tx.Transactions.Create(ctx, txn)
	})
	if err != nil {
		return nil, err
	}

	s.committed(ctx, txn)
	return txn, nil
}

// RecordActivityTransaction appends an entry referencing an activity. In
// ledger mode a positive amount is added to the activity's raised total in
// the same database transaction.
func (s *LedgerService) RecordActivityTransaction(ctx context.Context, input *RecordActivityInput) (*models.Transaction, error) {
	if input.Type == "" {
		return nil, domain.ErrTransactionType
	}
	if input.Amount != nil && !input.Amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}

	var txn *models.Transaction
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		activity, err := tx.Activities.GetByID(ctx, input.ActivityID)
		if err != nil {
			return translate(err, domain.ErrActivityNotFound)
		}
		user, err := tx.Users.GetByID(ctx, input.UserID)
		if err != nil {
			return translate(err, domain.ErrUserNotFound)
		}

		txn = &models.Transaction{
			ID:         uuid.New().String(),
			ActivityID: &activity.ID,
			UserID:     user.ID,
			Type:       input.Type,
			Status:     domain.TransactionStatusPending,
			Amount:     input.Amount,
			CreatedAt:  time.Now(),
		}
		if err := tx.Transactions.Create(ctx, txn); err != nil {
			return err
		}

		if s.cfg.Marketplace.RaisedMode == domain.RaisedModeLedger && input.Amount != nil {
			return tx.Activities.AddRaised(ctx, activity.ID, *input.Amount)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.committed(ctx, txn)
	return txn, nil
}

// GetByID gets a ledger entry by ID
func (s *LedgerService) GetByID(ctx context.Context, id string) (*models.Transaction, error) {
	txn, err := s.store.Transactions.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, domain.ErrTransactionNotFound)
	}
	return txn, nil
}

// ListByUser lists the entries recorded by a user
func (s *LedgerService) ListByUser(ctx context.Context, userID string) ([]*models.Transaction, error) {
	exists, err := s.store.Users.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrUserNotFound
	}
	return s.store.Transactions.ListByUser(ctx, userID)
}

// ListAll lists every entry
func (s *LedgerService) ListAll(ctx context.Context) ([]*models.Transaction, error) {
	return s.store.Transactions.List(ctx)
}

// ListPaged lists entries with pagination
func (s *LedgerService) ListPaged(ctx context.Context, offset, limit int) ([]*models.Transaction, int64, error) {
	return s.store.Transactions.ListPaged(ctx, offset, limit)
}

// Reconcile sets every activity's raised total to the sum of its positive
// ledger amounts. Only meaningful in ledger mode; a no-op otherwise.
func (s *LedgerService) Reconcile(ctx context.Context) (int, error) {
	if s.cfg.Marketplace.RaisedMode != domain.RaisedModeLedger {
		return 0, nil
	}

	updated := 0
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		sums, err := tx.Transactions.SumByActivity(ctx)
		if err != nil {
			return err
		}
		ids, err := tx.Activities.ListIDs(ctx)
		if err != nil {
			return err
		}
		for _, id := range ids {
			total, ok := sums[id]
			if !ok {
				total = decimal.Zero
			}
			if err := tx.Activities.SetRaised(ctx, id, total); err != nil {
				return err
			}
			updated++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return updated, nil
}

// committed runs after a ledger entry is durable. Publishing is best effort.
func (s *LedgerService) committed(ctx context.Context, txn *models.Transaction) {
	metrics.LedgerEntriesTotal.WithLabelValues(txn.Target()).Inc()
	logger.L().Info("ledger entry recorded",
		zap.String("transaction_id", txn.ID),
		zap.String("target", txn.Target()),
		zap.String("type", txn.Type),
		zap.String("user_id", txn.UserID),
	)

	if err := s.publisher.PublishTransaction(ctx, txn); err != nil {
		metrics.LedgerPublishFailuresTotal.Inc()
		logger.L().Error("ledger entry not published", zap.String("transaction_id", txn.ID), zap.Error(err))
	}
}
