package repositories

import (
	"context"

	"educycle-api/internal/adapters/persistence/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new ledger repository
func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, txn *models.Transaction) error {
	return r.db.WithContext(ctx).Omit("Listing", "Activity", "Item", "User").Create(txn).Error
}

func (r *transactionRepository) GetByID(ctx context.Context, id string) (*models.Transaction, error) {
	var txn models.Transaction
	err := r.db.WithContext(ctx).Where("transaction_id = ?", id).First(&txn).Error
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

func (r *transactionRepository) ListByUser(ctx context.Context, userID string) ([]*models.Transaction, error) {
	var txns []*models.Transaction
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at").Find(&txns).Error
	return txns, err
}

func (r *transactionRepository) List(ctx context.Context) ([]*models.Transaction, error) {
	var txns []*models.Transaction
	err := r.db.WithContext(ctx).Order("created_at").Find(&txns).Error
	return txns, err
}

func (r *transactionRepository) ListPaged(ctx context.Context, offset, limit int) ([]*models.Transaction, int64, error) {
	var txns []*models.Transaction
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Transaction{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := r.db.WithContext(ctx).Order("created_at").Offset(offset).Limit(limit).Find(&txns).Error; err != nil {
		return nil, 0, err
	}
	return txns, total, nil
}

type activitySum struct {
	ActivityID string
	Total      decimal.Decimal
}

// SumByActivity totals the positive ledger amounts per activity
func (r *transactionRepository) SumByActivity(ctx context.Context) (map[string]decimal.Decimal, error) {
	var rows []activitySum
	err := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Select("activity_id, SUM(amount) AS total").
		Where("activity_id IS NOT NULL AND amount > 0").
		Group("activity_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	sums := make(map[string]decimal.Decimal, len(rows))
	for _, row := range rows {
		sums[row.ActivityID] = row.Total
	}
	return sums, nil
}
