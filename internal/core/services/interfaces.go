package services

import (
	"context"
	"errors"

	"educycle-api/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// LedgerPublisher receives every committed ledger entry
type LedgerPublisher interface {
	PublishTransaction(ctx context.Context, txn *models.Transaction) error
}

// NoopLedgerPublisher discards entries. Used when no broker is configured.
type NoopLedgerPublisher struct{}

func (NoopLedgerPublisher) PublishTransaction(context.Context, *models.Transaction) error {
	return nil
}

// Actor identifies who is calling a service operation
type Actor struct {
	UserID  string
	IsAdmin bool
}

// canModify reports whether the actor may write a record owned by ownerID
func (a Actor) canModify(ownerID string) bool {
	return a.IsAdmin || (a.UserID != "" && a.UserID == ownerID)
}

// translate maps gorm.ErrRecordNotFound to the given domain error
func translate(err, notFound error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return err
}
