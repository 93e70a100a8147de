package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"educycle-api/internal/adapters/persistence/models"
	"educycle-api/internal/pkg/logger"
	"educycle-api/internal/pkg/metrics"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// LedgerEvent is the message body published for every ledger entry
type LedgerEvent struct {
	TransactionID string           `json:"transaction_id"`
	Target        string           `json:"target"`
	PostID        *string          `json:"post_id,omitempty"`
	ActivityID    *string          `json:"activity_id,omitempty"`
	ItemID        *string          `json:"item_id,omitempty"`
	UserID        string           `json:"user_id"`
	Type          string           `json:"type"`
	Status        string           `json:"status"`
	Amount        *decimal.Decimal `json:"amount,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
}

// NewLedgerEvent builds the event for a committed entry
func NewLedgerEvent(txn *models.Transaction) *LedgerEvent {
	return &LedgerEvent{
		TransactionID: txn.ID,
		Target:        txn.Target(),
		PostID:        txn.ListingID,
		ActivityID:    txn.ActivityID,
		ItemID:        txn.ItemID,
		UserID:        txn.UserID,
		Type:          txn.Type,
		Status:        txn.Status,
		Amount:        txn.Amount,
		CreatedAt:     txn.CreatedAt,
	}
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaLedgerPublisher writes ledger events keyed by transaction id.
// Writes are asynchronous; delivery failures surface through completed.
type KafkaLedgerPublisher struct {
	writer messageWriter
}

// NewKafkaLedgerPublisher creates a publisher for topic on brokers
func NewKafkaLedgerPublisher(brokers []string, topic string) *KafkaLedgerPublisher {
	p := &KafkaLedgerPublisher{}
	p.writer = &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		MaxAttempts:  3,
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		ReadTimeout:  10 * time.Second,
		Async:        true,
		Completion:   p.completed,
	}
	return p
}

// completed is called by the writer once a batch is delivered or given up on
func (p *KafkaLedgerPublisher) completed(msgs []kafka.Message, err error) {
	if err == nil {
		return
	}
	ids := make([]string, 0, len(msgs))
	for _, m := range msgs {
		ids = append(ids, string(m.Key))
	}
	metrics.LedgerPublishFailuresTotal.Add(float64(len(msgs)))
	logger.L().Error("ledger events not delivered", zap.Strings("transaction_ids", ids), zap.Error(err))
}

// PublishTransaction publishes one ledger entry
func (p *KafkaLedgerPublisher) PublishTransaction(ctx context.Context, txn *models.Transaction) error {
	body, err := json.Marshal(NewLedgerEvent(txn))
	if err != nil {
		return fmt.Errorf("failed to marshal ledger event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(txn.ID),
		Value: body,
		Time:  time.Now(),
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write ledger event to kafka: %w", err)
	}
	return nil
}

// Close flushes and closes the writer
func (p *KafkaLedgerPublisher) Close() error {
	return p.writer.Close()
}
