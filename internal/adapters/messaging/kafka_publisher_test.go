package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"educycle-api/internal/adapters/persistence/models"
	"educycle-api/internal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func TestKafkaLedgerPublisher_PublishTransaction(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaLedgerPublisher{writer: w}

	activityID := "a-1"
	amount := decimal.RequireFromString("12.50")
	txn := &models.Transaction{
		ID:         "t-1",
		ActivityID: &activityID,
		UserID:     "u-1",
		Type:       "Donation",
		Status:     "Pending",
		Amount:     &amount,
		CreatedAt:  time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}

	require.NoError(t, p.PublishTransaction(context.Background(), txn))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "t-1", string(w.msgs[0].Key))

	var event LedgerEvent
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &event))
	assert.Equal(t, models.LedgerTargetActivity, event.Target)
	assert.Equal(t, "a-1", *event.ActivityID)
	assert.Nil(t, event.PostID)
	assert.True(t, amount.Equal(*event.Amount))
}

func TestKafkaLedgerPublisher_WrapsWriteErrors(t *testing.T) {
	p := &KafkaLedgerPublisher{writer: &fakeWriter{err: errors.New("no leader")}}

	err := p.PublishTransaction(context.Background(), &models.Transaction{ID: "t-1"})
	assert.ErrorContains(t, err, "no leader")
}

func TestNewKafkaLedgerPublisher_DoesNotBlockRequests(t *testing.T) {
	p := NewKafkaLedgerPublisher([]string{"localhost:9092"}, "educycle.ledger")
	defer p.Close()

	w, ok := p.writer.(*kafka.Writer)
	require.True(t, ok)
	assert.True(t, w.Async)
	assert.LessOrEqual(t, w.BatchTimeout, 10*time.Millisecond)
	assert.NotNil(t, w.Completion)
}

func TestKafkaLedgerPublisher_CompletedCountsFailures(t *testing.T) {
	p := &KafkaLedgerPublisher{writer: &fakeWriter{}}
	before := testutil.ToFloat64(metrics.LedgerPublishFailuresTotal)

	p.completed([]kafka.Message{{Key: []byte("t-1")}}, nil)
	assert.Equal(t, before, testutil.ToFloat64(metrics.LedgerPublishFailuresTotal))

	p.completed([]kafka.Message{{Key: []byte("t-1")}, {Key: []byte("t-2")}}, errors.New("broker down"))
	assert.Equal(t, before+2, testutil.ToFloat64(metrics.LedgerPublishFailuresTotal))
}
