//go:build unit

package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/Wilfix07/ecom-sub000/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturingWriter struct {
	messages []kafka.Message
	err      error
}

func (w *capturingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func TestPublishLoyaltyEvent(t *testing.T) {
	writer := &capturingWriter{}
	producer := &LoyaltyProducer{writer: writer}

	event := commands.LoyaltyEvent{
		EventID:       uuid.New(),
		UserID:        uuid.New(),
		OrderID:       uuid.New(),
		TotalCents:    257000,
		PointsAwarded: 25,
		Timestamp:     time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	require.NoError(t, producer.PublishLoyaltyEvent(context.Background(), event))
	require.Len(t, writer.messages, 1)

	msg := writer.messages[0]
	// Keyed by user so one account's events stay ordered within a partition.
	assert.Equal(t, []byte(event.UserID.String()), msg.Key)

	var decoded commands.LoyaltyEvent
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, event.OrderID, decoded.OrderID)
	assert.Equal(t, int64(25), decoded.PointsAwarded)
}
