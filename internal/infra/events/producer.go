package events

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/Wilfix07/ecom-sub000/internal/pkg/errs"
	"github.com/Wilfix07/ecom-sub000/internal/usecase/commands"

	"github.com/segmentio/kafka-go"
)

// kafkaMessageWriter abstracts kafka.Writer for testability.
type kafkaMessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// LoyaltyProducer publishes loyalty settlement events so downstream
// consumers (storefront notifications, analytics) see point and badge
// changes. Pure-Go client (segmentio/kafka-go).
type LoyaltyProducer struct {
	writer kafkaMessageWriter
}

// NewLoyaltyProducer creates a producer for the loyalty topic.
// bootstrap can be a comma-separated list of host:port.
func NewLoyaltyProducer(bootstrap string, topic string) *LoyaltyProducer {
	addrs := strings.Split(bootstrap, ",")
	var brokers []string
	for _, a := range addrs {
		a = strings.TrimSpace(a)
		if a != "" {
			brokers = append(brokers, a)
		}
	}
	return &LoyaltyProducer{writer: &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: 50 * time.Millisecond,
	}}
}

func (p *LoyaltyProducer) PublishLoyaltyEvent(ctx context.Context, event commands.LoyaltyEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return errs.Wrap(err, "failed to encode loyalty event")
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.UserID.String()),
		Value: data,
	})
}

func (p *LoyaltyProducer) Close() error {
	if w, ok := p.writer.(*kafka.Writer); ok {
		return w.Close()
	}
	return nil
}
