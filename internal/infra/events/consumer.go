package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/Wilfix07/ecom-sub000/internal/domain/pricing"
	"github.com/Wilfix07/ecom-sub000/internal/pkg/errs"
	"github.com/Wilfix07/ecom-sub000/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// OrderConfirmedEvent is the storefront's durable order confirmation. It is
// the event-driven twin of POST /api/checkout/confirm: both settle through
// the same command.
type OrderConfirmedEvent struct {
	EventID    string               `json:"event_id"`
	OrderID    uuid.UUID            `json:"order_id"`
	UserID     uuid.UUID            `json:"user_id"`
	Items      []OrderConfirmedItem `json:"items"`
	CouponCode *string              `json:"coupon_code,omitempty"`
	UsePoints  bool                 `json:"use_points"`
	Points     int64                `json:"points"`
	Timestamp  time.Time            `json:"timestamp"`
}

type OrderConfirmedItem struct {
	ProductID           string  `json:"product_id"`
	UnitPriceCents      int64   `json:"unit_price_cents"`
	Quantity            int     `json:"quantity"`
	LineDiscountPercent float64 `json:"line_discount_percent"`
}

// OrderConsumer feeds confirmed orders from Kafka into the checkout
// settlement. Settlement is idempotent per order, so at-least-once delivery
// is safe.
type OrderConsumer struct {
	reader   *kafka.Reader
	checkout commands.CheckoutCommands
}

func NewOrderConsumer(brokers []string, topic, groupID string, checkout commands.CheckoutCommands) *OrderConsumer {
	return &OrderConsumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:  brokers,
			Topic:    topic,
			GroupID:  groupID,
			MinBytes: 1,
			MaxBytes: 10 << 20,
			MaxWait:  time.Second,
		}),
		checkout: checkout,
	}
}

// Run blocks until ctx is cancelled or the reader is closed. Offsets are
// committed only after a settlement succeeds (or can never succeed), so a
// transient failure keeps the order for redelivery instead of dropping it.
func (c *OrderConsumer) Run(ctx context.Context) {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				return
			}
			slog.Error("failed to read order event", "error", err)
			continue
		}

		for {
			err = c.handle(ctx, msg)
			if err == nil {
				break
			}
			slog.Warn("settlement failed, retrying order event",
				"offset", msg.Offset, "error", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(settleRetryDelay):
			}
		}

		if commitErr := c.reader.CommitMessages(ctx, msg); commitErr != nil {
			if errors.Is(commitErr, context.Canceled) {
				return
			}
			// Settlement is idempotent per order, so a redelivery after a
			// failed commit is harmless.
			slog.Error("failed to commit order event offset",
				"offset", msg.Offset, "error", commitErr)
		}
	}
}

const settleRetryDelay = 5 * time.Second

// handle returns nil when the message is finished with: settled, malformed,
// or rejected for a reason no retry can change.
func (c *OrderConsumer) handle(ctx context.Context, msg kafka.Message) error {
	var event OrderConfirmedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		slog.Error("malformed order event", "offset", msg.Offset, "error", err)
		return nil
	}

	cart := make(pricing.CartSnapshot, 0, len(event.Items))
	for _, item := range event.Items {
		cart = append(cart, pricing.CartLine{
			ProductID:           item.ProductID,
			UnitPriceCents:      item.UnitPriceCents,
			Quantity:            item.Quantity,
			LineDiscountPercent: item.LineDiscountPercent,
		})
	}

	var redemption *pricing.PointsRedemption
	if event.UsePoints {
		redemption = &pricing.PointsRedemption{Enabled: true, PointsToUse: event.Points}
	}

	_, err := c.checkout.ConfirmOrder(ctx, commands.ConfirmOrderParams{
		OrderID:    event.OrderID,
		UserID:     event.UserID,
		Cart:       cart,
		CouponCode: event.CouponCode,
		Redemption: redemption,
	})
	if err != nil {
		if isPermanentRejection(err) {
			slog.Error("order event rejected, skipping",
				"order_id", event.OrderID, "user_id", event.UserID, "error", err)
			return nil
		}
		return err
	}
	slog.Info("settled order from event", "order_id", event.OrderID)
	return nil
}

// isPermanentRejection reports settlement outcomes that no retry can change:
// the order itself is unacceptable, not the infrastructure.
func isPermanentRejection(err error) bool {
	return errors.Is(err, errs.ErrDomainValidation) ||
		errors.Is(err, errs.ErrCouponNotFound) ||
		errors.Is(err, errs.ErrCouponInactive) ||
		errors.Is(err, errs.ErrCouponExpired) ||
		errors.Is(err, errs.ErrCouponUsageLimitReached) ||
		errors.Is(err, errs.ErrCouponAlreadyRedeemed) ||
		errors.Is(err, errs.ErrInsufficientPoints) ||
		errors.Is(err, errs.ErrLoyaltyAccountLocked)
}

func (c *OrderConsumer) Close() error {
	return c.reader.Close()
}
