package bootstrap

import (
	"context"
	"log/slog"
	"strings"

	"github.com/Wilfix07/ecom-sub000/internal/infra/events"
	"github.com/Wilfix07/ecom-sub000/internal/pkg/config"
	"github.com/Wilfix07/ecom-sub000/internal/usecase/commands"

	"go.uber.org/fx"
)

var KafkaModule = fx.Module("kafka",
	fx.Provide(
		NewLoyaltyPublisher,
	),
	fx.Invoke(
		RunOrderConsumer,
	),
)

// NewLoyaltyPublisher returns nil when no brokers are configured; the
// checkout command treats a nil publisher as "events disabled".
func NewLoyaltyPublisher(lc fx.Lifecycle, cfg config.Config) commands.EventPublisher {
	if !cfg.Kafka.Enabled() {
		slog.Info("Kafka disabled, loyalty events will not be published")
		return nil
	}

	producer := events.NewLoyaltyProducer(strings.Join(cfg.Kafka.Brokers, ","), cfg.Kafka.LoyaltyTopic)

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return producer.Close()
		},
	})

	return producer
}

// RunOrderConsumer starts the order-confirmed ingestion loop when brokers are
// configured. The consumer settles orders through the same command as the
// HTTP confirm endpoint.
func RunOrderConsumer(lc fx.Lifecycle, cfg config.Config, checkout commands.CheckoutCommands) {
	if !cfg.Kafka.Enabled() {
		return
	}

	consumer := events.NewOrderConsumer(
		cfg.Kafka.Brokers,
		cfg.Kafka.OrdersTopic,
		cfg.Kafka.ConsumerGroup,
		checkout,
	)

	ctx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go consumer.Run(ctx)
			slog.Info("order consumer started", "topic", cfg.Kafka.OrdersTopic)
			return nil
		},
		OnStop: func(_ context.Context) error {
			cancel()
			return consumer.Close()
		},
	})
}
