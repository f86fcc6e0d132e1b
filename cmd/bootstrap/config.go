package bootstrap

import (
	"github.com/Wilfix07/ecom-sub000/internal/domain/pricing"
	"github.com/Wilfix07/ecom-sub000/internal/pkg/config"

	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		config.LoadConfig,
		NewPricingPolicy,
	),
)

// NewPricingPolicy validates the configured policy; a malformed policy is a
// startup failure, never a runtime fallback.
func NewPricingPolicy(cfg config.Config) (pricing.Policy, error) {
	return pricing.NewPolicy(
		cfg.Pricing.TaxRate,
		cfg.Pricing.FreeShippingThresholdCents,
		cfg.Pricing.FlatShippingFeeCents,
		cfg.Pricing.PointValueCents,
		cfg.Pricing.MaxPointsRedemptionFraction,
		cfg.Pricing.AccrualUnitCents,
	)
}
