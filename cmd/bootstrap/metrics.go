package bootstrap

import (
	"github.com/Wilfix07/ecom-sub000/internal/infra/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

var MetricsModule = fx.Module("metrics",
	fx.Provide(
		prometheus.NewRegistry,
		func(registry *prometheus.Registry) *metrics.Metrics {
			return metrics.New(registry)
		},
	),
)
