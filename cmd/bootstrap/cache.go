package bootstrap

import (
	"context"
	"log/slog"

	"github.com/Wilfix07/ecom-sub000/internal/infra/cache"
	"github.com/Wilfix07/ecom-sub000/internal/pkg/config"
	"github.com/Wilfix07/ecom-sub000/internal/usecase/commands"
	"github.com/Wilfix07/ecom-sub000/internal/usecase/queries"

	"go.uber.org/fx"
)

var CacheModule = fx.Module("cache",
	fx.Provide(
		fx.Annotate(
			NewBalanceCache,
			fx.As(new(queries.BalanceCache)),
			fx.As(new(commands.BalanceInvalidator)),
		),
	),
)

func NewBalanceCache(lc fx.Lifecycle, cfg config.Config) (*cache.BalanceCache, error) {
	c, err := cache.NewBalanceCache(cfg.Cache.Dir)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			if closeErr := c.Close(); closeErr != nil {
				slog.Warn("failed to close balance cache", "error", closeErr)
			}
			return nil
		},
	})

	return c, nil
}
