package components

import (
	"github.com/Wilfix07/ecom-sub000/internal/infra/db"
	"github.com/Wilfix07/ecom-sub000/internal/infra/readstore"
	repo_impl "github.com/Wilfix07/ecom-sub000/internal/infra/repository"
	"github.com/Wilfix07/ecom-sub000/internal/usecase/commands"
	"github.com/Wilfix07/ecom-sub000/internal/usecase/queries"

	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		fx.Annotate(
			db.NewTransactor,
			fx.As(new(commands.Transactor)),
		),
		// Write-side repositories
		fx.Annotate(
			repo_impl.NewCouponRepository,
			fx.As(new(commands.CouponRepository)),
		),
		fx.Annotate(
			repo_impl.NewLedgerRepository,
			fx.As(new(commands.LedgerRepository)),
		),
		fx.Annotate(
			repo_impl.NewBadgeRepository,
			fx.As(new(commands.BadgeRepository)),
		),
		// Read-side stores for queries
		fx.Annotate(
			readstore.NewCouponReadStore,
			fx.As(new(queries.CouponViewRepo)),
		),
		fx.Annotate(
			readstore.NewLoyaltyReadStore,
			fx.As(new(queries.LoyaltyViewRepo)),
		),
	),
)
