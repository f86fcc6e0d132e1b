package components

import (
	"github.com/Wilfix07/ecom-sub000/internal/pkg/clock"
	"github.com/Wilfix07/ecom-sub000/internal/usecase/commands"
	"github.com/Wilfix07/ecom-sub000/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseCommandsModule,
	usecaseQueriesModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewCheckoutCommands,
		commands.NewCouponCommands,
		commands.NewLoyaltyCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewCouponQueries,
		queries.NewLoyaltyQueries,
	),
)
