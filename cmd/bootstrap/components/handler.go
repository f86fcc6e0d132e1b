package components

import (
	"github.com/Wilfix07/ecom-sub000/internal/handler"
	"github.com/Wilfix07/ecom-sub000/internal/handler/api"
	"github.com/Wilfix07/ecom-sub000/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewCheckoutHandler,
		api.NewCouponHandler,
		api.NewLoyaltyHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
