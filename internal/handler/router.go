package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Wilfix07/ecom-sub000/internal/handler/api"
	"github.com/Wilfix07/ecom-sub000/internal/handler/middleware"
	"github.com/Wilfix07/ecom-sub000/internal/infra/metrics"
	"github.com/Wilfix07/ecom-sub000/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	checkoutHandler *api.CheckoutHandler,
	couponHandler *api.CouponHandler,
	loyaltyHandler *api.LoyaltyHandler,
	authMiddleware *middleware.AuthMiddleware,
	m *metrics.Metrics,
	registry *prometheus.Registry,
) {
	setupMiddleware(engine, cfg, m)
	setupRoutes(engine, checkoutHandler, couponHandler, loyaltyHandler, authMiddleware, registry)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, m *metrics.Metrics) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.MetricsMiddleware(m))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(
	engine *gin.Engine,
	checkoutHandler *api.CheckoutHandler,
	couponHandler *api.CouponHandler,
	loyaltyHandler *api.LoyaltyHandler,
	authMiddleware *middleware.AuthMiddleware,
	registry *prometheus.Registry,
) {
	engine.GET("/health", healthCheck)
	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	apiGroup := engine.Group("/api")
	{
		checkout := apiGroup.Group("/checkout")
		checkout.Use(authMiddleware.RequireAuth())
		{
			addRoutes(checkout, []route{
				{Method: http.MethodPost, Path: "/quote", Handler: checkoutHandler.Quote},
				{Method: http.MethodPost, Path: "/confirm", Handler: checkoutHandler.Confirm},
			})
		}

		coupons := apiGroup.Group("/coupons")
		coupons.Use(authMiddleware.RequireAuth())
		{
			addRoutes(coupons, []route{
				{Method: http.MethodPost, Path: "/validate", Handler: couponHandler.Validate},
			})
		}

		loyalty := apiGroup.Group("/loyalty")
		loyalty.Use(authMiddleware.RequireAuth())
		{
			addRoutes(loyalty, []route{
				{Method: http.MethodGet, Path: "/balance", Handler: loyaltyHandler.GetBalance},
				{Method: http.MethodGet, Path: "/history", Handler: loyaltyHandler.GetHistory},
				{Method: http.MethodGet, Path: "/badges", Handler: loyaltyHandler.GetBadges},
				{Method: http.MethodPost, Path: "/reconcile", Handler: loyaltyHandler.Reconcile},
			})
		}

		admin := apiGroup.Group("/admin")
		admin.Use(authMiddleware.RequireAuth())
		admin.Use(authMiddleware.RequireRoleAtLeast(middleware.RoleAdmin))
		{
			addRoutes(admin, []route{
				{Method: http.MethodGet, Path: "/coupons", Handler: couponHandler.List},
				{Method: http.MethodPost, Path: "/coupons", Handler: couponHandler.Create},
				{Method: http.MethodPatch, Path: "/coupons/:id", Handler: couponHandler.SetActive},
			})
		}
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
