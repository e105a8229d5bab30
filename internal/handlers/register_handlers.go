package handlers

import (
	"github.com/SscSPs/cancha_booking_app/cmd/docs"
	portssvc "github.com/SscSPs/cancha_booking_app/internal/core/ports/services"
	"github.com/SscSPs/cancha_booking_app/internal/middleware"
	"github.com/SscSPs/cancha_booking_app/internal/platform/config"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
)

// RouteOptions carries the optional pieces of the router.
type RouteOptions struct {
	// DB backs the health check.
	DB Pinger
	// RateLimiter throttles write routes. Nil disables throttling.
	RateLimiter *limiter.Limiter
	// ReceiptDir is served at ReceiptBaseURL when receipts live on local disk.
	ReceiptDir     string
	ReceiptBaseURL string
}

type routeDeps struct {
	auth       gin.HandlerFunc
	writeLimit gin.HandlerFunc
}

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces.
// Routes are mounted at the root.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	opts RouteOptions,
) {
	RegisterValidators()

	deps := routeDeps{
		auth:       middleware.AuthMiddleware(cfg.JWTSecret),
		writeLimit: func(c *gin.Context) { c.Next() },
	}
	if opts.RateLimiter != nil {
		deps.writeLimit = middleware.RateLimit(opts.RateLimiter)
	}

	r.GET("/health", getHealth(opts.DB))

	if opts.ReceiptDir != "" && opts.ReceiptBaseURL != "" {
		r.Static(opts.ReceiptBaseURL, opts.ReceiptDir)
	}

	fields := r.Group("/fields")
	registerSlotRoutes(fields, deps, services.Slots)
	registerScheduleRoutes(fields, deps, services.Schedules)
	registerRecurringRoutes(r, fields, deps, services.Recurring)
	registerReservationRoutes(r, fields, deps, services.Reservations)
	registerCashClosingRoutes(r, deps, services.CashClosings)

	setupSwaggerRoutes(r, cfg)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
