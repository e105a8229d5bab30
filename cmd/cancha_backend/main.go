package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/SscSPs/cancha_booking_app/internal/core/ports"
	"github.com/SscSPs/cancha_booking_app/internal/core/services"
	"github.com/SscSPs/cancha_booking_app/internal/handlers"
	"github.com/SscSPs/cancha_booking_app/internal/middleware"
	"github.com/SscSPs/cancha_booking_app/internal/platform/cache"
	"github.com/SscSPs/cancha_booking_app/internal/platform/config"
	"github.com/SscSPs/cancha_booking_app/internal/platform/events"
	"github.com/SscSPs/cancha_booking_app/internal/platform/logging"
	"github.com/SscSPs/cancha_booking_app/internal/platform/scheduler"
	"github.com/SscSPs/cancha_booking_app/internal/platform/storage"
	"github.com/SscSPs/cancha_booking_app/internal/repositories/database/pgsql"
	"github.com/SscSPs/cancha_booking_app/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

// @title Cancha Booking API
// @version 1.0
// @description Sports-field booking backend: slots, reservations, receipts and cash closings.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger, logCloser := logging.New(cfg)
	defer logCloser.Close()
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("Server terminated with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		return fmt.Errorf("initialize database pool: %w", err)
	}
	defer database.ClosePgxPool(dbPool)
	logger.Info("Database connection pool established.")

	if err := runMigrations(cfg.DatabaseURL, logger); err != nil {
		return err
	}

	infra, redisClient, closeInfra, err := buildInfrastructure(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeInfra()

	repos := pgsql.NewRepositoryProvider(dbPool)
	container := services.NewServiceContainer(cfg, repos, infra)

	sched, err := scheduler.New(logger)
	if err != nil {
		return fmt.Errorf("create scheduler: %w", err)
	}
	if err := scheduler.RegisterCompletionSweep(sched, container.Reservations, cfg.CompletionSweepCron); err != nil {
		return fmt.Errorf("register completion sweep: %w", err)
	}

	limiterInstance, err := middleware.NewRateLimiter(cfg.RateLimit, redisClient)
	if err != nil {
		return fmt.Errorf("create rate limiter: %w", err)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:   []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
	}))
	if err := r.SetTrustedProxies(nil); err != nil {
		return fmt.Errorf("set trusted proxies: %w", err)
	}

	routeOpts := handlers.RouteOptions{DB: dbPool, RateLimiter: limiterInstance}
	if local, ok := infra.Receipts.(*storage.LocalStore); ok {
		routeOpts.ReceiptDir = local.Dir()
		routeOpts.ReceiptBaseURL = cfg.ReceiptBaseURL
	}
	handlers.RegisterRoutes(r, cfg, container, routeOpts)

	server := &http.Server{Addr: ":" + cfg.Port, Handler: r}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		sched.Start()
		<-gctx.Done()
		return sched.Stop()
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		logger.Info("Shutting down server")
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		return nil
	})
	return g.Wait()
}

// buildInfrastructure connects the optional adapters. Redis and the broker are
// skipped when unconfigured; receipt storage is required.
func buildInfrastructure(ctx context.Context, cfg *config.Config, logger *slog.Logger) (services.Infrastructure, *redis.Client, func(), error) {
	var infra services.Infrastructure
	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		client, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			logger.Warn("Redis unavailable, slot cache and shared rate limits disabled", slog.String("error", err.Error()))
		} else {
			redisClient = client
			infra.Cache = cache.NewRedisSlotCache(client, cfg.SlotCacheTTL)
			closers = append(closers, func() { _ = client.Close() })
		}
	}

	var publisher ports.EventPublisher = events.NewLogPublisher(logger)
	if cfg.AMQPURL != "" {
		amqpPublisher, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPReservationQueue)
		if err != nil {
			logger.Warn("RabbitMQ unavailable, reservation events go to the log", slog.String("error", err.Error()))
		} else {
			publisher = amqpPublisher
			closers = append(closers, func() { _ = amqpPublisher.Close() })
		}
	}
	infra.Events = publisher

	receipts, err := storage.New(ctx, cfg)
	if err != nil {
		closeAll()
		return infra, nil, nil, fmt.Errorf("initialize receipt storage: %w", err)
	}
	infra.Receipts = receipts

	return infra, redisClient, closeAll, nil
}
