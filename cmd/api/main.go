package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/support-intake/internal/ai"
	httptransport "github.com/spec-kit/support-intake/internal/api/http"
	"github.com/spec-kit/support-intake/internal/api/http/handlers"
	"github.com/spec-kit/support-intake/internal/auth"
	"github.com/spec-kit/support-intake/internal/config"
	"github.com/spec-kit/support-intake/internal/events"
	"github.com/spec-kit/support-intake/internal/observability"
	"github.com/spec-kit/support-intake/internal/persistence"
	"github.com/spec-kit/support-intake/internal/repository"
	"github.com/spec-kit/support-intake/internal/service"
	"github.com/spec-kit/support-intake/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	generator, err := ai.NewOpenAI(cfg.AI)
	if err != nil {
		logger.Fatal("failed to init text generation client", zap.Error(err))
	}
	if generator == nil {
		logger.Warn("OPENAI_API_KEY not provided; AI analysis will degrade to fallbacks")
	}

	dispatcher := events.NewInMemoryDispatcher()
	limiter := persistence.NewRateLimiter(redis, cfg.RateLimit.TicketsPerHour, logger)

	ticketRepo := repository.NewTicketRepository(pg.PoolHandle())
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo: ticketRepo,
		Dispatcher: dispatcher,
		Limiter:    limiter,
	})
	analysisService := service.NewAnalysisService(generator, logger, cfg.AI.Timeout())
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	adminMiddleware := auth.NewAdminMiddleware(tokenManager, cfg.Auth.AdminPasswordHash != "")

	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{
		Views: html.New("templates", ".html"),
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.CORS, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:          handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Forms:           handlers.NewFormsHandler(),
		Tickets:         handlers.NewTicketsHandler(ticketService),
		Admin:           handlers.NewAdminHandler(ticketService, analysisService, tokenManager, cfg.Auth.AdminPasswordHash),
		AdminMiddleware: adminMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
