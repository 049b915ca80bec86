package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/helpdesk-service/internal/api/http"
	"github.com/spec-kit/helpdesk-service/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/observability"
	"github.com/spec-kit/helpdesk-service/internal/persistence"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/internal/service"
	"github.com/spec-kit/helpdesk-service/internal/worker"
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
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	accountRepo := repository.NewAccountRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)
	directoryRepo := repository.NewDirectoryRepository(pool)
	statsRepo := repository.NewStatsRepository(pool)

	codec := newTokenCodec(cfg.Auth)
	tokenManager := auth.NewTokenManager(codec, cfg.Auth.TokenIssuer, cfg.Auth.TokenAudience, cfg.Auth.TokenTTL())
	authenticator := auth.NewMiddleware(tokenManager, accountRepo)

	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(accountRepo, tokenManager, logger, cfg.Auth.BcryptCost, cfg.Auth.ResetTokenTTL())
	ticketService := service.NewTicketService(ticketRepo, accountRepo, dispatcher)
	notificationService := service.NewNotificationService(notificationRepo, accountRepo, dispatcher, logger)
	userService := service.NewUserService(accountRepo, cfg.Auth.BcryptCost)
	directoryService := service.NewDirectoryService(directoryRepo)
	statsService := service.NewStatsService(statsRepo, redis.Client, cfg.Stats.CacheTTL(), logger)

	worker.StartNotificationWorker(notificationService)

	metrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: httptransport.ErrorHandler,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:        handlers.NewHealthHandler(pg, redis),
		Auth:          handlers.NewAuthHandler(authService),
		Tickets:       handlers.NewTicketsHandler(ticketService),
		Users:         handlers.NewUsersHandler(userService),
		Notifications: handlers.NewNotificationsHandler(notificationService),
		Directory:     handlers.NewDirectoryHandler(directoryService),
		Stats:         handlers.NewStatsHandler(statsService),
		Authenticator: authenticator,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func newTokenCodec(cfg config.AuthConfig) auth.TokenCodec {
	if cfg.TokenCodec == "jwt" {
		return auth.NewJWTCodec(cfg.JWTSecret, cfg.TokenIssuer, cfg.TokenAudience)
	}
	return auth.NewHMACCodec(cfg.JWTSecret, cfg.TokenIssuer, cfg.TokenAudience)
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
