package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/inquiry-service/internal/api/http"
	"github.com/spec-kit/inquiry-service/internal/api/http/handlers"
	"github.com/spec-kit/inquiry-service/internal/auth"
	"github.com/spec-kit/inquiry-service/internal/authz"
	"github.com/spec-kit/inquiry-service/internal/config"
	"github.com/spec-kit/inquiry-service/internal/events"
	"github.com/spec-kit/inquiry-service/internal/observability"
	"github.com/spec-kit/inquiry-service/internal/persistence"
	"github.com/spec-kit/inquiry-service/internal/repository"
	"github.com/spec-kit/inquiry-service/internal/service"
	"github.com/spec-kit/inquiry-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App.Name)
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

	pool := pg.PoolHandle()
	identityRepo := repository.NewIdentityRepository(pool)
	profileRepo := repository.NewProfileRepository(pool)
	inquiryRepo := repository.NewInquiryRepository(pool)
	followUpRepo := repository.NewFollowUpRepository(pool)
	resetRepo := repository.NewPasswordResetRepository(pool)

	engine := authz.NewEngine()
	denylist := auth.NewTokenDenylist(redis.Client)
	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		IdentityRepo:      identityRepo,
		ProfileRepo:       profileRepo,
		PasswordResetRepo: resetRepo,
		Denylist:          denylist,
		Dispatcher:        dispatcher,
	})
	profileService := service.NewProfileService(service.ProfileDependencies{
		Engine:       engine,
		ProfileRepo:  profileRepo,
		IdentityRepo: identityRepo,
		BcryptCost:   cfg.Auth.BcryptCost,
	})
	inquiryService := service.NewInquiryService(service.InquiryDependencies{
		Engine:      engine,
		InquiryRepo: inquiryRepo,
		ProfileRepo: profileRepo,
		Dispatcher:  dispatcher,
	})
	followUpService := service.NewFollowUpService(service.FollowUpDependencies{
		Engine:       engine,
		FollowUpRepo: followUpRepo,
		InquiryRepo:  inquiryRepo,
		Dispatcher:   dispatcher,
	})
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), profileRepo, denylist)
	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Profiles:       handlers.NewProfilesHandler(profileService),
		Inquiries:      handlers.NewInquiriesHandler(inquiryService),
		FollowUps:      handlers.NewFollowUpsHandler(followUpService),
		Dashboard:      handlers.NewDashboardHandler(inquiryService),
		AuthMiddleware: authMiddleware,
		Metrics:        metrics,
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
