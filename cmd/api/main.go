package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/recognition-service/internal/api/http"
	"github.com/spec-kit/recognition-service/internal/api/http/handlers"
	"github.com/spec-kit/recognition-service/internal/auth"
	"github.com/spec-kit/recognition-service/internal/config"
	"github.com/spec-kit/recognition-service/internal/events"
	"github.com/spec-kit/recognition-service/internal/observability"
	"github.com/spec-kit/recognition-service/internal/persistence"
	"github.com/spec-kit/recognition-service/internal/repository"
	"github.com/spec-kit/recognition-service/internal/service"
	"github.com/spec-kit/recognition-service/internal/worker"
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

	pool := pg.PoolHandle()
	adminRepo := repository.NewAdminRepository(pool)
	staffRepo := repository.NewStaffRepository(pool)
	campaignRepo := repository.NewCampaignRepository(pool)
	voteRepo := repository.NewVoteRepository(pool)

	dispatcher := events.NewInMemoryDispatcher(logger)
	metrics := observability.NewMetrics()

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		AdminRepo: adminRepo,
		StaffRepo: staffRepo,
	})
	if err := authService.EnsureBootstrapAdmin(ctx, cfg.Auth, logger); err != nil {
		logger.Fatal("failed to bootstrap admin", zap.Error(err))
	}

	staffService := service.NewStaffService(service.StaffDependencies{
		StaffRepo: staffRepo,
		VoteRepo:  voteRepo,
	}, cfg.Auth.BcryptCost)
	campaignService := service.NewCampaignService(service.CampaignDependencies{
		CampaignRepo: campaignRepo,
		VoteRepo:     voteRepo,
		Dispatcher:   dispatcher,
	})
	voteService := service.NewVoteService(service.VoteDependencies{
		VoteRepo:     voteRepo,
		CampaignRepo: campaignRepo,
		StaffRepo:    staffRepo,
		Dispatcher:   dispatcher,
	})
	resultsService := service.NewResultsService(service.ResultsDependencies{
		VoteRepo:     voteRepo,
		CampaignRepo: campaignRepo,
		Cache:        redis,
		Logger:       logger,
	})

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), adminRepo, staffRepo)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Staff:          handlers.NewStaffHandler(staffService),
		Campaigns:      handlers.NewCampaignsHandler(campaignService, resultsService),
		Votes:          handlers.NewVotesHandler(voteService, resultsService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()

	snap := metrics.Snapshot()
	logger.Info("request totals at shutdown",
		zap.Int64("requests", snap.TotalRequests),
		zap.Int64("errors", snap.TotalErrors),
	)
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
