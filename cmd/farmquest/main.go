package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexanderramin/farmquest/internal/api"
	"github.com/alexanderramin/farmquest/internal/cli"
	"github.com/alexanderramin/farmquest/internal/config"
	"github.com/alexanderramin/farmquest/internal/db"
	"github.com/alexanderramin/farmquest/internal/photostore"
	"github.com/alexanderramin/farmquest/internal/repository"
	"github.com/alexanderramin/farmquest/internal/service"
	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := cfg.Log.Logger(os.Stderr)

	// Open database
	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	userRepo := repository.NewSQLiteUserRepo(database)
	progressRepo := repository.NewSQLiteProgressRepo(database)
	missionRepo, err := repository.NewCachedMissionRepo(repository.NewSQLiteMissionRepo(database), cfg.MissionCacheSize)
	if err != nil {
		return fmt.Errorf("mission cache: %w", err)
	}

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)

	// Use-case observers: metrics always, logs on request
	registry := prometheus.NewRegistry()
	metrics, err := service.NewPrometheusUseCaseObserver(registry)
	if err != nil {
		return fmt.Errorf("registering metrics: %w", err)
	}
	observers := []service.UseCaseObserver{metrics}
	if cfg.LogUseCases {
		observers = append(observers, service.NewSlogUseCaseObserver(logger))
	}
	observer := service.CombineObservers(observers...)

	// Wire services
	users := service.NewUserService(userRepo, progressRepo, missionRepo, uow, observer)
	missions := service.NewMissionService(userRepo, missionRepo, progressRepo, uow, observer)
	leaderboard := service.NewLeaderboardService(userRepo, progressRepo, observer)

	photos, err := openPhotoStore(ctx, cfg.Photos)
	if err != nil {
		return err
	}

	app := &cli.App{
		Users:       users,
		Missions:    missions,
		Leaderboard: leaderboard,
		Import:      service.NewImportService(missionRepo, uow, observer),
		Photos:      photos,
		DefaultUser: cfg.User,
	}

	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	app.Serve = func(ctx context.Context) error {
		srv, err := api.NewServer(api.Deps{
			Users:       users,
			Missions:    missions,
			Leaderboard: leaderboard,
			Photos:      photos,
			DB:          database,
			Logger:      logger,
			Registry:    registry,
		}, api.Options{
			AllowedOrigins: cfg.Server.AllowedOrigins,
			RateLimit:      cfg.Server.RateLimit,
			RateBurst:      cfg.Server.RateBurst,
			TrustProxy:     cfg.Server.TrustProxy,
		})
		if err != nil {
			return err
		}
		return srv.ListenAndServe(ctx, cfg.Server.Addr, time.Duration(cfg.Server.ShutdownSeconds)*time.Second)
	}

	// Execute root command
	return cli.NewRootCmd(app).ExecuteContext(ctx)
}

func openPhotoStore(ctx context.Context, cfg config.PhotoConfig) (photostore.Store, error) {
	if !cfg.UsesS3() {
		return photostore.NewLocalStore(cfg.Dir), nil
	}
	store, err := photostore.NewS3Store(ctx, photostore.S3Config{
		Bucket:    cfg.S3Bucket,
		Region:    cfg.S3Region,
		Endpoint:  cfg.S3Endpoint,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		PublicURL: cfg.PublicURL,
	})
	if err != nil {
		return nil, fmt.Errorf("opening photo bucket: %w", err)
	}
	return store, nil
}
