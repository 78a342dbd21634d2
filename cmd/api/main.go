package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/angelmondragon/darkstore-backend/api/routes"
	"github.com/angelmondragon/darkstore-backend/internal/address"
	"github.com/angelmondragon/darkstore-backend/internal/auth"
	"github.com/angelmondragon/darkstore-backend/internal/cron"
	"github.com/angelmondragon/darkstore-backend/internal/dashboard"
	"github.com/angelmondragon/darkstore-backend/internal/ops"
	"github.com/angelmondragon/darkstore-backend/internal/users"
	"github.com/angelmondragon/darkstore-backend/internal/warehouses"
	"github.com/angelmondragon/darkstore-backend/pkg/auth/session"
	"github.com/angelmondragon/darkstore-backend/pkg/config"
	"github.com/angelmondragon/darkstore-backend/pkg/db"
	"github.com/angelmondragon/darkstore-backend/pkg/logger"
	"github.com/angelmondragon/darkstore-backend/pkg/metrics"
	"github.com/angelmondragon/darkstore-backend/pkg/migrate"
	"github.com/angelmondragon/darkstore-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, dbClient.Close()) }()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, redisClient.Close()) }()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		return err
	}

	userRepo := users.NewRepository(dbClient.DB())
	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		return err
	}
	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		TxRunner:       dbClient,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		return err
	}

	avatars, err := users.NewLocalAvatarStore(cfg.Avatar.Dir, cfg.Avatar.PublicURL)
	if err != nil {
		return err
	}
	userService, err := users.NewService(users.ServiceParams{
		Repo:           userRepo,
		Avatars:        avatars,
		MaxAvatarBytes: cfg.Avatar.MaxUploadBytes(),
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		return err
	}

	addressService, err := address.NewService(address.NewRepository(dbClient.DB()))
	if err != nil {
		return err
	}

	snapshots, err := dashboard.NewRedisSnapshotStore(redisClient, cfg.Dashboard.SnapshotKey)
	if err != nil {
		return err
	}
	dashboardService, err := dashboard.NewService(dashboard.ServiceParams{
		Store:    snapshots,
		Logger:   logg,
		Metrics:  metrics.NewDashboardMetrics(prometheus.DefaultRegisterer),
		Env:      ops.Env{DefaultStoreID: cfg.Dashboard.DefaultStoreID},
		SeedDemo: cfg.Dashboard.SeedDemoData,
	})
	if err != nil {
		return err
	}
	if err := dashboardService.Load(ctx); err != nil {
		return err
	}

	warehouseService, err := warehouses.NewService(warehouses.ServiceParams{
		DB:     dbClient,
		Orders: dashboardService,
	})
	if err != nil {
		return err
	}

	if cfg.Cron.Enabled {
		scheduler, err := newScheduler(cfg, logg, redisClient, dashboardService)
		if err != nil {
			return err
		}
		// runs before the redis and db closes above
		wait := runInBackground(ctx, logg, "cron", scheduler)
		defer func() {
			stop()
			wait()
		}()
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, routes.Deps{
			DB:               dbClient,
			Redis:            redisClient,
			Sessions:         sessionManager,
			Idempotency:      redisClient,
			RateLimiter:      redisClient,
			Metrics:          prometheus.DefaultGatherer,
			AuthService:      authService,
			RegisterService:  registerService,
			UserService:      userService,
			AddressService:   addressService,
			WarehouseService: warehouseService,
			Dashboard:        dashboardService,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(ctx, "starting api server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logg.Info(ctx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	return multierr.Combine(
		server.Shutdown(shutdownCtx),
		dashboardService.Flush(shutdownCtx),
	)
}

type runner interface {
	Run(ctx context.Context) error
}

// runInBackground starts r and returns a func that blocks until r.Run has
// returned. r stops when ctx is cancelled.
func runInBackground(ctx context.Context, logg *logger.Logger, name string, r runner) func() {
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := r.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logg.Error(ctx, name+" stopped unexpectedly", err)
		}
	}()
	return func() { <-done }
}

func newScheduler(cfg *config.Config, logg *logger.Logger, client *redis.Client, svc *dashboard.Service) (*cron.Service, error) {
	flush, err := cron.NewSnapshotFlushJob(svc)
	if err != nil {
		return nil, err
	}
	report, err := cron.NewLowStockReportJob(svc, logg)
	if err != nil {
		return nil, err
	}
	registry, err := cron.NewRegistry(flush, report)
	if err != nil {
		return nil, err
	}
	lock, err := cron.NewRedisLock(client, client.LockKey(cfg.Cron.LockKey), cfg.Cron.LockTTL)
	if err != nil {
		return nil, err
	}
	return cron.NewService(cron.ServiceParams{
		Logger:     logg,
		Registry:   registry,
		Lock:       lock,
		Metrics:    metrics.NewCronJobMetrics(prometheus.DefaultRegisterer),
		Interval:   cfg.Cron.Interval,
		JobTimeout: cfg.Cron.JobTimeout,
	})
}
