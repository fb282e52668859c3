package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"

	"github.com/celsoprodesp/Antigravity/internal/app"
	"github.com/celsoprodesp/Antigravity/internal/handlers"
	"github.com/celsoprodesp/Antigravity/internal/infrastructure/cache"
	"github.com/celsoprodesp/Antigravity/internal/infrastructure/config"
	"github.com/celsoprodesp/Antigravity/internal/infrastructure/database"
	"github.com/celsoprodesp/Antigravity/internal/infrastructure/logging"
	"github.com/celsoprodesp/Antigravity/internal/infrastructure/metrics"
	"github.com/celsoprodesp/Antigravity/internal/repositories"
	"github.com/celsoprodesp/Antigravity/internal/repositories/cached"
	"github.com/celsoprodesp/Antigravity/internal/repositories/postgres"
	"github.com/celsoprodesp/Antigravity/internal/services/access"
	pkgcache "github.com/celsoprodesp/Antigravity/pkg/cache"
	"github.com/celsoprodesp/Antigravity/pkg/cache/lrucache"
	"github.com/celsoprodesp/Antigravity/pkg/cache/rediscache"
)

const (
	defaultEnv            = "dev"
	metricsUpdateInterval = 15 * time.Second
	shutdownTimeout       = 30 * time.Second
)

func main() {
	env := os.Getenv("ENV")
	if env == "" {
		env = defaultEnv
	}

	if err := config.InitConfig(env); err != nil {
		logrus.Fatalf("Failed to initialize config: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		logrus.Fatalf("Failed to build logger: %v", err)
	}

	if err := run(cfg, logger); err != nil {
		logger.WithError(err).Fatal("server stopped")
	}
}

func run(cfg *config.Config, logger *logrus.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pg, err := database.NewPostgres(ctx, &cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pg.Close()

	logger.WithFields(logrus.Fields{
		"user":     cfg.Database.User,
		"host":     cfg.Database.Host,
		"port":     cfg.Database.Port,
		"database": cfg.Database.Database,
	}).Info("connected to database")

	if os.Getenv("RUN_MIGRATIONS") == "true" {
		path, err := config.MigrationsPath()
		if err != nil {
			return err
		}
		if err := pg.RunMigrations(path); err != nil {
			return err
		}
		logger.Info("migrations applied")
	}

	collector := metrics.NewCollector()
	exporter := metrics.NewPrometheusExporter(collector, prometheus.DefaultRegisterer)
	recorder := metrics.NewAccessRecorder(collector, exporter)

	// Repositories
	var permissions repositories.PermissionRepository = postgres.NewPostgresPermissionRepository(pg.DB)
	var invalidator app.CacheInvalidator
	if cfg.Cache.Enabled {
		c, err := newCache(ctx, cfg.Cache)
		if err != nil {
			return err
		}
		defer c.Close()
		collector.SetCache(c)

		cachedPermissions := cached.NewPermissionRepository(permissions, c, time.Duration(cfg.Cache.TTLMinutes)*time.Minute, logger)
		permissions = cachedPermissions
		invalidator = cachedPermissions
		logger.WithField("backend", cfg.Cache.Backend).Info("permission cache enabled")
	}

	records := access.NewRecordStore(permissions)
	if err := records.LoadAll(ctx); err != nil {
		return err
	}

	permSync := app.NewPermissionSync(invalidator, records, logger)
	listener := cache.NewChangeListener(cfg.Database.ConnectionString(), permSync, logger)
	if err := listener.Start(ctx); err != nil {
		return fmt.Errorf("failed to start change listener: %w", err)
	}
	defer listener.Stop()

	handler := handlers.NewAccessHandler(records, permissions, logger, recorder)

	grpcServer := grpc.NewServer(
		grpc.UnaryInterceptor(metrics.UnaryServerInterceptor(collector, exporter, logger)),
	)
	handlers.RegisterAccessServiceServer(grpcServer, handler)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := pg.HealthCheck(r.Context()); err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	metricsServer := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.MetricsPort),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErrors := make(chan error, 2)
	go func() {
		logger.WithField("addr", addr).Info("gRPC server listening")
		if err := grpcServer.Serve(lis); err != nil {
			serverErrors <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()
	go func() {
		logger.WithField("addr", metricsServer.Addr).Info("metrics server listening")
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- fmt.Errorf("metrics server error: %w", err)
		}
	}()
	go func() {
		ticker := time.NewTicker(metricsUpdateInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				exporter.Update()
			}
		}
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		logger.Info("initiating graceful shutdown")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	stopped := make(chan struct{})
	go func() {
		grpcServer.GracefulStop()
		close(stopped)
	}()

	select {
	case <-stopped:
		logger.Info("gRPC server stopped gracefully")
	case <-shutdownCtx.Done():
		logger.Warn("shutdown timeout exceeded, forcing stop")
		grpcServer.Stop()
	}

	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Warn("metrics server shutdown")
	}

	logger.Info("shutdown complete")
	return nil
}

func newCache(ctx context.Context, cfg config.CacheConfig) (pkgcache.Cache, error) {
	switch cfg.Backend {
	case config.CacheBackendRedis:
		c, err := rediscache.New(ctx, &rediscache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return c, nil
	default:
		return lrucache.New(&lrucache.Config{
			MaxEntries: cfg.MaxEntries,
			DefaultTTL: time.Duration(cfg.TTLMinutes) * time.Minute,
		}), nil
	}
}
