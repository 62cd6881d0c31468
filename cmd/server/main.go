package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"airplane-watch/sleepwatch/internal/api"
	"airplane-watch/sleepwatch/internal/common"
	"airplane-watch/sleepwatch/internal/config"
	"airplane-watch/sleepwatch/internal/logging"
	"airplane-watch/sleepwatch/internal/metrics"
	"airplane-watch/sleepwatch/internal/providers"
	"airplane-watch/sleepwatch/internal/routes"
	"airplane-watch/sleepwatch/internal/workers"
)

const shutdownTimeout = 10 * time.Second

// @title Airplane Sleep Watch API
// @version 1.0
// @description Geopolitical risk telemetry derived from aircraft movement.
// @host localhost:8080
// @BasePath /
func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	if err := logging.Init(cfg.AppEnv); err != nil {
		log.Fatalf("❌ Failed to initialize logger: %v", err)
	}
	defer logging.Close()

	logging.Info("Sleepwatch starting up",
		"environment", cfg.AppEnv,
		"timestamp", time.Now().Format(time.RFC3339),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metricsReg := metrics.NewMetricsRegistry(prometheus.DefaultRegisterer)

	gateway := openGateway(ctx, cfg, metricsReg)
	defer gateway.Close()

	healthChecks := map[string]api.Pinger{}

	cache, redisCache := openCache(cfg)
	defer cache.Close()
	if redisCache != nil {
		healthChecks["redis"] = redisCache
	}

	deps := api.InitDependencies(cfg, gateway, cache, metricsReg)
	healthChecks["clickhouse"] = deps.Services.Telemetry

	deps.Workers.Feeds.Start(ctx)
	defer deps.Workers.Feeds.Stop()
	go deps.Workers.Monitor.Start(ctx, cfg.Polling.MonitorInterval)

	if cfg.NATS.URL != "" {
		nc, err := workers.ConnectNATS(cfg.NATS.URL)
		if err != nil {
			logging.Warn("Snapshot bridge disabled", "url", cfg.NATS.URL, "error", err)
		} else {
			defer nc.Drain()
			bridge := workers.NewSnapshotBridge(nc, cfg.NATS.SubjectPrefix, deps.Workers.Feeds.Handles())
			go bridge.Run(ctx)
		}
	}

	upSince := time.Now()
	router := routes.RegisterRoutes(cfg, deps, routes.RouterOptions{
		UpSince:      upSince,
		HealthChecks: healthChecks,
	})
	logging.Info("Prometheus metrics endpoint registered at /metrics")

	// Request contexts derive from baseCtx so open event streams end when
	// shutdown begins.
	baseCtx, cancelRequests := context.WithCancel(context.Background())
	defer cancelRequests()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return baseCtx },
	}
	srv.RegisterOnShutdown(cancelRequests)

	serveErr := make(chan error, 1)
	go func() {
		logging.Info("Server starting",
			"port", cfg.Port,
			"environment", cfg.AppEnv,
			"gateway", gateway.GetProviderType(),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		logging.Info("Shutdown signal received")
	case err := <-serveErr:
		if err != nil {
			logging.Error("Server failed", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error("Server shutdown did not complete", "error", err)
	}
	logging.Info("Server stopped")
}

// openGateway builds the query gateway for the configured protocol. An
// unreachable service is only logged; the pollers keep retrying.
func openGateway(ctx context.Context, cfg *config.Config, m *metrics.MetricsRegistry) providers.QueryGateway {
	if cfg.Query.Protocol != "native" {
		logging.Info("Using ClickHouse HTTP gateway", "url", cfg.Query.BaseURL, "database", cfg.Query.Database)
		gw := providers.NewClickHouseHTTPProvider(cfg.Query.BaseURL, cfg.Query.Database, cfg.Query.Timeout, m)
		if !cfg.IsProduction() {
			gw.Client.Transport = common.NewDumpTransport(nil)
		}
		return gw
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.Query.Timeout)
	defer cancel()

	native, err := providers.OpenClickHouseNative(pingCtx, providers.NativeConfig{
		Addr:     cfg.Query.NativeAddr,
		Database: cfg.Query.Database,
		User:     cfg.Query.User,
		Password: cfg.Query.Password,
		Timeout:  cfg.Query.Timeout,
	}, m)
	if native == nil {
		log.Fatalf("❌ Failed to open ClickHouse native connection: %v", err)
	}
	if err != nil {
		logging.Warn("ClickHouse not reachable at startup", "addr", cfg.Query.NativeAddr, "error", err)
	} else {
		logging.Info("Connected to ClickHouse (native)", "addr", cfg.Query.NativeAddr)
	}
	return native
}

// openCache returns the history response cache. The Redis service is
// also returned so the health check can ping it.
func openCache(cfg *config.Config) (common.CacheInterface, *common.RedisCacheService) {
	if cfg.Cache.Backend == "redis" {
		redisCache := common.NewRedisCacheService(common.NewRedisClient(cfg.Cache))
		return redisCache, redisCache
	}
	logging.Info("Using in-memory response cache", "history_ttl", cfg.Cache.HistoryTTL)
	return common.NewCacheService(cfg.Cache.HistoryTTL, 10*time.Minute), nil
}
