package api

import (
	"airplane-watch/sleepwatch/internal/common"
	"airplane-watch/sleepwatch/internal/config"
	"airplane-watch/sleepwatch/internal/metrics"
	"airplane-watch/sleepwatch/internal/providers"
	"airplane-watch/sleepwatch/internal/services"
	"airplane-watch/sleepwatch/internal/workers"
)

type Services struct {
	Telemetry *services.TelemetryService
	Dashboard *services.DashboardService
	Cache     common.CacheInterface
}

type Workers struct {
	Feeds   *workers.Feeds
	Monitor *workers.FeedMonitor
}

type Dependencies struct {
	Gateway  providers.QueryGateway
	Services *Services
	Workers  *Workers
	Metrics  *metrics.MetricsRegistry
}

// InitDependencies wires the services and feed pollers around an opened
// gateway and cache. Nothing is started here.
func InitDependencies(cfg *config.Config, gateway providers.QueryGateway, cache common.CacheInterface, m *metrics.MetricsRegistry) *Dependencies {
	telemetry := services.NewTelemetryService(gateway, cache, cfg.Cache.HistoryTTL, m)

	feeds := workers.NewFeeds(telemetry, workers.FeedsConfig{
		Interval:      cfg.Polling.Interval,
		FetchTimeout:  cfg.Query.Timeout,
		HistoryRegion: cfg.Polling.HistoryRegion,
		HistoryDays:   cfg.Polling.HistoryDays,
		Metrics:       m,
	})
	monitor := workers.NewFeedMonitor(feeds.Handles(), cfg.Polling.StaleAfter, m)

	return &Dependencies{
		Gateway: gateway,
		Services: &Services{
			Telemetry: telemetry,
			Dashboard: services.NewDashboardService(feeds, monitor, cfg.Polling.StaleAfter),
			Cache:     cache,
		},
		Workers: &Workers{
			Feeds:   feeds,
			Monitor: monitor,
		},
		Metrics: m,
	}
}
