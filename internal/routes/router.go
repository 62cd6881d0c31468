package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"airplane-watch/sleepwatch/internal/api"
	"airplane-watch/sleepwatch/internal/config"
	"airplane-watch/sleepwatch/internal/constants"
	"airplane-watch/sleepwatch/internal/logging"
	"airplane-watch/sleepwatch/internal/middleware"
)

// RouterOptions carries what the router needs beyond the dependencies.
type RouterOptions struct {
	UpSince time.Time
	// Gatherer backs /metrics. Nil serves the default registry.
	Gatherer prometheus.Gatherer
	// HealthChecks are probed by /healthCheck, keyed by service name.
	HealthChecks map[string]api.Pinger
}

func RegisterRoutes(cfg *config.Config, deps *api.Dependencies, opts RouterOptions) http.Handler {

	// initialize Chi router
	r := chi.NewRouter()

	// global middleware
	r.Use(middleware.RequestIDMiddleware)
	if !cfg.IsProduction() {
		r.Use(middleware.Logging)
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", constants.FallbackHeader},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	gatherer := opts.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	handlers := api.NewHandlers(deps)
	limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRPS, cfg.HTTP.RateLimitBurst)

	r.Group(func(public chi.Router) {
		if deps.Metrics != nil {
			public.Use(middleware.MetricsMiddleware(deps.Metrics))
		}

		public.Get("/healthCheck", api.HealthCheckHandler(opts.HealthChecks, opts.UpSince))

		// Each of these runs a query per request, so they are rate limited.
		public.Group(func(q chi.Router) {
			q.Use(limiter.Middleware)
			q.Get("/aircraft", handlers.Aircraft())
			q.Get("/aircraft/active", handlers.ActiveAircraft())
			q.Get("/scores", handlers.Scores())
			q.Get("/alerts", handlers.Alerts())
			q.Get("/history", handlers.History())
			q.Get("/stats", handlers.Stats())
		})

		// Served from the poller snapshots.
		public.Get("/dashboard", handlers.Dashboard())
		public.Get("/dashboard/stream", handlers.DashboardStream())
		public.Get("/feeds", handlers.Feeds())
		public.Get("/feeds/{feed}", handlers.FeedSnapshot())
	})

	logging.Info("Router initialized with metrics and logging middleware")
	return r
}
