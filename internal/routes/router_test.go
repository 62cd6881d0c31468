package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"

	"airplane-watch/sleepwatch/internal/api"
	"airplane-watch/sleepwatch/internal/config"
	"airplane-watch/sleepwatch/internal/metrics"
	"airplane-watch/sleepwatch/internal/providers"
)

type emptyGateway struct{}

func (emptyGateway) Execute(ctx context.Context, name, query string, params map[string]string) ([]providers.Row, error) {
	return []providers.Row{}, nil
}

func (emptyGateway) GetProviderType() string { return "empty" }

func (emptyGateway) Close() error { return nil }

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	cfg := &config.Config{
		AppEnv:  "production",
		Polling: config.PollingConfig{Interval: time.Hour, StaleAfter: 5 * time.Minute},
		HTTP:    config.HTTPConfig{RateLimitRPS: 0, RateLimitBurst: 1},
	}
	reg := prometheus.NewRegistry()
	deps := api.InitDependencies(cfg, emptyGateway{}, nil, metrics.NewMetricsRegistry(reg))
	t.Cleanup(deps.Workers.Feeds.Stop)

	return RegisterRoutes(cfg, deps, RouterOptions{
		UpSince:      time.Now(),
		Gatherer:     reg,
		HealthChecks: map[string]api.Pinger{},
	})
}

func TestRouter_Routes(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{"/healthCheck", "/dashboard", "/feeds", "/feeds/alerts", "/metrics"} {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rr.Code, path)
	}

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/pireps", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRouter_QueryRoutesAreRateLimited(t *testing.T) {
	router := newTestRouter(t)

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/scores", nil)
		req.RemoteAddr = "203.0.113.7:4000"
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		return rr
	}

	first := send()
	assert.Equal(t, http.StatusOK, first.Code)
	assert.JSONEq(t, `{"scores":[]}`, first.Body.String())
	assert.NotEmpty(t, first.Header().Get("X-Request-ID"))

	assert.Equal(t, http.StatusTooManyRequests, send().Code)
}
