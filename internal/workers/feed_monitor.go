package workers

import (
	"context"
	"time"

	"airplane-watch/sleepwatch/internal/logging"
	"airplane-watch/sleepwatch/internal/metrics"
	"airplane-watch/sleepwatch/internal/severity"
)

// FeedMonitor periodically logs feed health and exports staleness gauges.
type FeedMonitor struct {
	feeds      []FeedHandle
	staleAfter time.Duration
	metrics    *metrics.MetricsRegistry
	now        func() time.Time
}

// FeedHealth is one feed's status with its freshness verdict.
type FeedHealth struct {
	FeedStatus
	Freshness  severity.Freshness `json:"freshness"`
	AgeSeconds float64            `json:"age_seconds"`
}

// NewFeedMonitor creates a monitor over feeds.
func NewFeedMonitor(feeds []FeedHandle, staleAfter time.Duration, m *metrics.MetricsRegistry) *FeedMonitor {
	if staleAfter <= 0 {
		staleAfter = severity.DefaultStaleAfter
	}
	return &FeedMonitor{
		feeds:      feeds,
		staleAfter: staleAfter,
		metrics:    m,
		now:        time.Now,
	}
}

// Start checks immediately and then every interval until ctx ends.
func (m *FeedMonitor) Start(ctx context.Context, interval time.Duration) {
	logging.Info("Starting feed monitoring", "interval", interval, "stale_after", m.staleAfter)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	m.checkFeeds()

	for {
		select {
		case <-ctx.Done():
			logging.Info("Feed monitor shutting down")
			return
		case <-ticker.C:
			m.checkFeeds()
		}
	}
}

// Health evaluates every feed against the staleness bound.
func (m *FeedMonitor) Health() []FeedHealth {
	now := m.now()
	out := make([]FeedHealth, 0, len(m.feeds))
	for _, feed := range m.feeds {
		st := feed.Status()
		h := FeedHealth{
			FeedStatus: st,
			Freshness:  severity.StalenessWithin(st.UpdatedAt, now, m.staleAfter),
		}
		if st.UpdatedAt != nil {
			h.AgeSeconds = now.Sub(*st.UpdatedAt).Seconds()
		}
		out = append(out, h)
	}
	return out
}

// checkFeeds logs each feed and updates the gauges.
func (m *FeedMonitor) checkFeeds() {
	health := m.Health()
	staleCount := 0

	for _, h := range health {
		if h.Freshness == severity.Stale {
			staleCount++
		}

		if m.metrics != nil {
			stale := 0.0
			if h.Freshness == severity.Stale {
				stale = 1
			}
			m.metrics.FeedStale.WithLabelValues(h.Name).Set(stale)
			if h.UpdatedAt != nil {
				m.metrics.FeedAgeSeconds.WithLabelValues(h.Name).Set(h.AgeSeconds)
			}
		}

		logging.Debug("Feed health",
			"feed", h.Name,
			"ready", h.Ready,
			"seq", h.Seq,
			"freshness", h.Freshness,
			"age_seconds", h.AgeSeconds,
			"consecutive_failures", h.ConsecutiveFailures,
			"discarded", h.Discarded,
			"last_error", h.LastError,
		)
	}

	if staleCount > 0 {
		logging.Warn("Feeds need attention", "stale", staleCount, "total", len(health))
	}
}
