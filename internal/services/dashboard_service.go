package services

import (
	"time"

	"airplane-watch/sleepwatch/internal/models/entities"
	"airplane-watch/sleepwatch/internal/projection"
	"airplane-watch/sleepwatch/internal/reconcile"
	"airplane-watch/sleepwatch/internal/severity"
	"airplane-watch/sleepwatch/internal/workers"
)

// ScoreCard is a reconciled region score with its display band.
type ScoreCard struct {
	entities.ScoreRecord
	Level severity.Level `json:"level"`
}

// AlertView is an alert with its icon.
type AlertView struct {
	entities.AlertRecord
	Icon string `json:"icon"`
}

// StatsCard is the stats aggregate with its connection status.
type StatsCard struct {
	entities.StatsSnapshot
	Freshness severity.Freshness `json:"freshness"`
	Status    string             `json:"status"`
	PeakHigh  bool               `json:"peak_high"`
}

// DashboardView is everything the dashboard renders, composed from the
// latest feed snapshots. Feeds that have not published yet contribute
// empty values.
type DashboardView struct {
	GeneratedAt time.Time   `json:"generated_at"`
	Global      *ScoreCard  `json:"global"`
	Regions     []ScoreCard `json:"regions"`
	Alerts      []AlertView `json:"alerts"`
	// RegionAlerts holds the newest alert of each region.
	RegionAlerts []AlertView             `json:"region_alerts"`
	Markers      []projection.Marker      `json:"markers"`
	Active       []projection.ActiveEntry `json:"active"`
	Stats        *StatsCard               `json:"stats"`
	Trend        []projection.SeriesPoint `json:"trend"`
	Feeds        []workers.FeedHealth     `json:"feeds"`
}

// DashboardService composes DashboardView from the feeds.
type DashboardService struct {
	Feeds      *workers.Feeds
	Monitor    *workers.FeedMonitor
	StaleAfter time.Duration
	now        func() time.Time
}

func NewDashboardService(feeds *workers.Feeds, monitor *workers.FeedMonitor, staleAfter time.Duration) *DashboardService {
	if staleAfter <= 0 {
		staleAfter = severity.DefaultStaleAfter
	}
	return &DashboardService{
		Feeds:      feeds,
		Monitor:    monitor,
		StaleAfter: staleAfter,
		now:        time.Now,
	}
}

// Compose reads every feed once and builds the view.
func (svc *DashboardService) Compose() DashboardView {
	now := svc.now().UTC()
	view := DashboardView{
		GeneratedAt:  now,
		Regions:      []ScoreCard{},
		Alerts:       []AlertView{},
		RegionAlerts: []AlertView{},
		Markers:      []projection.Marker{},
		Active:       []projection.ActiveEntry{},
		Trend:        []projection.SeriesPoint{},
		Feeds:        []workers.FeedHealth{},
	}

	if snap := svc.Feeds.Scores.Feed().Snapshot(); snap.Ready {
		view.Global, view.Regions = scoreCards(snap.Value)
	}

	if snap := svc.Feeds.Alerts.Feed().Snapshot(); snap.Ready {
		view.Alerts = alertViews(snap.Value)
		view.RegionAlerts = alertViews(reconcile.ReconcileAlerts(snap.Value))
	}

	if snap := svc.Feeds.Aircraft.Feed().Snapshot(); snap.Ready {
		view.Markers = projection.ProjectMarkers(snap.Value)
	}

	if snap := svc.Feeds.Active.Feed().Snapshot(); snap.Ready {
		view.Active = projection.ProjectActive(snap.Value)
	}

	if snap := svc.Feeds.Stats.Feed().Snapshot(); snap.Ready {
		view.Stats = svc.statsCard(snap.Value, now)
	}

	if snap := svc.Feeds.History.Feed().Snapshot(); snap.Ready {
		view.Trend = projection.ProjectSeries(snap.Value)
	}

	if svc.Monitor != nil {
		view.Feeds = svc.Monitor.Health()
	}
	return view
}

func alertViews(alerts []entities.AlertRecord) []AlertView {
	out := make([]AlertView, len(alerts))
	for i, a := range alerts {
		out[i] = AlertView{
			AlertRecord: a,
			Icon:        severity.AlertIcon(severity.AlertType(a.Type)),
		}
	}
	return out
}

func scoreCards(board *reconcile.Board) (*ScoreCard, []ScoreCard) {
	var global *ScoreCard
	if g, ok := board.Global(); ok {
		global = &ScoreCard{ScoreRecord: g, Level: severity.ScoreLevel(g.OverallPanicScore)}
	}

	regional := board.Regional()
	cards := make([]ScoreCard, len(regional))
	for i, r := range regional {
		cards[i] = ScoreCard{ScoreRecord: r, Level: severity.ScoreLevel(r.OverallPanicScore)}
	}
	return global, cards
}

func (svc *DashboardService) statsCard(stats entities.StatsSnapshot, now time.Time) *StatsCard {
	freshness := severity.StalenessWithin(stats.LastUpdate, now, svc.StaleAfter)
	return &StatsCard{
		StatsSnapshot: stats,
		Freshness:     freshness,
		Status:        severity.ConnectionStatus(freshness),
		PeakHigh:      severity.IsPeakHigh(stats.PeakScoreToday),
	}
}
