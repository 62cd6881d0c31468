package workers

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"airplane-watch/sleepwatch/internal/constants"
	"airplane-watch/sleepwatch/internal/metrics"
	"airplane-watch/sleepwatch/internal/models/entities"
	"airplane-watch/sleepwatch/internal/reconcile"
	"airplane-watch/sleepwatch/internal/severity"
)

// Source is where the feeds get their data. The server polls the query
// service through the telemetry service; the watch CLI polls the server's
// HTTP API.
type Source interface {
	Aircraft(ctx context.Context) ([]entities.AircraftPosition, error)
	ActiveAircraft(ctx context.Context) ([]entities.ActiveAircraft, error)
	Scores(ctx context.Context) ([]entities.ScoreRecord, error)
	Alerts(ctx context.Context) ([]entities.AlertRecord, error)
	Stats(ctx context.Context) (entities.StatsSnapshot, error)
	History(ctx context.Context, region string, days int) ([]entities.HistoryPoint, error)
}

// FreshHistorySource is implemented by sources that keep a response cache
// in front of History. The history feed then bypasses that cache so every
// poll is a real round trip.
type FreshHistorySource interface {
	HistoryFresh(ctx context.Context, region string, days int) ([]entities.HistoryPoint, error)
}

// FeedsConfig configures every poller in a Feeds container.
type FeedsConfig struct {
	Interval      time.Duration
	FetchTimeout  time.Duration
	HistoryRegion string
	HistoryDays   int
	Metrics       *metrics.MetricsRegistry
}

// Feeds holds the six independent feed pollers.
type Feeds struct {
	Aircraft *Poller[[]entities.AircraftPosition]
	Active   *Poller[[]entities.ActiveAircraft]
	Scores   *Poller[*reconcile.Board]
	Alerts   *Poller[[]entities.AlertRecord]
	Stats    *Poller[entities.StatsSnapshot]
	History  *Poller[[]entities.HistoryPoint]
}

// NewFeeds wires one poller per feed against src. Nothing runs until
// Start.
func NewFeeds(src Source, cfg FeedsConfig) *Feeds {
	region := cfg.HistoryRegion
	if region == "" {
		region = constants.GlobalRegion
	}
	days := cfg.HistoryDays
	if days <= 0 {
		days = constants.DefaultHistoryDays
	}
	history := src.History
	if fresh, ok := src.(FreshHistorySource); ok {
		history = fresh.HistoryFresh
	}

	return &Feeds{
		Aircraft: NewPoller(string(constants.FeedAircraft), cfg.Interval, src.Aircraft,
			WithMetrics[[]entities.AircraftPosition](cfg.Metrics),
			WithFetchTimeout[[]entities.AircraftPosition](cfg.FetchTimeout)),
		Active: NewPoller(string(constants.FeedActive), cfg.Interval, src.ActiveAircraft,
			WithMetrics[[]entities.ActiveAircraft](cfg.Metrics),
			WithFetchTimeout[[]entities.ActiveAircraft](cfg.FetchTimeout)),
		Scores: NewPoller(string(constants.FeedScores), cfg.Interval,
			func(ctx context.Context) (*reconcile.Board, error) {
				rows, err := src.Scores(ctx)
				if err != nil {
					return nil, err
				}
				return reconcile.Reconcile(rows), nil
			},
			WithMetrics[*reconcile.Board](cfg.Metrics),
			WithFetchTimeout[*reconcile.Board](cfg.FetchTimeout)),
		Alerts: NewPoller(string(constants.FeedAlerts), cfg.Interval, src.Alerts,
			WithTransform(classifyAlerts),
			WithMetrics[[]entities.AlertRecord](cfg.Metrics),
			WithFetchTimeout[[]entities.AlertRecord](cfg.FetchTimeout)),
		Stats: NewPoller(string(constants.FeedStats), cfg.Interval, src.Stats,
			WithMetrics[entities.StatsSnapshot](cfg.Metrics),
			WithFetchTimeout[entities.StatsSnapshot](cfg.FetchTimeout)),
		History: NewPoller(string(constants.FeedHistory), cfg.Interval,
			func(ctx context.Context) ([]entities.HistoryPoint, error) {
				return history(ctx, region, days)
			},
			WithMetrics[[]entities.HistoryPoint](cfg.Metrics),
			WithFetchTimeout[[]entities.HistoryPoint](cfg.FetchTimeout)),
	}
}

// classifyAlerts copies the batch and derives each tier locally so a
// remote source's labels are never trusted.
func classifyAlerts(alerts []entities.AlertRecord) []entities.AlertRecord {
	out := make([]entities.AlertRecord, len(alerts))
	for i, a := range alerts {
		a.Type = string(severity.ClassifyAlert(a.Score))
		out[i] = a
	}
	return out
}

// Start launches every poller.
func (f *Feeds) Start(ctx context.Context) {
	f.Aircraft.Start(ctx)
	f.Active.Start(ctx)
	f.Scores.Start(ctx)
	f.Alerts.Start(ctx)
	f.Stats.Start(ctx)
	f.History.Start(ctx)
}

// Stop stops every poller in parallel and waits for all of them.
func (f *Feeds) Stop() {
	var g errgroup.Group
	for _, stop := range []func(){
		f.Aircraft.Stop, f.Active.Stop, f.Scores.Stop,
		f.Alerts.Stop, f.Stats.Stop, f.History.Stop,
	} {
		stop := stop
		g.Go(func() error {
			stop()
			return nil
		})
	}
	_ = g.Wait()
}

// Handles returns the type-erased feeds in constants.AllFeeds order.
func (f *Feeds) Handles() []FeedHandle {
	byName := map[constants.FeedName]FeedHandle{
		constants.FeedAircraft: f.Aircraft.Feed(),
		constants.FeedActive:   f.Active.Feed(),
		constants.FeedScores:   f.Scores.Feed(),
		constants.FeedAlerts:   f.Alerts.Feed(),
		constants.FeedStats:    f.Stats.Feed(),
		constants.FeedHistory:  f.History.Feed(),
	}
	out := make([]FeedHandle, 0, len(constants.AllFeeds))
	for _, name := range constants.AllFeeds {
		out = append(out, byName[name])
	}
	return out
}

// Handle looks a feed up by name.
func (f *Feeds) Handle(name string) (FeedHandle, bool) {
	for _, h := range f.Handles() {
		if h.Name() == name {
			return h, true
		}
	}
	return nil, false
}

// Statuses returns the status of every feed.
func (f *Feeds) Statuses() []FeedStatus {
	handles := f.Handles()
	out := make([]FeedStatus, len(handles))
	for i, h := range handles {
		out[i] = h.Status()
	}
	return out
}

// Changes merges the change notifications of every feed into one
// coalescing channel. The returned func releases all subscriptions.
func (f *Feeds) Changes() (<-chan struct{}, func()) {
	out := make(chan struct{}, 1)
	done := make(chan struct{})
	handles := f.Handles()
	stops := make([]func(), 0, len(handles))

	for _, h := range handles {
		ch, unsubscribe := h.Changes()
		stops = append(stops, unsubscribe)
		go func(ch <-chan struct{}) {
			for {
				select {
				case <-done:
					return
				case _, ok := <-ch:
					if !ok {
						return
					}
					select {
					case out <- struct{}{}:
					default:
					}
				}
			}
		}(ch)
	}

	var once sync.Once
	return out, func() {
		once.Do(func() {
			close(done)
			for _, stop := range stops {
				stop()
			}
		})
	}
}
