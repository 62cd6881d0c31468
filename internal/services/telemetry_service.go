package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"airplane-watch/sleepwatch/internal/common"
	"airplane-watch/sleepwatch/internal/constants"
	"airplane-watch/sleepwatch/internal/logging"
	"airplane-watch/sleepwatch/internal/metrics"
	"airplane-watch/sleepwatch/internal/models/entities"
	"airplane-watch/sleepwatch/internal/providers"
	"airplane-watch/sleepwatch/internal/severity"
)

// TelemetryService wraps the query gateway with one typed operation per
// feed. Each call issues its queries fresh; only History goes through the
// response cache.
type TelemetryService struct {
	Gateway    providers.QueryGateway
	Cache      common.CacheInterface
	HistoryTTL time.Duration
	Metrics    *metrics.MetricsRegistry
}

func NewTelemetryService(gateway providers.QueryGateway, cache common.CacheInterface, historyTTL time.Duration, m *metrics.MetricsRegistry) *TelemetryService {
	return &TelemetryService{
		Gateway:    gateway,
		Cache:      cache,
		HistoryTTL: historyTTL,
		Metrics:    m,
	}
}

// Aircraft returns up to 100 positions from the last 30 minutes, newest
// updated first.
func (svc *TelemetryService) Aircraft(ctx context.Context) ([]entities.AircraftPosition, error) {
	rows, err := svc.Gateway.Execute(ctx, constants.QueryNameAircraft, constants.GetRecentAircraft, nil)
	if err != nil {
		return nil, fmt.Errorf("query aircraft: %w", err)
	}
	return decodeRows(rows, decodeAircraft)
}

// ActiveAircraft returns up to 50 distinct aircraft seen in the last hour.
func (svc *TelemetryService) ActiveAircraft(ctx context.Context) ([]entities.ActiveAircraft, error) {
	rows, err := svc.Gateway.Execute(ctx, constants.QueryNameActiveAircraft, constants.GetActiveAircraft, nil)
	if err != nil {
		return nil, fmt.Errorf("query active aircraft: %w", err)
	}
	return decodeRows(rows, decodeActive)
}

// Scores returns the most recent score rows, newest first, before any
// reconciliation.
func (svc *TelemetryService) Scores(ctx context.Context) ([]entities.ScoreRecord, error) {
	rows, err := svc.Gateway.Execute(ctx, constants.QueryNameScores, constants.GetRecentScores, nil)
	if err != nil {
		return nil, fmt.Errorf("query scores: %w", err)
	}
	return decodeRows(rows, decodeScore)
}

// Alerts returns score rows at or above the alert floor with their tier
// attached.
func (svc *TelemetryService) Alerts(ctx context.Context) ([]entities.AlertRecord, error) {
	rows, err := svc.Gateway.Execute(ctx, constants.QueryNameAlerts, constants.GetRecentAlerts, nil)
	if err != nil {
		return nil, fmt.Errorf("query alerts: %w", err)
	}
	alerts, err := decodeRows(rows, decodeAlert)
	if err != nil {
		return nil, err
	}
	for i := range alerts {
		alerts[i].Type = string(severity.ClassifyAlert(alerts[i].Score))
	}
	return alerts, nil
}

// History returns up to 1000 ascending points for region. days is
// accepted for compatibility but the query windows by row count only.
// Results are served from the response cache when present.
func (svc *TelemetryService) History(ctx context.Context, region string, days int) ([]entities.HistoryPoint, error) {
	region = historyRegion(region)
	logging.Debug("History requested", "region", region, "days", days)

	key := string(constants.CachePrefixHistory) + region
	points, cached, err := common.GetOrLoad(svc.Cache, key, svc.HistoryTTL, func() ([]entities.HistoryPoint, error) {
		return svc.queryHistory(ctx, region)
	})
	if err != nil {
		return nil, err
	}
	svc.observeCache(string(constants.CachePrefixHistory), cached)
	return points, nil
}

// HistoryFresh always queries and then refreshes the cached copy that
// History serves. The history feed polls through it.
func (svc *TelemetryService) HistoryFresh(ctx context.Context, region string, days int) ([]entities.HistoryPoint, error) {
	region = historyRegion(region)
	points, err := svc.queryHistory(ctx, region)
	if err != nil {
		return nil, err
	}
	if svc.Cache != nil && svc.HistoryTTL > 0 {
		svc.Cache.Set(string(constants.CachePrefixHistory)+region, points, svc.HistoryTTL)
	}
	return points, nil
}

func (svc *TelemetryService) queryHistory(ctx context.Context, region string) ([]entities.HistoryPoint, error) {
	rows, err := svc.Gateway.Execute(ctx, constants.QueryNameHistory, constants.GetScoreHistory,
		map[string]string{"region": region})
	if err != nil {
		return nil, fmt.Errorf("query history for %s: %w", region, err)
	}
	return decodeRows(rows, decodeHistoryPoint)
}

func historyRegion(region string) string {
	if region = strings.TrimSpace(region); region == "" {
		return constants.GlobalRegion
	}
	return region
}

// Stats runs the four aggregate sub-queries concurrently and combines
// them. Any sub-query failure fails the whole snapshot; absent values
// default to zero, "N/A" and nil.
func (svc *TelemetryService) Stats(ctx context.Context) (entities.StatsSnapshot, error) {
	var current, peak, profiles, vip providers.Row

	g, gctx := errgroup.WithContext(ctx)
	first := func(name, query string, dest *providers.Row) func() error {
		return func() error {
			rows, err := svc.Gateway.Execute(gctx, name, query, nil)
			if err != nil {
				return fmt.Errorf("query %s: %w", name, err)
			}
			if len(rows) > 0 {
				*dest = rows[0]
			}
			return nil
		}
	}
	g.Go(first(constants.QueryNameStatsCurrent, constants.GetCurrentActivity, &current))
	g.Go(first(constants.QueryNameStatsPeak, constants.GetPeakScore, &peak))
	g.Go(first(constants.QueryNameStatsProfiles, constants.GetTotalProfiles, &profiles))
	g.Go(first(constants.QueryNameStatsVIP, constants.GetVIPCount, &vip))
	if err := g.Wait(); err != nil {
		return entities.StatsSnapshot{}, err
	}

	cr := newRowReader(current, 0)
	pr := newRowReader(peak, 0)
	tr := newRowReader(profiles, 0)
	vr := newRowReader(vip, 0)

	stats := entities.StatsSnapshot{
		ActiveAircraft:  cr.optInt("active_aircraft"),
		CountriesActive: cr.optInt("countries_active"),
		LastUpdate:      cr.optTime("last_update"),
		PeakScoreToday:  pr.optFloat("peak_score"),
		PeakRegion:      pr.optString("peak_region"),
		TotalProfiles:   tr.optInt("total_profiles"),
		VIPAircraft:     vr.optInt("vip_aircraft"),
	}
	for _, r := range []*rowReader{cr, pr, tr, vr} {
		if err := r.err(); err != nil {
			return entities.StatsSnapshot{}, err
		}
	}
	if strings.TrimSpace(stats.PeakRegion) == "" {
		stats.PeakRegion = constants.NoPeakRegion
	}
	return stats, nil
}

// Ping checks that the query service answers.
func (svc *TelemetryService) Ping(ctx context.Context) error {
	_, err := svc.Gateway.Execute(ctx, constants.QueryNamePing, constants.Ping, nil)
	return err
}

func (svc *TelemetryService) observeCache(pattern string, hit bool) {
	if svc.Metrics == nil || svc.Cache == nil || svc.HistoryTTL <= 0 {
		return
	}
	if hit {
		svc.Metrics.CacheHitsTotal.WithLabelValues(pattern).Inc()
	} else {
		svc.Metrics.CacheMissesTotal.WithLabelValues(pattern).Inc()
	}
}
