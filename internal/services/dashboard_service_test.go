package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airplane-watch/sleepwatch/internal/constants"
	"airplane-watch/sleepwatch/internal/models/entities"
	"airplane-watch/sleepwatch/internal/projection"
	"airplane-watch/sleepwatch/internal/providers"
	"airplane-watch/sleepwatch/internal/severity"
	"airplane-watch/sleepwatch/internal/workers"
)

func seededGateway(lastUpdate string) *fakeGateway {
	gw := newFakeGateway()
	gw.results[constants.QueryNameAircraft] = []providers.Row{
		{"icao_hex": "3c4b26", "lat": 50.0, "lon": 8.0, "is_vip": false, "last_update": "2026-03-01 12:00:00"},
		{"icao_hex": "ae01ce", "callsign": "SAM28000", "lat": 38.8, "lon": -77.0, "is_vip": true, "vip_tier": 1.0, "heading": 45.0, "last_update": "2026-03-01 12:00:00"},
	}
	gw.results[constants.QueryNameActiveAircraft] = []providers.Row{
		{"icao_hex": "ae01ce", "is_vip": true, "vip_tier": 1.0, "last_seen": "2026-03-01 12:00:00"},
	}
	gw.results[constants.QueryNameScores] = []providers.Row{
		{"region": "Global", "overall_panic_score": 82.0, "timestamp": "2026-03-01 12:00:00"},
		{"region": "EU", "overall_panic_score": 63.0, "timestamp": "2026-03-01 12:00:00"},
		{"region": "EU", "overall_panic_score": 41.0, "timestamp": "2026-03-01 11:00:00"},
	}
	gw.results[constants.QueryNameAlerts] = []providers.Row{
		{"region": "Global", "score": 82.0, "timestamp": "2026-03-01 12:00:00"},
		{"region": "EU", "score": 63.0, "timestamp": "2026-03-01 12:00:00"},
		{"region": "EU", "score": 41.0, "timestamp": "2026-03-01 11:00:00"},
	}
	gw.results[constants.QueryNameHistory] = []providers.Row{
		{"timestamp": "2026-02-28 12:00:00", "score": 50.0},
		{"timestamp": "2026-03-01 12:00:00", "score": 82.0},
	}
	gw.results[constants.QueryNameStatsCurrent] = []providers.Row{
		{"active_aircraft": "2", "countries_active": "2", "last_update": lastUpdate},
	}
	gw.results[constants.QueryNameStatsPeak] = []providers.Row{{"peak_score": 82.0, "peak_region": "Global"}}
	return gw
}

func startedFeeds(t *testing.T, gw *fakeGateway) *workers.Feeds {
	t.Helper()
	svc := NewTelemetryService(gw, nil, 0, nil)
	feeds := workers.NewFeeds(svc, workers.FeedsConfig{Interval: time.Hour})
	feeds.Start(context.Background())
	t.Cleanup(feeds.Stop)

	require.Eventually(t, func() bool {
		for _, st := range feeds.Statuses() {
			if !st.Ready {
				return false
			}
		}
		return true
	}, 2*time.Second, 5*time.Millisecond)
	return feeds
}

func TestDashboardService_Compose(t *testing.T) {
	feeds := startedFeeds(t, seededGateway("2026-03-01 12:00:00"))
	monitor := workers.NewFeedMonitor(feeds.Handles(), 5*time.Minute, nil)
	dash := NewDashboardService(feeds, monitor, 5*time.Minute)
	dash.now = func() time.Time { return time.Date(2026, 3, 1, 12, 4, 59, 0, time.UTC) }

	view := dash.Compose()

	require.NotNil(t, view.Global)
	assert.Equal(t, 82.0, view.Global.OverallPanicScore)
	assert.Equal(t, severity.LevelCritical, view.Global.Level)
	require.Len(t, view.Regions, 1)
	assert.Equal(t, "EU", view.Regions[0].Region)
	assert.Equal(t, 63.0, view.Regions[0].OverallPanicScore)
	assert.Equal(t, severity.LevelHigh, view.Regions[0].Level)

	require.Len(t, view.Alerts, 3)
	assert.Equal(t, "extreme", view.Alerts[0].Type)
	assert.Equal(t, "⚡", view.Alerts[0].Icon)
	assert.Equal(t, "high", view.Alerts[1].Type)
	assert.Equal(t, "elevated", view.Alerts[2].Type)

	require.Len(t, view.RegionAlerts, 2)
	assert.Equal(t, "Global", view.RegionAlerts[0].Region)
	assert.Equal(t, "extreme", view.RegionAlerts[0].Type)
	assert.Equal(t, "EU", view.RegionAlerts[1].Region)
	assert.Equal(t, 63.0, view.RegionAlerts[1].Score)
	assert.Equal(t, "high", view.RegionAlerts[1].Type)

	require.Len(t, view.Markers, 2)
	assert.Equal(t, projection.ClassCritical, view.Markers[0].Class)
	assert.Equal(t, 45.0, view.Markers[0].Rotation)
	assert.Equal(t, projection.ClassStandard, view.Markers[1].Class)

	require.Len(t, view.Active, 1)
	assert.Equal(t, "VIP TIER 1", view.Active[0].Badge)

	require.NotNil(t, view.Stats)
	assert.Equal(t, severity.Fresh, view.Stats.Freshness)
	assert.Equal(t, "SYSTEM ONLINE", view.Stats.Status)
	assert.True(t, view.Stats.PeakHigh)
	assert.Equal(t, int64(0), view.Stats.TotalProfiles)

	require.Len(t, view.Trend, 2)
	assert.Equal(t, "03/01", view.Trend[1].Tick)
	assert.Len(t, view.Feeds, 6)
}

func TestDashboardService_StaleStats(t *testing.T) {
	feeds := startedFeeds(t, seededGateway(""))
	dash := NewDashboardService(feeds, nil, 0)

	view := dash.Compose()

	require.NotNil(t, view.Stats)
	assert.Nil(t, view.Stats.LastUpdate)
	assert.Equal(t, severity.Stale, view.Stats.Freshness)
	assert.Equal(t, "CONNECTION UNSTABLE", view.Stats.Status)
	assert.Empty(t, view.Feeds)
}

func TestDashboardService_EmptyBeforeFirstPoll(t *testing.T) {
	svc := NewTelemetryService(newFakeGateway(), nil, 0, nil)
	feeds := workers.NewFeeds(svc, workers.FeedsConfig{Interval: time.Hour})
	defer feeds.Stop()

	view := NewDashboardService(feeds, nil, 0).Compose()

	assert.Nil(t, view.Global)
	assert.Nil(t, view.Stats)
	assert.NotNil(t, view.Regions)
	assert.NotNil(t, view.RegionAlerts)
	assert.Empty(t, view.Markers)
	assert.Empty(t, view.Trend)
}

func TestDashboardService_ComposeLeavesSnapshotsUntouched(t *testing.T) {
	feeds := startedFeeds(t, seededGateway("2026-03-01 12:00:00"))
	dash := NewDashboardService(feeds, nil, 5*time.Minute)

	aircraftBefore := append([]entities.AircraftPosition(nil), feeds.Aircraft.Feed().Snapshot().Value...)
	alertsBefore := append([]entities.AlertRecord(nil), feeds.Alerts.Feed().Snapshot().Value...)

	view := dash.Compose()
	require.Len(t, view.Markers, 2)
	view.Alerts[0].Region = "changed"

	assert.Equal(t, aircraftBefore, feeds.Aircraft.Feed().Snapshot().Value)
	assert.Equal(t, alertsBefore, feeds.Alerts.Feed().Snapshot().Value)
	assert.Equal(t, "3c4b26", feeds.Aircraft.Feed().Snapshot().Value[0].ICAOHex)
}
