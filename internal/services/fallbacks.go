package services

import (
	"time"

	"airplane-watch/sleepwatch/internal/constants"
	"airplane-watch/sleepwatch/internal/models/entities"
	"airplane-watch/sleepwatch/internal/severity"
)

// Placeholder payloads served by /scores, /alerts and /stats when the
// query service is unavailable. Timestamps are relative to now.

// FallbackScores returns the single placeholder Global score row.
func FallbackScores(now time.Time) []entities.ScoreRecord {
	return []entities.ScoreRecord{
		{
			Region:            constants.GlobalRegion,
			OverallPanicScore: 28,
			NightFlightScore:  12.3,
			ConvergenceScore:  45.6,
			AirliftScore:      8.2,
			VIPMovementScore:  23.1,
			Narrative:         "⚠️ 🇺🇸 🇬🇧 🇫🇷 jets converging • 2 VIP aircraft active",
			FlightCount:       45,
			CountriesInvolved: 8,
			Timestamp:         now.UTC(),
		},
	}
}

// FallbackAlerts returns the three placeholder alerts.
func FallbackAlerts(now time.Time) []entities.AlertRecord {
	now = now.UTC()
	alerts := []entities.AlertRecord{
		{
			Region:            constants.GlobalRegion,
			Score:             67,
			Narrative:         "🚨 🇺🇸 🇬🇧 🇫🇷 🇩🇪 jets converging • 3 VIP aircraft active",
			FlightCount:       45,
			CountriesInvolved: 8,
			Timestamp:         now.Add(-15 * time.Minute),
		},
		{
			Region:            constants.GlobalRegion,
			Score:             52,
			Narrative:         "⚠️ 🇺🇸 🇬🇧 jets converging • 12 gov flights during night hours",
			FlightCount:       38,
			CountriesInvolved: 6,
			Timestamp:         now.Add(-2 * time.Hour),
		},
		{
			Region:            constants.GlobalRegion,
			Score:             45,
			Narrative:         "👀 2 VIP aircraft active • 3 cargo aircraft in operation",
			FlightCount:       28,
			CountriesInvolved: 5,
			Timestamp:         now.Add(-6 * time.Hour),
		},
	}
	for i := range alerts {
		alerts[i].Type = string(severity.ClassifyAlert(alerts[i].Score))
	}
	return alerts
}

// FallbackStats returns the placeholder stats aggregate.
func FallbackStats(now time.Time) entities.StatsSnapshot {
	ts := now.UTC()
	return entities.StatsSnapshot{
		ActiveAircraft:  12,
		CountriesActive: 5,
		TotalProfiles:   186,
		VIPAircraft:     42,
		PeakScoreToday:  34,
		PeakRegion:      constants.GlobalRegion,
		LastUpdate:      &ts,
	}
}
