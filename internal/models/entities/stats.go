package entities

import "time"

// StatsSnapshot is the singleton activity aggregate. It is always
// replaced whole.
type StatsSnapshot struct {
	ActiveAircraft  int64      `json:"active_aircraft"`
	CountriesActive int64      `json:"countries_active"`
	TotalProfiles   int64      `json:"total_profiles"`
	VIPAircraft     int64      `json:"vip_aircraft"`
	PeakScoreToday  float64    `json:"peak_score_today"`
	PeakRegion      string     `json:"peak_region"`
	LastUpdate      *time.Time `json:"last_update"`
}
