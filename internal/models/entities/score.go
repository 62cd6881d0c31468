package entities

import "time"

// ScoreRecord is one regional risk sample. Identity is (Region, Timestamp).
type ScoreRecord struct {
	Region            string    `json:"region"`
	OverallPanicScore float64   `json:"overall_panic_score"`
	NightFlightScore  float64   `json:"night_flight_score"`
	ConvergenceScore  float64   `json:"convergence_score"`
	AirliftScore      float64   `json:"airlift_score"`
	VIPMovementScore  float64   `json:"vip_movement_score"`
	Narrative         string    `json:"narrative"`
	FlightCount       int64     `json:"flight_count"`
	CountriesInvolved int64     `json:"countries_involved"`
	Timestamp         time.Time `json:"timestamp"`
}

// AlertRecord is a score sample at or above the alert floor with its tier.
type AlertRecord struct {
	Region            string    `json:"region"`
	Score             float64   `json:"score"`
	Narrative         string    `json:"narrative"`
	FlightCount       int64     `json:"flight_count"`
	CountriesInvolved int64     `json:"countries_involved"`
	Timestamp         time.Time `json:"timestamp"`
	Type              string    `json:"type"`
}

// HistoryPoint is one sample of a region's overall score.
type HistoryPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Score     float64   `json:"score"`
}
