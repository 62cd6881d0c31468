package responses

import "airplane-watch/sleepwatch/internal/models/entities"

// Bodies of the telemetry endpoints. Each keeps the top-level key the
// dashboard client reads.

type AircraftResponse[T any] struct {
	Aircraft []T `json:"aircraft"`
}

type ScoresResponse struct {
	Scores []entities.ScoreRecord `json:"scores"`
}

type AlertsResponse struct {
	Alerts []entities.AlertRecord `json:"alerts"`
}

type HistoryResponse struct {
	Data []entities.HistoryPoint `json:"data"`
}

type StatsResponse struct {
	Stats entities.StatsSnapshot `json:"stats"`
}
