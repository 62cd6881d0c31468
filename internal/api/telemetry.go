package api

import (
	"net/http"
	"strconv"
	"strings"

	"airplane-watch/sleepwatch/internal/constants"
	appctx "airplane-watch/sleepwatch/internal/context"
	"airplane-watch/sleepwatch/internal/logging"
	"airplane-watch/sleepwatch/internal/models/dtos/responses"
	"airplane-watch/sleepwatch/internal/models/entities"
	"airplane-watch/sleepwatch/internal/services"
)

// The telemetry endpoints never fail the request. A query error is
// logged and answered with the documented fallback body and status 200;
// the fallback header tells API clients the body is not real data.

func (h *Handlers) serveFallback(w http.ResponseWriter, r *http.Request, what string, err error) {
	logging.WithRequest(appctx.GetRequestID(r.Context()), r.URL.Path).
		Errorw("Failed to fetch "+what+", serving fallback", "error", err)
	w.Header().Set(constants.FallbackHeader, "1")
}

// Aircraft handles GET /aircraft
func (h *Handlers) Aircraft() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		aircraft, err := h.deps.Services.Telemetry.Aircraft(r.Context())
		if err != nil {
			h.serveFallback(w, r, "aircraft", err)
			aircraft = []entities.AircraftPosition{}
		}
		respondJSON(w, http.StatusOK, responses.AircraftResponse[entities.AircraftPosition]{Aircraft: aircraft})
	}
}

// ActiveAircraft handles GET /aircraft/active
func (h *Handlers) ActiveAircraft() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		aircraft, err := h.deps.Services.Telemetry.ActiveAircraft(r.Context())
		if err != nil {
			h.serveFallback(w, r, "active aircraft", err)
			aircraft = []entities.ActiveAircraft{}
		}
		respondJSON(w, http.StatusOK, responses.AircraftResponse[entities.ActiveAircraft]{Aircraft: aircraft})
	}
}

// Scores handles GET /scores. Rows are returned as queried; clients
// reconcile them per region.
func (h *Handlers) Scores() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scores, err := h.deps.Services.Telemetry.Scores(r.Context())
		if err != nil {
			h.serveFallback(w, r, "scores", err)
			scores = services.FallbackScores(h.now())
		}
		respondJSON(w, http.StatusOK, responses.ScoresResponse{Scores: scores})
	}
}

// Alerts handles GET /alerts
func (h *Handlers) Alerts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		alerts, err := h.deps.Services.Telemetry.Alerts(r.Context())
		if err != nil {
			h.serveFallback(w, r, "alerts", err)
			alerts = services.FallbackAlerts(h.now())
		}
		respondJSON(w, http.StatusOK, responses.AlertsResponse{Alerts: alerts})
	}
}

// History handles GET /history?region=<region>&days=<n>
func (h *Handlers) History() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		region := strings.TrimSpace(r.URL.Query().Get("region"))
		if region == "" {
			region = constants.GlobalRegion
		}

		days := constants.DefaultHistoryDays
		if qs := r.URL.Query().Get("days"); qs != "" {
			if d, err := strconv.Atoi(qs); err == nil && d > 0 {
				days = d
			}
		}

		points, err := h.deps.Services.Telemetry.History(r.Context(), region, days)
		if err != nil {
			h.serveFallback(w, r, "history", err)
			points = []entities.HistoryPoint{}
		}
		respondJSON(w, http.StatusOK, responses.HistoryResponse{Data: points})
	}
}

// Stats handles GET /stats
func (h *Handlers) Stats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := h.deps.Services.Telemetry.Stats(r.Context())
		if err != nil {
			h.serveFallback(w, r, "stats", err)
			stats = services.FallbackStats(h.now())
		}
		respondJSON(w, http.StatusOK, responses.StatsResponse{Stats: stats})
	}
}
