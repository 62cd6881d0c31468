package projection

import (
	"time"

	"airplane-watch/sleepwatch/internal/models/entities"
)

const (
	tickLayout    = "01/02"
	tooltipLayout = "Jan 2, 2006 3:04:05 PM"
)

// SeriesPoint is one point of the risk trend chart.
type SeriesPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Score     float64   `json:"score"`
	Tick      string    `json:"tick"`
	Tooltip   string    `json:"tooltip"`
}

// ProjectSeries maps history points one to one, in input order. Gaps are
// left as they are; nothing is resampled or interpolated.
func ProjectSeries(points []entities.HistoryPoint) []SeriesPoint {
	out := make([]SeriesPoint, len(points))
	for i, p := range points {
		out[i] = SeriesPoint{
			Timestamp: p.Timestamp,
			Score:     p.Score,
			Tick:      p.Timestamp.Format(tickLayout),
			Tooltip:   p.Timestamp.Format(tooltipLayout),
		}
	}
	return out
}
