package severity

import "time"

// AlertType is the tier attached to an alert row.
type AlertType string

const (
	AlertExtreme  AlertType = "extreme"
	AlertHigh     AlertType = "high"
	AlertElevated AlertType = "elevated"
)

// Alert tier thresholds. Both are inclusive lower bounds.
const (
	ExtremeThreshold = 75.0
	HighThreshold    = 60.0
)

// ClassifyAlert maps a score to its alert tier. The alert floor of 40 is
// applied by the alerts query, not here.
func ClassifyAlert(score float64) AlertType {
	switch {
	case score >= ExtremeThreshold:
		return AlertExtreme
	case score >= HighThreshold:
		return AlertHigh
	default:
		return AlertElevated
	}
}

// AlertIcon returns the glyph shown next to an alert of the given type.
func AlertIcon(t AlertType) string {
	switch t {
	case AlertExtreme:
		return "⚡"
	case AlertHigh:
		return "⚠️"
	case AlertElevated:
		return "👁️"
	default:
		return "ℹ️"
	}
}

// Level is the score card band.
type Level string

const (
	LevelCritical Level = "CRITICAL"
	LevelHigh     Level = "HIGH"
	LevelElevated Level = "ELEVATED"
	LevelNormal   Level = "NORMAL"
)

// ScoreLevel bands a score for the score cards.
func ScoreLevel(score float64) Level {
	switch {
	case score >= 75:
		return LevelCritical
	case score >= 50:
		return LevelHigh
	case score >= 25:
		return LevelElevated
	default:
		return LevelNormal
	}
}

// IsPeakHigh reports whether the day's peak deserves emphasis.
func IsPeakHigh(peak float64) bool {
	return peak >= HighThreshold
}

// Freshness says whether upstream data has refreshed recently enough.
type Freshness string

const (
	Fresh Freshness = "fresh"
	Stale Freshness = "stale"
)

// DefaultStaleAfter is the bound past which data counts as stale.
const DefaultStaleAfter = 5 * time.Minute

// Staleness evaluates lastUpdate against DefaultStaleAfter.
func Staleness(lastUpdate *time.Time, now time.Time) Freshness {
	return StalenessWithin(lastUpdate, now, DefaultStaleAfter)
}

// StalenessWithin reports Stale when lastUpdate is absent or more than
// bound has elapsed. Exactly bound is still Fresh.
func StalenessWithin(lastUpdate *time.Time, now time.Time, bound time.Duration) Freshness {
	if lastUpdate == nil {
		return Stale
	}
	if now.Sub(*lastUpdate) > bound {
		return Stale
	}
	return Fresh
}

// Status strings shown beside the stats card.
const (
	StatusOnline   = "SYSTEM ONLINE"
	StatusUnstable = "CONNECTION UNSTABLE"
)

// ConnectionStatus turns freshness into the human-facing status line.
func ConnectionStatus(f Freshness) string {
	if f == Fresh {
		return StatusOnline
	}
	return StatusUnstable
}
