package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueries_UseConfiguredWindows(t *testing.T) {
	assert.Contains(t, GetRecentAircraft, "LIMIT 100")
	assert.Contains(t, GetActiveAircraft, "LIMIT 50")
	assert.Contains(t, GetRecentScores, "LIMIT 10")
	assert.Contains(t, GetRecentAlerts, "LIMIT 20")
	assert.Contains(t, GetRecentAlerts, "overall_panic_score >= 40")
	assert.Contains(t, GetScoreHistory, "LIMIT 1000")
	assert.Contains(t, GetScoreHistory, "{region:String}")
}

func TestGetErrorMessage(t *testing.T) {
	assert.Equal(t, QueryErrorMessages[ErrCodeFallbackBody], GetErrorMessage(ErrCodeFallbackBody))
	assert.Equal(t, "An unknown error occurred", GetErrorMessage("NOPE"))
}
