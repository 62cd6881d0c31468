package projection

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airplane-watch/sleepwatch/internal/models/entities"
)

func position(icao string, isVIP bool, tier int) entities.AircraftPosition {
	return entities.AircraftPosition{
		OwnerProfile: entities.OwnerProfile{
			ICAOHex:      icao,
			OwnerCountry: "US",
			IsVIP:        isVIP,
			VIPTier:      tier,
		},
	}
}

func TestClassify(t *testing.T) {
	assert.Equal(t, ClassCritical, Classify(true, 1))
	assert.Equal(t, ClassCritical, Classify(true, 2))
	assert.Equal(t, ClassNotable, Classify(true, 3))
	assert.Equal(t, ClassNotable, Classify(true, 4))
	assert.Equal(t, ClassStandard, Classify(false, 1))
	assert.Equal(t, ClassStandard, Classify(false, 9))
}

func TestProjectMarker_Critical(t *testing.T) {
	heading := 270.0
	p := position("ae01ce", true, 1)
	p.Callsign = "SAM28000"
	p.Heading = &heading

	m := ProjectMarker(p)

	assert.Equal(t, ClassCritical, m.Class)
	assert.Equal(t, ColorAlert, m.Color)
	assert.Equal(t, GlowAlert, m.Glow)
	assert.Equal(t, 16, m.Size)
	assert.Equal(t, 270.0, m.Rotation)
	require.NotNil(t, m.Ring)
	assert.Equal(t, 48, m.Ring.Diameter)
	assert.True(t, m.Ring.Pulsing)
	assert.Equal(t, "SAM28000", m.Label)
	assert.Equal(t, "VIP TIER 1", m.VIPBadge)
}

func TestProjectMarker_NotableAndStandard(t *testing.T) {
	notable := ProjectMarker(position("43c6f1", true, 4))
	assert.Equal(t, ClassNotable, notable.Class)
	assert.Equal(t, ColorTechBlue, notable.Color)
	assert.Equal(t, 16, notable.Size)
	assert.Nil(t, notable.Ring)
	assert.Equal(t, "VIP TIER 4", notable.VIPBadge)

	standard := ProjectMarker(position("3c4b26", false, 1))
	assert.Equal(t, ClassStandard, standard.Class)
	assert.Equal(t, ColorTechBlue, standard.Color)
	assert.Equal(t, 10, standard.Size)
	assert.Nil(t, standard.Ring)
	assert.Empty(t, standard.VIPBadge)
}

func TestProjectMarker_MissingHeadingAndCallsign(t *testing.T) {
	m := ProjectMarker(position("3c4b26", false, 0))

	assert.Equal(t, 0.0, m.Rotation)
	assert.Equal(t, "3C4B26", m.Label)
}

func TestProjectMarkers_CriticalFirstStable(t *testing.T) {
	markers := ProjectMarkers([]entities.AircraftPosition{
		position("aaaaa1", false, 0),
		position("aaaaa2", true, 5),
		position("aaaaa3", true, 1),
		position("aaaaa4", false, 0),
		position("aaaaa5", true, 2),
	})

	got := make([]string, len(markers))
	for i, m := range markers {
		got[i] = m.ICAOHex
	}
	assert.Equal(t, []string{"aaaaa3", "aaaaa5", "aaaaa2", "aaaaa1", "aaaaa4"}, got)
}

func TestCountry(t *testing.T) {
	us := Country("us")
	assert.True(t, us.Known)
	assert.Equal(t, "US", us.Code)
	assert.Equal(t, "🇺🇸", us.Flag)

	unknown := Country("ZZ")
	assert.False(t, unknown.Known)
	assert.Equal(t, UnknownFlag, unknown.Flag)

	empty := Country("")
	assert.False(t, empty.Known)
}

func TestProjectActive(t *testing.T) {
	entries := ProjectActive([]entities.ActiveAircraft{
		{OwnerProfile: entities.OwnerProfile{ICAOHex: "ae01ce", IsVIP: true, VIPTier: 1, OwnerCountry: "US"}, Callsign: "SAM28000"},
		{OwnerProfile: entities.OwnerProfile{ICAOHex: "43c6f1", IsVIP: true, VIPTier: 3, OwnerCountry: "GB"}},
		{OwnerProfile: entities.OwnerProfile{ICAOHex: "3c4b26", OwnerCountry: "XX"}},
	})

	require.Len(t, entries, 3)
	assert.Equal(t, "VIP TIER 1", entries[0].Badge)
	assert.Equal(t, "SAM28000", entries[0].Label)
	assert.Equal(t, "VIP", entries[1].Badge)
	assert.Equal(t, "43C6F1", entries[1].Label)
	assert.Equal(t, GovMilBadge, entries[2].Badge)
	assert.Equal(t, UnknownFlag, entries[2].Country.Flag)
}

func TestProjectSeries_NoResampling(t *testing.T) {
	points := []entities.HistoryPoint{
		{Timestamp: time.Date(2026, 2, 20, 9, 0, 0, 0, time.UTC), Score: 20},
		{Timestamp: time.Date(2026, 2, 24, 18, 30, 0, 0, time.UTC), Score: 45},
		{Timestamp: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), Score: 63},
	}

	series := ProjectSeries(points)

	require.Len(t, series, 3)
	assert.Equal(t, "02/20", series[0].Tick)
	assert.Equal(t, "03/01", series[2].Tick)
	assert.Equal(t, "Mar 1, 2026 12:00:00 PM", series[2].Tooltip)
	for i := range points {
		assert.Equal(t, points[i].Score, series[i].Score)
		assert.True(t, points[i].Timestamp.Equal(series[i].Timestamp))
	}
	assert.Empty(t, ProjectSeries(nil))
}

func TestBadges_MarkerKeepsTier(t *testing.T) {
	assert.Equal(t, "VIP TIER 1", MarkerBadge(true, 1))
	assert.Equal(t, "VIP TIER 4", MarkerBadge(true, 4))
	assert.Empty(t, MarkerBadge(false, 1))

	assert.Equal(t, "VIP TIER 1", VIPBadge(true, 2))
	assert.Equal(t, "VIP", VIPBadge(true, 4))
	assert.Empty(t, VIPBadge(false, 1))
}
