package providers

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airplane-watch/sleepwatch/internal/constants"
)

func newMockedBackend(t *testing.T) (*BackendClient, *httpmock.MockTransport) {
	t.Helper()
	mt := httpmock.NewMockTransport()
	c := NewBackendClient("http://backend.test/", time.Second)
	c.Client.Transport = mt
	return c, mt
}

func TestBackendClient_Aircraft(t *testing.T) {
	c, mt := newMockedBackend(t)
	mt.RegisterResponder(http.MethodGet, "http://backend.test/aircraft",
		httpmock.NewStringResponder(http.StatusOK, `{"aircraft":[
			{"icao_hex":"ae01ce","callsign":"SAM28000","lat":38.8,"lon":-77.0,"is_vip":true,"vip_tier":1,"heading":45,"last_update":"2026-03-01T12:00:00Z"},
			{"icao_hex":"3c4b26","lat":50.0,"lon":8.0,"heading":null,"last_update":"2026-03-01T12:00:00Z"}
		]}`))

	aircraft, err := c.Aircraft(context.Background())

	require.NoError(t, err)
	require.Len(t, aircraft, 2)
	assert.Equal(t, "ae01ce", aircraft[0].ICAOHex)
	assert.True(t, aircraft[0].IsVIP)
	require.NotNil(t, aircraft[0].Heading)
	assert.Equal(t, 45.0, *aircraft[0].Heading)
	assert.Nil(t, aircraft[1].Heading)
}

func TestBackendClient_EmptyEnvelopes(t *testing.T) {
	c, mt := newMockedBackend(t)
	mt.RegisterResponder(http.MethodGet, "http://backend.test/aircraft/active",
		httpmock.NewStringResponder(http.StatusOK, `{"aircraft":[]}`))
	mt.RegisterResponder(http.MethodGet, "http://backend.test/alerts",
		httpmock.NewStringResponder(http.StatusOK, `{}`))

	active, err := c.ActiveAircraft(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, active)
	assert.Empty(t, active)

	alerts, err := c.Alerts(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, alerts)
	assert.Empty(t, alerts)
}

func TestBackendClient_HistoryQuery(t *testing.T) {
	c, mt := newMockedBackend(t)
	mt.RegisterResponderWithQuery(http.MethodGet, "http://backend.test/history",
		map[string]string{"region": "EU", "days": "7"},
		httpmock.NewStringResponder(http.StatusOK, `{"data":[
			{"timestamp":"2026-02-28T12:00:00Z","score":50},
			{"timestamp":"2026-03-01T12:00:00Z","score":82}
		]}`))
	mt.RegisterResponderWithQuery(http.MethodGet, "http://backend.test/history",
		map[string]string{"region": "Global"},
		httpmock.NewStringResponder(http.StatusOK, `{"data":[]}`))

	points, err := c.History(context.Background(), "EU", 7)
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, 82.0, points[1].Score)

	points, err = c.History(context.Background(), "", 0)
	require.NoError(t, err)
	assert.Empty(t, points)
}

func TestBackendClient_StatsAndScores(t *testing.T) {
	c, mt := newMockedBackend(t)
	mt.RegisterResponder(http.MethodGet, "http://backend.test/stats",
		httpmock.NewStringResponder(http.StatusOK, `{"stats":{"active_aircraft":12,"peak_score_today":34,"peak_region":"Global","last_update":null}}`))
	mt.RegisterResponder(http.MethodGet, "http://backend.test/scores",
		httpmock.NewStringResponder(http.StatusOK, `{"scores":[{"region":"Global","overall_panic_score":28,"timestamp":"2026-03-01T12:00:00Z"}]}`))

	stats, err := c.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(12), stats.ActiveAircraft)
	assert.Equal(t, "Global", stats.PeakRegion)
	assert.Nil(t, stats.LastUpdate)

	scores, err := c.Scores(context.Background())
	require.NoError(t, err)
	require.Len(t, scores, 1)
	assert.Equal(t, 28.0, scores[0].OverallPanicScore)
}

func TestBackendClient_Errors(t *testing.T) {
	c, mt := newMockedBackend(t)
	mt.RegisterResponder(http.MethodGet, "http://backend.test/aircraft",
		httpmock.NewStringResponder(http.StatusServiceUnavailable, "maintenance"))
	mt.RegisterResponder(http.MethodGet, "http://backend.test/scores",
		httpmock.NewStringResponder(http.StatusOK, "<html>"))
	mt.RegisterResponder(http.MethodGet, "http://backend.test/alerts",
		httpmock.NewErrorResponder(errors.New("connection refused")))

	_, err := c.Aircraft(context.Background())
	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, constants.ErrCodeUpstreamStatus, te.Code)
	assert.Equal(t, http.StatusServiceUnavailable, te.StatusCode)
	assert.Equal(t, "maintenance", te.Details)

	_, err = c.Scores(context.Background())
	assert.True(t, IsMalformedResponse(err))

	_, err = c.Alerts(context.Background())
	require.True(t, errors.As(err, &te))
	assert.Equal(t, constants.ErrCodeNetworkError, te.Code)
}

func TestBackendClient_FallbackBodyIsAnError(t *testing.T) {
	c, mt := newMockedBackend(t)
	resp := httpmock.NewStringResponse(http.StatusOK,
		`{"scores":[{"region":"Global","overall_panic_score":28}]}`)
	resp.Header.Set(constants.FallbackHeader, "1")
	mt.RegisterResponder(http.MethodGet, "http://backend.test/scores",
		httpmock.ResponderFromResponse(resp))

	scores, err := c.Scores(context.Background())

	require.Error(t, err)
	assert.Nil(t, scores)
	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, constants.ErrCodeFallbackBody, te.Code)
	assert.Equal(t, "/scores", te.Details)
}
