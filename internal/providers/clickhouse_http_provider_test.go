package providers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airplane-watch/sleepwatch/internal/constants"
	"airplane-watch/sleepwatch/internal/metrics"
)

// newMockedProvider returns a provider whose client is served by a fresh
// httpmock transport.
func newMockedProvider(t *testing.T) (*ClickHouseHTTPProvider, *httpmock.MockTransport) {
	t.Helper()
	mt := httpmock.NewMockTransport()
	p := NewClickHouseHTTPProvider("http://ch.test/", "airplane_watch", time.Second, nil)
	p.Client.Transport = mt
	return p, mt
}

func TestClickHouseHTTPProvider_Execute_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST request, got %s", r.Method)
		}
		if got := r.URL.Query().Get("database"); got != "airplane_watch" {
			t.Errorf("Expected database airplane_watch, got %s", got)
		}
		if got := r.URL.Query().Get("param_region"); got != "EU" {
			t.Errorf("Expected param_region EU, got %s", got)
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != "SELECT score FROM t WHERE region = {region:String} FORMAT JSON" {
			t.Errorf("Unexpected query body %q", body)
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"meta":[{"name":"score","type":"Float64"}],"data":[{"score":63.5},{"score":41}],"rows":2}`))
	}))
	defer server.Close()

	p := NewClickHouseHTTPProvider(server.URL, "airplane_watch", time.Second, nil)

	rows, err := p.Execute(context.Background(), "history",
		"SELECT score FROM t WHERE region = {region:String}",
		map[string]string{"region": "EU"})

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 63.5, rows[0]["score"])
	assert.Equal(t, float64(41), rows[1]["score"])
}

func TestClickHouseHTTPProvider_Execute_MissingDataIsEmpty(t *testing.T) {
	p, mt := newMockedProvider(t)
	mt.RegisterResponder(http.MethodPost, `=~^http://ch\.test/`,
		httpmock.NewStringResponder(http.StatusOK, `{"rows":0}`))

	rows, err := p.Execute(context.Background(), "scores", "SELECT 1", nil)

	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestClickHouseHTTPProvider_Execute_EmptyDataArray(t *testing.T) {
	p, mt := newMockedProvider(t)
	mt.RegisterResponder(http.MethodPost, `=~^http://ch\.test/`,
		httpmock.NewStringResponder(http.StatusOK, `{"data":[]}`))

	rows, err := p.Execute(context.Background(), "alerts", "SELECT 1", nil)

	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestClickHouseHTTPProvider_Execute_UpstreamStatus(t *testing.T) {
	p, mt := newMockedProvider(t)
	mt.RegisterResponder(http.MethodPost, `=~^http://ch\.test/`,
		httpmock.NewStringResponder(http.StatusInternalServerError, "Code: 60. DB::Exception: Table doesn't exist"))

	_, err := p.Execute(context.Background(), "aircraft", "SELECT 1", nil)

	require.Error(t, err)
	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, constants.ErrCodeUpstreamStatus, te.Code)
	assert.Equal(t, http.StatusInternalServerError, te.StatusCode)
	assert.Contains(t, te.Details, "Table doesn't exist")
	assert.False(t, IsMalformedResponse(err))
}

func TestClickHouseHTTPProvider_Execute_NetworkFailure(t *testing.T) {
	p, mt := newMockedProvider(t)
	mt.RegisterResponder(http.MethodPost, `=~^http://ch\.test/`,
		httpmock.NewErrorResponder(errors.New("connection refused")))

	_, err := p.Execute(context.Background(), "aircraft", "SELECT 1", nil)

	require.Error(t, err)
	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, constants.ErrCodeNetworkError, te.Code)
}

func TestClickHouseHTTPProvider_Execute_Timeout(t *testing.T) {
	p, mt := newMockedProvider(t)
	mt.RegisterResponder(http.MethodPost, `=~^http://ch\.test/`,
		httpmock.NewErrorResponder(context.DeadlineExceeded))

	_, err := p.Execute(context.Background(), "aircraft", "SELECT 1", nil)

	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, constants.ErrCodeQueryTimeout, te.Code)
}

func TestClickHouseHTTPProvider_Execute_MalformedBodies(t *testing.T) {
	tests := []struct {
		name string
		body string
		code string
	}{
		{"not json", "Ok.", constants.ErrCodeInvalidEnvelope},
		{"top-level array", `[{"score":1}]`, constants.ErrCodeInvalidEnvelope},
		{"data is object", `{"data":{"score":1}}`, constants.ErrCodeInvalidRowArray},
		{"data holds scalars", `{"data":[1,2,3]}`, constants.ErrCodeInvalidRowArray},
		{"data holds null row", `{"data":[{"score":1},null]}`, constants.ErrCodeInvalidRowArray},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, mt := newMockedProvider(t)
			mt.RegisterResponder(http.MethodPost, `=~^http://ch\.test/`,
				httpmock.NewStringResponder(http.StatusOK, tt.body))

			_, err := p.Execute(context.Background(), "scores", "SELECT 1", nil)

			require.Error(t, err)
			var me *MalformedResponseError
			require.True(t, errors.As(err, &me))
			assert.Equal(t, tt.code, me.Code)
			assert.False(t, IsTransportError(err))
		})
	}
}

func TestClickHouseHTTPProvider_Execute_RecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewMetricsRegistry(reg)

	p, mt := newMockedProvider(t)
	p.Metrics = m
	mt.RegisterResponder(http.MethodPost, `=~^http://ch\.test/`,
		httpmock.NewStringResponder(http.StatusOK, `{"data":[{"ok":1}]}`))

	_, err := p.Execute(context.Background(), constants.QueryNamePing, constants.Ping, nil)
	require.NoError(t, err)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.QueriesTotal.WithLabelValues(constants.QueryNamePing, "ok")))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.QueriesTotal.WithLabelValues(constants.QueryNamePing, "transport")))
}
