package providers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"airplane-watch/sleepwatch/internal/constants"
	"airplane-watch/sleepwatch/internal/metrics"
)

// maxErrorBody caps how much of a failed response body is kept for logs.
const maxErrorBody = 512

// ClickHouseHTTPProvider talks to ClickHouse over its HTTP interface and
// asks for the JSON output format.
type ClickHouseHTTPProvider struct {
	BaseURL  string
	Database string
	Client   *http.Client
	Metrics  *metrics.MetricsRegistry
}

var _ QueryGateway = (*ClickHouseHTTPProvider)(nil)

// NewClickHouseHTTPProvider creates an HTTP gateway for baseURL/database.
func NewClickHouseHTTPProvider(baseURL, database string, timeout time.Duration, m *metrics.MetricsRegistry) *ClickHouseHTTPProvider {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ClickHouseHTTPProvider{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		Database: database,
		Client: &http.Client{
			Timeout: timeout,
		},
		Metrics: m,
	}
}

// GetProviderType returns the provider type identifier
func (p *ClickHouseHTTPProvider) GetProviderType() string {
	return "clickhouse_http"
}

// Close is a no-op; the HTTP client keeps no dedicated connections.
func (p *ClickHouseHTTPProvider) Close() error {
	return nil
}

// jsonEnvelope is the subset of ClickHouse's FORMAT JSON output we read.
type jsonEnvelope struct {
	Data json.RawMessage `json:"data"`
}

// Execute posts the query with a FORMAT JSON directive and returns the
// rows under "data".
func (p *ClickHouseHTTPProvider) Execute(ctx context.Context, name, query string, params map[string]string) (rows []Row, err error) {
	start := time.Now()
	defer func() { observeQuery(p.Metrics, name, start, err) }()

	endpoint := p.buildURL(params)
	body := strings.TrimSpace(query) + " FORMAT JSON"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(body))
	if err != nil {
		return nil, &TransportError{
			Code:    constants.ErrCodeRequestBuild,
			Message: constants.GetErrorMessage(constants.ErrCodeRequestBuild),
			Err:     err,
		}
	}
	req.Header.Set("Content-Type", "text/plain")

	resp, err := p.Client.Do(req)
	if err != nil {
		code := constants.ErrCodeNetworkError
		if errors.Is(err, context.DeadlineExceeded) {
			code = constants.ErrCodeQueryTimeout
		}
		return nil, &TransportError{
			Code:    code,
			Message: constants.GetErrorMessage(code),
			Err:     err,
		}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{
			Code:       constants.ErrCodeNetworkError,
			Message:    "Failed to read query response",
			StatusCode: resp.StatusCode,
			Err:        err,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &TransportError{
			Code:       constants.ErrCodeUpstreamStatus,
			Message:    constants.GetErrorMessage(constants.ErrCodeUpstreamStatus),
			StatusCode: resp.StatusCode,
			Details:    truncate(strings.TrimSpace(string(payload)), maxErrorBody),
		}
	}

	return decodeEnvelope(payload)
}

func (p *ClickHouseHTTPProvider) buildURL(params map[string]string) string {
	values := url.Values{}
	if p.Database != "" {
		values.Set("database", p.Database)
	}
	for k, v := range params {
		values.Set("param_"+k, v)
	}
	return p.BaseURL + "/?" + values.Encode()
}

// decodeEnvelope extracts the row array from a FORMAT JSON body.
func decodeEnvelope(payload []byte) ([]Row, error) {
	var env jsonEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, &MalformedResponseError{
			Code:    constants.ErrCodeInvalidEnvelope,
			Message: constants.GetErrorMessage(constants.ErrCodeInvalidEnvelope),
			Err:     err,
		}
	}

	if len(env.Data) == 0 || string(env.Data) == "null" {
		return []Row{}, nil
	}

	var rows []Row
	if err := json.Unmarshal(env.Data, &rows); err != nil {
		return nil, &MalformedResponseError{
			Code:    constants.ErrCodeInvalidRowArray,
			Message: constants.GetErrorMessage(constants.ErrCodeInvalidRowArray),
			Field:   "data",
			Err:     err,
		}
	}
	for i, row := range rows {
		if row == nil {
			return nil, &MalformedResponseError{
				Code:    constants.ErrCodeInvalidRowArray,
				Message: constants.GetErrorMessage(constants.ErrCodeInvalidRowArray),
				Field:   "data",
				Err:     errors.New("null row at index " + strconv.Itoa(i)),
			}
		}
	}
	return rows, nil
}

// observeQuery records the outcome of one gateway round trip.
func observeQuery(m *metrics.MetricsRegistry, name string, start time.Time, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	switch {
	case err == nil:
	case IsMalformedResponse(err):
		outcome = "malformed"
	default:
		outcome = "transport"
	}
	m.QueriesTotal.WithLabelValues(name, outcome).Inc()
	m.QueryDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
