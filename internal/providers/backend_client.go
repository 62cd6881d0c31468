package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"airplane-watch/sleepwatch/internal/constants"
	"airplane-watch/sleepwatch/internal/models/dtos/responses"
	"airplane-watch/sleepwatch/internal/models/entities"
)

// BackendClient reads the telemetry endpoints of a running server. It
// satisfies the same source contract as the telemetry service, so the
// watch client can drive the feed pollers over HTTP.
type BackendClient struct {
	BaseURL string
	Client  *http.Client
}

// NewBackendClient creates a client for the server at baseURL.
func NewBackendClient(baseURL string, timeout time.Duration) *BackendClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &BackendClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client: &http.Client{
			Timeout: timeout,
		},
	}
}

// GetProviderType returns the provider type identifier
func (c *BackendClient) GetProviderType() string {
	return "sleepwatch_backend"
}

func (c *BackendClient) Aircraft(ctx context.Context) ([]entities.AircraftPosition, error) {
	var body responses.AircraftResponse[entities.AircraftPosition]
	if err := c.doGET(ctx, "/aircraft", &body); err != nil {
		return nil, err
	}
	return nonNil(body.Aircraft), nil
}

func (c *BackendClient) ActiveAircraft(ctx context.Context) ([]entities.ActiveAircraft, error) {
	var body responses.AircraftResponse[entities.ActiveAircraft]
	if err := c.doGET(ctx, "/aircraft/active", &body); err != nil {
		return nil, err
	}
	return nonNil(body.Aircraft), nil
}

// Scores returns the unreconciled score rows.
func (c *BackendClient) Scores(ctx context.Context) ([]entities.ScoreRecord, error) {
	var body responses.ScoresResponse
	if err := c.doGET(ctx, "/scores", &body); err != nil {
		return nil, err
	}
	return nonNil(body.Scores), nil
}

func (c *BackendClient) Alerts(ctx context.Context) ([]entities.AlertRecord, error) {
	var body responses.AlertsResponse
	if err := c.doGET(ctx, "/alerts", &body); err != nil {
		return nil, err
	}
	return nonNil(body.Alerts), nil
}

func (c *BackendClient) Stats(ctx context.Context) (entities.StatsSnapshot, error) {
	var body responses.StatsResponse
	if err := c.doGET(ctx, "/stats", &body); err != nil {
		return entities.StatsSnapshot{}, err
	}
	return body.Stats, nil
}

func (c *BackendClient) History(ctx context.Context, region string, days int) ([]entities.HistoryPoint, error) {
	if region == "" {
		region = constants.GlobalRegion
	}
	q := url.Values{}
	q.Set("region", region)
	if days > 0 {
		q.Set("days", strconv.Itoa(days))
	}

	var body responses.HistoryResponse
	if err := c.doGET(ctx, "/history?"+q.Encode(), &body); err != nil {
		return nil, err
	}
	return nonNil(body.Data), nil
}

// Ping checks that the server answers its health endpoint.
func (c *BackendClient) Ping(ctx context.Context) error {
	var body json.RawMessage
	return c.doGET(ctx, "/healthCheck", &body)
}

// doGET performs a GET request and decodes the JSON body into result
func (c *BackendClient) doGET(ctx context.Context, endpoint string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+endpoint, nil)
	if err != nil {
		return &TransportError{
			Code:    constants.ErrCodeRequestBuild,
			Message: constants.GetErrorMessage(constants.ErrCodeRequestBuild),
			Err:     err,
		}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		code := constants.ErrCodeNetworkError
		if errors.Is(err, context.DeadlineExceeded) {
			code = constants.ErrCodeQueryTimeout
		}
		return &TransportError{
			Code:    code,
			Message: constants.GetErrorMessage(code),
			Err:     fmt.Errorf("GET %s: %w", endpoint, err),
		}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{
			Code:       constants.ErrCodeNetworkError,
			Message:    "Failed to read backend response",
			StatusCode: resp.StatusCode,
			Err:        err,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &TransportError{
			Code:       constants.ErrCodeUpstreamStatus,
			Message:    constants.GetErrorMessage(constants.ErrCodeUpstreamStatus),
			StatusCode: resp.StatusCode,
			Details:    truncate(strings.TrimSpace(string(payload)), maxErrorBody),
		}
	}

	// A marked body is placeholder data; report it as a failed fetch so
	// pollers keep their last real snapshot.
	if resp.Header.Get(constants.FallbackHeader) != "" {
		return &TransportError{
			Code:       constants.ErrCodeFallbackBody,
			Message:    constants.GetErrorMessage(constants.ErrCodeFallbackBody),
			StatusCode: resp.StatusCode,
			Details:    endpoint,
		}
	}

	if err := json.Unmarshal(payload, result); err != nil {
		return &MalformedResponseError{
			Code:    constants.ErrCodeInvalidEnvelope,
			Message: constants.GetErrorMessage(constants.ErrCodeInvalidEnvelope),
			Field:   endpoint,
			Err:     err,
		}
	}
	return nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
