package providers

import (
	"context"
	"errors"
	"fmt"
)

// Row is one result row keyed by column name. Values are whatever the
// transport decoded; callers coerce them into typed entities.
type Row map[string]any

// QueryGateway executes a read-only query against the analytical service.
// Implementations issue exactly one round trip per call and never retry
// or cache.
type QueryGateway interface {
	// Execute runs query with named parameters bound server-side and
	// returns the result rows. A response without a row field yields an
	// empty slice.
	Execute(ctx context.Context, name, query string, params map[string]string) ([]Row, error)

	// GetProviderType returns the provider type identifier
	GetProviderType() string

	// Close releases connections held by the gateway.
	Close() error
}

// TransportError reports that the query service could not be reached or
// answered with a non-success status.
type TransportError struct {
	Code       string
	Message    string
	StatusCode int
	Details    string
	Err        error
}

func (e *TransportError) Error() string {
	msg := e.Message
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", msg, e.Details)
	}
	return msg
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// MalformedResponseError reports a response that parsed but did not have
// the expected shape, including rows that fail typed coercion.
type MalformedResponseError struct {
	Code    string
	Message string
	Field   string
	Err     error
}

func (e *MalformedResponseError) Error() string {
	msg := e.Message
	if e.Field != "" {
		msg = fmt.Sprintf("%s (field %q)", msg, e.Field)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// IsTransportError reports whether err wraps a *TransportError.
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsMalformedResponse reports whether err wraps a *MalformedResponseError.
func IsMalformedResponse(err error) bool {
	var me *MalformedResponseError
	return errors.As(err, &me)
}
