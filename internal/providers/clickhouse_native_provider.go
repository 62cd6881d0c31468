package providers

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"airplane-watch/sleepwatch/internal/constants"
	"airplane-watch/sleepwatch/internal/metrics"
)

// NativeConfig holds ClickHouse native protocol connection settings.
type NativeConfig struct {
	Addr     string
	Database string
	User     string
	Password string
	Timeout  time.Duration
}

// ClickHouseNativeProvider runs queries over the native TCP protocol.
// Rows are converted into the same Row shape the HTTP provider returns.
type ClickHouseNativeProvider struct {
	conn    driver.Conn
	metrics *metrics.MetricsRegistry
}

var _ QueryGateway = (*ClickHouseNativeProvider)(nil)

// OpenClickHouseNative opens a native connection pool and pings it. When
// only the ping fails the provider is still returned alongside the error;
// the pool dials again on the next query.
func OpenClickHouseNative(ctx context.Context, cfg NativeConfig, m *metrics.MetricsRegistry) (*ClickHouseNativeProvider, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{cfg.Addr},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.User,
			Password: cfg.Password,
		},
		Settings: clickhouse.Settings{
			"max_execution_time": int(timeout.Seconds()),
		},
		DialTimeout:     timeout,
		ReadTimeout:     timeout,
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: time.Hour,
	})
	if err != nil {
		return nil, &TransportError{
			Code:    constants.ErrCodeGatewayNotReady,
			Message: constants.GetErrorMessage(constants.ErrCodeGatewayNotReady),
			Err:     err,
		}
	}

	p := &ClickHouseNativeProvider{conn: conn, metrics: m}
	if err := conn.Ping(ctx); err != nil {
		return p, &TransportError{
			Code:    constants.ErrCodeNetworkError,
			Message: constants.GetErrorMessage(constants.ErrCodeNetworkError),
			Err:     fmt.Errorf("ping clickhouse: %w", err),
		}
	}

	return p, nil
}

// GetProviderType returns the provider type identifier
func (p *ClickHouseNativeProvider) GetProviderType() string {
	return "clickhouse_native"
}

// Close closes the underlying connection pool.
func (p *ClickHouseNativeProvider) Close() error {
	if p.conn == nil {
		return nil
	}
	return p.conn.Close()
}

// Execute binds params server-side and scans every row into a Row.
func (p *ClickHouseNativeProvider) Execute(ctx context.Context, name, query string, params map[string]string) (result []Row, err error) {
	start := time.Now()
	defer func() { observeQuery(p.metrics, name, start, err) }()

	if p.conn == nil {
		return nil, &TransportError{
			Code:    constants.ErrCodeGatewayNotReady,
			Message: constants.GetErrorMessage(constants.ErrCodeGatewayNotReady),
		}
	}

	if len(params) > 0 {
		ctx = clickhouse.Context(ctx, clickhouse.WithParameters(clickhouse.Parameters(params)))
	}

	rows, err := p.conn.Query(ctx, query)
	if err != nil {
		return nil, nativeTransportError(err)
	}
	defer rows.Close()

	columns := rows.ColumnTypes()
	result = make([]Row, 0)
	for rows.Next() {
		dest := make([]any, len(columns))
		for i, col := range columns {
			dest[i] = reflect.New(col.ScanType()).Interface()
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, &MalformedResponseError{
				Code:    constants.ErrCodeFieldTypeMismatch,
				Message: constants.GetErrorMessage(constants.ErrCodeFieldTypeMismatch),
				Err:     err,
			}
		}

		row := make(Row, len(columns))
		for i, col := range columns {
			row[col.Name()] = derefScanned(dest[i])
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, nativeTransportError(err)
	}
	return result, nil
}

func nativeTransportError(err error) *TransportError {
	code := constants.ErrCodeNetworkError
	if errors.Is(err, context.DeadlineExceeded) {
		code = constants.ErrCodeQueryTimeout
	}
	return &TransportError{
		Code:    code,
		Message: constants.GetErrorMessage(code),
		Err:     err,
	}
}

// derefScanned unwraps the pointer handed to Scan. Nullable columns scan
// into a pointer-to-pointer; a nil inner pointer becomes a nil value.
func derefScanned(ptr any) any {
	v := reflect.ValueOf(ptr)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	return v.Interface()
}
