package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cast"

	"airplane-watch/sleepwatch/internal/constants"
	"airplane-watch/sleepwatch/internal/models/entities"
	"airplane-watch/sleepwatch/internal/providers"
)

// rowReader coerces one loosely typed row into typed fields. The first
// failure is kept and reported by err(); later reads return zero values.
type rowReader struct {
	row   providers.Row
	index int
	fail  error
}

func newRowReader(row providers.Row, index int) *rowReader {
	return &rowReader{row: row, index: index}
}

func (r *rowReader) err() error {
	return r.fail
}

func (r *rowReader) mismatch(field string, cause error) {
	if r.fail != nil {
		return
	}
	r.fail = &providers.MalformedResponseError{
		Code:    constants.ErrCodeFieldTypeMismatch,
		Message: constants.GetErrorMessage(constants.ErrCodeFieldTypeMismatch),
		Field:   field,
		Err:     fmt.Errorf("row %d: %w", r.index, cause),
	}
}

func (r *rowReader) missing(field string) {
	if r.fail != nil {
		return
	}
	r.fail = &providers.MalformedResponseError{
		Code:    constants.ErrCodeRequiredFieldEmpty,
		Message: constants.GetErrorMessage(constants.ErrCodeRequiredFieldEmpty),
		Field:   field,
		Err:     fmt.Errorf("row %d", r.index),
	}
}

// value returns the raw value and whether it is present and non-null.
func (r *rowReader) value(field string) (any, bool) {
	v, ok := r.row[field]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func (r *rowReader) requiredString(field string) string {
	s := r.optString(field)
	if r.fail == nil && strings.TrimSpace(s) == "" {
		r.missing(field)
	}
	return s
}

func (r *rowReader) optString(field string) string {
	v, ok := r.value(field)
	if !ok {
		return ""
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		r.mismatch(field, err)
		return ""
	}
	return s
}

func (r *rowReader) requiredFloat(field string) float64 {
	if _, ok := r.value(field); !ok {
		r.missing(field)
		return 0
	}
	return r.optFloat(field)
}

func (r *rowReader) optFloat(field string) float64 {
	v, ok := r.value(field)
	if !ok {
		return 0
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		r.mismatch(field, err)
		return 0
	}
	return f
}

func (r *rowReader) nullableFloat(field string) *float64 {
	if _, ok := r.value(field); !ok {
		return nil
	}
	f := r.optFloat(field)
	if r.fail != nil {
		return nil
	}
	return &f
}

func (r *rowReader) optInt(field string) int64 {
	v, ok := r.value(field)
	if !ok {
		return 0
	}
	n, err := cast.ToInt64E(v)
	if err != nil {
		r.mismatch(field, err)
		return 0
	}
	return n
}

func (r *rowReader) optBool(field string) bool {
	v, ok := r.value(field)
	if !ok {
		return false
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		r.mismatch(field, err)
		return false
	}
	return b
}

func (r *rowReader) requiredTime(field string) time.Time {
	ts := r.optTime(field)
	if r.fail == nil && ts == nil {
		r.missing(field)
		return time.Time{}
	}
	if ts == nil {
		return time.Time{}
	}
	return *ts
}

// optTime parses ClickHouse DateTime text or RFC3339 as UTC. Empty
// strings count as absent.
func (r *rowReader) optTime(field string) *time.Time {
	v, ok := r.value(field)
	if !ok {
		return nil
	}
	if s, isString := v.(string); isString && strings.TrimSpace(s) == "" {
		return nil
	}
	ts, err := cast.ToTimeInDefaultLocationE(v, time.UTC)
	if err != nil {
		r.mismatch(field, err)
		return nil
	}
	ts = ts.UTC()
	return &ts
}

func (r *rowReader) ownerProfile() entities.OwnerProfile {
	return entities.OwnerProfile{
		ICAOHex:      r.requiredString("icao_hex"),
		OwnerCountry: r.optString("owner_country"),
		OwnerOrg:     r.optString("owner_org"),
		AircraftType: r.optString("aircraft_type"),
		IsVIP:        r.optBool("is_vip"),
		VIPTier:      int(r.optInt("vip_tier")),
	}
}

// decodeRows applies decode to every row and stops at the first failure.
func decodeRows[T any](rows []providers.Row, decode func(*rowReader) T) ([]T, error) {
	out := make([]T, 0, len(rows))
	for i, row := range rows {
		r := newRowReader(row, i)
		item := decode(r)
		if err := r.err(); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func decodeAircraft(r *rowReader) entities.AircraftPosition {
	return entities.AircraftPosition{
		OwnerProfile: r.ownerProfile(),
		Callsign:     strings.TrimSpace(r.optString("callsign")),
		Lat:          r.requiredFloat("lat"),
		Lon:          r.requiredFloat("lon"),
		Altitude:     r.optFloat("altitude"),
		GroundSpeed:  r.optFloat("ground_speed"),
		Heading:      r.nullableFloat("heading"),
		LastUpdate:   r.requiredTime("last_update"),
	}
}

func decodeActive(r *rowReader) entities.ActiveAircraft {
	return entities.ActiveAircraft{
		OwnerProfile: r.ownerProfile(),
		Callsign:     strings.TrimSpace(r.optString("callsign")),
		LastSeen:     r.requiredTime("last_seen"),
	}
}

func decodeScore(r *rowReader) entities.ScoreRecord {
	return entities.ScoreRecord{
		Region:            r.requiredString("region"),
		OverallPanicScore: r.requiredFloat("overall_panic_score"),
		NightFlightScore:  r.optFloat("night_flight_score"),
		ConvergenceScore:  r.optFloat("convergence_score"),
		AirliftScore:      r.optFloat("airlift_score"),
		VIPMovementScore:  r.optFloat("vip_movement_score"),
		Narrative:         r.optString("narrative"),
		FlightCount:       r.optInt("flight_count"),
		CountriesInvolved: r.optInt("countries_involved"),
		Timestamp:         r.requiredTime("timestamp"),
	}
}

func decodeAlert(r *rowReader) entities.AlertRecord {
	return entities.AlertRecord{
		Region:            r.requiredString("region"),
		Score:             r.requiredFloat("score"),
		Narrative:         r.optString("narrative"),
		FlightCount:       r.optInt("flight_count"),
		CountriesInvolved: r.optInt("countries_involved"),
		Timestamp:         r.requiredTime("timestamp"),
	}
}

func decodeHistoryPoint(r *rowReader) entities.HistoryPoint {
	return entities.HistoryPoint{
		Timestamp: r.requiredTime("timestamp"),
		Score:     r.requiredFloat("score"),
	}
}
