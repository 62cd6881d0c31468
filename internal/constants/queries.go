package constants

import "strconv"

// ClickHouse queries. Named parameters use server-side binding
// ({name:Type}) and are passed alongside the query, never interpolated.
const (
	// Query names used for metrics labels and logs.
	QueryNameAircraft       = "aircraft"
	QueryNameActiveAircraft = "aircraft_active"
	QueryNameScores         = "scores"
	QueryNameAlerts         = "alerts"
	QueryNameHistory        = "history"
	QueryNameStatsCurrent   = "stats_current"
	QueryNameStatsPeak      = "stats_peak"
	QueryNameStatsProfiles  = "stats_profiles"
	QueryNameStatsVIP       = "stats_vip"
	QueryNamePing           = "ping"

	Ping = `SELECT 1 as ok`
)

// Row windows and the alert floor come from the limits in
// commonConstants.go.
var (
	GetRecentAircraft = `
	SELECT
		fp.icao_hex,
		fp.callsign,
		fp.lat,
		fp.lon,
		fp.altitude,
		fp.ground_speed,
		fp.heading,
		ap.owner_country,
		ap.owner_org,
		ap.aircraft_type,
		ap.is_vip,
		ap.vip_tier,
		formatDateTime(max(fp.timestamp), '%Y-%m-%d %H:%M:%S') as last_update
	FROM flight_positions fp
	JOIN aircraft_profiles ap ON fp.icao_hex = ap.icao_hex
	WHERE fp.timestamp >= now() - INTERVAL 30 MINUTE
	GROUP BY
		fp.icao_hex,
		fp.callsign,
		fp.lat,
		fp.lon,
		fp.altitude,
		fp.ground_speed,
		fp.heading,
		ap.owner_country,
		ap.owner_org,
		ap.aircraft_type,
		ap.is_vip,
		ap.vip_tier
	ORDER BY last_update DESC
	LIMIT ` + strconv.Itoa(AircraftLimit)

	GetActiveAircraft = `
	SELECT
		fp.icao_hex,
		any(fp.callsign) as callsign,
		any(ap.owner_country) as owner_country,
		any(ap.owner_org) as owner_org,
		any(ap.aircraft_type) as aircraft_type,
		any(ap.is_vip) as is_vip,
		any(ap.vip_tier) as vip_tier,
		toString(max(fp.timestamp)) as last_seen
	FROM flight_positions fp
	JOIN aircraft_profiles ap ON fp.icao_hex = ap.icao_hex
	WHERE fp.timestamp >= now() - INTERVAL 1 HOUR
	GROUP BY fp.icao_hex
	ORDER BY last_seen DESC
	LIMIT ` + strconv.Itoa(ActiveAircraftLimit)

	GetRecentScores = `
	SELECT
		region,
		overall_panic_score,
		night_flight_score,
		convergence_score,
		airlift_score,
		vip_movement_score,
		narrative,
		flight_count,
		countries_involved,
		formatDateTime(timestamp, '%Y-%m-%d %H:%M:%S') as timestamp
	FROM panic_scores
	ORDER BY timestamp DESC, region
	LIMIT ` + strconv.Itoa(ScoresLimit)

	GetRecentAlerts = `
	SELECT
		region,
		overall_panic_score as score,
		narrative,
		flight_count,
		countries_involved,
		formatDateTime(timestamp, '%Y-%m-%d %H:%M:%S') as timestamp
	FROM panic_scores
	WHERE overall_panic_score >= ` + strconv.Itoa(AlertFloor) + `
	ORDER BY timestamp DESC
	LIMIT ` + strconv.Itoa(AlertsLimit)

	// GetScoreHistory windows by row count only; the requested day span
	// is not applied.
	GetScoreHistory = `
	SELECT
		formatDateTime(timestamp, '%Y-%m-%d %H:%M:%S') as timestamp,
		overall_panic_score as score
	FROM panic_scores
	WHERE region = {region:String}
	ORDER BY timestamp ASC
	LIMIT ` + strconv.Itoa(HistoryLimit)

	GetCurrentActivity = `
	SELECT
		count(DISTINCT fp.icao_hex) as active_aircraft,
		count(DISTINCT ap.owner_country) as countries_active,
		formatDateTime(max(fp.timestamp), '%Y-%m-%d %H:%M:%S') as last_update
	FROM flight_positions fp
	JOIN aircraft_profiles ap ON fp.icao_hex = ap.icao_hex
	WHERE fp.timestamp >= now() - INTERVAL 1 HOUR
	`

	GetPeakScore = `
	SELECT
		max(overall_panic_score) as peak_score,
		argMax(region, overall_panic_score) as peak_region
	FROM panic_scores
	`

	GetTotalProfiles = `
	SELECT count() as total_profiles
	FROM aircraft_profiles
	`

	GetVIPCount = `
	SELECT count() as vip_aircraft
	FROM aircraft_profiles
	WHERE is_vip = 1
	`
)
