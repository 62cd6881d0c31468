package constants

type (
	APIStatus   string
	CachePrefix string
	FeedName    string
)

const (
	APIStatusOk    APIStatus = "ok"
	APIStatusError APIStatus = "error"

	CachePrefixHistory CachePrefix = "HISTORY_"

	FeedAircraft FeedName = "aircraft"
	FeedActive   FeedName = "active"
	FeedScores   FeedName = "scores"
	FeedAlerts   FeedName = "alerts"
	FeedStats    FeedName = "stats"
	FeedHistory  FeedName = "history"

	// GlobalRegion is the reserved aggregate region label.
	GlobalRegion = "Global"
	// NoPeakRegion is reported when no score rows exist yet.
	NoPeakRegion = "N/A"

	// Row-count windows applied by the queries below.
	AircraftLimit       = 100
	ActiveAircraftLimit = 50
	ScoresLimit         = 10
	AlertsLimit         = 20
	HistoryLimit        = 1000

	// DefaultHistoryDays is the window requested when none is given.
	DefaultHistoryDays = 7

	// FallbackHeader marks a telemetry response that carries fallback data
	// because the underlying query failed.
	FallbackHeader = "X-Sleepwatch-Fallback"

	// AlertFloor is the minimum overall score admitted into the alert feed.
	AlertFloor = 40
)

// AllFeeds lists feeds in the order they are started and reported.
var AllFeeds = []FeedName{FeedAircraft, FeedActive, FeedScores, FeedAlerts, FeedStats, FeedHistory}
