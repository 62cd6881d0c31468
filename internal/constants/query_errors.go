package constants

// Query gateway error codes

// Transport-level errors
const (
	ErrCodeNetworkError    = "NETWORK_ERROR"
	ErrCodeUpstreamStatus  = "UPSTREAM_STATUS"
	ErrCodeRequestBuild    = "REQUEST_BUILD_FAILED"
	ErrCodeQueryTimeout    = "QUERY_TIMEOUT"
	ErrCodeGatewayNotReady = "GATEWAY_NOT_READY"
	ErrCodeFallbackBody    = "FALLBACK_BODY"
)

// Response-shape errors
const (
	ErrCodeInvalidEnvelope    = "INVALID_ENVELOPE"
	ErrCodeInvalidRowArray    = "INVALID_ROW_ARRAY"
	ErrCodeFieldTypeMismatch  = "FIELD_TYPE_MISMATCH"
	ErrCodeRequiredFieldEmpty = "REQUIRED_FIELD_EMPTY"
)

// QueryErrorMessages maps error codes to human-readable messages
var QueryErrorMessages = map[string]string{
	ErrCodeNetworkError:    "Unable to reach the analytical query service",
	ErrCodeUpstreamStatus:  "The analytical query service returned a non-success status",
	ErrCodeRequestBuild:    "Failed to build the query request",
	ErrCodeQueryTimeout:    "The query did not complete before its deadline",
	ErrCodeGatewayNotReady: "The query gateway has no open connection",
	ErrCodeFallbackBody:    "The server answered with fallback data after a failed query",

	ErrCodeInvalidEnvelope:    "The query response is not a JSON object",
	ErrCodeInvalidRowArray:    "The query response row field is not an array of objects",
	ErrCodeFieldTypeMismatch:  "A row field could not be converted to the expected type",
	ErrCodeRequiredFieldEmpty: "A required row field is missing",
}

// GetErrorMessage returns the human-readable message for an error code
func GetErrorMessage(code string) string {
	if msg, exists := QueryErrorMessages[code]; exists {
		return msg
	}
	return "An unknown error occurred"
}
