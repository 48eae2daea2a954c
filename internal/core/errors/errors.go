package errors

const (
	HttpInternalError          = "internal_error"
	HttpInvalidRequestError    = "invalid_request"
	HttpInvalidRangeError      = "invalid_date_range"
	HttpUnsupportedPeriodError = "unsupported_period"
	HttpUnsupportedExportError = "unsupported_export_format"
	HttpDuplicateOrderError    = "duplicate_order"
	HttpUnknownPartError       = "unknown_part"
)

// ErrorResponse is the JSON error body returned by the HTTP API.
type ErrorResponse struct {
	ErrorType string      `json:"error_type"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
}
