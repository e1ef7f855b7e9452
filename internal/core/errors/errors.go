package errors

const (
	HttpInternalError          = "internal_error"
	HttpInvalidInputError      = "invalid_input"
	HttpNotFoundError          = "not_found"
	HttpRateLimitedError       = "rate_limited"
	HttpSourceUnavailableError = "source_unavailable"
	HttpUnauthorizedError      = "unauthorized"
	HttpForbiddenError         = "forbidden"
)

// ErrorResponse is the error response body shared by every endpoint.
type ErrorResponse struct {
	ErrorType string      `json:"error_type"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
}
