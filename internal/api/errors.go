package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Error codes surfaced to callers. Retryable codes map to a retry
// affordance in the UI.
const (
	CodeNetworkError = "network_error"
	CodeTimeout      = "timeout"
	CodeUnauthorized = "unauthorized"
	CodeNotFound     = "not_found"
	CodeAPIError     = "api_error"
)

// APIError is the machine-readable failure shape for remote calls.
type APIError struct {
	Code      string                 `json:"code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Status    int                    `json:"-"` // HTTP status, 0 for transport failures
	Retryable bool                   `json:"-"`
}

func (e *APIError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("api error %s (status %d): %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("api error %s: %s", e.Code, e.Message)
}

// IsRetryable reports whether err is a transient failure worth retrying.
func IsRetryable(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Retryable
}

// transportError maps a failed round trip to an APIError. Timeouts get
// their own code so the UI can word the retry prompt accordingly.
func transportError(err error) *APIError {
	code := CodeNetworkError
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		code = CodeTimeout
	}
	return &APIError{Code: code, Message: err.Error(), Retryable: true}
}

// statusError maps a non-2xx response to an APIError, preferring the
// error body the server sent when one decoded.
func statusError(status int, body *errorBody) *APIError {
	apiErr := &APIError{Code: CodeAPIError, Status: status, Retryable: status >= 500}
	switch status {
	case http.StatusUnauthorized:
		apiErr.Code = CodeUnauthorized
	case http.StatusNotFound:
		apiErr.Code = CodeNotFound
	}
	if body != nil {
		if body.Code != "" {
			apiErr.Code = body.Code
		}
		apiErr.Message = body.Message
		apiErr.Details = body.Details
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}
