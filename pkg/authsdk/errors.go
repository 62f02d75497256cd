package authsdk

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aussiebroadwan/authstate/pkg/httpx"
)

// MessageInvalidCredentials is the only thing a failed login ever says.
const MessageInvalidCredentials = "Incorrect name or password. Please try again."

const (
	ErrorCodeInvalidRequest     = "invalid_request"
	ErrorCodeInvalidCredentials = "invalid_credentials"
	ErrorCodeUnauthorized       = "unauthorized"
	ErrorCodeForbidden          = "forbidden"
	ErrorCodeNotFound           = "not_found"
	ErrorCodeConflict           = "conflict"
	ErrorCodeUnavailable        = "unavailable"
	ErrorCodeServerError        = "server_error"
)

// APIError is an error response from the service. It is used by the server
// to write responses and by the client to report them.
type APIError struct {
	// StatusCode is the HTTP status code for this error
	StatusCode int `json:"-"`

	// Code is the machine readable error code
	Code string `json:"error"`

	// Description is a human-readable description of the error
	Description string `json:"error_description"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// WriteError writes this APIError to an HTTP response writer.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.WriteError(w, e.StatusCode, e.Code, e.Description)
}

var (
	ErrInvalidRequest = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "the request is malformed or missing required parameters",
	}

	ErrSessionNotFound = &APIError{
		StatusCode:  http.StatusNotFound,
		Code:        ErrorCodeNotFound,
		Description: "session not found",
	}

	ErrAlreadyConnected = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeConflict,
		Description: "session is already connected",
	}

	// ErrStoreUnavailable is returned when the durable store rejected a write,
	// the operation did not take effect.
	ErrStoreUnavailable = &APIError{
		StatusCode:  http.StatusServiceUnavailable,
		Code:        ErrorCodeUnavailable,
		Description: "session store unavailable, please retry",
	}

	ErrServerError = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "internal server error",
	}
)

// IsInvalidCredentials reports whether err is a rejected login.
func IsInvalidCredentials(err error) bool {
	if e, ok := err.(*APIError); ok {
		return e.Code == ErrorCodeInvalidCredentials
	}
	return false
}

// WriteLoginFailure writes the generic 401 login rejection.
func WriteLoginFailure(w http.ResponseWriter) {
	httpx.WriteJSON(w, http.StatusUnauthorized, LoginResponse{
		Success: false,
		Error:   MessageInvalidCredentials,
	})
}

// parseErrorResponse attempts to parse an HTTP error response into a typed error.
// Returns nil if the response indicates success (2xx status code).
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	// Login rejections use the login body shape
	if resp.StatusCode == http.StatusUnauthorized {
		var lr LoginResponse
		if err := json.Unmarshal(body, &lr); err == nil && !lr.Success && lr.Error == MessageInvalidCredentials {
			return &APIError{
				StatusCode:  resp.StatusCode,
				Code:        ErrorCodeInvalidCredentials,
				Description: lr.Error,
			}
		}
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        errResp.Error,
			Description: errResp.ErrorDescription,
		}
	}

	return &APIError{
		StatusCode:  resp.StatusCode,
		Code:        ErrorCodeServerError,
		Description: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
