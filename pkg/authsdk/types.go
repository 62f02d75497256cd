package authsdk

// ============================================================================
// Login Types
// ============================================================================

// LoginRequest is the body of POST /v1/login and POST /v1/sessions/{id}/login.
type LoginRequest struct {
	// Username is the login name. Blank values fail like any bad credential.
	Username string `json:"username"`

	// Password is the plaintext password, only ever sent over the wire.
	Password string `json:"password"`
}

// LoginResponse is the result of a login attempt. On failure Success is false
// and Error carries the generic rejection message, never a hint about which
// field was wrong.
type LoginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ============================================================================
// State Types
// ============================================================================

// StateResponse is the authentication state as seen by the UI.
type StateResponse struct {
	// Authenticated is false for the anonymous state.
	Authenticated bool `json:"authenticated"`

	// Name is the login name (empty when anonymous).
	Name string `json:"name,omitempty"`

	// GivenName is the display name (empty when anonymous).
	GivenName string `json:"given_name,omitempty"`

	// Roles granted at login. Always an array, possibly empty.
	Roles []string `json:"roles"`
}

// HasRole reports whether the state carries role r.
func (s StateResponse) HasRole(r string) bool {
	for _, have := range s.Roles {
		if have == r {
			return true
		}
	}
	return false
}

// ============================================================================
// Session Types
// ============================================================================

// OpenSessionRequest is the optional body of POST /v1/sessions. A client that
// lost its connection sends its previous SessionID to pick up the token kept
// in the durable store.
type OpenSessionRequest struct {
	SessionID string `json:"session_id,omitempty"`
}

// SessionResponse describes a per-connection session.
type SessionResponse struct {
	// SessionID identifies the connection, a ULID.
	SessionID string `json:"session_id"`

	// Location is "disconnected" until the durable store is attached, then
	// "connected".
	Location string `json:"location"`
}

// ============================================================================
// Gated Resource Types
// ============================================================================

// CounterResponse is returned by GET /v1/counter.
type CounterResponse struct {
	Count int64 `json:"count"`
}

// WeatherForecast is one entry of GET /v1/weather.
type WeatherForecast struct {
	Date         string `json:"date"`
	TemperatureC int    `json:"temperature_c"`
	TemperatureF int    `json:"temperature_f"`
	Summary      string `json:"summary"`
}

// ============================================================================
// Health Types
// ============================================================================

// HealthResponse represents the response structure for health check endpoints.
// Used by both /livez and /readyz endpoints (readyz includes additional Checks field).
type HealthResponse struct {
	// Status indicates the overall health status (e.g., "ok")
	Status string `json:"status"`

	// Uptime is the service uptime duration as a string (e.g., "1h23m45s")
	Uptime string `json:"uptime,omitempty"`

	// Version is the service version string
	Version string `json:"version,omitempty"`

	// Checks contains readiness check results for critical dependencies (only for /readyz)
	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks represents the status of critical service dependencies.
type HealthChecks struct {
	// SessionStore is the durable session store status
	SessionStore string `json:"session_store"`

	// Users is the user store status, "disabled" for the policy provider
	Users string `json:"users"`

	// Signer indicates the JWT signing capability status
	Signer string `json:"signer"`
}

// ============================================================================
// Internal Response Types (used for JSON unmarshaling)
// ============================================================================

// ErrorResponse is the JSON body of every error response.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}
