package domain

import (
	"log/slog"
	"strings"
)

// Credential is what a user types into the login form. It is never persisted
// and never logged.
type Credential struct {
	Username string
	Password string
}

// Blank reports whether either field is empty or only whitespace. A blank
// credential always fails authentication.
func (c Credential) Blank() bool {
	return strings.TrimSpace(c.Username) == "" || strings.TrimSpace(c.Password) == ""
}

// LogValue keeps the password out of every log line.
func (c Credential) LogValue() slog.Value {
	return slog.GroupValue(slog.String("username", c.Username))
}
