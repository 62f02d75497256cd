package domain

import (
	"encoding/json"
	"log/slog"
	"slices"
)

// State is the authentication state of one client. It is either Anonymous or
// Identified and is immutable once built.
type State struct {
	authenticated bool
	name          string
	givenName     string
	roles         Roles
}

// Anonymous is the state of a client with no valid token. It is the zero
// State; every call returns an equal value and none can be altered.
func Anonymous() State { return State{} }

// Identified builds the state for a signed-in user. roles is copied.
func Identified(name, givenName string, roles []string) State {
	return State{
		authenticated: true,
		name:          name,
		givenName:     givenName,
		roles:         Roles(roles).Clone(),
	}
}

func (s State) IsAuthenticated() bool { return s.authenticated }
func (s State) Name() string          { return s.name }
func (s State) GivenName() string     { return s.givenName }

// Roles returns a copy of the granted roles, empty when anonymous.
func (s State) Roles() Roles { return s.roles.Clone() }

// HasRole reports whether the state is identified and carries r.
func (s State) HasRole(r string) bool {
	return s.authenticated && s.roles.Has(r)
}

// HasAnyRole reports whether the state carries at least one of roles.
func (s State) HasAnyRole(roles ...string) bool {
	for _, r := range roles {
		if s.HasRole(r) {
			return true
		}
	}
	return false
}

// Equal compares two states by value.
func (s State) Equal(o State) bool {
	return s.authenticated == o.authenticated &&
		s.name == o.name &&
		s.givenName == o.givenName &&
		slices.Equal(s.roles, o.roles)
}

type stateJSON struct {
	Authenticated bool     `json:"authenticated"`
	Name          string   `json:"name,omitempty"`
	GivenName     string   `json:"given_name,omitempty"`
	Roles         []string `json:"roles"`
}

func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(stateJSON{
		Authenticated: s.authenticated,
		Name:          s.name,
		GivenName:     s.givenName,
		Roles:         s.roles.Clone(),
	})
}

func (s *State) UnmarshalJSON(b []byte) error {
	var raw stateJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if !raw.Authenticated {
		*s = Anonymous()
		return nil
	}
	*s = Identified(raw.Name, raw.GivenName, raw.Roles)
	return nil
}

func (s State) LogValue() slog.Value {
	if !s.authenticated {
		return slog.GroupValue(slog.Bool("authenticated", false))
	}
	return slog.GroupValue(
		slog.Bool("authenticated", true),
		slog.String("name", s.name),
		slog.Any("roles", []string(s.roles)),
	)
}
