package session

import "github.com/aussiebroadwan/authstate/internal/auth/store"

// Location says where a manager keeps its token.
type Location int

const (
	// Disconnected is the initial location: the durable store is not yet
	// reachable and the token lives in memory.
	Disconnected Location = iota

	// Connected means the durable store is reachable and owns the token.
	Connected
)

func (l Location) String() string {
	switch l {
	case Connected:
		return "connected"
	default:
		return "disconnected"
	}
}

// location is the tagged state of a manager. Exactly one of the variants
// below is held at any time, so the token has exactly one home.
type location interface {
	kind() Location
}

// disconnected holds at most one pending token in memory.
type disconnected struct {
	pending string
}

func (disconnected) kind() Location { return Disconnected }

// connected holds the durable store handle. There is no in-memory copy of
// the token in this state.
type connected struct {
	store store.SessionStore
}

func (connected) kind() Location { return Connected }
