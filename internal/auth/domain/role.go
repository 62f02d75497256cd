package domain

import "slices"

// Well known role names. The hierarchy between them is decided by the
// RoleProvider, not here.
const (
	RoleAdmin    = "admin"
	RoleSubadmin = "subadmin"
	RoleUser     = "user"
)

// Roles is the ordered set of roles granted at login.
type Roles []string

// Has reports whether r is in the set. Matching is exact.
func (rs Roles) Has(r string) bool {
	return slices.Contains(rs, r)
}

// Clone returns a copy that never aliases rs. A nil set clones to an empty,
// non-nil one.
func (rs Roles) Clone() Roles {
	out := make(Roles, len(rs))
	copy(out, rs)
	return out
}
