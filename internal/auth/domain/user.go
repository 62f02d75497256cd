package domain

import "time"

// User is a stored account for the store-backed role provider.
type User struct {
	ID            string
	Username      string
	PreferredName string
	PasswordHash  string // argon2 encoded
	Roles         Roles
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
