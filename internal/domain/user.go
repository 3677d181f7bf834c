package domain

import "time"

// User is the domain entity for a user account. Keyed by unique email;
// accounts are never hard-deleted.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
