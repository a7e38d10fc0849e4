package domain

import "time"

// Identity is the credential record behind a profile. Deleting it removes the
// linked profile as well.
type Identity struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
