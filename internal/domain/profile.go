package domain

import "time"

// Profile is a staff account with its access-control role. Its ID always
// matches the identity record it was provisioned from.
type Profile struct {
	ID        string
	Email     string
	FullName  string
	Role      Role
	CreatedBy *string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
