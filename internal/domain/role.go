package domain

import "fmt"

// Role enumerates academy staff roles.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCoLeader Role = "co_leader"
	RoleEmployee Role = "employee"
)

// ParseRole validates a raw role string against the closed enum.
func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleCoLeader:
		return RoleCoLeader, nil
	case RoleEmployee:
		return RoleEmployee, nil
	}
	return "", fmt.Errorf("unknown role %q", raw)
}

// Valid reports whether the role is one of the three known values.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleCoLeader, RoleEmployee:
		return true
	}
	return false
}
