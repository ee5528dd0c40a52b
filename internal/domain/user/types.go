package user

import (
	"errors"
	"strings"
)

var ErrInvalidRole = errors.New("invalid role")

// Role is a staff capability. Clients holding a management token have no Role.
type Role string

const (
	RoleStaff Role = "STAFF"
	RoleAdmin Role = "ADMIN"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	switch r {
	case RoleStaff, RoleAdmin:
		return true
	default:
		return false
	}
}

// NewRole accepts either case, claims minted by older consoles used lowercase.
func NewRole(s string) (Role, error) {
	role := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !role.IsValid() {
		return "", ErrInvalidRole
	}
	return role, nil
}
