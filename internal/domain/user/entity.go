package user

import (
	"errors"

	"github.com/google/uuid"
)

var ErrInvalidActor = errors.New("invalid actor")

// Actor is the pre-validated staff identity attached to a request.
// BusinessID always comes from the credential, never from the request body.
type Actor struct {
	UserID     uuid.UUID
	BusinessID uuid.UUID
	Role       Role
}

func NewActor(userID, businessID uuid.UUID, role string) (Actor, error) {
	r, err := NewRole(role)
	if err != nil {
		return Actor{}, err
	}
	if userID == uuid.Nil || businessID == uuid.Nil {
		return Actor{}, ErrInvalidActor
	}
	return Actor{UserID: userID, BusinessID: businessID, Role: r}, nil
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// CanOperate reports whether the actor may act on the given business calendar.
func (a Actor) CanOperate(businessID uuid.UUID) bool {
	return a.Role.IsValid() && a.BusinessID == businessID
}
