package usecase

//go:generate mockgen -source=token_validator.go -destination=../../tests/mock/usecase/token_validator.go -package=usecasemock

import (
	"salon-scheduler/internal/domain/user"
	"salon-scheduler/internal/pkg/jwt"
)

// ActorValidator turns a staff access token into the actor it speaks for.
type ActorValidator interface {
	ValidateToken(tokenString string) (user.Actor, error)
}

type actorValidatorImpl struct {
	jwtService *jwt.Service
}

func NewActorValidator(jwtService *jwt.Service) ActorValidator {
	return &actorValidatorImpl{
		jwtService: jwtService,
	}
}

func (t *actorValidatorImpl) ValidateToken(tokenString string) (user.Actor, error) {
	claims, err := t.jwtService.ValidateToken(tokenString)
	if err != nil {
		return user.Actor{}, err
	}

	return user.NewActor(claims.UserID, claims.BusinessID, claims.Role)
}
