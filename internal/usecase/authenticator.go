package usecase

import (
	"poorito-booking/internal/domain/user"
	"poorito-booking/internal/pkg/jwt"
	"poorito-booking/internal/usecase/shared"
)

// Authenticator resolves a bearer access token into the calling actor.
type Authenticator interface {
	Authenticate(accessToken string) (shared.Actor, error)
}

type jwtAuthenticator struct {
	jwtService *jwt.Service
}

func NewAuthenticator(jwtService *jwt.Service) Authenticator {
	return &jwtAuthenticator{jwtService: jwtService}
}

// Refresh tokens never authenticate a request.
func (a *jwtAuthenticator) Authenticate(accessToken string) (shared.Actor, error) {
	claims, err := a.jwtService.ValidateToken(accessToken)
	if err != nil {
		return shared.Actor{}, err
	}
	if claims.TokenType != jwt.TokenTypeAccess {
		return shared.Actor{}, jwt.ErrInvalidToken
	}

	role, err := user.NewRole(claims.Role)
	if err != nil {
		return shared.Actor{}, jwt.ErrInvalidToken
	}
	return shared.Actor{UserID: claims.UserID, Role: role}, nil
}
