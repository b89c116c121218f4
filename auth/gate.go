package auth

import (
	"fmt"
	"log/slog"

	"talkative/domain"
	"talkative/errors"
	"talkative/repositories"
)

// Gate resolves the bearer token presented during the connection
// handshake to an Identity. Resolution is pure: the token is decoded
// locally and the principal looked up, nothing else happens.
type Gate struct {
	users repositories.IUserIdentityRepository
	log   *slog.Logger
}

func NewGate(users repositories.IUserIdentityRepository, log *slog.Logger) *Gate {
	return &Gate{users: users, log: log}
}

// Resolve returns ErrUnauthenticated when the token is absent,
// malformed, expired, carries a bad signature, or names a principal
// that no longer exists. Callers must close the connection in that case.
func (g *Gate) Resolve(token string) (domain.Identity, error) {
	if token == "" {
		return domain.Identity{}, errors.ErrUnauthenticated
	}

	claims, err := ValidateToken(token)
	if err != nil {
		g.log.Debug("Token rejected", "error", err)
		return domain.Identity{}, fmt.Errorf("%w: %v", errors.ErrUnauthenticated, err)
	}

	user, err := g.users.GetUserByID(domain.UserID(claims.UserID))
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: principal %d", errors.ErrUnauthenticated, claims.UserID)
	}

	return domain.Identity{ID: domain.UserID(user.ID), Username: user.Username}, nil
}
