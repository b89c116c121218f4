package auth

import (
	"log/slog"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"talkative/domain"
	"talkative/errors"
	"talkative/mocks"
	"talkative/repositories"
)

func TestGate_Resolve(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockUsers := mocks.NewMockIUserIdentityRepository(ctrl)
	gate := NewGate(mockUsers, log)

	// Given a valid token for a stored user
	token, err := GenerateToken(domain.UserID(7), "alice", time.Hour)
	req.NoError(err)
	mockUsers.EXPECT().GetUserByID(domain.UserID(7)).
		Return(repositories.User{ID: 7, Username: "alice"}, nil).Times(1)

	// When resolving it
	identity, err := gate.Resolve(token)

	// Then the identity is returned
	req.NoError(err)
	req.Equal(domain.UserID(7), identity.ID)
	req.Equal("alice", identity.Username)
}

func TestGate_Resolve_EmptyToken(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockUsers := mocks.NewMockIUserIdentityRepository(ctrl)
	gate := NewGate(mockUsers, log)

	// The repository is never consulted
	mockUsers.EXPECT().GetUserByID(gomock.Any()).Times(0)

	_, err := gate.Resolve("")

	req.ErrorIs(err, errors.ErrUnauthenticated)
}

func TestGate_Resolve_BadToken(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockUsers := mocks.NewMockIUserIdentityRepository(ctrl)
	gate := NewGate(mockUsers, log)

	mockUsers.EXPECT().GetUserByID(gomock.Any()).Times(0)

	_, err := gate.Resolve("ey.bogus.token")

	req.ErrorIs(err, errors.ErrUnauthenticated)
}

func TestGate_Resolve_UnknownPrincipal(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockUsers := mocks.NewMockIUserIdentityRepository(ctrl)
	gate := NewGate(mockUsers, log)

	// Given a valid token whose user vanished from the store
	token, err := GenerateToken(domain.UserID(99), "ghost", time.Hour)
	req.NoError(err)
	mockUsers.EXPECT().GetUserByID(domain.UserID(99)).
		Return(repositories.User{}, errors.ErrUserNotFound).Times(1)

	_, err = gate.Resolve(token)

	req.ErrorIs(err, errors.ErrUnauthenticated)
}
