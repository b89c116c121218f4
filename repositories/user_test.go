package repositories

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"talkative/domain"
	"talkative/errors"
)

func TestUserRepository_SaveAndGet(t *testing.T) {
	req := require.New(t)
	repo := NewUserRepository(openTestDB(t))

	// Given a stored user
	user := User{ID: 1, Username: "alice", CreatedAt: time.Now().UTC()}
	req.NoError(repo.SaveUser(user))

	// When fetching it by id
	got, err := repo.GetUserByID(domain.UserID(1))

	// Then the record round-trips
	req.NoError(err)
	req.Equal(user.ID, got.ID)
	req.Equal(user.Username, got.Username)
}

func TestUserRepository_GetUnknown(t *testing.T) {
	req := require.New(t)
	repo := NewUserRepository(openTestDB(t))

	_, err := repo.GetUserByID(domain.UserID(404))

	req.ErrorIs(err, errors.ErrUserNotFound)
}
