//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_user_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"talkative/domain"
	"talkative/errors"
)

type IUserIdentityRepository interface {
	SaveUser(user User) error
	GetUserByID(id domain.UserID) (User, error)
}

// User is the repository-level identity record. Account management
// (registration, credentials) lives outside this service; rows are
// written by the account system and only read here.
type User struct {
	ID        domain.UserID `json:"id"`
	Username  string        `json:"username"`
	CreatedAt time.Time     `json:"created_at"`
}

type UserRepository struct {
	db *badger.DB
}

func NewUserRepository(db *badger.DB) IUserIdentityRepository {
	return &UserRepository{db: db}
}

func userKey(id domain.UserID) []byte {
	return []byte(fmt.Sprintf("user:%d", id))
}

func (u UserRepository) SaveUser(user User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	return u.db.Update(func(txn *badger.Txn) error {
		return txn.Set(userKey(user.ID), data)
	})
}

// GetUserByID retrieves an identity record, or ErrUserNotFound when the
// principal no longer exists.
func (u UserRepository) GetUserByID(id domain.UserID) (User, error) {
	var user User
	err := u.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(userKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &user)
		})
	})
	if err != nil {
		return User{}, fmt.Errorf("%w: %d", errors.ErrUserNotFound, id)
	}
	return user, nil
}
