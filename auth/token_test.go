package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"talkative/domain"
)

func TestGenerateAndValidateToken(t *testing.T) {
	req := require.New(t)

	// Given a signed token for a known user
	token, err := GenerateToken(domain.UserID(42), "alice", time.Hour)
	req.NoError(err)
	req.NotEmpty(token)

	// When validating it
	claims, err := ValidateToken(token)

	// Then the claims round-trip
	req.NoError(err)
	req.Equal(int64(42), claims.UserID)
	req.Equal("alice", claims.Username)
}

func TestValidateToken_Garbage(t *testing.T) {
	req := require.New(t)

	_, err := ValidateToken("not-a-jwt")

	req.Error(err)
}

func TestValidateToken_Expired(t *testing.T) {
	req := require.New(t)

	// Given a token that expired an hour ago
	token, err := GenerateToken(domain.UserID(1), "bob", -time.Hour)
	req.NoError(err)

	// When validating it
	_, err = ValidateToken(token)

	// Then it is rejected
	req.Error(err)
}
