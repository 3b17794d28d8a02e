package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestVerifierRoundTrip(t *testing.T) {
	req := require.New(t)
	v := NewVerifier("test-secret")

	token, err := v.Sign("user-42", time.Minute)
	req.NoError(err)

	userID, err := v.UserID(token)
	req.NoError(err)
	req.Equal("user-42", userID)
}

func TestVerifierExpiredToken(t *testing.T) {
	req := require.New(t)
	v := NewVerifier("test-secret")

	token, err := v.Sign("user-42", -time.Minute)
	req.NoError(err)

	_, err = v.UserID(token)
	req.ErrorIs(err, ErrTokenExpired)
}

func TestVerifierWrongSecret(t *testing.T) {
	req := require.New(t)

	token, err := NewVerifier("secret-a").Sign("user-42", time.Minute)
	req.NoError(err)

	_, err = NewVerifier("secret-b").UserID(token)
	req.ErrorIs(err, ErrTokenInvalid)
}

func TestVerifierGarbageToken(t *testing.T) {
	_, err := NewVerifier("test-secret").UserID("not-a-token")
	require.ErrorIs(t, err, ErrTokenInvalid)
}
