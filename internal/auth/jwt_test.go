package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	tokens := NewTokenManager([]byte("test-secret"), time.Hour)

	token, err := tokens.Generate("user-123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	subject, err := tokens.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", subject)
}

func TestTokenManager_Expired(t *testing.T) {
	tokens := NewTokenManager([]byte("test-secret"), -time.Minute)

	token, err := tokens.Generate("user-123")
	require.NoError(t, err)

	_, err = tokens.Validate(token)
	assert.Error(t, err)
}

func TestTokenManager_WrongSecret(t *testing.T) {
	issuer := NewTokenManager([]byte("test-secret"), time.Hour)
	verifier := NewTokenManager([]byte("other-secret"), time.Hour)

	token, err := issuer.Generate("user-123")
	require.NoError(t, err)

	_, err = verifier.Validate(token)
	assert.Error(t, err)
}

func TestTokenManager_Garbage(t *testing.T) {
	tokens := NewTokenManager([]byte("test-secret"), time.Hour)

	_, err := tokens.Validate("not.a.token")
	assert.Error(t, err)
}
