package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerateAndVerify(t *testing.T) {
	m := NewManager("test-secret-key-for-testing-only-32b!", time.Hour)

	token, err := m.GenerateToken(42, "discord-123", "editor")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := m.VerifyToken(token)
	assert.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "discord-123", claims.DiscordID)
	assert.Equal(t, "editor", claims.Role)
}

func TestVerifyExpiredToken(t *testing.T) {
	m := NewManager("test-secret-key-for-testing-only-32b!", -time.Minute)

	token, err := m.GenerateToken(1, "d", "viewer")
	assert.NoError(t, err)

	_, err = m.VerifyToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestVerifyWrongSecret(t *testing.T) {
	m := NewManager("correct-secret", time.Hour)
	other := NewManager("different-secret", time.Hour)

	token, err := m.GenerateToken(1, "d", "admin")
	assert.NoError(t, err)

	_, err = other.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyGarbage(t *testing.T) {
	m := NewManager("correct-secret", time.Hour)

	_, err := m.VerifyToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
