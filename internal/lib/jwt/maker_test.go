package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axmetovrr/elibrary/internal/models"
)

func TestMaker_GenerateAndParseToken(t *testing.T) {
	maker := NewJWTMaker("test-secret-key", 15*time.Minute)

	actor := models.Actor{
		UID:            "550e8400-e29b-41d4-a716-446655440000",
		Username:       "student1",
		Role:           models.RoleUser,
		Type:           models.ActorStudent,
		InstitutionUID: "660e8400-e29b-41d4-a716-446655440111",
	}

	token, err := maker.GenerateToken(actor)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := maker.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, actor, claims.Actor())
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), claims.ExpiresAt.Time, 5*time.Second)
}

func TestMaker_ExpiredTokenRejected(t *testing.T) {
	maker := NewJWTMaker("test-secret-key", -time.Minute)

	token, err := maker.GenerateToken(models.Actor{UID: "uid", Username: "reader",
		Role: models.RoleUser, Type: models.ActorIndividual})
	require.NoError(t, err)

	_, err = maker.ParseToken(token)
	require.Error(t, err)
}

func TestMaker_WrongSecretRejected(t *testing.T) {
	maker := NewJWTMaker("test-secret-key", 15*time.Minute)
	other := NewJWTMaker("another-secret", 15*time.Minute)

	token, err := maker.GenerateToken(models.Actor{UID: "uid", Username: "reader",
		Role: models.RoleUser, Type: models.ActorIndividual})
	require.NoError(t, err)

	_, err = other.ParseToken(token)
	require.Error(t, err)
}

func TestMaker_GarbageTokenRejected(t *testing.T) {
	maker := NewJWTMaker("test-secret-key", 15*time.Minute)

	_, err := maker.ParseToken("not.a.token")
	require.Error(t, err)
}
