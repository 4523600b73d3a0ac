package services_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkup/internal/core/domain"
	"linkup/internal/core/services"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := services.NewTokenService("test-secret")
	identity := domain.Identity{UserID: uuid.New(), Username: "alice"}

	token, err := svc.Generate(identity)
	require.NoError(t, err)

	verified, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, identity, verified)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	svc := services.NewTokenService("test-secret")
	_, err := svc.Verify("not-a-token")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	good := services.NewTokenService("secret-a")
	bad := services.NewTokenService("secret-b")
	token, err := good.Generate(domain.Identity{UserID: uuid.New(), Username: "alice"})
	require.NoError(t, err)
	_, err = bad.Verify(token)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}
