package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/careops/as-service/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	manager := NewTokenManager("test-secret", 30)

	partner := "파트너A"
	user := &domain.User{
		ID:              "user-1",
		Role:            domain.UserRolePartner,
		AssignedPartner: &partner,
	}

	token, expiresAt, err := manager.GenerateToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.WithinDuration(t, time.Now().Add(30*time.Minute), expiresAt, 5*time.Second)

	claims, err := manager.ParseToken(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.SubjectID)
	require.Equal(t, domain.UserRolePartner, claims.Role)
	require.NotNil(t, claims.AssignedPartner)
	require.Equal(t, partner, *claims.AssignedPartner)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	issuer := NewTokenManager("secret-a", 30)
	verifier := NewTokenManager("secret-b", 30)

	token, _, err := issuer.GenerateToken(&domain.User{ID: "user-1", Role: domain.UserRoleAgent})
	require.NoError(t, err)

	_, err = verifier.ParseToken(token)
	require.Error(t, err)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	manager := NewTokenManager("test-secret", 30)
	_, err := manager.ParseToken("not.a.token")
	require.Error(t, err)
}
