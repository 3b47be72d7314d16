package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "capability-dashboard/pkg/errors"
)

func newTestJWTService(secret string) JWTService {
	return NewJWTService(secret, 15*time.Minute, 24*time.Hour, zap.NewNop())
}

func TestGenerateAndValidateTokens(t *testing.T) {
	svc := newTestJWTService("test-secret")

	access, refresh, err := svc.GenerateTokens("emp-123")
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)
	assert.NotEqual(t, access, refresh)

	accessClaims, err := svc.ValidateToken(access)
	require.NoError(t, err)
	assert.Equal(t, "emp-123", accessClaims.EmployeeID)
	assert.False(t, accessClaims.IsRefreshToken)

	refreshClaims, err := svc.ValidateToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, "emp-123", refreshClaims.EmployeeID)
	assert.True(t, refreshClaims.IsRefreshToken)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	access, _, err := newTestJWTService("secret-a").GenerateTokens("emp-123")
	require.NoError(t, err)

	_, err = newTestJWTService("secret-b").ValidateToken(access)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := newTestJWTService("test-secret")

	_, err := svc.ValidateToken("not.a.token")
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)

	_, err = svc.ValidateToken("")
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	svc := NewJWTService("test-secret", -time.Minute, -time.Minute, zap.NewNop())

	access, _, err := svc.GenerateTokens("emp-123")
	require.NoError(t, err)

	_, err = svc.ValidateToken(access)
	assert.Error(t, err)
}

func TestTokenTTLs(t *testing.T) {
	svc := newTestJWTService("test-secret")

	assert.Equal(t, 15*time.Minute, svc.GetAccessTokenTTL())
	assert.Equal(t, 24*time.Hour, svc.GetRefreshTokenTTL())
}
