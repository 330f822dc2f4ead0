package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorlane/tutor-dash-api/internal/models"
	"github.com/tutorlane/tutor-dash-api/pkg/config"
)

const testSecret = "test-secret"

func signToken(t *testing.T, method jwt.SigningMethod, secret string, claims models.JWTClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestValidateTokenExtractsClaims(t *testing.T) {
	svc := NewAuthService(config.JWTConfig{Secret: testSecret})
	raw := signToken(t, jwt.SigningMethodHS256, testSecret, models.JWTClaims{
		UserID:      "tutor-1",
		Role:        models.RoleTutor,
		DisplayName: "Sam Rivera",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	claims, err := svc.ValidateToken(raw)
	require.NoError(t, err)
	assert.Equal(t, "tutor-1", claims.UserID)
	assert.Equal(t, models.RoleTutor, claims.Role)
	assert.Equal(t, "Sam Rivera", claims.DisplayName)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	svc := NewAuthService(config.JWTConfig{Secret: testSecret})
	raw := signToken(t, jwt.SigningMethodHS256, "other-secret", models.JWTClaims{UserID: "tutor-1"})

	_, err := svc.ValidateToken(raw)
	assert.Error(t, err)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	svc := NewAuthService(config.JWTConfig{Secret: testSecret})
	raw := signToken(t, jwt.SigningMethodHS256, testSecret, models.JWTClaims{
		UserID: "tutor-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})

	_, err := svc.ValidateToken(raw)
	assert.Error(t, err)
}

func TestValidateTokenRejectsUnexpectedSigningMethod(t *testing.T) {
	svc := NewAuthService(config.JWTConfig{Secret: testSecret})
	raw := signToken(t, jwt.SigningMethodHS512, testSecret, models.JWTClaims{UserID: "tutor-1"})

	_, err := svc.ValidateToken(raw)
	assert.Error(t, err)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := NewAuthService(config.JWTConfig{Secret: testSecret})

	_, err := svc.ValidateToken("not-a-token")
	assert.Error(t, err)
}
