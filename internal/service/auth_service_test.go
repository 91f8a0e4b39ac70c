package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sport-planner-api/internal/models"
	appErrors "github.com/noah-isme/sport-planner-api/pkg/errors"
)

func signToken(t *testing.T, method jwt.SigningMethod, key interface{}, claims *models.JWTClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return signed
}

func TestTokenVerifierValidateToken(t *testing.T) {
	verifier := NewTokenVerifier("secret")
	token := signToken(t, jwt.SigningMethodHS256, []byte("secret"), &models.JWTClaims{
		Role: models.RoleStaff,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	claims, err := verifier.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, models.RoleStaff, claims.Role)
}

func TestTokenVerifierRejectsBadTokens(t *testing.T) {
	verifier := NewTokenVerifier("secret")
	valid := jwt.RegisteredClaims{Subject: "user-1", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}

	cases := map[string]string{
		"wrong secret": signToken(t, jwt.SigningMethodHS256, []byte("other"), &models.JWTClaims{RegisteredClaims: valid}),
		"expired": signToken(t, jwt.SigningMethodHS256, []byte("secret"), &models.JWTClaims{RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		}}),
		"wrong algorithm": signToken(t, jwt.SigningMethodHS512, []byte("secret"), &models.JWTClaims{RegisteredClaims: valid}),
		"no subject":      signToken(t, jwt.SigningMethodHS256, []byte("secret"), &models.JWTClaims{}),
		"garbage":         "not-a-token",
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := verifier.ValidateToken(token)
			require.Error(t, err)
			assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
		})
	}

	_, err := NewTokenVerifier("").ValidateToken(cases["garbage"])
	require.Error(t, err)
}
