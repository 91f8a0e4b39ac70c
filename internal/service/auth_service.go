package service

import (
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/noah-isme/sport-planner-api/internal/models"
	appErrors "github.com/noah-isme/sport-planner-api/pkg/errors"
)

// TokenVerifier validates access tokens issued by the dashboard's
// authentication service. This service never issues tokens itself.
type TokenVerifier struct {
	secret []byte
}

// NewTokenVerifier constructs a verifier for HS256 tokens signed with secret.
func NewTokenVerifier(secret string) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret)}
}

// ValidateToken parses and verifies the token and returns its claims.
func (v *TokenVerifier) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	if len(v.secret) == 0 {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "token verification is not configured")
	}
	token, err := jwt.ParseWithClaims(strings.TrimSpace(tokenString), &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	if claims.UserID == "" {
		claims.UserID = claims.Subject
	}
	if claims.UserID == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "token has no subject")
	}
	return claims, nil
}
