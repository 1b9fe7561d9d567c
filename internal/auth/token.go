package auth

import (
	"errors"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/helpdesk-dashboard/internal/domain"
)

// TokenVerifier checks access tokens issued by the helpdesk API with the shared HS256 secret.
type TokenVerifier struct {
	secret []byte
}

// NewTokenVerifier builds a verifier for secret.
func NewTokenVerifier(secret string) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret)}
}

// Claims describes the JWT payload of the helpdesk API: the user id travels in sub.
type Claims struct {
	jwt.RegisteredClaims
}

// Verify validates signature and expiry and returns the token claims.
func (v *TokenVerifier) Verify(tokenStr string) (domain.Token, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return v.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return domain.Token{}, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return domain.Token{}, errors.New("invalid token claims")
	}

	token := domain.Token{SubjectID: claims.Subject, Raw: tokenStr}
	if claims.ExpiresAt != nil {
		token.ExpiresAt = claims.ExpiresAt.Time
	}
	if claims.IssuedAt != nil {
		token.IssuedAt = claims.IssuedAt.Time
	}
	return token, nil
}
