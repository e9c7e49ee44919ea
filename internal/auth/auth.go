package auth

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Verifier checks a bearer token and returns the user id it belongs
// to. Issuing tokens is the auth provider's job, not ours.
type Verifier interface {
	Verify(token string) (string, error)
}

// JWTVerifier validates HS256 session tokens signed with the shared
// secret configured for the auth provider.
type JWTVerifier struct {
	Secret []byte
}

func (v JWTVerifier) Verify(token string) (string, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		return v.Secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}

	sub, err := parsed.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", ErrInvalidToken
	}
	return sub, nil
}
