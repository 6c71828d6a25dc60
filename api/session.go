package api

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	adminSubject    = "admin"
	sessionIssuer   = "portfolio-backend"
	adminCookieName = "admin_token"
)

var errInvalidSession = errors.New("invalid admin session")

// sessionSigner issues and verifies the HS256 tokens stored in the admin cookie.
// The admin secret doubles as the signing key.
type sessionSigner struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

func newSessionSigner(secret string, ttl time.Duration) sessionSigner {
	return sessionSigner{key: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue returns a signed token and its expiry
func (s sessionSigner) Issue() (string, time.Time, error) {
	now := s.now().UTC()
	expires := now.Add(s.ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    sessionIssuer,
		Subject:   adminSubject,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	})
	signed, err := token.SignedString(s.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign admin session: %w", err)
	}
	return signed, expires, nil
}

// Verify checks signature, issuer, subject and expiry of token
func (s sessionSigner) Verify(token string) (*jwt.RegisteredClaims, error) {
	if len(s.key) == 0 {
		return nil, errInvalidSession
	}

	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(sessionIssuer),
		jwt.WithSubject(adminSubject),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidSession, err)
	}
	return &claims, nil
}
