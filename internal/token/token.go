// Package token issues and verifies the signed, time-bound tokens used
// in password-reset links. A token is self-contained: it carries the
// account email and its own expiry, signed with the server secret.
package token

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const purposeReset = "password_reset"

var (
	ErrInvalid = errors.New("token: invalid or expired")
)

type resetClaims struct {
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// Issuer signs reset tokens with an HMAC secret.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

func NewIssuer(secret []byte, ttl time.Duration) *Issuer {
	return &Issuer{secret: secret, ttl: ttl}
}

// Issue returns a signed token for the given email and its expiry time.
func (i *Issuer) Issue(email string) (string, time.Time, error) {
	now := time.Now()
	expires := now.Add(i.ttl)
	claims := resetClaims{
		Purpose: purposeReset,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strings.ToLower(strings.TrimSpace(email)),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	return signed, expires, err
}

// Verify checks signature, expiry and purpose, returning the embedded
// email. Any failure collapses to ErrInvalid so callers can't leak why
// a token was rejected.
func (i *Issuer) Verify(tokenStr string) (string, error) {
	var claims resetClaims
	tok, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil || !tok.Valid {
		return "", ErrInvalid
	}
	if claims.Purpose != purposeReset || claims.Subject == "" {
		return "", ErrInvalid
	}
	return claims.Subject, nil
}
