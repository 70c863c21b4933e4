// Package token issues and validates short-lived proofs of email ownership.
// A token is minted when a verification code is confirmed and presented back
// by the client on final registration submit, so the server never trusts a
// client-asserted "verified" flag.
package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	dErrors "rezo/pkg/domain-errors"
)

const purpose = "email_verification"

type claims struct {
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// Issuer mints and validates HMAC-signed verification tokens.
type Issuer struct {
	key []byte
	ttl time.Duration
}

// NewIssuer constructs an Issuer. The key signs all tokens; ttl bounds how long
// a confirmed verification remains usable.
func NewIssuer(key []byte, ttl time.Duration) *Issuer {
	return &Issuer{key: key, ttl: ttl}
}

// Issue mints a token proving ownership of the email at the given instant.
func (i *Issuer) Issue(email string, now time.Time) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	})
	signed, err := t.SignedString(i.key)
	if err != nil {
		return "", fmt.Errorf("sign verification token: %w", err)
	}
	return signed, nil
}

// Validate checks the token's signature, expiry, purpose and that it was issued
// for the given email. Returns a coded domain error on any failure.
func (i *Issuer) Validate(tokenString, email string) error {
	parsed, err := jwt.ParseWithClaims(tokenString, &claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return i.key, nil
	})
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid verification token")
	}
	c, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid {
		return dErrors.New(dErrors.CodeBadRequest, "invalid verification token")
	}
	if c.Purpose != purpose {
		return dErrors.New(dErrors.CodeBadRequest, "token issued for a different purpose")
	}
	if c.Subject != email {
		return dErrors.New(dErrors.CodeBadRequest, "token issued for a different email")
	}
	return nil
}
