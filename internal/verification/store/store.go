// Package store persists pending verification codes. Codes live server-side
// with an explicit TTL; clients only ever see the plaintext code in the email.
package store

import (
	"context"
	"time"
)

// CodeStore holds hashed verification codes and resend-cooldown markers.
// Implementations are pure I/O: hashing, code generation and cooldown policy
// belong in the service.
type CodeStore interface {
	// SaveCode stores the code hash for the email with the given TTL,
	// replacing any earlier code for the same address.
	SaveCode(ctx context.Context, email, codeHash string, ttl time.Duration) error

	// GetCode returns the stored hash, or sentinel.ErrNotFound when no code
	// exists (never issued, consumed, or expired).
	GetCode(ctx context.Context, email string) (string, error)

	// DeleteCode removes the code after a successful confirmation so it
	// cannot be replayed.
	DeleteCode(ctx context.Context, email string) error

	// TryAcquireCooldown atomically sets the resend marker for the email.
	// Returns false while an earlier marker is still live.
	TryAcquireCooldown(ctx context.Context, email string, d time.Duration) (bool, error)
}
