package store

import (
	"context"
	"fmt"

	"rezo/internal/registrant/models"
	"rezo/pkg/platform/sentinel"
)

// Store persists registrant aggregates. Implementations are pure I/O; business
// rules (uniqueness policy, placeholder defaults) live in the service layer.
type Store interface {
	// FindByEmail returns the registrant holding the email, including its
	// detail record, or sentinel.ErrNotFound.
	FindByEmail(ctx context.Context, email string) (*models.Registrant, error)

	// FindByPhone returns the registrant holding the phone number, or
	// sentinel.ErrNotFound. Sentinel placeholder phones never match.
	FindByPhone(ctx context.Context, phone string) (*models.Registrant, error)

	// Upsert writes the registrant and its detail record as one logical
	// operation keyed by email: insert when absent, overwrite when present.
	// Returns the persisted aggregate (existing identity and creation
	// metadata survive updates). Unique-constraint rejections surface as
	// *ConflictError.
	Upsert(ctx context.Context, registrant *models.Registrant) (*models.Registrant, error)

	// SetNewsletterSubscription flips the subscription flag of an existing
	// registrant without touching any other field.
	SetNewsletterSubscription(ctx context.Context, email string, subscribed bool) error
}

// ConflictError reports which unique field rejected a write so handlers can
// return a field-scoped conflict response.
type ConflictError struct {
	Field string // "email" or "phone"
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("registrant %s already in use", e.Field)
}

func (e *ConflictError) Unwrap() error { return sentinel.ErrConflict }
