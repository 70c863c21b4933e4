package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and transports return these
// (optionally wrapped) so services can translate them into domain errors.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: record does not exist in the store
// - ErrConflict: a unique constraint rejected the write
// - ErrExpired: verification code TTL elapsed (or was never issued)
// - ErrMismatch: supplied verification code does not match the stored one
// - ErrTooSoon: resend requested before the cooldown elapsed
// - ErrUnavailable: backing service temporarily unreachable
//
// For validation errors (bad input, missing fields), use pkg/domain-errors.
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrExpired     = errors.New("expired")
	ErrMismatch    = errors.New("mismatch")
	ErrTooSoon     = errors.New("too soon")
	ErrUnavailable = errors.New("unavailable")
)
