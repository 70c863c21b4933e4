// Package audit captures key domain actions for operational visibility and
// abuse investigation. Events are transport-agnostic; stores and sinks fan out.
package audit

import (
	"time"
)

// Event is emitted from domain logic. Email is the correlation key: every
// action in the signup funnel is anchored to the address it concerns.
type Event struct {
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
	Email     string    `json:"email"`
	Role      string    `json:"role,omitempty"`

	// Request correlation and client attribution, filled from request context.
	RequestID string `json:"requestId,omitempty"`
	IPAddress string `json:"ipAddress,omitempty"`
	Browser   string `json:"browser,omitempty"`

	// Field names the uniqueness field for conflict events.
	Field string `json:"field,omitempty"`
}

type AuditEvent string

const (
	// Registration events
	EventRegistrationCreated  AuditEvent = "registration_created"
	EventRegistrationUpdated  AuditEvent = "registration_updated"
	EventRegistrationConflict AuditEvent = "registration_conflict"

	// Newsletter events
	EventNewsletterSubscribed AuditEvent = "newsletter_subscribed"

	// Verification events
	EventVerificationCodeIssued AuditEvent = "verification_code_issued"
	EventEmailVerified          AuditEvent = "email_verified"
)
