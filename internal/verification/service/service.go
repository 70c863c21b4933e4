// Package service implements the email verification flow: a short-lived
// numeric code is generated server-side, emailed to the address, and exchanged
// on confirmation for a signed token that later proves ownership during
// registration.
package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"golang.org/x/crypto/bcrypt"

	"rezo/internal/mailer"
	"rezo/internal/verification/metrics"
	"rezo/internal/verification/store"
	"rezo/internal/verification/token"
	dErrors "rezo/pkg/domain-errors"
	audit "rezo/pkg/platform/audit"
	"rezo/pkg/platform/sentinel"
	"rezo/pkg/requestcontext"
)

// Confirmation outcomes exposed to handlers. Expired and invalid are reported
// distinctly so the form can tell the user whether to retype or re-request.
var (
	ErrCodeExpired = dErrors.New(dErrors.CodeBadRequest, "code expiré, veuillez en demander un nouveau")
	ErrCodeInvalid = dErrors.New(dErrors.CodeBadRequest, "code invalide")
	ErrTooSoon     = dErrors.New(dErrors.CodeTooManyRequests, "un code vient d'être envoyé, veuillez patienter avant d'en demander un autre")
)

// Emitter publishes audit events. Best effort: emission failures never fail
// the user-facing operation.
type Emitter interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service coordinates code issuance, delivery and confirmation.
type Service struct {
	codes   store.CodeStore
	sender  mailer.Sender
	tokens  *token.Issuer
	emitter Emitter
	logger  *slog.Logger
	metrics *metrics.Metrics

	codeTTL        time.Duration
	resendCooldown time.Duration
}

// NewService constructs the verification service.
func NewService(codes store.CodeStore, sender mailer.Sender, tokens *token.Issuer, emitter Emitter, logger *slog.Logger, m *metrics.Metrics, codeTTL, resendCooldown time.Duration) *Service {
	return &Service{
		codes:          codes,
		sender:         sender,
		tokens:         tokens,
		emitter:        emitter,
		logger:         logger,
		metrics:        m,
		codeTTL:        codeTTL,
		resendCooldown: resendCooldown,
	}
}

// Issue generates a fresh code for the email, stores its hash with the TTL and
// sends it. Rejected with ErrTooSoon while the resend cooldown is live.
func (s *Service) Issue(ctx context.Context, email string) (time.Duration, error) {
	ok, err := s.codes.TryAcquireCooldown(ctx, email, s.resendCooldown)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeUnavailable, "verification store unavailable")
	}
	if !ok {
		s.metrics.RecordCooldownRejection()
		return 0, ErrTooSoon
	}

	code, err := generateCode()
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "generate verification code")
	}

	// Only the bcrypt hash is stored; a store compromise does not leak
	// usable codes.
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "hash verification code")
	}
	if err := s.codes.SaveCode(ctx, email, string(hash), s.codeTTL); err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeUnavailable, "verification store unavailable")
	}

	msg, err := mailer.VerificationMessage(email, code, s.codeTTL)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "build verification email")
	}
	if err := s.sender.Send(ctx, msg); err != nil {
		s.logger.ErrorContext(ctx, "verification email send failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		return 0, dErrors.Wrap(err, dErrors.CodeUnavailable, "impossible d'envoyer l'email de vérification")
	}

	s.metrics.RecordIssued()
	s.emit(ctx, audit.Event{
		Action: string(audit.EventVerificationCodeIssued),
		Email:  email,
	})
	s.logger.InfoContext(ctx, "verification code issued",
		"request_id", requestcontext.RequestID(ctx),
		"ttl", s.codeTTL,
	)
	return s.codeTTL, nil
}

// Confirm checks the submitted code against the stored hash. On success the
// code is consumed and a signed ownership token is returned.
func (s *Service) Confirm(ctx context.Context, email, code string) (string, error) {
	hash, err := s.codes.GetCode(ctx, email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.metrics.RecordConfirmation("expired")
			return "", ErrCodeExpired
		}
		return "", dErrors.Wrap(err, dErrors.CodeUnavailable, "verification store unavailable")
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)) != nil {
		s.metrics.RecordConfirmation("invalid")
		return "", ErrCodeInvalid
	}

	// Consume before minting so a confirmed code cannot be replayed.
	if err := s.codes.DeleteCode(ctx, email); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeUnavailable, "verification store unavailable")
	}

	signed, err := s.tokens.Issue(email, requestcontext.Now(ctx))
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "issue verification token")
	}

	s.metrics.RecordConfirmation("ok")
	s.emit(ctx, audit.Event{
		Action: string(audit.EventEmailVerified),
		Email:  email,
	})
	s.logger.InfoContext(ctx, "email verified",
		"request_id", requestcontext.RequestID(ctx),
	)
	return signed, nil
}

// emit publishes with request attribution. Failures are logged, never
// propagated.
func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.emitter == nil {
		return
	}
	event.RequestID = requestcontext.RequestID(ctx)
	event.IPAddress = requestcontext.ClientIP(ctx)
	event.Browser = requestcontext.Browser(ctx)
	if err := s.emitter.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "audit emit failed", "error", err, "action", event.Action)
	}
}

// generateCode returns a uniformly random 6-digit code.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
