// Package service implements the signup flows: professional and business
// registration, pre-submit uniqueness checks and newsletter subscription.
//
// Registration is an upsert keyed by email. Re-submitting with a known email
// updates the existing record in place; the database's unique constraints are
// the final arbiter against concurrent duplicates.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"rezo/internal/registrant/metrics"
	"rezo/internal/registrant/models"
	"rezo/internal/registrant/schema"
	"rezo/internal/registrant/store"
	dErrors "rezo/pkg/domain-errors"
	"rezo/pkg/email"
	audit "rezo/pkg/platform/audit"
	"rezo/pkg/platform/sentinel"
	"rezo/pkg/requestcontext"
)

var tracer = otel.Tracer("rezo/internal/registrant")

// TokenValidator checks that a verification token proves ownership of an email.
type TokenValidator interface {
	Validate(tokenString, email string) error
}

// Emitter publishes audit events. Best effort: emission failures never fail
// the user-facing operation.
type Emitter interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service coordinates registrant persistence, uniqueness policy and the
// newsletter placeholder flow.
type Service struct {
	store   store.Store
	tokens  TokenValidator
	emitter Emitter
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewService constructs the registration service.
func NewService(st store.Store, tokens TokenValidator, emitter Emitter, logger *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{
		store:   st,
		tokens:  tokens,
		emitter: emitter,
		logger:  logger,
		metrics: m,
	}
}

// RegisterProfessional registers or updates a professional signup.
func (s *Service) RegisterProfessional(ctx context.Context, payload *schema.ProfessionalPayload) (*models.Registrant, error) {
	ctx, span := tracer.Start(ctx, "registrant.RegisterProfessional",
		trace.WithAttributes(attribute.String("registrant.role", string(models.RoleProfessional))))
	defer span.End()

	verified, err := s.checkOwnership(payload.VerificationToken, payload.Email)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	registrant, err := models.NewRegistrant(uuid.New(), payload.Email, payload.Phone, models.RoleProfessional, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	registrant.FirstName = payload.FirstName
	registrant.LastName = payload.LastName
	registrant.City = payload.City
	registrant.Country = payload.Country
	registrant.Sector = payload.Sector
	// Professionals funnel into the employment track.
	registrant.PrimaryNeed = models.InterestEmploi
	registrant.ContractType = payload.ContractType
	registrant.ReferralSource = payload.ReferralSource
	registrant.UTMSource = payload.UTMSource
	registrant.UTMMedium = payload.UTMMedium
	registrant.UTMCampaign = payload.UTMCampaign
	registrant.SubscribedToNewsletter = payload.SubscribedToNewsletter
	registrant.EmailVerified = verified
	registrant.RegisteredForTrial = true
	registrant.IPAddress = requestcontext.ClientIP(ctx)
	registrant.Professional = &models.ProfessionalDetail{
		Interests:  payload.Interests,
		Challenges: payload.Challenges,
		City:       payload.City,
		Country:    payload.Country,
	}

	return s.register(ctx, span, registrant)
}

// RegisterBusiness registers or updates a business signup.
func (s *Service) RegisterBusiness(ctx context.Context, payload *schema.BusinessPayload) (*models.Registrant, error) {
	ctx, span := tracer.Start(ctx, "registrant.RegisterBusiness",
		trace.WithAttributes(attribute.String("registrant.role", string(models.RoleBusiness))))
	defer span.End()

	verified, err := s.checkOwnership(payload.VerificationToken, payload.Email)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	registrant, err := models.NewRegistrant(uuid.New(), payload.Email, payload.Phone, models.RoleBusiness, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	registrant.FirstName = payload.FirstName
	registrant.LastName = payload.LastName
	registrant.Address = payload.Address
	registrant.Sector = payload.Sector
	registrant.PrimaryNeed = models.InterestAutre
	registrant.ReferralSource = payload.ReferralSource
	registrant.UTMSource = payload.UTMSource
	registrant.UTMMedium = payload.UTMMedium
	registrant.UTMCampaign = payload.UTMCampaign
	registrant.SubscribedToNewsletter = payload.SubscribedToNewsletter
	registrant.EmailVerified = verified
	registrant.RegisteredForTrial = true
	registrant.IPAddress = requestcontext.ClientIP(ctx)
	registrant.Company = &models.CompanyDetail{
		CompanyName: payload.CompanyName,
		CompanySize: payload.CompanySize,
		Needs:       payload.Needs,
		Challenges:  payload.Challenges,
	}

	return s.register(ctx, span, registrant)
}

// register runs the shared tail of both flows: concurrent uniqueness lookup,
// upsert, metrics and audit.
func (s *Service) register(ctx context.Context, span trace.Span, registrant *models.Registrant) (*models.Registrant, error) {
	start := time.Now()
	defer s.metrics.ObserveRegister(start)

	existing, err := s.precheck(ctx, registrant.Email, registrant.Phone)
	if err != nil {
		span.RecordError(err)
		s.recordConflict(ctx, registrant, err)
		return nil, err
	}

	persisted, err := s.store.Upsert(ctx, registrant)
	if err != nil {
		// The precheck races concurrent submissions; constraint violations
		// surface here and get the same field-scoped treatment.
		if translated := translateConflict(err); translated != nil {
			span.RecordError(translated)
			s.recordConflict(ctx, registrant, translated)
			return nil, translated
		}
		span.RecordError(err)
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "enregistrement impossible, veuillez réessayer")
	}

	outcome := "created"
	action := audit.EventRegistrationCreated
	if existing != nil {
		outcome = "updated"
		action = audit.EventRegistrationUpdated
	}
	span.SetAttributes(attribute.String("registrant.outcome", outcome))

	s.metrics.RecordRegistration(string(persisted.Role), outcome)
	s.emit(ctx, audit.Event{
		Action: string(action),
		Email:  persisted.Email,
		Role:   string(persisted.Role),
	})
	s.logger.InfoContext(ctx, "registrant saved",
		"request_id", requestcontext.RequestID(ctx),
		"role", persisted.Role,
		"outcome", outcome,
		"email_verified", persisted.EmailVerified,
	)
	return persisted, nil
}

// precheck looks up the email and phone concurrently and rejects submissions
// whose phone belongs to a different registrant. Returns the record already
// holding the email, if any.
func (s *Service) precheck(ctx context.Context, emailAddr, phone string) (*models.Registrant, error) {
	var byEmail, byPhone *models.Registrant

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := s.store.FindByEmail(gctx, emailAddr)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return nil
			}
			return err
		}
		byEmail = r
		return nil
	})
	g.Go(func() error {
		r, err := s.store.FindByPhone(gctx, phone)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return nil
			}
			return err
		}
		byPhone = r
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "vérification d'unicité impossible")
	}

	if byPhone != nil && (byEmail == nil || byEmail.ID != byPhone.ID) {
		return nil, conflictError("phone")
	}
	return byEmail, nil
}

// checkOwnership resolves the emailVerified flag. No token means unverified; a
// token that fails validation rejects the submission outright.
func (s *Service) checkOwnership(tokenString, emailAddr string) (bool, error) {
	if tokenString == "" || s.tokens == nil {
		return false, nil
	}
	if err := s.tokens.Validate(tokenString, emailAddr); err != nil {
		return false, err
	}
	return true, nil
}

// CheckUnique reports whether the value is free to use for the given field.
// Phone values are normalized before lookup so spelling variants of one number
// agree with what registration would store.
func (s *Service) CheckUnique(ctx context.Context, field, value string) (bool, error) {
	var err error
	switch field {
	case "email":
		_, err = s.store.FindByEmail(ctx, value)
	case "phone":
		_, err = s.store.FindByPhone(ctx, models.NormalizePhone(value))
	default:
		return false, dErrors.New(dErrors.CodeBadRequest, "champ inconnu, utilisez email ou phone")
	}

	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		s.metrics.RecordUniquenessCheck(field, false)
		return true, nil
	case err != nil:
		return false, dErrors.Wrap(err, dErrors.CodeUnavailable, "vérification d'unicité impossible")
	default:
		s.metrics.RecordUniquenessCheck(field, true)
		return false, nil
	}
}

// Subscribe adds the email to the newsletter. A known registrant gets its flag
// flipped; an unknown one gets a placeholder record carrying the sentinel
// phone, a name derived from the address, and catch-all classification.
func (s *Service) Subscribe(ctx context.Context, emailAddr string) error {
	ctx, span := tracer.Start(ctx, "registrant.Subscribe")
	defer span.End()

	err := s.store.SetNewsletterSubscription(ctx, emailAddr, true)
	if err == nil {
		s.metrics.RecordNewsletterSignup()
		s.emit(ctx, audit.Event{
			Action: string(audit.EventNewsletterSubscribed),
			Email:  emailAddr,
		})
		return nil
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		span.RecordError(err)
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "inscription à la newsletter impossible")
	}

	firstName, lastName := email.DeriveNameFromEmail(emailAddr)
	placeholder, err := models.NewRegistrant(uuid.New(), emailAddr, models.SentinelPhone, models.RoleProfessional, requestcontext.Now(ctx))
	if err != nil {
		return err
	}
	placeholder.FirstName = firstName
	placeholder.LastName = lastName
	placeholder.Sector = models.SectorAutre
	placeholder.PrimaryNeed = models.InterestAutre
	placeholder.SubscribedToNewsletter = true
	placeholder.IPAddress = requestcontext.ClientIP(ctx)

	if _, err := s.store.Upsert(ctx, placeholder); err != nil {
		span.RecordError(err)
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "inscription à la newsletter impossible")
	}

	s.metrics.RecordNewsletterSignup()
	s.emit(ctx, audit.Event{
		Action: string(audit.EventNewsletterSubscribed),
		Email:  emailAddr,
	})
	s.logger.InfoContext(ctx, "newsletter placeholder created",
		"request_id", requestcontext.RequestID(ctx),
	)
	return nil
}

func (s *Service) recordConflict(ctx context.Context, registrant *models.Registrant, err error) {
	field := conflictField(err)
	if field == "" {
		return
	}
	s.metrics.RecordConflict(field)
	s.emit(ctx, audit.Event{
		Action: string(audit.EventRegistrationConflict),
		Email:  registrant.Email,
		Role:   string(registrant.Role),
		Field:  field,
	})
}

// emit publishes with full request attribution. Failures are logged, never
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

func translateConflict(err error) error {
	var conflict *store.ConflictError
	if errors.As(err, &conflict) {
		return conflictError(conflict.Field)
	}
	return nil
}

func conflictError(field string) error {
	msg := "Cet email est déjà utilisé"
	if field == "phone" {
		msg = "Ce numéro de téléphone est déjà utilisé"
	}
	return &FieldConflictError{Field: field, err: dErrors.New(dErrors.CodeConflict, msg)}
}

// FieldConflictError is a uniqueness rejection scoped to one form field, so
// the handler can tell the client which input to highlight.
type FieldConflictError struct {
	Field string
	err   error
}

func (e *FieldConflictError) Error() string { return e.err.Error() }

func (e *FieldConflictError) Unwrap() error { return e.err }

func conflictField(err error) string {
	var fieldErr *FieldConflictError
	if errors.As(err, &fieldErr) {
		return fieldErr.Field
	}
	return ""
}
