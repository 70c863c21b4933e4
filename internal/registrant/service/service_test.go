package service_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"rezo/internal/registrant/models"
	"rezo/internal/registrant/schema"
	"rezo/internal/registrant/service"
	"rezo/internal/registrant/store"
	"rezo/internal/verification/token"
	dErrors "rezo/pkg/domain-errors"
	audit "rezo/pkg/platform/audit"
	"rezo/pkg/platform/audit/publisher"
	"rezo/pkg/platform/audit/store/memory"
	"rezo/pkg/requestcontext"
)

type ServiceSuite struct {
	suite.Suite
	store   *store.InMemory
	tokens  *token.Issuer
	events  *memory.InMemoryStore
	service *service.Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.store = store.NewInMemory()
	s.tokens = token.NewIssuer([]byte("test-signing-key"), 15*time.Minute)
	s.events = memory.NewInMemoryStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.service = service.NewService(s.store, s.tokens, publisher.NewPublisher(s.events), logger, nil)
}

func (s *ServiceSuite) ctx() context.Context {
	ctx := requestcontext.WithClientMetadata(context.Background(), "203.0.113.7", "curl/8.0")
	return requestcontext.WithRequestID(ctx, "req-test")
}

func professionalPayload(email, phone string) *schema.ProfessionalPayload {
	return &schema.ProfessionalPayload{
		FirstName: "Amina",
		LastName:  "Benali",
		Email:     email,
		Phone:     phone,
		City:      "Casablanca",
		Country:   "Maroc",
		Sector:    models.SectorTechnologie,
		Interests: []models.ProfessionalInterest{models.InterestMentorat, models.InterestFormation},
	}
}

func businessPayload(email, phone string) *schema.BusinessPayload {
	return &schema.BusinessPayload{
		FirstName:   "Karim",
		LastName:    "El Fassi",
		Email:       email,
		Phone:       phone,
		Address:     "12 Rue des Palmiers, Rabat",
		Sector:      models.SectorFinance,
		CompanyName: "Atlas Capital",
		CompanySize: models.SizeBetween10_50,
		Needs:       []models.CompanyNeed{models.NeedReseauB2B},
	}
}

func (s *ServiceSuite) lastEvent(email string) audit.Event {
	events, err := s.events.ListByEmail(context.Background(), email)
	s.Require().NoError(err)
	s.Require().NotEmpty(events)
	return events[len(events)-1]
}

func (s *ServiceSuite) TestRegisterProfessionalCreates() {
	r, err := s.service.RegisterProfessional(s.ctx(), professionalPayload("amina@example.com", "+212612345678"))
	s.Require().NoError(err)

	s.Equal(models.RoleProfessional, r.Role)
	s.Equal(models.InterestEmploi, r.PrimaryNeed)
	s.True(r.RegisteredForTrial)
	s.False(r.EmailVerified)
	s.Equal("203.0.113.7", r.IPAddress)
	s.Require().NotNil(r.Professional)
	s.Len(r.Professional.Interests, 2)

	event := s.lastEvent("amina@example.com")
	s.Equal(string(audit.EventRegistrationCreated), event.Action)
	s.Equal("203.0.113.7", event.IPAddress)
	s.Equal("req-test", event.RequestID)
}

func (s *ServiceSuite) TestRegisterWithVerificationToken() {
	signed, err := s.tokens.Issue("amina@example.com", time.Now())
	s.Require().NoError(err)

	payload := professionalPayload("amina@example.com", "+212612345678")
	payload.VerificationToken = signed

	r, err := s.service.RegisterProfessional(s.ctx(), payload)
	s.Require().NoError(err)
	s.True(r.EmailVerified)
}

func (s *ServiceSuite) TestRegisterRejectsForeignToken() {
	signed, err := s.tokens.Issue("other@example.com", time.Now())
	s.Require().NoError(err)

	payload := professionalPayload("amina@example.com", "+212612345678")
	payload.VerificationToken = signed

	_, err = s.service.RegisterProfessional(s.ctx(), payload)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
}

func (s *ServiceSuite) TestReRegisterUpdatesInPlace() {
	first, err := s.service.RegisterProfessional(s.ctx(), professionalPayload("amina@example.com", "+212612345678"))
	s.Require().NoError(err)

	payload := professionalPayload("amina@example.com", "+212612345678")
	payload.FirstName = "Amina-Nouvelle"
	second, err := s.service.RegisterProfessional(s.ctx(), payload)
	s.Require().NoError(err)

	s.Equal(first.ID, second.ID)
	s.Equal("Amina-Nouvelle", second.FirstName)
	s.Equal(string(audit.EventRegistrationUpdated), s.lastEvent("amina@example.com").Action)
}

func (s *ServiceSuite) TestPhoneHeldByAnotherRegistrant() {
	_, err := s.service.RegisterProfessional(s.ctx(), professionalPayload("first@example.com", "+212612345678"))
	s.Require().NoError(err)

	_, err = s.service.RegisterProfessional(s.ctx(), professionalPayload("second@example.com", "+212612345678"))
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))

	var conflict *service.FieldConflictError
	s.Require().ErrorAs(err, &conflict)
	s.Equal("phone", conflict.Field)

	s.Equal(string(audit.EventRegistrationConflict), s.lastEvent("second@example.com").Action)
}

func (s *ServiceSuite) TestRegisterBusiness() {
	r, err := s.service.RegisterBusiness(s.ctx(), businessPayload("karim@example.com", "+212698765432"))
	s.Require().NoError(err)

	s.Equal(models.RoleBusiness, r.Role)
	s.Equal(models.InterestAutre, r.PrimaryNeed)
	s.Equal("12 Rue des Palmiers, Rabat", r.Address)
	s.Require().NotNil(r.Company)
	s.Equal("Atlas Capital", r.Company.CompanyName)
	s.Nil(r.Professional)
}

func (s *ServiceSuite) TestRoleSwitchKeepsIdentity() {
	first, err := s.service.RegisterProfessional(s.ctx(), professionalPayload("amina@example.com", "+212612345678"))
	s.Require().NoError(err)

	second, err := s.service.RegisterBusiness(s.ctx(), businessPayload("amina@example.com", "+212612345678"))
	s.Require().NoError(err)

	s.Equal(first.ID, second.ID)
	s.Equal(models.RoleBusiness, second.Role)
}

func (s *ServiceSuite) TestCheckUnique() {
	_, err := s.service.RegisterProfessional(s.ctx(), professionalPayload("amina@example.com", "+212612345678"))
	s.Require().NoError(err)

	unique, err := s.service.CheckUnique(s.ctx(), "email", "amina@example.com")
	s.Require().NoError(err)
	s.False(unique)

	unique, err = s.service.CheckUnique(s.ctx(), "email", "libre@example.com")
	s.Require().NoError(err)
	s.True(unique)

	// National spelling of a stored +212 number resolves to the same record.
	unique, err = s.service.CheckUnique(s.ctx(), "phone", "0612345678")
	s.Require().NoError(err)
	s.False(unique)

	_, err = s.service.CheckUnique(s.ctx(), "company", "Atlas")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
}

func (s *ServiceSuite) TestSubscribeExistingRegistrant() {
	_, err := s.service.RegisterProfessional(s.ctx(), professionalPayload("amina@example.com", "+212612345678"))
	s.Require().NoError(err)

	s.Require().NoError(s.service.Subscribe(s.ctx(), "amina@example.com"))

	r, err := s.store.FindByEmail(context.Background(), "amina@example.com")
	s.Require().NoError(err)
	s.True(r.SubscribedToNewsletter)
	// Subscription does not touch the rest of the record.
	s.Equal("Amina", r.FirstName)
}

func (s *ServiceSuite) TestSubscribeCreatesPlaceholder() {
	s.Require().NoError(s.service.Subscribe(s.ctx(), "jean.dupont@example.com"))

	r, err := s.store.FindByEmail(context.Background(), "jean.dupont@example.com")
	s.Require().NoError(err)
	s.True(r.SubscribedToNewsletter)
	s.True(r.HasSentinelPhone())
	s.Equal("Jean", r.FirstName)
	s.Equal("Dupont", r.LastName)
	s.Equal(models.SectorAutre, r.Sector)
	s.Equal(models.InterestAutre, r.PrimaryNeed)
	s.False(r.RegisteredForTrial)

	s.Equal(string(audit.EventNewsletterSubscribed), s.lastEvent("jean.dupont@example.com").Action)
}
