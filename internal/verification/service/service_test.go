package service_test

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"rezo/internal/mailer"
	"rezo/internal/mailer/mocks"
	"rezo/internal/verification/service"
	"rezo/internal/verification/store"
	"rezo/internal/verification/token"
	dErrors "rezo/pkg/domain-errors"
	audit "rezo/pkg/platform/audit"
	"rezo/pkg/platform/audit/publisher"
	auditmemory "rezo/pkg/platform/audit/store/memory"
)

var codePattern = regexp.MustCompile(`\d{6}`)

type ServiceSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	sender  *mocks.MockSender
	codes   *store.InMemory
	tokens  *token.Issuer
	events  *auditmemory.InMemoryStore
	service *service.Service

	lastEmail mailer.Message
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.sender = mocks.NewMockSender(s.ctrl)
	s.codes = store.NewInMemory()
	s.tokens = token.NewIssuer([]byte("test-signing-key"), 15*time.Minute)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.events = auditmemory.NewInMemoryStore()
	s.service = service.NewService(s.codes, s.sender, s.tokens, publisher.NewPublisher(s.events), logger, nil, 10*time.Minute, time.Minute)
	s.lastEmail = mailer.Message{}
}

func (s *ServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ServiceSuite) expectSend() {
	s.sender.EXPECT().
		Send(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, msg mailer.Message) error {
			s.lastEmail = msg
			return nil
		})
}

// sentCode extracts the numeric code from the captured email body.
func (s *ServiceSuite) sentCode() string {
	code := codePattern.FindString(s.lastEmail.HTML)
	s.Require().NotEmpty(code, "no code found in email body")
	return code
}

func (s *ServiceSuite) TestIssueAndConfirm() {
	ctx := context.Background()
	s.expectSend()

	ttl, err := s.service.Issue(ctx, "amina@example.com")
	s.Require().NoError(err)
	s.Equal(10*time.Minute, ttl)
	s.Equal("amina@example.com", s.lastEmail.To)

	signed, err := s.service.Confirm(ctx, "amina@example.com", s.sentCode())
	s.Require().NoError(err)
	s.Require().NoError(s.tokens.Validate(signed, "amina@example.com"))

	events, err := s.events.ListByEmail(ctx, "amina@example.com")
	s.Require().NoError(err)
	s.Require().Len(events, 2)
	s.Equal(string(audit.EventVerificationCodeIssued), events[0].Action)
	s.Equal(string(audit.EventEmailVerified), events[1].Action)
}

func (s *ServiceSuite) TestConfirmWrongCodeKeepsCodeAlive() {
	ctx := context.Background()
	s.expectSend()

	_, err := s.service.Issue(ctx, "amina@example.com")
	s.Require().NoError(err)

	_, err = s.service.Confirm(ctx, "amina@example.com", "000000")
	s.Require().ErrorIs(err, service.ErrCodeInvalid)

	// A wrong attempt does not consume the code.
	_, err = s.service.Confirm(ctx, "amina@example.com", s.sentCode())
	s.Require().NoError(err)
}

func (s *ServiceSuite) TestConfirmWithoutIssueReportsExpired() {
	_, err := s.service.Confirm(context.Background(), "amina@example.com", "123456")
	s.Require().ErrorIs(err, service.ErrCodeExpired)
}

func (s *ServiceSuite) TestConfirmedCodeCannotBeReplayed() {
	ctx := context.Background()
	s.expectSend()

	_, err := s.service.Issue(ctx, "amina@example.com")
	s.Require().NoError(err)
	code := s.sentCode()

	_, err = s.service.Confirm(ctx, "amina@example.com", code)
	s.Require().NoError(err)

	_, err = s.service.Confirm(ctx, "amina@example.com", code)
	s.Require().ErrorIs(err, service.ErrCodeExpired)
}

func (s *ServiceSuite) TestResendCooldown() {
	ctx := context.Background()
	s.expectSend()

	_, err := s.service.Issue(ctx, "amina@example.com")
	s.Require().NoError(err)

	_, err = s.service.Issue(ctx, "amina@example.com")
	s.Require().ErrorIs(err, service.ErrTooSoon)
	s.True(dErrors.HasCode(err, dErrors.CodeTooManyRequests))
}

func (s *ServiceSuite) TestCooldownIsPerEmail() {
	ctx := context.Background()
	s.expectSend()
	_, err := s.service.Issue(ctx, "first@example.com")
	s.Require().NoError(err)

	s.expectSend()
	_, err = s.service.Issue(ctx, "second@example.com")
	s.Require().NoError(err)
}

func (s *ServiceSuite) TestIssueSendFailure() {
	ctx := context.Background()
	s.sender.EXPECT().
		Send(gomock.Any(), gomock.Any()).
		Return(context.DeadlineExceeded)

	_, err := s.service.Issue(ctx, "amina@example.com")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
}
