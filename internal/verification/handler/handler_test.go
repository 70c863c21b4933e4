package handler_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"rezo/internal/mailer"
	"rezo/internal/mailer/mocks"
	"rezo/internal/verification/handler"
	"rezo/internal/verification/service"
	"rezo/internal/verification/store"
	"rezo/internal/verification/token"
	"rezo/pkg/testutil"
)

var codePattern = regexp.MustCompile(`\d{6}`)

type HandlerSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	sender    *mocks.MockSender
	tokens    *token.Issuer
	router    chi.Router
	lastEmail mailer.Message
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.sender = mocks.NewMockSender(s.ctrl)
	s.tokens = token.NewIssuer([]byte("test-signing-key"), 15*time.Minute)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.NewService(store.NewInMemory(), s.sender, s.tokens, nil, logger, nil, 10*time.Minute, time.Minute)

	s.router = chi.NewRouter()
	handler.New(svc).Register(s.router)
	s.lastEmail = mailer.Message{}
}

func (s *HandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *HandlerSuite) expectSend() {
	s.sender.EXPECT().
		Send(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, msg mailer.Message) error {
			s.lastEmail = msg
			return nil
		})
}

func (s *HandlerSuite) requestCode(email string) {
	s.expectSend()
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/verify/request", map[string]string{"email": email})
	rr := testutil.DoRequest(s.router, req)
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	testutil.AssertJSONContains(s.T(), rr, "expiresIn", float64(600))
}

func (s *HandlerSuite) TestRequestAndConfirm() {
	s.requestCode("amina@example.com")

	code := codePattern.FindString(s.lastEmail.HTML)
	s.Require().NotEmpty(code)

	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/verify/confirm", map[string]string{
		"email": "amina@example.com",
		"code":  code,
	})
	rr := testutil.DoRequest(s.router, req)
	testutil.AssertStatus(s.T(), rr, http.StatusOK)

	resp := testutil.UnmarshalResponse[struct {
		Success           bool   `json:"success"`
		VerificationToken string `json:"verificationToken"`
	}](s.T(), rr)
	s.True(resp.Success)
	s.Require().NoError(s.tokens.Validate(resp.VerificationToken, "amina@example.com"))
}

func (s *HandlerSuite) TestRequestRejectsBadEmail() {
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/verify/request", map[string]string{"email": "pas-un-email"})
	rr := testutil.DoRequest(s.router, req)
	testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
}

func (s *HandlerSuite) TestRequestCooldown() {
	s.requestCode("amina@example.com")

	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/verify/request", map[string]string{"email": "amina@example.com"})
	rr := testutil.DoRequest(s.router, req)
	testutil.AssertStatus(s.T(), rr, http.StatusTooManyRequests)
}

func (s *HandlerSuite) TestConfirmWrongCode() {
	s.requestCode("amina@example.com")

	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/verify/confirm", map[string]string{
		"email": "amina@example.com",
		"code":  "000000",
	})
	rr := testutil.DoRequest(s.router, req)
	testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
	testutil.AssertJSONContains(s.T(), rr, "error", "CODE_INVALID")
}

func (s *HandlerSuite) TestConfirmWithoutRequest() {
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/verify/confirm", map[string]string{
		"email": "amina@example.com",
		"code":  "123456",
	})
	rr := testutil.DoRequest(s.router, req)
	testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
	testutil.AssertJSONContains(s.T(), rr, "error", "CODE_EXPIRED")
}

func (s *HandlerSuite) TestConfirmMissingCode() {
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/verify/confirm", map[string]string{
		"email": "amina@example.com",
	})
	rr := testutil.DoRequest(s.router, req)
	testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
}
