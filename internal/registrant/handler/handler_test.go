package handler_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"rezo/internal/registrant/handler"
	"rezo/internal/registrant/service"
	"rezo/internal/registrant/store"
	"rezo/pkg/testutil"
)

type HandlerSuite struct {
	suite.Suite
	store  *store.InMemory
	router chi.Router
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.store = store.NewInMemory()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.NewService(s.store, nil, nil, logger, nil)

	s.router = chi.NewRouter()
	handler.New(svc).Register(s.router)
}

func professionalForm(email, phone string) url.Values {
	return url.Values{
		"firstName":             {"Amina"},
		"lastName":              {"Benali"},
		"email":                 {email},
		"phone":                 {phone},
		"city":                  {"Casablanca"},
		"country":               {"Maroc"},
		"sector":                {"TECHNOLOGIE"},
		"professionalInterests": {"MENTORAT", "FORMATION"},
	}
}

func businessForm(email, phone string) url.Values {
	return url.Values{
		"firstName":    {"Karim"},
		"lastName":     {"El Fassi"},
		"email":        {email},
		"phone":        {phone},
		"address":      {"12 Rue des Palmiers, Rabat"},
		"sector":       {"FINANCE"},
		"companyName":  {"Atlas Capital"},
		"companySize":  {"BETWEEN_10_50"},
		"companyNeeds": {"RESEAU_B2B", "INVESTISSEMENTS"},
	}
}

func (s *HandlerSuite) TestRegisterProfessionalSuccess() {
	req := testutil.NewFormRequest(s.T(), http.MethodPost, "/register/professional", professionalForm("amina@example.com", "+212612345678"))
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	testutil.AssertJSONContains(s.T(), rr, "success", true)

	resp := testutil.UnmarshalResponse[struct {
		User struct {
			Email       string `json:"email"`
			Role        string `json:"role"`
			PrimaryNeed string `json:"primaryNeed"`
		} `json:"user"`
	}](s.T(), rr)
	s.Equal("amina@example.com", resp.User.Email)
	s.Equal("PROFESSIONAL", resp.User.Role)
	s.Equal("EMPLOI", resp.User.PrimaryNeed)
}

func (s *HandlerSuite) TestRegisterProfessionalValidationErrors() {
	form := professionalForm("", "+212612345678")
	form.Del("professionalInterests")
	req := testutil.NewFormRequest(s.T(), http.MethodPost, "/register/professional", form)
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
	resp := testutil.UnmarshalResponse[struct {
		Error   string `json:"error"`
		Details []struct {
			Path string `json:"path"`
			Code string `json:"code"`
		} `json:"details"`
	}](s.T(), rr)
	s.Equal("Données invalides", resp.Error)

	paths := make(map[string]string)
	for _, d := range resp.Details {
		paths[d.Path] = d.Code
	}
	s.Equal("MISSING_FIELD", paths["email"])
	s.Equal("EMPTY_SELECTION", paths["professionalInterests"])
}

func (s *HandlerSuite) TestRegisterInvalidEnumValue() {
	form := professionalForm("amina@example.com", "+212612345678")
	form.Set("sector", "PLOMBERIE")
	req := testutil.NewFormRequest(s.T(), http.MethodPost, "/register/professional", form)
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
}

func (s *HandlerSuite) TestRegisterPhoneConflict() {
	req := testutil.NewFormRequest(s.T(), http.MethodPost, "/register/professional", professionalForm("first@example.com", "+212612345678"))
	testutil.AssertStatus(s.T(), testutil.DoRequest(s.router, req), http.StatusOK)

	req = testutil.NewFormRequest(s.T(), http.MethodPost, "/register/professional", professionalForm("second@example.com", "+212612345678"))
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatus(s.T(), rr, http.StatusConflict)
	testutil.AssertJSONContains(s.T(), rr, "field", "phone")
}

func (s *HandlerSuite) TestRegisterBusinessSuccess() {
	req := testutil.NewFormRequest(s.T(), http.MethodPost, "/register/business", businessForm("karim@example.com", "+212698765432"))
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	resp := testutil.UnmarshalResponse[struct {
		User struct {
			Role        string `json:"role"`
			PrimaryNeed string `json:"primaryNeed"`
			Company     struct {
				CompanyName string `json:"companyName"`
			} `json:"companyDetails"`
		} `json:"user"`
	}](s.T(), rr)
	s.Equal("BUSINESS", resp.User.Role)
	s.Equal("AUTRE", resp.User.PrimaryNeed)
	s.Equal("Atlas Capital", resp.User.Company.CompanyName)
}

func (s *HandlerSuite) TestSubscribe() {
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/newsletter/subscribe", map[string]string{"email": "jean.dupont@example.com"})
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	testutil.AssertJSONContains(s.T(), rr, "success", true)
}

func (s *HandlerSuite) TestSubscribeRejectsBadEmail() {
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/newsletter/subscribe", map[string]string{"email": "pas-un-email"})
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
}

func (s *HandlerSuite) TestCheckUnique() {
	req := testutil.NewFormRequest(s.T(), http.MethodPost, "/register/professional", professionalForm("amina@example.com", "+212612345678"))
	testutil.AssertStatus(s.T(), testutil.DoRequest(s.router, req), http.StatusOK)

	req = testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/check-unique", map[string]string{"field": "email", "value": "amina@example.com"})
	rr := testutil.DoRequest(s.router, req)
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	testutil.AssertJSONContains(s.T(), rr, "isUnique", false)

	req = testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/check-unique", map[string]string{"field": "phone", "value": "0612345678"})
	rr = testutil.DoRequest(s.router, req)
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	testutil.AssertJSONContains(s.T(), rr, "isUnique", false)

	req = testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/check-unique", map[string]string{"field": "email", "value": "libre@example.com"})
	rr = testutil.DoRequest(s.router, req)
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	testutil.AssertJSONContains(s.T(), rr, "isUnique", true)
}

func (s *HandlerSuite) TestCheckUniqueUnknownField() {
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/check-unique", map[string]string{"field": "company", "value": "Atlas"})
	rr := testutil.DoRequest(s.router, req)
	testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
}

func (s *HandlerSuite) TestMethodNotAllowed() {
	req := testutil.NewJSONRequest(s.T(), http.MethodGet, "/register/professional", nil)
	rr := testutil.DoRequest(s.router, req)
	testutil.AssertStatus(s.T(), rr, http.StatusMethodNotAllowed)
}
