// Package schema validates and normalizes the raw field sets submitted by the
// registration wizard. Given a field-name→string(s) mapping it produces either
// a typed payload or a list of per-field violations; nothing downstream ever
// sees an unvalidated enum string.
package schema

import (
	"net/url"
	"strings"

	"github.com/asaskevich/govalidator"

	"rezo/internal/registrant/models"
	platformstrings "rezo/pkg/platform/strings"
)

// Violation codes, part of the wire contract with form clients.
const (
	CodeMissingField     = "MISSING_FIELD"
	CodeInvalidFormat    = "INVALID_FORMAT"
	CodeInvalidEnumValue = "INVALID_ENUM_VALUE"
	CodeEmptySelection   = "EMPTY_SELECTION"
)

// Violation names one failed rule on one field.
type Violation struct {
	Path    string `json:"path"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Violations aggregates all failed rules of one submission.
type Violations []Violation

func (v Violations) Error() string {
	if len(v) == 0 {
		return "validation failed"
	}
	parts := make([]string, len(v))
	for i, violation := range v {
		parts[i] = violation.Path + ": " + violation.Message
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// ProfessionalPayload is the normalized professional registration submission.
type ProfessionalPayload struct {
	FirstName  string
	LastName   string
	Email      string
	Phone      string
	City       string
	Country    string
	Sector     models.Sector
	Interests  []models.ProfessionalInterest
	Challenges string

	ContractType *models.ContractType

	SubscribedToNewsletter bool
	ReferralSource         string
	UTMSource              *string
	UTMMedium              *string
	UTMCampaign            *string

	// VerificationToken proves email ownership; issued by the verification
	// flow, validated by the registration service.
	VerificationToken string
}

// BusinessPayload is the normalized business registration submission.
type BusinessPayload struct {
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	Address     string
	Sector      models.Sector
	CompanyName string
	CompanySize models.CompanySize
	Needs       []models.CompanyNeed
	Challenges  string

	SubscribedToNewsletter bool
	ReferralSource         string
	UTMSource              *string
	UTMMedium              *string
	UTMCampaign            *string

	VerificationToken string
}

// ParseProfessional validates a professional submission. Returns the typed
// payload or the full list of violations (never both).
func ParseProfessional(form url.Values) (*ProfessionalPayload, Violations) {
	var violations Violations

	p := &ProfessionalPayload{
		FirstName:              strings.TrimSpace(form.Get("firstName")),
		LastName:               strings.TrimSpace(form.Get("lastName")),
		Email:                  strings.TrimSpace(form.Get("email")),
		City:                   strings.TrimSpace(form.Get("city")),
		Country:                strings.TrimSpace(form.Get("country")),
		Challenges:             strings.TrimSpace(form.Get("professionalChallenges")),
		SubscribedToNewsletter: form.Get("subscribedToNewsletter") == "true" || form.Get("subscribedToNewsletter") == "on",
		ReferralSource:         strings.TrimSpace(form.Get("referralSource")),
		UTMSource:              optional(form, "utmSource"),
		UTMMedium:              optional(form, "utmMedium"),
		UTMCampaign:            optional(form, "utmCampaign"),
		VerificationToken:      form.Get("verificationToken"),
	}

	violations = append(violations, requireString("firstName", p.FirstName, "Le prénom est requis")...)
	violations = append(violations, requireString("lastName", p.LastName, "Le nom est requis")...)
	violations = append(violations, checkEmail("email", p.Email)...)
	p.Phone, violations = checkPhone("phone", form.Get("phone"), violations)
	violations = append(violations, requireString("country", p.Country, "Le pays est requis")...)

	if sector, ok := models.ParseSector(form.Get("sector")); ok {
		p.Sector = sector
	} else {
		violations = append(violations, enumViolation("sector"))
	}

	raw := platformstrings.DedupeAndTrim(form["professionalInterests"])
	if len(raw) == 0 {
		violations = append(violations, Violation{
			Path: "professionalInterests", Code: CodeEmptySelection,
			Message: "Sélectionnez au moins un intérêt",
		})
	}
	for _, v := range raw {
		interest, ok := models.ParseInterest(v)
		if !ok {
			violations = append(violations, enumViolation("professionalInterests"))
			continue
		}
		p.Interests = append(p.Interests, interest)
	}

	if raw := form.Get("contractType"); raw != "" {
		if ct, ok := models.ParseContractType(raw); ok {
			p.ContractType = &ct
		} else {
			violations = append(violations, enumViolation("contractType"))
		}
	}

	if len(violations) > 0 {
		return nil, violations
	}
	return p, nil
}

// ParseBusiness validates a business submission.
func ParseBusiness(form url.Values) (*BusinessPayload, Violations) {
	var violations Violations

	p := &BusinessPayload{
		FirstName:              strings.TrimSpace(form.Get("firstName")),
		LastName:               strings.TrimSpace(form.Get("lastName")),
		Email:                  strings.TrimSpace(form.Get("email")),
		Address:                strings.TrimSpace(form.Get("address")),
		CompanyName:            strings.TrimSpace(form.Get("companyName")),
		Challenges:             strings.TrimSpace(form.Get("companyChallenges")),
		SubscribedToNewsletter: form.Get("subscribedToNewsletter") == "true" || form.Get("subscribedToNewsletter") == "on",
		ReferralSource:         strings.TrimSpace(form.Get("referralSource")),
		UTMSource:              optional(form, "utmSource"),
		UTMMedium:              optional(form, "utmMedium"),
		UTMCampaign:            optional(form, "utmCampaign"),
		VerificationToken:      form.Get("verificationToken"),
	}

	violations = append(violations, requireString("firstName", p.FirstName, "Le prénom est requis")...)
	violations = append(violations, requireString("lastName", p.LastName, "Le nom est requis")...)
	violations = append(violations, checkEmail("email", p.Email)...)
	p.Phone, violations = checkPhone("phone", form.Get("phone"), violations)
	violations = append(violations, requireString("address", p.Address, "L'adresse est requise")...)
	violations = append(violations, requireString("companyName", p.CompanyName, "Le nom de l'entreprise est requis")...)

	if sector, ok := models.ParseSector(form.Get("sector")); ok {
		p.Sector = sector
	} else {
		violations = append(violations, enumViolation("sector"))
	}

	if size, ok := models.ParseCompanySize(form.Get("companySize")); ok {
		p.CompanySize = size
	} else {
		violations = append(violations, enumViolation("companySize"))
	}

	raw := platformstrings.DedupeAndTrim(form["companyNeeds"])
	if len(raw) == 0 {
		violations = append(violations, Violation{
			Path: "companyNeeds", Code: CodeEmptySelection,
			Message: "Sélectionnez au moins un besoin",
		})
	}
	for _, v := range raw {
		need, ok := models.ParseNeed(v)
		if !ok {
			violations = append(violations, enumViolation("companyNeeds"))
			continue
		}
		p.Needs = append(p.Needs, need)
	}

	if len(violations) > 0 {
		return nil, violations
	}
	return p, nil
}

// ValidEmail reports whether the value matches a standard address grammar.
// Exposed for the newsletter and verification flows that validate a lone email.
func ValidEmail(email string) bool {
	return email != "" && govalidator.IsEmail(email) && govalidator.StringLength(email, "3", "255")
}

func requireString(path, value, message string) Violations {
	if value == "" {
		return Violations{{Path: path, Code: CodeMissingField, Message: message}}
	}
	return nil
}

func checkEmail(path, value string) Violations {
	if value == "" {
		return Violations{{Path: path, Code: CodeMissingField, Message: "L'email est requis"}}
	}
	if !ValidEmail(value) {
		return Violations{{Path: path, Code: CodeInvalidFormat, Message: "Format d'email invalide"}}
	}
	return nil
}

// checkPhone enforces the permissive international pattern and normalizes
// Moroccan spellings so the datastore sees one canonical form per number.
func checkPhone(path, raw string, violations Violations) (string, Violations) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", append(violations, Violation{
			Path: path, Code: CodeMissingField, Message: "Le numéro de téléphone est requis",
		})
	}
	if !models.ValidPhone(value) {
		return "", append(violations, Violation{
			Path: path, Code: CodeInvalidFormat, Message: "Numéro de téléphone invalide",
		})
	}
	return models.NormalizePhone(value), violations
}

func enumViolation(path string) Violation {
	return Violation{Path: path, Code: CodeInvalidEnumValue, Message: "Valeur non reconnue"}
}

func optional(form url.Values, key string) *string {
	if !form.Has(key) {
		return nil
	}
	v := strings.TrimSpace(form.Get(key))
	if v == "" {
		return nil
	}
	return &v
}
