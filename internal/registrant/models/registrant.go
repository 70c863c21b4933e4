package models

import (
	"time"

	"github.com/google/uuid"

	dErrors "rezo/pkg/domain-errors"
)

// SentinelPhone is stored on newsletter placeholder registrants that never
// provided a real number. Excluded from phone uniqueness conflicts.
const SentinelPhone = "+0000000000"

// Registrant is the aggregate root for an early-access signup.
//
// Invariants:
//   - Email is non-empty and unique across all registrants
//   - Phone is unique across all registrants (the sentinel value excepted)
//   - Role is PROFESSIONAL or BUSINESS
//   - At most one detail record exists, matching the role
//
// Detail records are owned exclusively by their parent: they are created and
// overwritten together with the registrant in one logical upsert and have no
// independent lifecycle.
type Registrant struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Role      Role      `json:"role"`

	City    string `json:"city,omitempty"`
	Country string `json:"country,omitempty"`
	Address string `json:"address,omitempty"`
	Sector  Sector `json:"sector"`

	// PrimaryNeed mirrors the lead-scoring shortcut from the signup flow:
	// EMPLOI for professionals, AUTRE for businesses.
	PrimaryNeed  ProfessionalInterest `json:"primaryNeed"`
	ContractType *ContractType        `json:"contractType,omitempty"`

	ReferralSource string  `json:"referralSource,omitempty"`
	UTMSource      *string `json:"utmSource,omitempty"`
	UTMMedium      *string `json:"utmMedium,omitempty"`
	UTMCampaign    *string `json:"utmCampaign,omitempty"`

	SubscribedToNewsletter bool `json:"subscribedToNewsletter"`
	EmailVerified          bool `json:"emailVerified"`
	RegisteredForTrial     bool `json:"registeredForTrial"`

	RegistrationDate time.Time `json:"registrationDate"`
	IPAddress        string    `json:"ipAddress,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Professional *ProfessionalDetail `json:"professionalDetails,omitempty"`
	Company      *CompanyDetail      `json:"companyDetails,omitempty"`
}

// ProfessionalDetail holds the role-specific fields of a professional
// registrant (1:1, owned by the parent).
type ProfessionalDetail struct {
	Interests  []ProfessionalInterest `json:"professionalInterests"`
	Challenges string                 `json:"professionalChallenges,omitempty"`
	City       string                 `json:"city,omitempty"`
	Country    string                 `json:"country,omitempty"`
}

// CompanyDetail holds the role-specific fields of a business registrant
// (1:1, owned by the parent).
type CompanyDetail struct {
	CompanyName string        `json:"companyName"`
	CompanySize CompanySize   `json:"companySize"`
	Needs       []CompanyNeed `json:"companyNeeds"`
	Challenges  string        `json:"companyChallenges,omitempty"`
}

// NewRegistrant constructs a registrant with its lifecycle fields initialized.
func NewRegistrant(id uuid.UUID, email, phone string, role Role, now time.Time) (*Registrant, error) {
	if email == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "registrant email cannot be empty")
	}
	if role != RoleProfessional && role != RoleBusiness {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "registrant role must be PROFESSIONAL or BUSINESS")
	}
	return &Registrant{
		ID:               id,
		Email:            email,
		Phone:            phone,
		Role:             role,
		RegistrationDate: now,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// HasSentinelPhone reports whether this registrant is a newsletter placeholder
// that never provided a real phone number.
func (r *Registrant) HasSentinelPhone() bool {
	return r.Phone == SentinelPhone
}
