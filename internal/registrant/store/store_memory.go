package store

import (
	"context"
	"sync"

	"rezo/internal/registrant/models"
	"rezo/pkg/platform/sentinel"
)

// InMemory keeps registrants in process memory. Used by unit tests and local
// development without a database.
type InMemory struct {
	mu      sync.RWMutex
	byEmail map[string]*models.Registrant
}

// NewInMemory constructs an empty in-memory registrant store.
func NewInMemory() *InMemory {
	return &InMemory{byEmail: make(map[string]*models.Registrant)}
}

func (s *InMemory) FindByEmail(ctx context.Context, email string) (*models.Registrant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.byEmail[email]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return clone(r), nil
}

func (s *InMemory) FindByPhone(ctx context.Context, phone string) (*models.Registrant, error) {
	if phone == models.SentinelPhone {
		return nil, sentinel.ErrNotFound
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.byEmail {
		if r.Phone == phone {
			return clone(r), nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) Upsert(ctx context.Context, registrant *models.Registrant) (*models.Registrant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Mirror the database's partial unique index on phone: another aggregate
	// holding the same non-sentinel number rejects the write.
	if registrant.Phone != models.SentinelPhone {
		for email, existing := range s.byEmail {
			if email != registrant.Email && existing.Phone == registrant.Phone {
				return nil, &ConflictError{Field: "phone"}
			}
		}
	}

	persisted := clone(registrant)
	if existing, ok := s.byEmail[registrant.Email]; ok {
		persisted.ID = existing.ID
		persisted.CreatedAt = existing.CreatedAt
		persisted.RegistrationDate = existing.RegistrationDate
	}
	s.byEmail[persisted.Email] = persisted
	return clone(persisted), nil
}

func (s *InMemory) SetNewsletterSubscription(ctx context.Context, email string, subscribed bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.byEmail[email]
	if !ok {
		return sentinel.ErrNotFound
	}
	r.SubscribedToNewsletter = subscribed
	return nil
}

func clone(r *models.Registrant) *models.Registrant {
	cp := *r
	if r.Professional != nil {
		detail := *r.Professional
		detail.Interests = append([]models.ProfessionalInterest(nil), r.Professional.Interests...)
		cp.Professional = &detail
	}
	if r.Company != nil {
		detail := *r.Company
		detail.Needs = append([]models.CompanyNeed(nil), r.Company.Needs...)
		cp.Company = &detail
	}
	return &cp
}
