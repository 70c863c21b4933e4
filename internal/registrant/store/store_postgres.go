package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"rezo/internal/registrant/models"
	"rezo/pkg/platform/sentinel"
)

// Schema is the DDL this store expects. Applied idempotently at startup and by
// integration test bootstrap.
const Schema = `
CREATE TABLE IF NOT EXISTS registrants (
	id UUID PRIMARY KEY,
	first_name TEXT NOT NULL,
	last_name TEXT NOT NULL,
	email TEXT NOT NULL,
	phone TEXT NOT NULL,
	role TEXT NOT NULL,
	city TEXT NOT NULL DEFAULT '',
	country TEXT NOT NULL DEFAULT '',
	address TEXT NOT NULL DEFAULT '',
	sector TEXT NOT NULL,
	primary_need TEXT NOT NULL,
	contract_type TEXT,
	referral_source TEXT NOT NULL DEFAULT '',
	utm_source TEXT,
	utm_medium TEXT,
	utm_campaign TEXT,
	subscribed_to_newsletter BOOLEAN NOT NULL DEFAULT FALSE,
	email_verified BOOLEAN NOT NULL DEFAULT FALSE,
	registered_for_trial BOOLEAN NOT NULL DEFAULT FALSE,
	registration_date TIMESTAMPTZ NOT NULL,
	ip_address TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL,
	CONSTRAINT registrants_email_key UNIQUE (email)
);

CREATE UNIQUE INDEX IF NOT EXISTS registrants_phone_key
	ON registrants (phone)
	WHERE phone <> '+0000000000';

CREATE TABLE IF NOT EXISTS professional_details (
	registrant_id UUID PRIMARY KEY REFERENCES registrants(id) ON DELETE CASCADE,
	interests TEXT[] NOT NULL DEFAULT '{}',
	challenges TEXT NOT NULL DEFAULT '',
	city TEXT NOT NULL DEFAULT '',
	country TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS company_details (
	registrant_id UUID PRIMARY KEY REFERENCES registrants(id) ON DELETE CASCADE,
	company_name TEXT NOT NULL,
	company_size TEXT NOT NULL,
	needs TEXT[] NOT NULL DEFAULT '{}',
	challenges TEXT NOT NULL DEFAULT ''
);
`

const registrantColumns = `
	id, first_name, last_name, email, phone, role,
	city, country, address, sector, primary_need, contract_type,
	referral_source, utm_source, utm_medium, utm_campaign,
	subscribed_to_newsletter, email_verified, registered_for_trial,
	registration_date, ip_address, created_at, updated_at
`

// PostgresStore persists registrant aggregates in PostgreSQL. It is pure I/O:
// uniqueness policy and placeholder defaults belong in the service layer, and
// the database's unique constraints are the last line of defense against
// concurrent duplicate writes.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgres constructs a PostgreSQL-backed registrant store.
func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// EnsureSchema applies the store's DDL. All statements are idempotent.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("ensure registrant schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (*models.Registrant, error) {
	query := `SELECT ` + registrantColumns + ` FROM registrants WHERE email = $1`
	r, err := scanRegistrant(s.pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find registrant by email: %w", err)
	}
	if err := s.loadDetail(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *PostgresStore) FindByPhone(ctx context.Context, phone string) (*models.Registrant, error) {
	if phone == models.SentinelPhone {
		return nil, sentinel.ErrNotFound
	}
	query := `SELECT ` + registrantColumns + ` FROM registrants WHERE phone = $1`
	r, err := scanRegistrant(s.pool.QueryRow(ctx, query, phone))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find registrant by phone: %w", err)
	}
	if err := s.loadDetail(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *PostgresStore) Upsert(ctx context.Context, registrant *models.Registrant) (*models.Registrant, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("begin upsert registrant: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	query := `
		INSERT INTO registrants (` + registrantColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)
		ON CONFLICT (email) DO UPDATE SET
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			phone = EXCLUDED.phone,
			role = EXCLUDED.role,
			city = EXCLUDED.city,
			country = EXCLUDED.country,
			address = EXCLUDED.address,
			sector = EXCLUDED.sector,
			primary_need = EXCLUDED.primary_need,
			contract_type = EXCLUDED.contract_type,
			referral_source = EXCLUDED.referral_source,
			utm_source = EXCLUDED.utm_source,
			utm_medium = EXCLUDED.utm_medium,
			utm_campaign = EXCLUDED.utm_campaign,
			subscribed_to_newsletter = EXCLUDED.subscribed_to_newsletter,
			email_verified = EXCLUDED.email_verified,
			registered_for_trial = EXCLUDED.registered_for_trial,
			ip_address = EXCLUDED.ip_address,
			updated_at = EXCLUDED.updated_at
		RETURNING ` + registrantColumns

	persisted, err := scanRegistrant(tx.QueryRow(ctx, query,
		registrant.ID,
		registrant.FirstName,
		registrant.LastName,
		registrant.Email,
		registrant.Phone,
		string(registrant.Role),
		registrant.City,
		registrant.Country,
		registrant.Address,
		string(registrant.Sector),
		string(registrant.PrimaryNeed),
		contractTypeValue(registrant.ContractType),
		registrant.ReferralSource,
		registrant.UTMSource,
		registrant.UTMMedium,
		registrant.UTMCampaign,
		registrant.SubscribedToNewsletter,
		registrant.EmailVerified,
		registrant.RegisteredForTrial,
		registrant.RegistrationDate,
		registrant.IPAddress,
		registrant.CreatedAt,
		registrant.UpdatedAt,
	))
	if err != nil {
		if conflict := translateConflict(err); conflict != nil {
			return nil, conflict
		}
		return nil, fmt.Errorf("upsert registrant: %w", err)
	}

	// Detail rows are owned by the parent and replaced wholesale. Deleting
	// both first also clears the stale detail when a re-registration switches
	// roles.
	if _, err := tx.Exec(ctx, `DELETE FROM professional_details WHERE registrant_id = $1`, persisted.ID); err != nil {
		return nil, fmt.Errorf("clear professional detail: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM company_details WHERE registrant_id = $1`, persisted.ID); err != nil {
		return nil, fmt.Errorf("clear company detail: %w", err)
	}

	switch {
	case registrant.Professional != nil:
		_, err = tx.Exec(ctx, `
			INSERT INTO professional_details (registrant_id, interests, challenges, city, country)
			VALUES ($1, $2, $3, $4, $5)`,
			persisted.ID,
			interestStrings(registrant.Professional.Interests),
			registrant.Professional.Challenges,
			registrant.Professional.City,
			registrant.Professional.Country,
		)
		if err != nil {
			return nil, fmt.Errorf("insert professional detail: %w", err)
		}
		persisted.Professional = registrant.Professional
	case registrant.Company != nil:
		_, err = tx.Exec(ctx, `
			INSERT INTO company_details (registrant_id, company_name, company_size, needs, challenges)
			VALUES ($1, $2, $3, $4, $5)`,
			persisted.ID,
			registrant.Company.CompanyName,
			string(registrant.Company.CompanySize),
			needStrings(registrant.Company.Needs),
			registrant.Company.Challenges,
		)
		if err != nil {
			return nil, fmt.Errorf("insert company detail: %w", err)
		}
		persisted.Company = registrant.Company
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit upsert registrant: %w", err)
	}
	return persisted, nil
}

func (s *PostgresStore) SetNewsletterSubscription(ctx context.Context, email string, subscribed bool) error {
	result, err := s.pool.Exec(ctx,
		`UPDATE registrants SET subscribed_to_newsletter = $2, updated_at = NOW() WHERE email = $1`,
		email, subscribed,
	)
	if err != nil {
		return fmt.Errorf("set newsletter subscription: %w", err)
	}
	if result.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) loadDetail(ctx context.Context, r *models.Registrant) error {
	switch r.Role {
	case models.RoleProfessional:
		var interests []string
		detail := &models.ProfessionalDetail{}
		err := s.pool.QueryRow(ctx,
			`SELECT interests, challenges, city, country FROM professional_details WHERE registrant_id = $1`,
			r.ID,
		).Scan(&interests, &detail.Challenges, &detail.City, &detail.Country)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil
			}
			return fmt.Errorf("load professional detail: %w", err)
		}
		detail.Interests = toInterests(interests)
		r.Professional = detail
	case models.RoleBusiness:
		var needs []string
		var size string
		detail := &models.CompanyDetail{}
		err := s.pool.QueryRow(ctx,
			`SELECT company_name, company_size, needs, challenges FROM company_details WHERE registrant_id = $1`,
			r.ID,
		).Scan(&detail.CompanyName, &size, &needs, &detail.Challenges)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil
			}
			return fmt.Errorf("load company detail: %w", err)
		}
		detail.CompanySize = models.CompanySize(size)
		detail.Needs = toNeeds(needs)
		r.Company = detail
	}
	return nil
}

// translateConflict maps unique-constraint violations onto a field-scoped
// *ConflictError, or returns nil for unrelated errors.
func translateConflict(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return nil
	}
	switch pgErr.ConstraintName {
	case "registrants_email_key":
		return &ConflictError{Field: "email"}
	case "registrants_phone_key":
		return &ConflictError{Field: "phone"}
	default:
		return &ConflictError{Field: "email"}
	}
}

type registrantRow interface {
	Scan(dest ...any) error
}

func scanRegistrant(row registrantRow) (*models.Registrant, error) {
	var r models.Registrant
	var role, sector, primaryNeed string
	var contractType *string
	if err := row.Scan(
		&r.ID, &r.FirstName, &r.LastName, &r.Email, &r.Phone, &role,
		&r.City, &r.Country, &r.Address, &sector, &primaryNeed, &contractType,
		&r.ReferralSource, &r.UTMSource, &r.UTMMedium, &r.UTMCampaign,
		&r.SubscribedToNewsletter, &r.EmailVerified, &r.RegisteredForTrial,
		&r.RegistrationDate, &r.IPAddress, &r.CreatedAt, &r.UpdatedAt,
	); err != nil {
		return nil, err
	}
	r.Role = models.Role(role)
	r.Sector = models.Sector(sector)
	r.PrimaryNeed = models.ProfessionalInterest(primaryNeed)
	if contractType != nil {
		ct := models.ContractType(*contractType)
		r.ContractType = &ct
	}
	return &r, nil
}

func contractTypeValue(ct *models.ContractType) *string {
	if ct == nil {
		return nil
	}
	v := string(*ct)
	return &v
}

func interestStrings(interests []models.ProfessionalInterest) []string {
	out := make([]string, len(interests))
	for i, v := range interests {
		out[i] = string(v)
	}
	return out
}

func needStrings(needs []models.CompanyNeed) []string {
	out := make([]string, len(needs))
	for i, v := range needs {
		out[i] = string(v)
	}
	return out
}

func toInterests(values []string) []models.ProfessionalInterest {
	out := make([]models.ProfessionalInterest, len(values))
	for i, v := range values {
		out[i] = models.ProfessionalInterest(v)
	}
	return out
}

func toNeeds(values []string) []models.CompanyNeed {
	out := make([]models.CompanyNeed, len(values))
	for i, v := range values {
		out[i] = models.CompanyNeed(v)
	}
	return out
}
