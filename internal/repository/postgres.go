// Package repository contains the PostgreSQL data access layer.
package repository

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/sethvargo/go-retry"
	"github.com/shopspring/decimal"

	"github.com/mbertho/judoclub/internal/model"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

var (
	// ErrUserExists is returned when creating a user whose username is
	// already taken.
	ErrUserExists = errors.New("user already exists")
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateRegistration is returned when a member already has a
	// registration for the season.
	ErrDuplicateRegistration = errors.New("member already registered for this season")
	// ErrInvoiceReferenced is returned when deleting a registration that
	// invoices still reference.
	ErrInvoiceReferenced = errors.New("registration is referenced by invoices")
	// ErrNoActiveSeason is returned when no season is marked active.
	ErrNoActiveSeason = errors.New("no active season")
)

// PostgresRepository provides access to the PostgreSQL data store.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a repository and initializes the schema
// through migrations.
func NewPostgresRepository(dsn string) (*PostgresRepository, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	r := &PostgresRepository{pool: pool}

	if err := r.runMigrations(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return r, nil
}

func (r *PostgresRepository) runMigrations(ctx context.Context) error {
	db := stdlib.OpenDBFromPool(r.pool)
	defer db.Close()

	goose.SetBaseFS(migrationsFS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

// withRetry re-runs fn on serialization failures and deadlocks. Other
// errors are returned as-is.
func (r *PostgresRepository) withRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	backoff := retry.WithMaxRetries(3, retry.NewConstant(time.Second))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := fn(ctx)
		if err == nil {
			return nil
		}

		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) &&
			(pgErr.Code == pgerrcode.SerializationFailure || pgErr.Code == pgerrcode.DeadlockDetected) {
			return retry.RetryableError(err)
		}

		return err
	})
}

// Close closes the connection pool.
func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}

// CreateUser creates a new account.
func (r *PostgresRepository) CreateUser(ctx context.Context, username, email string, passwordHash []byte, isStaff bool) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (username, email, password_hash, is_staff) VALUES ($1, $2, $3, $4) RETURNING id`,
		username, email, passwordHash, isStaff,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return 0, fmt.Errorf("%w: %s", ErrUserExists, username)
		}
		return 0, fmt.Errorf("create user: %w", err)
	}
	return id, nil
}

// GetUserByUsername returns the account with the given username.
func (r *PostgresRepository) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, username, email, password_hash, is_staff, created_at FROM users WHERE username = $1`,
		username,
	)

	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.IsStaff, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &u, nil
}

// GetUserByID returns the account with the given id.
func (r *PostgresRepository) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, username, email, password_hash, is_staff, created_at FROM users WHERE id = $1`,
		id,
	)

	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.IsStaff, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &u, nil
}

// CreateSeason stores a new season.
func (r *PostgresRepository) CreateSeason(ctx context.Context, s *model.Season) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO seasons (name, start_date, end_date, is_active) VALUES ($1, $2, $3, $4) RETURNING id`,
		s.Name, s.StartDate, s.EndDate, s.IsActive,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create season: %w", err)
	}
	return id, nil
}

// ListSeasons returns all seasons, most recent first.
func (r *PostgresRepository) ListSeasons(ctx context.Context) ([]model.Season, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, start_date, end_date, is_active FROM seasons ORDER BY start_date DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("select seasons: %w", err)
	}
	defer rows.Close()

	var seasons []model.Season
	for rows.Next() {
		var s model.Season
		if err := rows.Scan(&s.ID, &s.Name, &s.StartDate, &s.EndDate, &s.IsActive); err != nil {
			return nil, fmt.Errorf("scan season: %w", err)
		}
		seasons = append(seasons, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return seasons, nil
}

// GetActiveSeason returns the currently active season.
func (r *PostgresRepository) GetActiveSeason(ctx context.Context) (*model.Season, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, name, start_date, end_date, is_active FROM seasons WHERE is_active LIMIT 1`,
	)

	var s model.Season
	err := row.Scan(&s.ID, &s.Name, &s.StartDate, &s.EndDate, &s.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoActiveSeason
		}
		return nil, fmt.Errorf("get active season: %w", err)
	}

	return &s, nil
}

// ActivateSeason marks the season active and deactivates all others in one
// transaction.
func (r *PostgresRepository) ActivateSeason(ctx context.Context, id int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `UPDATE seasons SET is_active = FALSE WHERE id <> $1`, id); err != nil {
		return fmt.Errorf("deactivate seasons: %w", err)
	}

	cmdTag, err := tx.Exec(ctx, `UPDATE seasons SET is_active = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("activate season: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// CreateCategory stores a new category.
func (r *PostgresRepository) CreateCategory(ctx context.Context, c *model.Category) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO categories (name, code, base_price, age_min, age_max) VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		c.Name, c.Code, c.BasePrice, c.AgeMin, c.AgeMax,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create category: %w", err)
	}
	return id, nil
}

// ListCategories returns all categories ordered by code.
func (r *PostgresRepository) ListCategories(ctx context.Context) ([]model.Category, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, code, base_price, age_min, age_max FROM categories ORDER BY code`,
	)
	if err != nil {
		return nil, fmt.Errorf("select categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Code, &c.BasePrice, &c.AgeMin, &c.AgeMax); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return categories, nil
}

// CreateMember stores a new member.
func (r *PostgresRepository) CreateMember(ctx context.Context, m *model.Member) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO members (guardian_id, first_name, last_name, email, phone, birth_date, gender)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		m.GuardianID, m.FirstName, m.LastName, m.Email, m.Phone, m.BirthDate, m.Gender,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create member: %w", err)
	}
	return id, nil
}

// GetMember returns the member with the given id.
func (r *PostgresRepository) GetMember(ctx context.Context, id int64) (*model.Member, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, guardian_id, first_name, last_name, email, phone, birth_date, gender, created_at
		 FROM members WHERE id = $1`,
		id,
	)

	var m model.Member
	err := row.Scan(&m.ID, &m.GuardianID, &m.FirstName, &m.LastName, &m.Email, &m.Phone, &m.BirthDate, &m.Gender, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get member: %w", err)
	}

	return &m, nil
}

// ListMembersByGuardian returns the members attached to the guardian.
func (r *PostgresRepository) ListMembersByGuardian(ctx context.Context, guardianID int64) ([]model.Member, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, guardian_id, first_name, last_name, email, phone, birth_date, gender, created_at
		 FROM members WHERE guardian_id = $1 ORDER BY created_at`,
		guardianID,
	)
	if err != nil {
		return nil, fmt.Errorf("select members: %w", err)
	}
	defer rows.Close()

	return scanMembers(rows)
}

// ListMembers returns all members ordered by last name.
func (r *PostgresRepository) ListMembers(ctx context.Context) ([]model.Member, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, guardian_id, first_name, last_name, email, phone, birth_date, gender, created_at
		 FROM members ORDER BY last_name, first_name`,
	)
	if err != nil {
		return nil, fmt.Errorf("select members: %w", err)
	}
	defer rows.Close()

	return scanMembers(rows)
}

func scanMembers(rows pgx.Rows) ([]model.Member, error) {
	var members []model.Member
	for rows.Next() {
		var m model.Member
		if err := rows.Scan(&m.ID, &m.GuardianID, &m.FirstName, &m.LastName, &m.Email, &m.Phone, &m.BirthDate, &m.Gender, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return members, nil
}

// CreateRegistration stores a new registration in PENDING status.
func (r *PostgresRepository) CreateRegistration(ctx context.Context, memberID, seasonID, categoryID int64) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO registrations (member_id, season_id, category_id, status)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		memberID, seasonID, categoryID, string(model.RegistrationStatusPending),
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return 0, ErrDuplicateRegistration
		}
		return 0, fmt.Errorf("create registration: %w", err)
	}
	return id, nil
}

const registrationSnapshotQuery = `
SELECT r.id, r.member_id, r.season_id, r.category_id, r.status, r.paid,
       r.installments_paid, r.discount_percentage, r.discount_amount,
       r.city_hall_aid, r.city_hall_aid_amount, r.has_supplementary_discipline,
       r.created_at,
       m.guardian_id, m.first_name, m.last_name, m.email, m.phone, m.birth_date, m.gender, m.created_at,
       c.name, c.code, c.base_price, c.age_min, c.age_max,
       s.name, s.start_date, s.end_date, s.is_active
FROM registrations r
JOIN members m ON m.id = r.member_id
JOIN categories c ON c.id = r.category_id
JOIN seasons s ON s.id = r.season_id`

func scanRegistrationSnapshot(row pgx.Row) (*model.Registration, error) {
	var (
		reg model.Registration
		m   model.Member
		c   model.Category
		s   model.Season
	)

	err := row.Scan(
		&reg.ID, &reg.MemberID, &reg.SeasonID, &reg.CategoryID, &reg.Status, &reg.Paid,
		&reg.InstallmentsPaid, &reg.DiscountPercentage, &reg.DiscountAmount,
		&reg.CityHallAid, &reg.CityHallAidAmount, &reg.HasSupplementaryDiscipline,
		&reg.CreatedAt,
		&m.GuardianID, &m.FirstName, &m.LastName, &m.Email, &m.Phone, &m.BirthDate, &m.Gender, &m.CreatedAt,
		&c.Name, &c.Code, &c.BasePrice, &c.AgeMin, &c.AgeMax,
		&s.Name, &s.StartDate, &s.EndDate, &s.IsActive,
	)
	if err != nil {
		return nil, err
	}

	m.ID = reg.MemberID
	c.ID = reg.CategoryID
	s.ID = reg.SeasonID

	reg.GuardianID = m.GuardianID
	reg.Member = &m
	reg.Category = &c
	reg.Season = &s

	return &reg, nil
}

// GetRegistration returns the registration with its member, category and
// season loaded in a single query, so pricing reads a consistent snapshot.
func (r *PostgresRepository) GetRegistration(ctx context.Context, id int64) (*model.Registration, error) {
	row := r.pool.QueryRow(ctx, registrationSnapshotQuery+` WHERE r.id = $1`, id)

	reg, err := scanRegistrationSnapshot(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get registration: %w", err)
	}

	return reg, nil
}

func (r *PostgresRepository) listRegistrations(ctx context.Context, where string, args ...any) ([]*model.Registration, error) {
	rows, err := r.pool.Query(ctx, registrationSnapshotQuery+where, args...)
	if err != nil {
		return nil, fmt.Errorf("select registrations: %w", err)
	}
	defer rows.Close()

	var regs []*model.Registration
	for rows.Next() {
		reg, err := scanRegistrationSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan registration: %w", err)
		}
		regs = append(regs, reg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return regs, nil
}

// ListRegistrationsBySeason returns all registrations of a season with
// their snapshot fields loaded, oldest first.
func (r *PostgresRepository) ListRegistrationsBySeason(ctx context.Context, seasonID int64) ([]*model.Registration, error) {
	return r.listRegistrations(ctx, ` WHERE r.season_id = $1 ORDER BY r.created_at, r.id`, seasonID)
}

// ListRegistrationsByGuardian returns the registrations of a guardian's
// members for a season, oldest first.
func (r *PostgresRepository) ListRegistrationsByGuardian(ctx context.Context, guardianID, seasonID int64) ([]*model.Registration, error) {
	return r.listRegistrations(ctx,
		` WHERE m.guardian_id = $1 AND r.season_id = $2 ORDER BY r.created_at, r.id`,
		guardianID, seasonID,
	)
}

// CountValidatedSiblings counts the validated registrations of the same
// guardian in the same season, excluding the registration being priced.
func (r *PostgresRepository) CountValidatedSiblings(ctx context.Context, guardianID, seasonID, excludeRegistrationID int64) (int, error) {
	var count int

	err := r.withRetry(ctx, func(ctx context.Context) error {
		return r.pool.QueryRow(ctx,
			`SELECT COUNT(*)
			 FROM registrations r
			 JOIN members m ON m.id = r.member_id
			 WHERE m.guardian_id = $1 AND r.season_id = $2 AND r.status = $3 AND r.id <> $4`,
			guardianID, seasonID, string(model.RegistrationStatusValidated), excludeRegistrationID,
		).Scan(&count)
	})
	if err != nil {
		return 0, fmt.Errorf("count siblings: %w", err)
	}

	return count, nil
}

// BillingUpdate carries the staff-editable billing fields of a
// registration.
type BillingUpdate struct {
	DiscountPercentage         decimal.Decimal
	DiscountAmount             decimal.Decimal
	CityHallAid                bool
	CityHallAidAmount          decimal.Decimal
	HasSupplementaryDiscipline bool
	InstallmentsPaid           int
	Paid                       bool
}

// UpdateRegistrationBilling overwrites the billing fields of a
// registration.
func (r *PostgresRepository) UpdateRegistrationBilling(ctx context.Context, id int64, u BillingUpdate) error {
	cmdTag, err := r.pool.Exec(ctx,
		`UPDATE registrations
		 SET discount_percentage = $2, discount_amount = $3,
		     city_hall_aid = $4, city_hall_aid_amount = $5,
		     has_supplementary_discipline = $6, installments_paid = $7, paid = $8
		 WHERE id = $1`,
		id, u.DiscountPercentage, u.DiscountAmount,
		u.CityHallAid, u.CityHallAidAmount,
		u.HasSupplementaryDiscipline, u.InstallmentsPaid, u.Paid,
	)
	if err != nil {
		return fmt.Errorf("update registration billing: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetRegistrationStatus updates the lifecycle status of a registration.
func (r *PostgresRepository) SetRegistrationStatus(ctx context.Context, id int64, status model.RegistrationStatus) error {
	cmdTag, err := r.pool.Exec(ctx,
		`UPDATE registrations SET status = $2 WHERE id = $1`,
		id, string(status),
	)
	if err != nil {
		return fmt.Errorf("set registration status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteRegistration removes a registration. Registrations referenced by
// invoices are protected and cannot be deleted.
func (r *PostgresRepository) DeleteRegistration(ctx context.Context, id int64) error {
	cmdTag, err := r.pool.Exec(ctx, `DELETE FROM registrations WHERE id = $1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return ErrInvoiceReferenced
		}
		return fmt.Errorf("delete registration: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateInvoice stores a new invoice.
func (r *PostgresRepository) CreateInvoice(ctx context.Context, inv *model.Invoice) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO invoices (registration_id, member_id, reference, amount, date_issued, status, description)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		inv.RegistrationID, inv.MemberID, inv.Reference, inv.Amount, inv.DateIssued, string(inv.Status), inv.Description,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create invoice: %w", err)
	}
	return id, nil
}

// GetInvoice returns the invoice with the given id.
func (r *PostgresRepository) GetInvoice(ctx context.Context, id int64) (*model.Invoice, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, registration_id, member_id, reference, amount, date_issued, status, description
		 FROM invoices WHERE id = $1`,
		id,
	)

	var inv model.Invoice
	err := row.Scan(&inv.ID, &inv.RegistrationID, &inv.MemberID, &inv.Reference, &inv.Amount, &inv.DateIssued, &inv.Status, &inv.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}

	return &inv, nil
}

// ListInvoicesByGuardian returns the invoices of all members attached to
// the guardian, most recent first.
func (r *PostgresRepository) ListInvoicesByGuardian(ctx context.Context, guardianID int64) ([]model.Invoice, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT i.id, i.registration_id, i.member_id, i.reference, i.amount, i.date_issued, i.status, i.description
		 FROM invoices i
		 JOIN members m ON m.id = i.member_id
		 WHERE m.guardian_id = $1
		 ORDER BY i.date_issued DESC, i.id DESC`,
		guardianID,
	)
	if err != nil {
		return nil, fmt.Errorf("select invoices: %w", err)
	}
	defer rows.Close()

	var invoices []model.Invoice
	for rows.Next() {
		var inv model.Invoice
		if err := rows.Scan(&inv.ID, &inv.RegistrationID, &inv.MemberID, &inv.Reference, &inv.Amount, &inv.DateIssued, &inv.Status, &inv.Description); err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		invoices = append(invoices, inv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return invoices, nil
}

// ListInvoices returns all invoices, most recent first.
func (r *PostgresRepository) ListInvoices(ctx context.Context) ([]model.Invoice, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, registration_id, member_id, reference, amount, date_issued, status, description
		 FROM invoices
		 ORDER BY date_issued DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("select invoices: %w", err)
	}
	defer rows.Close()

	var invoices []model.Invoice
	for rows.Next() {
		var inv model.Invoice
		if err := rows.Scan(&inv.ID, &inv.RegistrationID, &inv.MemberID, &inv.Reference, &inv.Amount, &inv.DateIssued, &inv.Status, &inv.Description); err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		invoices = append(invoices, inv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return invoices, nil
}

// CompleteInvoicePayment marks the invoice paid and its registration paid
// in a single transaction.
func (r *PostgresRepository) CompleteInvoicePayment(ctx context.Context, invoiceID int64) error {
	return r.withRetry(ctx, func(ctx context.Context) error {
		tx, err := r.pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		defer tx.Rollback(ctx)

		var registrationID int64
		err = tx.QueryRow(ctx,
			`UPDATE invoices SET status = $2 WHERE id = $1 RETURNING registration_id`,
			invoiceID, string(model.InvoiceStatusPaid),
		).Scan(&registrationID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("mark invoice paid: %w", err)
		}

		if _, err := tx.Exec(ctx,
			`UPDATE registrations SET paid = TRUE WHERE id = $1`,
			registrationID,
		); err != nil {
			return fmt.Errorf("mark registration paid: %w", err)
		}

		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("commit tx: %w", err)
		}

		return nil
	})
}

// EnqueueEmail adds a message to the outbox.
func (r *PostgresRepository) EnqueueEmail(ctx context.Context, recipient, subject, body string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO email_outbox (recipient, subject, body, status) VALUES ($1, $2, $3, $4)`,
		recipient, subject, body, string(model.EmailStatusQueued),
	)
	if err != nil {
		return fmt.Errorf("enqueue email: %w", err)
	}
	return nil
}

// GetQueuedEmails returns up to limit queued messages, oldest first.
func (r *PostgresRepository) GetQueuedEmails(ctx context.Context, limit int) ([]model.EmailMessage, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, recipient, subject, body, status, error, created_at
		 FROM email_outbox WHERE status = $1 ORDER BY created_at LIMIT $2`,
		string(model.EmailStatusQueued), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("select queued emails: %w", err)
	}
	defer rows.Close()

	var messages []model.EmailMessage
	for rows.Next() {
		var m model.EmailMessage
		if err := rows.Scan(&m.ID, &m.Recipient, &m.Subject, &m.Body, &m.Status, &m.Error, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan email: %w", err)
		}
		messages = append(messages, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return messages, nil
}

// MarkEmailSent records a successful delivery.
func (r *PostgresRepository) MarkEmailSent(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE email_outbox SET status = $2, error = '' WHERE id = $1`,
		id, string(model.EmailStatusSent),
	)
	if err != nil {
		return fmt.Errorf("mark email sent: %w", err)
	}
	return nil
}

// MarkEmailFailed records a delivery failure with its error message.
func (r *PostgresRepository) MarkEmailFailed(ctx context.Context, id int64, errMsg string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE email_outbox SET status = $2, error = $3 WHERE id = $1`,
		id, string(model.EmailStatusFailed), errMsg,
	)
	if err != nil {
		return fmt.Errorf("mark email failed: %w", err)
	}
	return nil
}

// CategoryCount is a per-category registration count.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// CountRegistrationsByCategory returns registration counts per category
// for a season, biggest first.
func (r *PostgresRepository) CountRegistrationsByCategory(ctx context.Context, seasonID int64) ([]CategoryCount, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT c.name, COUNT(*)
		 FROM registrations r
		 JOIN categories c ON c.id = r.category_id
		 WHERE r.season_id = $1
		 GROUP BY c.name
		 ORDER BY COUNT(*) DESC`,
		seasonID,
	)
	if err != nil {
		return nil, fmt.Errorf("count by category: %w", err)
	}
	defer rows.Close()

	var counts []CategoryCount
	for rows.Next() {
		var c CategoryCount
		if err := rows.Scan(&c.Category, &c.Count); err != nil {
			return nil, fmt.Errorf("scan category count: %w", err)
		}
		counts = append(counts, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return counts, nil
}

// GenderCount is a per-gender member count.
type GenderCount struct {
	Gender string `json:"gender"`
	Count  int    `json:"count"`
}

// CountMembersByGender returns the gender distribution of a season's
// registered members.
func (r *PostgresRepository) CountMembersByGender(ctx context.Context, seasonID int64) ([]GenderCount, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT m.gender, COUNT(*)
		 FROM registrations r
		 JOIN members m ON m.id = r.member_id
		 WHERE r.season_id = $1
		 GROUP BY m.gender`,
		seasonID,
	)
	if err != nil {
		return nil, fmt.Errorf("count by gender: %w", err)
	}
	defer rows.Close()

	var counts []GenderCount
	for rows.Next() {
		var g GenderCount
		if err := rows.Scan(&g.Gender, &g.Count); err != nil {
			return nil, fmt.Errorf("scan gender count: %w", err)
		}
		counts = append(counts, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return counts, nil
}
