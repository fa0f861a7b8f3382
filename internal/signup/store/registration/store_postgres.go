package registration

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"signup/internal/signup/models"
	"signup/pkg/platform/sentinel"
)

//go:embed schema.sql
var schema string

const uniqueViolation = "23505"

const selectColumns = `id, draft_id, email, first_name, last_name, password_hash,
	phone, calling_code, country, timezone, language, created_at`

// PostgresStore persists registrations in PostgreSQL through database/sql.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed registration store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate creates the registrations table if it does not exist.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate registrations: %w", err)
	}
	return nil
}

// Create inserts r. The unique email index turns a duplicate into
// sentinel.ErrConflict.
func (s *PostgresStore) Create(ctx context.Context, r *models.Registration) error {
	if r == nil {
		return fmt.Errorf("registration is required")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO registrations (`+selectColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		r.ID, r.DraftID, r.Email, r.FirstName, r.LastName, r.PasswordHash,
		r.Phone, r.CallingCode, r.Country, r.Timezone, r.Language, r.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert registration: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Registration, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM registrations WHERE id = $1`, id)
	return scan(row)
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (*models.Registration, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM registrations WHERE lower(email) = lower($1)`, email)
	return scan(row)
}

func scan(row *sql.Row) (*models.Registration, error) {
	var r models.Registration
	err := row.Scan(
		&r.ID, &r.DraftID, &r.Email, &r.FirstName, &r.LastName, &r.PasswordHash,
		&r.Phone, &r.CallingCode, &r.Country, &r.Timezone, &r.Language, &r.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan registration: %w", err)
	}
	return &r, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
