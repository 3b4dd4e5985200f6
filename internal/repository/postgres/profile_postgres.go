package postgres

import (
	"context"
	"database/sql"

	"transitdocs/internal/model"
	"transitdocs/internal/repository"
)

const profileColumns = `user_id, full_name, email, role, department, password_hash, created_at`

// ProfilePostgres is a PostgreSQL implementation of repository.ProfileRepository.
type ProfilePostgres struct {
	db *sql.DB
}

// NewProfilePostgres creates a new ProfilePostgres repository.
func NewProfilePostgres(db *sql.DB) *ProfilePostgres {
	return &ProfilePostgres{db: db}
}

var _ repository.ProfileRepository = (*ProfilePostgres)(nil)

func scanProfile(row rowScanner) (*model.Profile, error) {
	var p model.Profile
	var dept sql.NullString
	if err := row.Scan(
		&p.UserID,
		&p.FullName,
		&p.Email,
		&p.Role,
		&dept,
		&p.PasswordHash,
		&p.CreatedAt,
	); err != nil {
		return nil, err
	}
	p.Department = dept.String
	return &p, nil
}

// Create inserts a new profile row and returns the stored record.
func (r *ProfilePostgres) Create(ctx context.Context, p *model.Profile) (*model.Profile, error) {
	const q = `
		INSERT INTO profiles (user_id, full_name, email, role, department, password_hash, created_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7)
		RETURNING ` + profileColumns
	row := r.db.QueryRowContext(ctx, q,
		p.UserID,
		p.FullName,
		p.Email,
		p.Role,
		p.Department,
		p.PasswordHash,
		p.CreatedAt,
	)
	return scanProfile(row)
}

// FindByID fetches a profile by user ID.
func (r *ProfilePostgres) FindByID(ctx context.Context, userID string) (*model.Profile, error) {
	const q = `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = $1`
	return scanProfile(r.db.QueryRowContext(ctx, q, userID))
}

// FindByEmail fetches a profile by email.
func (r *ProfilePostgres) FindByEmail(ctx context.Context, email string) (*model.Profile, error) {
	const q = `SELECT ` + profileColumns + ` FROM profiles WHERE email = $1`
	return scanProfile(r.db.QueryRowContext(ctx, q, email))
}

// ListByRole returns profiles with the given role ordered by full name.
func (r *ProfilePostgres) ListByRole(ctx context.Context, role model.Role) ([]model.Profile, error) {
	const q = `SELECT ` + profileColumns + ` FROM profiles WHERE role = $1 ORDER BY full_name`
	rows, err := r.db.QueryContext(ctx, q, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Profile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}
