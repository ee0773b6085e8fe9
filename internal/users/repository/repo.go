package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/launchpad-labs/launchpad-backend/internal/users/domain"
)

const userColumns = `id::text, email, display_name, photo_url, credits, subscription_plan, created_at, updated_at`

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

// EnsureUser creates the user on first sign-in (default credit grant and
// plan) or refreshes the provider profile on subsequent ones. Credits and
// plan are never touched by the upsert.
func (r *Repo) EnsureUser(ctx context.Context, u domain.UpsertUser) (*domain.User, error) {
	if u.Email == "" {
		return nil, fmt.Errorf("email required")
	}

	q := `
INSERT INTO users (email, display_name, photo_url, credits, subscription_plan, updated_at)
VALUES ($1, nullif($2,''), nullif($3,''), $4, $5, now())
ON CONFLICT (email) DO UPDATE
SET
  display_name = coalesce(excluded.display_name, users.display_name),
  photo_url = coalesce(excluded.photo_url, users.photo_url),
  updated_at = now()
RETURNING ` + userColumns + `;`

	return scanUser(r.db.QueryRow(ctx, q, u.Email, u.DisplayName, u.PhotoURL, domain.DefaultCredits, domain.DefaultPlan))
}

// GetByEmail resolves a principal by exact email match.
func (r *Repo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE email = $1;`

	u, err := scanUser(r.db.QueryRow(ctx, q, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// UpdateCredits overwrites the credits field. This is an absolute set,
// not a delta.
func (r *Repo) UpdateCredits(ctx context.Context, email string, credits int) (*domain.User, error) {
	q := `
UPDATE users
SET credits = $2, updated_at = now()
WHERE email = $1
RETURNING ` + userColumns + `;`

	u, err := scanUser(r.db.QueryRow(ctx, q, email, credits))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("update credits: %w", err)
	}
	return u, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.DisplayName,
		&u.PhotoURL,
		&u.Credits,
		&u.Plan,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
