package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/launchpad-labs/launchpad-backend/internal/projects/domain"
)

const projectColumns = `
id, user_id, name, storage_mode,
idea_output, research_output, blueprint_output,
financial_output, pitch_output, go_to_market_output,
expires_at, created_at, updated_at`

// ProjectRepository provides persistence operations for durable project
// records.
type ProjectRepository struct {
	db *pgxpool.Pool
}

// NewProjectRepository creates a new project repository.
func NewProjectRepository(db *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create inserts a memory-only record with an expiry window for the given
// user. The row is what the upgrade path later flips to persistent.
func (r *ProjectRepository) Create(ctx context.Context, userID, name string, expiresIn time.Duration) (*domain.Project, error) {
	if name == "" {
		return nil, fmt.Errorf("name required")
	}
	if userID == "" {
		return nil, fmt.Errorf("user id required")
	}

	q := `
INSERT INTO projects (id, user_id, name, storage_mode, expires_at)
VALUES ($1, $2, $3, $4, now() + $5)
RETURNING ` + projectColumns + `;`

	row := r.db.QueryRow(ctx, q, uuid.New().String(), userID, name, domain.StorageModeMemory, expiresIn)
	return scanProject(row)
}

// FindOwned returns the record only when it exists, belongs to userID, and
// its storage mode matches. Everything else collapses to
// domain.ErrProjectNotFound; the query predicate is the ownership check.
func (r *ProjectRepository) FindOwned(ctx context.Context, projectID, userID string, mode domain.StorageMode) (*domain.Project, error) {
	q := `
SELECT ` + projectColumns + `
FROM projects
WHERE id = $1 AND user_id = $2 AND storage_mode = $3;`

	p, err := scanProject(r.db.QueryRow(ctx, q, projectID, userID, mode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, err
	}
	return p, nil
}

// Upgrade flips the record to persistent storage in a single statement:
// every stage column is fully replaced (NULL for stages absent from the
// incoming payload), the expiry marker is cleared and updated_at bumped.
// Eligibility lives in the WHERE clause, so a row that is foreign, absent
// or already persistent reads as domain.ErrProjectNotFound even when two
// upgrades race; at most one of them can match the memory-only predicate.
func (r *ProjectRepository) Upgrade(ctx context.Context, projectID, userID string, stages domain.StageOutputs) (*domain.Project, error) {
	q := `
UPDATE projects
SET storage_mode = $4,
    idea_output = $5,
    research_output = $6,
    blueprint_output = $7,
    financial_output = $8,
    pitch_output = $9,
    go_to_market_output = $10,
    expires_at = NULL,
    updated_at = now()
WHERE id = $1 AND user_id = $2 AND storage_mode = $3
RETURNING ` + projectColumns + `;`

	row := r.db.QueryRow(ctx, q,
		projectID,
		userID,
		domain.StorageModeMemory,
		domain.StorageModePersistent,
		jsonbOrNil(stages.Idea),
		jsonbOrNil(stages.Research),
		jsonbOrNil(stages.Blueprint),
		jsonbOrNil(stages.Financial),
		jsonbOrNil(stages.Pitch),
		jsonbOrNil(stages.GoToMarket),
	)

	p, err := scanProject(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, fmt.Errorf("upgrade project: %w", err)
	}
	return p, nil
}

// DeleteExpiredMemory reaps memory-only rows whose expiry window lapsed
// before the given instant. Persistent rows are never touched.
func (r *ProjectRepository) DeleteExpiredMemory(ctx context.Context, now time.Time) (int64, error) {
	q := `
DELETE FROM projects
WHERE storage_mode = $1 AND expires_at IS NOT NULL AND expires_at < $2;`

	tag, err := r.db.Exec(ctx, q, domain.StorageModeMemory, now)
	if err != nil {
		return 0, fmt.Errorf("delete expired projects: %w", err)
	}
	return tag.RowsAffected(), nil
}

// jsonbOrNil maps an absent-or-null payload to SQL NULL.
func jsonbOrNil(m json.RawMessage) any {
	if len(m) == 0 || string(m) == "null" {
		return nil
	}
	return []byte(m)
}

func scanProject(row pgx.Row) (*domain.Project, error) {
	var p domain.Project
	var idea, research, blueprint, financial, pitch, gtm []byte

	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Name,
		&p.StorageMode,
		&idea,
		&research,
		&blueprint,
		&financial,
		&pitch,
		&gtm,
		&p.ExpiresAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Stages = domain.StageOutputs{
		Idea:       rawOrNil(idea),
		Research:   rawOrNil(research),
		Blueprint:  rawOrNil(blueprint),
		Financial:  rawOrNil(financial),
		Pitch:      rawOrNil(pitch),
		GoToMarket: rawOrNil(gtm),
	}
	return &p, nil
}

func rawOrNil(b []byte) json.RawMessage {
	if len(b) == 0 {
		return nil
	}
	return json.RawMessage(b)
}
