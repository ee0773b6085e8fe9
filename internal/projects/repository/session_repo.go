package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/launchpad-labs/launchpad-backend/internal/projects/domain"
)

const sessionKeyPrefix = "session:project:" // session:project:{project_id}

// SessionProjectRepository handles redis operations for transient project
// working copies. Expiry is redis TTL; a record that lapses simply reads
// as not found.
type SessionProjectRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionProjectRepository creates a new SessionProjectRepository.
// ttl is the initial lifetime of a record written with Put.
func NewSessionProjectRepository(client *redis.Client, ttl time.Duration) *SessionProjectRepository {
	return &SessionProjectRepository{
		client: client,
		ttl:    ttl,
	}
}

// Get retrieves a session project by id. Records that are absent, expired,
// or owned by someone else all read as domain.ErrProjectNotFound; a caller
// can never distinguish "not yours" from "not there".
func (r *SessionProjectRepository) Get(ctx context.Context, projectID, userID string) (*domain.SessionProject, error) {
	data, err := r.client.Get(ctx, r.key(projectID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session project: %w", err)
	}

	var sp domain.SessionProject
	if err := json.Unmarshal([]byte(data), &sp); err != nil {
		return nil, fmt.Errorf("unmarshal session project: %w", err)
	}

	if sp.UserID != userID {
		return nil, domain.ErrProjectNotFound
	}

	return &sp, nil
}

// Put creates or replaces a session project and starts a fresh TTL window.
func (r *SessionProjectRepository) Put(ctx context.Context, sp *domain.SessionProject) error {
	if sp.UserID == "" {
		return fmt.Errorf("user id required")
	}
	if sp.ID == "" {
		sp.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if sp.CreatedAt.IsZero() {
		sp.CreatedAt = now
	}
	sp.LastAccessedAt = now

	data, err := json.Marshal(sp)
	if err != nil {
		return fmt.Errorf("marshal session project: %w", err)
	}

	if err := r.client.Set(ctx, r.key(sp.ID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("put session project: %w", err)
	}
	return nil
}

// Extend refreshes last-accessed and pushes the expiry to now+d, or leaves
// it where it is when the record still has more than d left; a read never
// shortens a record's lifetime. Calling it on an absent or foreign record
// is a no-op so the surrounding read path never fails on an expiry race.
func (r *SessionProjectRepository) Extend(ctx context.Context, projectID, userID string, d time.Duration) error {
	sp, err := r.Get(ctx, projectID, userID)
	if errors.Is(err, domain.ErrProjectNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	sp.LastAccessedAt = time.Now().UTC()

	data, err := json.Marshal(sp)
	if err != nil {
		return fmt.Errorf("marshal session project: %w", err)
	}

	expiry := d
	if remaining, err := r.client.TTL(ctx, r.key(projectID)).Result(); err == nil && remaining > expiry {
		expiry = remaining
	}

	if err := r.client.Set(ctx, r.key(projectID), data, expiry).Err(); err != nil {
		return fmt.Errorf("extend session project: %w", err)
	}
	return nil
}

// Delete removes a session project. Deleting an absent record, or one owned
// by someone else, is not an error.
func (r *SessionProjectRepository) Delete(ctx context.Context, projectID, userID string) error {
	_, err := r.Get(ctx, projectID, userID)
	if errors.Is(err, domain.ErrProjectNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if err := r.client.Del(ctx, r.key(projectID)).Err(); err != nil {
		return fmt.Errorf("delete session project: %w", err)
	}
	return nil
}

func (r *SessionProjectRepository) key(projectID string) string {
	return sessionKeyPrefix + projectID
}
