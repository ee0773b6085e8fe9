package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/launchpad-labs/launchpad-backend/internal/projects/domain"
)

// sessionExtension is how far a read pushes the session record's expiry.
const sessionExtension = 2 * time.Hour

// SessionStore is the transient side of the lifecycle.
type SessionStore interface {
	Get(ctx context.Context, projectID, userID string) (*domain.SessionProject, error)
	Put(ctx context.Context, sp *domain.SessionProject) error
	Extend(ctx context.Context, projectID, userID string, d time.Duration) error
	Delete(ctx context.Context, projectID, userID string) error
}

// ProjectStore is the durable side of the lifecycle.
type ProjectStore interface {
	Create(ctx context.Context, userID, name string, expiresIn time.Duration) (*domain.Project, error)
	FindOwned(ctx context.Context, projectID, userID string, mode domain.StorageMode) (*domain.Project, error)
	Upgrade(ctx context.Context, projectID, userID string, stages domain.StageOutputs) (*domain.Project, error)
}

// LifecycleService orchestrates reads against the session store and the
// one-way upgrade of a project into durable storage.
type LifecycleService struct {
	sessions  SessionStore
	projects  ProjectStore
	memoryTTL time.Duration
	log       *logrus.Logger
}

// NewLifecycleService creates a new LifecycleService. memoryTTL is the
// expiry window given to freshly started memory-only projects.
func NewLifecycleService(sessions SessionStore, projects ProjectStore, memoryTTL time.Duration, log *logrus.Logger) *LifecycleService {
	return &LifecycleService{
		sessions:  sessions,
		projects:  projects,
		memoryTTL: memoryTTL,
		log:       log,
	}
}

// GetProject serves a project from the session store only. Persistent
// records are deliberately not a fallback here; they are served by a
// different surface. A hit refreshes the record's expiry as a side effect,
// but the response is built from the copy fetched before the refresh.
func (s *LifecycleService) GetProject(ctx context.Context, projectID, userID string) (*domain.ProjectView, error) {
	sp, err := s.sessions.Get(ctx, projectID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrProjectNotFound) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, fmt.Errorf("get project: %w", err)
	}

	view := sp.View()

	if err := s.sessions.Extend(ctx, projectID, userID, sessionExtension); err != nil {
		// The read already has its data; a failed refresh only shortens
		// the record's remaining lifetime.
		s.log.WithError(err).WithField("project_id", projectID).Warn("failed to extend session project")
	}

	return view, nil
}

// UpgradeProject moves a project from transient to durable storage.
// The storage write is a single atomic update; removing the session copy
// afterwards is cleanup, so its failure is logged rather than surfaced.
func (s *LifecycleService) UpgradeProject(ctx context.Context, projectID, userID string, stages domain.StageOutputs) (*domain.UpgradedView, error) {
	if stages.Empty() {
		return nil, domain.ErrEmptyPayload
	}

	// Only memory-only projects are eligible. An already-persistent
	// project reads as not found, same as a foreign or absent one. The
	// store's Upgrade repeats this check inside its own statement, so a
	// racing second upgrade fails there rather than silently succeeding.
	if _, err := s.projects.FindOwned(ctx, projectID, userID, domain.StorageModeMemory); err != nil {
		if errors.Is(err, domain.ErrProjectNotFound) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, fmt.Errorf("find project: %w", err)
	}

	p, err := s.projects.Upgrade(ctx, projectID, userID, stages)
	if err != nil {
		if errors.Is(err, domain.ErrProjectNotFound) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, fmt.Errorf("upgrade project: %w", err)
	}

	if err := s.sessions.Delete(ctx, projectID, userID); err != nil {
		s.log.WithError(err).WithField("project_id", projectID).Warn("failed to delete session copy after upgrade")
	}

	return p.UpgradedView(), nil
}

// StartProject begins a project in transient mode: a memory-only durable
// row (so the upgrade path has something to gate on) plus the session
// working copy.
func (s *LifecycleService) StartProject(ctx context.Context, userID, name string) (*domain.ProjectView, error) {
	p, err := s.projects.Create(ctx, userID, name, s.memoryTTL)
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}

	sp := &domain.SessionProject{
		ID:        p.ID,
		UserID:    userID,
		Name:      name,
		CreatedAt: p.CreatedAt,
	}
	if err := s.sessions.Put(ctx, sp); err != nil {
		return nil, fmt.Errorf("put session project: %w", err)
	}

	return sp.View(), nil
}
