package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/launchpad-labs/launchpad-backend/internal/audit"
	"github.com/launchpad-labs/launchpad-backend/internal/users/domain"
)

// UserStore is the persistence surface the directory needs.
type UserStore interface {
	EnsureUser(ctx context.Context, u domain.UpsertUser) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateCredits(ctx context.Context, email string, credits int) (*domain.User, error)
}

// UserService resolves principals to accounts and applies admin credit
// mutations.
type UserService struct {
	repo  UserStore
	audit audit.Sink
	log   *logrus.Logger
}

func NewUserService(repo UserStore, sink audit.Sink, log *logrus.Logger) *UserService {
	return &UserService{
		repo:  repo,
		audit: sink,
		log:   log,
	}
}

// EnsureUser upserts the account backing a freshly verified principal.
func (s *UserService) EnsureUser(ctx context.Context, u domain.UpsertUser) (*domain.User, error) {
	return s.repo.EnsureUser(ctx, u)
}

// GetByEmail resolves a principal by exact email match.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.repo.GetByEmail(ctx, email)
}

// CreditsAndPlan is the read-only projection backing the self-service
// credits endpoint.
func (s *UserService) CreditsAndPlan(ctx context.Context, email string) (int, string, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return 0, "", err
	}
	return u.Credits, u.Plan, nil
}

// UpdateCredits overwrites the target's credit balance on behalf of an
// admin. The audit sink is informed first; a sink failure is logged and
// the mutation proceeds (fail-open). Returns the pre-mutation balance
// alongside the updated record.
func (s *UserService) UpdateCredits(ctx context.Context, actorEmail, targetEmail string, credits int) (int, *domain.User, error) {
	if credits < 0 {
		return 0, nil, fmt.Errorf("credits must be non-negative")
	}

	target, err := s.repo.GetByEmail(ctx, targetEmail)
	if err != nil {
		return 0, nil, err
	}

	entry := audit.Entry{
		Actor:       actorEmail,
		Action:      "credits.update",
		TargetEmail: targetEmail,
		OldCredits:  target.Credits,
		NewCredits:  credits,
	}
	if err := s.audit.Record(ctx, entry); err != nil {
		s.log.WithError(err).WithField("target_email", targetEmail).Warn("audit sink unavailable, proceeding with credit update")
	}

	updated, err := s.repo.UpdateCredits(ctx, targetEmail, credits)
	if err != nil {
		return 0, nil, err
	}

	return target.Credits, updated, nil
}
