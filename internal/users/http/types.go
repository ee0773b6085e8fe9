package http

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/launchpad-labs/launchpad-backend/internal/users/domain"
)

// Directory is what the handlers need from the user service.
type Directory interface {
	EnsureUser(ctx context.Context, u domain.UpsertUser) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	CreditsAndPlan(ctx context.Context, email string) (int, string, error)
}

type Handler struct {
	users Directory
	log   *logrus.Logger
}

func New(users Directory, log *logrus.Logger) *Handler {
	return &Handler{
		users: users,
		log:   log,
	}
}

type syncReq struct {
	DisplayName string `json:"displayName,omitempty"`
	PhotoURL    string `json:"photoURL,omitempty"`
}
