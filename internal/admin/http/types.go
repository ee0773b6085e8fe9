package http

import (
	"context"

	"github.com/sirupsen/logrus"

	usersdomain "github.com/launchpad-labs/launchpad-backend/internal/users/domain"
)

// UserDirectory is what the admin handlers need from the user service.
type UserDirectory interface {
	UpdateCredits(ctx context.Context, actorEmail, targetEmail string, credits int) (int, *usersdomain.User, error)
}

// CredentialChecker runs the KMS connectivity smoke test.
type CredentialChecker interface {
	Check(ctx context.Context) (int, error)
}

type Handler struct {
	users UserDirectory
	kms   CredentialChecker
	log   *logrus.Logger
}

func New(users UserDirectory, kms CredentialChecker, log *logrus.Logger) *Handler {
	return &Handler{
		users: users,
		kms:   kms,
		log:   log,
	}
}

// creditsUpdateReq accepts targetEmail with email as a legacy alias.
// All fields are optional: target defaults to the caller, credits to the
// starting grant.
type creditsUpdateReq struct {
	TargetEmail *string `json:"targetEmail"`
	Email       *string `json:"email"`
	Credits     *int    `json:"credits"`
}
