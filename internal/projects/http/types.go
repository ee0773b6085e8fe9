package http

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/launchpad-labs/launchpad-backend/internal/projects/domain"
)

// Lifecycle is what the handlers need from the lifecycle service.
type Lifecycle interface {
	GetProject(ctx context.Context, projectID, userID string) (*domain.ProjectView, error)
	UpgradeProject(ctx context.Context, projectID, userID string, stages domain.StageOutputs) (*domain.UpgradedView, error)
	StartProject(ctx context.Context, userID, name string) (*domain.ProjectView, error)
}

type Handler struct {
	lifecycle Lifecycle
	log       *logrus.Logger
}

func New(lifecycle Lifecycle, log *logrus.Logger) *Handler {
	return &Handler{
		lifecycle: lifecycle,
		log:       log,
	}
}

type startReq struct {
	Name string `json:"name"`
}

type upgradeReq struct {
	ProjectData *domain.StageOutputs `json:"projectData"`
}
