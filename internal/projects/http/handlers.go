package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/launchpad-labs/launchpad-backend/internal/auth"
	"github.com/launchpad-labs/launchpad-backend/internal/projects/domain"
)

// Get serves a project from its session working copy.
func (h *Handler) Get(c *gin.Context) {
	p, ok := auth.PrincipalFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	projectID := c.Param("id")
	view, err := h.lifecycle.GetProject(c.Request.Context(), projectID, p.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrProjectNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
			return
		}
		h.log.WithError(err).WithField("project_id", projectID).Error("get project failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get project"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"project": view})
}

// Upgrade moves a project into persistent storage.
func (h *Handler) Upgrade(c *gin.Context) {
	p, ok := auth.PrincipalFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req upgradeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.ProjectData == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "projectData is required"})
		return
	}

	projectID := c.Param("id")
	view, err := h.lifecycle.UpgradeProject(c.Request.Context(), projectID, p.UserID, *req.ProjectData)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmptyPayload):
			c.JSON(http.StatusBadRequest, gin.H{"error": "projectData must include at least one stage output"})
		case errors.Is(err, domain.ErrProjectNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
		default:
			h.log.WithError(err).WithField("project_id", projectID).Error("upgrade project failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to upgrade project"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "project": view})
}

// Start begins a new project in transient mode.
func (h *Handler) Start(c *gin.Context) {
	p, ok := auth.PrincipalFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req startReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	view, err := h.lifecycle.StartProject(c.Request.Context(), p.UserID, strings.TrimSpace(req.Name))
	if err != nil {
		h.log.WithError(err).Error("start project failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start project"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"project": view})
}
