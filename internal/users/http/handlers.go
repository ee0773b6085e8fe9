package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/launchpad-labs/launchpad-backend/internal/auth"
	"github.com/launchpad-labs/launchpad-backend/internal/users/domain"
)

// GetCredits returns the caller's credit balance and subscription plan.
func (h *Handler) GetCredits(c *gin.Context) {
	p, ok := auth.PrincipalFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	credits, plan, err := h.users.CreditsAndPlan(c.Request.Context(), p.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		h.log.WithError(err).Error("get credits failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get credits"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"credits": credits, "subscriptionPlan": plan})
}

// GetProfile returns the current user's profile
func (h *Handler) GetProfile(c *gin.Context) {
	p, ok := auth.PrincipalFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	user, err := h.users.GetByEmail(c.Request.Context(), p.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		h.log.WithError(err).Error("get profile failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// Sync refreshes the caller's profile fields after sign-in. The body is
// optional; the account itself already exists by the time this runs.
func (h *Handler) Sync(c *gin.Context) {
	p, ok := auth.PrincipalFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req syncReq
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
			return
		}
	}

	user, err := h.users.EnsureUser(c.Request.Context(), domain.UpsertUser{
		Email:       p.Email,
		DisplayName: req.DisplayName,
		PhotoURL:    req.PhotoURL,
	})
	if err != nil {
		h.log.WithError(err).Error("sync user failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to sync user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}
