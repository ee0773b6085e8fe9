package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/launchpad-labs/launchpad-backend/internal/auth"
	usersdomain "github.com/launchpad-labs/launchpad-backend/internal/users/domain"
)

// UpdateCredits overwrites a user's credit balance. With no body the
// admin tops up their own account to the starting grant.
func (h *Handler) UpdateCredits(c *gin.Context) {
	p, ok := auth.PrincipalFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req creditsUpdateReq
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
			return
		}
	}

	target := p.Email
	if req.TargetEmail != nil && *req.TargetEmail != "" {
		target = *req.TargetEmail
	} else if req.Email != nil && *req.Email != "" {
		target = *req.Email
	}

	credits := usersdomain.DefaultCredits
	if req.Credits != nil {
		credits = *req.Credits
	}
	if credits < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "credits must be non-negative"})
		return
	}

	oldCredits, updated, err := h.users.UpdateCredits(c.Request.Context(), p.Email, target, credits)
	if err != nil {
		if errors.Is(err, usersdomain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		h.log.WithError(err).WithField("target_email", target).Error("credit update failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update credits"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"targetUser": updated.Email,
		"oldCredits": oldCredits,
		"newCredits": updated.Credits,
		"updatedBy":  p.Email,
	})
}

// KMSTest verifies that the credential provider chain can reach KMS.
func (h *Handler) KMSTest(c *gin.Context) {
	keys, err := h.kms.Check(c.Request.Context())
	if err != nil {
		h.log.WithError(err).Error("kms connectivity check failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "kms connectivity check failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "keysVisible": keys})
}
