package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/launchpad-labs/launchpad-backend/internal/auth"
)

// RequireAdmin gates a route group on allow-list membership. Denials are
// security-relevant and logged at Warn.
func RequireAdmin(allowlist []string, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := auth.PrincipalFrom(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
			c.Abort()
			return
		}

		if !Allowed(p.Email, allowlist) {
			log.WithFields(logrus.Fields{
				"email": p.Email,
				"path":  c.Request.URL.Path,
			}).Warn("admin access denied")
			c.JSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			c.Abort()
			return
		}

		c.Next()
	}
}
