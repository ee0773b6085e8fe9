package middleware

import (
	"context"
	"net/http"
	"strings"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/launchpad-labs/launchpad-backend/internal/auth"
	usersdomain "github.com/launchpad-labs/launchpad-backend/internal/users/domain"
)

// UserDirectory upserts the account backing a verified principal.
type UserDirectory interface {
	EnsureUser(ctx context.Context, u usersdomain.UpsertUser) (*usersdomain.User, error)
}

// Authenticate validates the Firebase ID token, ensures the backing user
// record exists (creating it with the starting credit grant on first
// sign-in) and attaches the typed principal to the request.
//
// A nil authClient switches to header-based identity (X-User-Email) for
// local development, mirroring the old demo-user fallback.
func Authenticate(authClient *fbauth.Client, users UserDirectory, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		email, firebaseUID, name, photo, ok := verify(c, authClient)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid authorization token"})
			c.Abort()
			return
		}

		u, err := users.EnsureUser(c.Request.Context(), usersdomain.UpsertUser{
			Email:       email,
			DisplayName: name,
			PhotoURL:    photo,
		})
		if err != nil {
			log.WithError(err).WithField("email", email).Error("ensure user failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve user"})
			c.Abort()
			return
		}

		auth.SetPrincipal(c, auth.Principal{
			UserID:      u.ID,
			Email:       u.Email,
			FirebaseUID: firebaseUID,
		})
		c.Next()
	}
}

func verify(c *gin.Context, authClient *fbauth.Client) (email, uid, name, photo string, ok bool) {
	if authClient == nil {
		email = strings.TrimSpace(c.GetHeader("X-User-Email"))
		if email == "" {
			return "", "", "", "", false
		}
		return email, "dev-" + email, c.GetHeader("X-User-Name"), c.GetHeader("X-User-Photo"), true
	}

	token := extractToken(c)
	if token == "" {
		return "", "", "", "", false
	}

	decoded, err := authClient.VerifyIDToken(c.Request.Context(), token)
	if err != nil {
		return "", "", "", "", false
	}

	email, _ = decoded.Claims["email"].(string)
	if email == "" {
		// The principal is the email; a token without one is unusable.
		return "", "", "", "", false
	}
	name, _ = decoded.Claims["name"].(string)
	photo, _ = decoded.Claims["picture"].(string)

	return email, decoded.UID, name, photo, true
}

// extractToken extracts the Bearer token from the Authorization header
func extractToken(c *gin.Context) string {
	bearerToken := c.GetHeader("Authorization")
	if len(bearerToken) > 7 && strings.HasPrefix(bearerToken, "Bearer ") {
		return bearerToken[7:]
	}
	return ""
}
