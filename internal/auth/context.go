package auth

import "github.com/gin-gonic/gin"

const ctxPrincipal = "auth_principal"

// Principal is the statically-typed identity attached to a request once,
// at session establishment. Handlers read it instead of poking loose
// context keys.
type Principal struct {
	UserID      string
	Email       string
	FirebaseUID string
}

// SetPrincipal stores the principal on the Gin context.
// Called by the authentication middleware only.
func SetPrincipal(c *gin.Context, p Principal) {
	c.Set(ctxPrincipal, p)
}

// PrincipalFrom extracts the principal set by the authentication
// middleware. ok is false when the request never passed it.
func PrincipalFrom(c *gin.Context) (Principal, bool) {
	v, exists := c.Get(ctxPrincipal)
	if !exists {
		return Principal{}, false
	}
	p, ok := v.(Principal)
	if !ok || p.UserID == "" {
		return Principal{}, false
	}
	return p, true
}
