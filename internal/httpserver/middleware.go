package httpserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"shopkart/internal/domain"
	authsvc "shopkart/internal/service/auth"
)

const identityKey = "identity"

// authRequired validates the bearer token and stores the caller identity on
// the context. Services downstream never see the token.
func authRequired(auth AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		token = strings.TrimSpace(token)
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		identity, err := auth.ParseToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(identityKey, identity)
		c.Next()
	}
}

// requireRole gates a route on the caller's role. Core services stay
// role-agnostic; this is the only place roles are checked.
func requireRole(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := callerIdentity(c)
		for _, role := range roles {
			if identity.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
	}
}

func callerIdentity(c *gin.Context) authsvc.Identity {
	if v, ok := c.Get(identityKey); ok {
		if identity, ok := v.(authsvc.Identity); ok {
			return identity
		}
	}
	return authsvc.Identity{}
}
