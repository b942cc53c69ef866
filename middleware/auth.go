package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/21f2000143/grocery-app2-backend/auth"
	"github.com/21f2000143/grocery-app2-backend/models"
)

const principalKey = "principal"

// RequireAuth validates the caller's token (cookie or Authorization header)
// and loads the full principal, with roles, into the request context.
func RequireAuth(svc *auth.Service, secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := tokenFromRequest(c)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		claims, err := auth.ParseToken(secret, raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		// Roles are re-read from the store, not trusted from the token, so a
		// grant or revocation takes effect on the next request.
		user, err := svc.GetUser(claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
			return
		}
		if !user.Active {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user account is disabled"})
			return
		}

		c.Set(principalKey, user)
		c.Next()
	}
}

// RequireRole guards a route group behind a single role. Must run after
// RequireAuth.
func RequireRole(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := Principal(c)
		if user == nil || !user.HasRole(name) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
			return
		}
		c.Next()
	}
}

// RequireAnyPermission passes if any of the caller's roles grants one of the
// listed permissions. Must run after RequireAuth.
func RequireAnyPermission(names ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := Principal(c)
		if user == nil || !user.HasAnyPermission(names...) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
			return
		}
		c.Next()
	}
}

// Principal returns the authenticated user set by RequireAuth, or nil.
func Principal(c *gin.Context) *models.User {
	val, exists := c.Get(principalKey)
	if !exists {
		return nil
	}
	user, ok := val.(*models.User)
	if !ok {
		return nil
	}
	return user
}

func tokenFromRequest(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if cookie, err := c.Cookie(auth.CookieName); err == nil {
		return cookie
	}
	return ""
}
