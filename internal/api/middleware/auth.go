package middleware

import (
	"net/http"
	"strings"

	"aptcare/backend/internal/access"
	"aptcare/backend/internal/auth"
	"aptcare/backend/internal/storage"

	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

// RequireAuth parses the bearer token, rejects revoked tokens, and loads
// the account from the database so role always comes from the stored row,
// never from claims a client could replay.
func RequireAuth(secret string, store storage.Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok := tokenFrom(c)
		if tok == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authorized, no token"})
			return
		}

		claims, err := auth.ParseToken(secret, tok)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authorized, token failed"})
			return
		}

		if claims.IssuedAt != nil {
			revoked, err := store.IsTokenRevoked(claims.UserID, claims.IssuedAt.Time)
			if err == nil && revoked {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token has been revoked"})
				return
			}
		}

		user, err := store.GetUserByID(claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
			return
		}

		c.Set(principalKey, access.Principal{ID: user.ID, Role: user.Role})
		c.Next()
	}
}

// RequireAdmin assumes RequireAuth already ran.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		p := Principal(c)
		if !p.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin privileges required"})
			return
		}
		c.Next()
	}
}

// Principal returns the authenticated principal, or a zero (anonymous) one.
func Principal(c *gin.Context) access.Principal {
	if v, ok := c.Get(principalKey); ok {
		if p, ok := v.(access.Principal); ok {
			return p
		}
	}
	return access.Principal{}
}

func tokenFrom(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	// Legacy clients send x-auth-token.
	return c.GetHeader("x-auth-token")
}
