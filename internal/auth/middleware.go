package auth

import (
	"net/http"

	"real-estate-marketplace/internal/apperr"
	"real-estate-marketplace/internal/models"

	"github.com/gin-gonic/gin"
)

// claimsKey is the gin context key the verified claims are stashed under.
const claimsKey = "authClaims"

// UserResolver resolves the caller's current user record. Satisfied by
// the database store.
type UserResolver interface {
	UserByEmail(email string) (*models.User, error)
}

// RequireToken is the first gate check: a verified token must be present
// on the request. Verified claims are stashed for downstream checks and
// handlers.
func RequireToken(tokens *TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := c.Cookie(TokenCookieName)
		if err != nil || tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized access"})
			return
		}

		claims, err := tokens.Verify(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized access"})
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequireRole is the second gate check: the caller's CURRENT role must
// match. The role is re-read from the user store on every request rather
// than trusted from the token, so an admin demotion takes effect on the
// caller's very next request.
func RequireRole(users UserResolver, role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized access"})
			return
		}

		user, err := users.UserByEmail(claims.Email)
		if err != nil {
			status := http.StatusUnauthorized
			if apperr.KindOf(err) == apperr.KindInternal {
				status = http.StatusInternalServerError
			}
			c.AbortWithStatusJSON(status, gin.H{"error": "unauthorized access"})
			return
		}

		if user.Role != role {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized access"})
			return
		}

		c.Next()
	}
}

// ClaimsFrom retrieves the verified claims stashed by RequireToken.
func ClaimsFrom(c *gin.Context) (*Claims, bool) {
	value, exists := c.Get(claimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*Claims)
	return claims, ok
}
