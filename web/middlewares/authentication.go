package middlewares

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"sitelink.com/sitelink/model/role"
	"sitelink.com/sitelink/security"
	"sitelink.com/sitelink/web/common"
)

const (
	IdentityKey = "identity"
	CookieName  = "sitelink.ApplicationCookie"
)

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		// Try to get from cookie
		cookie, err := c.Cookie(CookieName)
		if err != nil || cookie == "" {
			return "", false
		}
		return cookie, true
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// Authentication checks for a valid Bearer token and stores its claims under
// IdentityKey.
func Authentication(jwtSecret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, common.NewErrorResponse("Authentication credentials were not provided."))
			return
		}

		claims, err := security.ParseIdentityToken(tokenStr, jwtSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, common.NewErrorResponse("invalid or expired token"))
			return
		}

		c.Set(IdentityKey, claims)
		c.Next()
	}
}

// Identity returns the claims stored by Authentication.
func Identity(c *gin.Context) *security.IdentityClaims {
	v, ok := c.Get(IdentityKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*security.IdentityClaims)
	return claims
}

// RequireRole lets the request through only for the given roles. Admins are
// always allowed.
func RequireRole(roles ...role.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := Identity(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, common.NewErrorResponse("Authentication credentials were not provided."))
			return
		}
		if claims.Role != role.Admin && !slices.Contains(roles, claims.Role) {
			c.AbortWithStatusJSON(http.StatusForbidden, common.NewErrorResponse("You do not have permission to perform this action."))
			return
		}
		c.Next()
	}
}
