package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/shoplite/commerce-core/internal/auth"
)

// Header names set by the upstream gateway after it authenticates the caller
// and resolves the tenant. This service trusts them; it never sees raw
// credentials.
const (
	HeaderTenantID = "X-Tenant-ID"
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"
)

const contextKeyAuth = "auth_context"

// IdentityMiddleware resolves the typed identity context from the trusted
// gateway headers and aborts requests that lack one.
func IdentityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID, err := strconv.ParseUint(c.GetHeader(HeaderTenantID), 10, 32)
		if err != nil || tenantID == 0 {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Missing or invalid tenant identity",
				"error":   "missing tenant header",
			})
			c.Abort()
			return
		}

		userID, err := strconv.ParseUint(c.GetHeader(HeaderUserID), 10, 32)
		if err != nil || userID == 0 {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Missing or invalid user identity",
				"error":   "missing user header",
			})
			c.Abort()
			return
		}

		role := c.GetHeader(HeaderUserRole)
		if role == "" {
			role = auth.RoleUser
		}

		c.Set(contextKeyAuth, auth.Context{
			TenantID: uint(tenantID),
			UserID:   uint(userID),
			Role:     role,
		})
		c.Next()
	}
}

// RequireAdmin aborts requests whose identity context lacks the admin role.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		authCtx, ok := GetAuthContext(c)
		if !ok || !authCtx.IsAdmin() {
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "Administrator role required",
				"error":   "forbidden",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetAuthContext returns the identity context stored by IdentityMiddleware.
func GetAuthContext(c *gin.Context) (auth.Context, bool) {
	value, exists := c.Get(contextKeyAuth)
	if !exists {
		return auth.Context{}, false
	}
	authCtx, ok := value.(auth.Context)
	return authCtx, ok
}
