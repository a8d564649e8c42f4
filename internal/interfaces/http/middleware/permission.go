package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/homelease/backend/internal/interfaces/http/dto"
)

// Billing permissions carried in JWT claims
const (
	PermissionBillingRead   = "billing.read"
	PermissionBillingManage = "billing.manage"
	PermissionLeasingRead   = "leasing.read"
	PermissionLeasingManage = "leasing.manage"
)

// RequirePermission creates middleware that requires one specific permission
func RequirePermission(permission string) gin.HandlerFunc {
	return RequireAnyPermission(permission)
}

// RequireAnyPermission creates middleware that passes when the token grants
// at least one of the listed permissions
func RequireAnyPermission(permissions ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse(dto.ErrCodeUnauthorized, "Authentication required"))
			return
		}
		for _, p := range permissions {
			if claims.HasPermission(p) {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden,
			dto.NewErrorResponse(dto.ErrCodeForbidden, "Missing required permission"))
	}
}
