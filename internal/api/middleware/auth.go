package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"comanda-system/internal/database/models"
	"comanda-system/internal/utils"
)

const (
	CtxEmployeeID = "employee_id"
	CtxUsername   = "username"
	CtxRole       = "role"
)

// JWTAuth validates the bearer access token and stores the identity on the
// request context.
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" || !strings.HasPrefix(h, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "missing or invalid token"})
			return
		}

		claims, err := utils.ParseToken([]byte(secret), strings.TrimPrefix(h, "Bearer "))
		if err != nil || claims.TokenType != utils.TokenAccess {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "invalid token"})
			return
		}

		c.Set(CtxEmployeeID, claims.EmployeeId)
		c.Set(CtxUsername, claims.Username)
		c.Set(CtxRole, models.Role(claims.Role))
		c.Next()
	}
}

// RequireRole gates a route to the given roles. The check is strict enum
// equality against the canonical role value.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get(CtxRole)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "missing or invalid token"})
			return
		}
		role, ok := value.(models.Role)
		if !ok || !role.Valid() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"ok": false, "error": "forbidden"})
			return
		}
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"ok": false, "error": "forbidden"})
	}
}

// EmployeeID returns the authenticated employee id set by JWTAuth.
func EmployeeID(c *gin.Context) uint {
	if v, ok := c.Get(CtxEmployeeID); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}
