package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"Nova_Community/internal/pkg"
)

const ContextUserIDKey = "user_id"

// AuthMiddleware 校验 Bearer access token，通过后注入 user_id
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"msg": "missing authorization header"})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"msg": "invalid authorization format"})
			c.Abort()
			return
		}

		claims, err := pkg.ParseAccess(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"msg": "invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Next()
	}
}

// UserID 从请求上下文取当前用户 id
func UserID(c *gin.Context) int64 {
	v, _ := c.Get(ContextUserIDKey)
	id, _ := v.(int64)
	return id
}
