package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/cleantrack/utils"
)

// WebSocketAuthMiddleware: browser tidak bisa kirim header Authorization
// saat upgrade, jadi token lewat query param.
func WebSocketAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.AbortWithStatus(401)
			return
		}

		claims, err := utils.ParseToken(token)
		if err != nil {
			c.AbortWithStatus(401)
			return
		}

		c.Set("role", claims.Role)
		c.Set("actor_id", claims.ActorID)
		c.Set("department_id", claims.DepartmentID)
		c.Set("actor_name", claims.Name)
		c.Next()
	}
}
