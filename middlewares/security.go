package middlewares

import (
	"github.com/gin-gonic/gin"
)

// SecurityHeaders menempel header keamanan standar ke setiap respons.
// API ini dikonsumsi SPA terpisah, jadi framing dan sniffing ditutup.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Content-Security-Policy", "default-src 'self'")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")

		c.Next()
	}
}
