package middleware

import (
	"net/http"

	"go-barcode-generator/internal/logger"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// APIKeyHeader carries the client key.
const APIKeyHeader = "X-API-Key"

// APIKeyAuth checks X-API-Key against a bcrypt hash. An empty hash lets
// every request through.
func APIKeyAuth(hash string, log *logger.StructuredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if hash == "" {
			c.Next()
			return
		}

		key := c.GetHeader(APIKeyHeader)
		if key == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "MISSING_API_KEY",
				"message": "X-API-Key header is required",
			})
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(key)); err != nil {
			if log != nil {
				log.LogSecurityEvent("Rejected API key", "medium", map[string]interface{}{
					"ip":   c.ClientIP(),
					"path": c.Request.URL.Path,
				})
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "INVALID_API_KEY",
				"message": "API key is not valid",
			})
			return
		}

		c.Next()
	}
}

// HashAPIKey returns the bcrypt hash to store in the auth config.
func HashAPIKey(key string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
