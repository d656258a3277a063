package admin

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/minigolf/internal/config"
	"github.com/playmatatu/minigolf/internal/logging"
	"golang.org/x/crypto/bcrypt"
)

// HeaderAdminKey carries the plain admin key on level write requests.
const HeaderAdminKey = "X-Admin-Key"

// VerifyAdminKey checks if the provided key matches the stored hash
func VerifyAdminKey(hashedKey, plainKey string) bool {
	if hashedKey == "" || plainKey == "" {
		return false
	}
	err := bcrypt.CompareHashAndPassword([]byte(hashedKey), []byte(plainKey))
	return err == nil
}

// HashAdminKey produces the value for ADMIN_KEY_HASH.
func HashAdminKey(plainKey string) (string, error) {
	if plainKey == "" {
		return "", fmt.Errorf("admin key is empty")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plainKey), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash key: %w", err)
	}
	return string(hashed), nil
}

// AdminKeyMiddleware rejects requests without a valid X-Admin-Key. With no
// ADMIN_KEY_HASH configured every write is rejected.
func AdminKeyMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.AdminKeyHash == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "level editing is disabled"})
			return
		}
		if !VerifyAdminKey(cfg.AdminKeyHash, c.GetHeader(HeaderAdminKey)) {
			logging.L().Warnf("[ADMIN] Rejected %s %s from %s", c.Request.Method, c.FullPath(), c.ClientIP())
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid admin key"})
			return
		}
		c.Next()
	}
}
