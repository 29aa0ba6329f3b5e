package middleware

import (
	"fmt"
	"net/http"
	"time"

	"sarap_local_back_end/internal/cache"

	"github.com/gin-gonic/gin"
)

const (
	LoginMaxAttempts    = 5
	RegisterMaxAttempts = 3

	LoginCooldown    = 15 * time.Minute
	RegisterCooldown = 30 * time.Minute
)

// LoginRateLimit limite les tentatives de connexion par IP
func LoginRateLimit() gin.HandlerFunc {
	return rateLimit("login", LoginMaxAttempts, LoginCooldown)
}

// RegisterRateLimit limite les inscriptions par IP
func RegisterRateLimit() gin.HandlerFunc {
	return rateLimit("register", RegisterMaxAttempts, RegisterCooldown)
}

func rateLimit(scope string, maxAttempts int64, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("%s_attempts:%s", scope, c.ClientIP())

		attempts, err := cache.IncrementRateLimit(key, window)
		if err != nil {
			// Redis indisponible : on laisse passer plutôt que de bloquer tout le monde
			c.Next()
			return
		}

		if attempts > maxAttempts {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"success":     false,
				"message":     fmt.Sprintf("Trop de tentatives. Réessayez dans %d minutes", int(window.Minutes())),
				"retry_after": int(window.Seconds()),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
