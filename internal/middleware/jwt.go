package middleware

import (
	"log"
	"strings"

	"sarap_local_back_end/internal/cache"
	"sarap_local_back_end/internal/utils"

	"github.com/gin-gonic/gin"
)

// AuthRequired valide le JWT et pose l'identité de la requête (user_id, role)
// dans le contexte Gin — pas d'état de session ambiant, chaque handler lit
// le contexte.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.RespondError(c, utils.ErrUnauthorized("Token manquant"))
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.RespondError(c, utils.ErrUnauthorized("Format Authorization invalide"))
			c.Abort()
			return
		}

		claims, err := utils.ParseToken(parts[1])
		if err != nil {
			log.Printf("❌ Erreur parsing JWT: %v", err)
			utils.RespondError(c, utils.ErrUnauthorized("Token invalide"))
			c.Abort()
			return
		}

		userID, ok := claims["user_id"].(string)
		if !ok || userID == "" {
			utils.RespondError(c, utils.ErrUnauthorized("user_id manquant"))
			c.Abort()
			return
		}

		if jti, ok := claims["jti"].(string); ok && cache.IsTokenBlacklisted(jti) {
			utils.RespondError(c, utils.ErrUnauthorized("Token révoqué"))
			c.Abort()
			return
		}

		if cache.IsUserBanned(userID) {
			utils.RespondError(c, utils.ErrForbidden("Compte suspendu"))
			c.Abort()
			return
		}

		role, _ := claims["role"].(string)

		c.Set("user_id", userID)
		c.Set("email", claims["email"])
		c.Set("role", role)
		if jti, ok := claims["jti"].(string); ok {
			c.Set("jti", jti)
		}
		if exp, ok := claims["exp"].(float64); ok {
			c.Set("exp", int64(exp))
		}

		c.Next()
	}
}
