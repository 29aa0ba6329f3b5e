package middleware

import (
	"sarap_local_back_end/internal/models"
	"sarap_local_back_end/internal/utils"

	"github.com/gin-gonic/gin"
)

// VendorRequired réserve la route aux vendeurs (à poser après AuthRequired)
func VendorRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("role") != models.RoleVendor {
			utils.RespondError(c, utils.ErrForbidden("Réservé aux vendeurs"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// AdminRequired réserve la route aux admins (à poser après AuthRequired)
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("role") != models.RoleAdmin {
			utils.RespondError(c, utils.ErrForbidden("Réservé aux administrateurs"))
			c.Abort()
			return
		}
		c.Next()
	}
}
