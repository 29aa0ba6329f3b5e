package handlers

import (
	"net/http"

	"sarap_local_back_end/internal/cache"
	"sarap_local_back_end/internal/store"
	"sarap_local_back_end/internal/utils"

	"github.com/gin-gonic/gin"
)

// ListNotifications retourne les notifications du demandeur et les marque
// lues au passage
func ListNotifications(c *gin.Context) {
	userID, ok := requesterID(c)
	if !ok {
		utils.RespondError(c, utils.ErrUnauthorized("Non authentifié"))
		return
	}
	page, perPage := parsePagination(c)

	notifications, total, err := store.ListNotifications(userID, page, perPage)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	// Tout ce qui vient d'être renvoyé est marqué lu
	cache.InvalidateUnreadCount(userID.String())

	utils.RespondPage(c, "Notifications", notifications, total, page, perPage)
}

// UnreadCount retourne le nombre de notifications non lues, via le cache
// Redis quand il est chaud
func UnreadCount(c *gin.Context) {
	userID, ok := requesterID(c)
	if !ok {
		utils.RespondError(c, utils.ErrUnauthorized("Non authentifié"))
		return
	}

	count := cache.GetUnreadCount(userID.String())
	if count < 0 {
		fresh, err := store.UnreadNotificationCount(userID)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		cache.SetUnreadCount(userID.String(), fresh)
		count = fresh
	}

	utils.RespondSuccess(c, http.StatusOK, "Notifications non lues", gin.H{"unread_count": count})
}
