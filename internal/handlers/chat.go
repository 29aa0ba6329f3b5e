package handlers

import (
	"encoding/json"
	"net/http"

	"sarap_local_back_end/internal/cache"
	"sarap_local_back_end/internal/store"
	"sarap_local_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SendMessage envoie un message au destinataire (client ↔ vendeur)
func SendMessage(c *gin.Context) {
	senderID, ok := requesterID(c)
	if !ok {
		utils.RespondError(c, utils.ErrUnauthorized("Non authentifié"))
		return
	}

	var input struct {
		RecipientID uuid.UUID `json:"recipient_id"`
		Content     string    `json:"content"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.RecipientID == uuid.Nil {
		utils.RespondError(c, utils.ErrValidation("recipient_id", "Destinataire requis"))
		return
	}

	message, err := store.SendMessage(senderID, input.RecipientID, input.Content)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	// Push temps réel + invalidation du compteur du destinataire
	cache.InvalidateUnreadCount(input.RecipientID.String())
	payload, _ := json.Marshal(message)
	cache.PublishChatMessage(input.RecipientID.String(), string(payload))

	utils.RespondSuccess(c, http.StatusCreated, "Message envoyé", message)
}

// ListConversations liste les conversations du demandeur
func ListConversations(c *gin.Context) {
	userID, ok := requesterID(c)
	if !ok {
		utils.RespondError(c, utils.ErrUnauthorized("Non authentifié"))
		return
	}

	conversations, err := store.ListConversations(userID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.RespondSuccess(c, http.StatusOK, "Conversations", conversations)
}

// GetMessages retourne l'historique d'une conversation et marque lus les
// messages reçus
func GetMessages(c *gin.Context) {
	userID, ok := requesterID(c)
	if !ok {
		utils.RespondError(c, utils.ErrUnauthorized("Non authentifié"))
		return
	}
	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondError(c, utils.ErrValidation("id", "ID conversation invalide"))
		return
	}

	messages, err := store.GetMessages(userID, conversationID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.RespondSuccess(c, http.StatusOK, "Messages", messages)
}
