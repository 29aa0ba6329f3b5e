package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"sarap_local_back_end/internal/database"
	"sarap_local_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Autoriser toutes les origines (à ajuster en production)
		return true
	},
}

// NotificationsWebSocket pousse les notifications en temps réel.
// Chaque événement publié sur notify:<user_id> est relayé tel quel au client.
func NotificationsWebSocket(c *gin.Context) {
	subscribeAndRelay(c, "notify:", "Notifications temps réel activées")
}

// ChatWebSocket pousse les messages de chat en temps réel
func ChatWebSocket(c *gin.Context) {
	subscribeAndRelay(c, "chat:", "Chat temps réel activé")
}

func subscribeAndRelay(c *gin.Context, channelPrefix, welcome string) {
	userID := c.GetString("user_id")
	if userID == "" {
		utils.RespondError(c, utils.ErrUnauthorized("Non authentifié"))
		return
	}

	// Upgrade vers WebSocket
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("❌ Erreur upgrade WebSocket: %v", err)
		return
	}
	defer conn.Close()

	ctx := context.Background()

	// S'abonner au canal Redis pour ce user
	pubsub := database.Redis.Subscribe(ctx, channelPrefix+userID)
	defer pubsub.Close()

	ch := pubsub.Channel()

	conn.WriteJSON(map[string]interface{}{
		"type":    "connected",
		"message": welcome,
	})

	// Boucle d'écoute
	for {
		select {
		case msg, open := <-ch:
			if !open {
				return
			}

			var event map[string]interface{}
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				// Payload non JSON, relayé brut
				event = map[string]interface{}{"payload": msg.Payload}
			}
			event["channel"] = channelPrefix + userID

			if err := conn.WriteJSON(event); err != nil {
				log.Printf("❌ Erreur envoi WebSocket: %v", err)
				return
			}
		case <-time.After(30 * time.Second):
			// Ping pour garder la connexion active
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
