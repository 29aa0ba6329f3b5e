package cache

import (
	"context"
	"fmt"
	"log"
	"time"

	"sarap_local_back_end/internal/database"

	"github.com/redis/go-redis/v9"
)

var ctx = context.Background()

// --- Refresh Tokens ---

// StoreRefreshToken stocke un refresh token pour un utilisateur
func StoreRefreshToken(userID, refreshToken string, duration time.Duration) error {
	key := fmt.Sprintf("refresh:%s", userID)
	return database.Redis.Set(ctx, key, refreshToken, duration).Err()
}

// GetRefreshToken récupère le refresh token d'un utilisateur
func GetRefreshToken(userID string) (string, error) {
	key := fmt.Sprintf("refresh:%s", userID)
	return database.Redis.Get(ctx, key).Result()
}

// DeleteRefreshToken supprime le refresh token (logout)
func DeleteRefreshToken(userID string) error {
	key := fmt.Sprintf("refresh:%s", userID)
	return database.Redis.Del(ctx, key).Err()
}

// --- Blacklist JWT (révocation avant expiration) ---

// BlacklistToken ajoute un token JWT à la blacklist
func BlacklistToken(tokenID string, duration time.Duration) error {
	key := fmt.Sprintf("blacklist:%s", tokenID)
	return database.Redis.Set(ctx, key, "revoked", duration).Err()
}

// IsTokenBlacklisted vérifie si un token est blacklisté
func IsTokenBlacklisted(tokenID string) bool {
	key := fmt.Sprintf("blacklist:%s", tokenID)
	exists, err := database.Redis.Exists(ctx, key).Result()
	if err != nil {
		log.Printf("⚠️ Erreur vérification blacklist: %v", err)
		return false
	}
	return exists > 0
}

// --- Ban utilisateurs (admin) ---

// BanUser bannit un utilisateur (pas d'expiration = permanent)
func BanUser(userID string) error {
	key := fmt.Sprintf("banned:%s", userID)
	return database.Redis.Set(ctx, key, "true", 0).Err()
}

// UnbanUser débannit un utilisateur
func UnbanUser(userID string) error {
	key := fmt.Sprintf("banned:%s", userID)
	return database.Redis.Del(ctx, key).Err()
}

// IsUserBanned vérifie si un utilisateur est banni
func IsUserBanned(userID string) bool {
	key := fmt.Sprintf("banned:%s", userID)
	exists, err := database.Redis.Exists(ctx, key).Result()
	if err != nil {
		log.Printf("⚠️ Erreur vérification ban: %v", err)
		return false
	}
	return exists > 0
}

// --- Compteur de notifications non lues ---
// Le compteur est un cache : invalidé à chaque écriture/lecture de
// notifications, la base reste la source de vérité.

// GetUnreadCount lit le compteur en cache, -1 si absent
func GetUnreadCount(userID string) int64 {
	key := fmt.Sprintf("unread:%s", userID)
	val, err := database.Redis.Get(ctx, key).Int64()
	if err == redis.Nil {
		return -1
	}
	if err != nil {
		return -1
	}
	return val
}

// SetUnreadCount met le compteur en cache (5 minutes)
func SetUnreadCount(userID string, count int64) {
	key := fmt.Sprintf("unread:%s", userID)
	database.Redis.Set(ctx, key, count, 5*time.Minute)
}

// InvalidateUnreadCount supprime le compteur en cache
func InvalidateUnreadCount(userID string) {
	key := fmt.Sprintf("unread:%s", userID)
	database.Redis.Del(ctx, key)
}

// --- Pub/Sub temps réel (WebSocket) ---

// PublishNotification pousse un événement sur le canal de l'utilisateur
func PublishNotification(userID, payload string) {
	if err := database.Redis.Publish(ctx, "notify:"+userID, payload).Err(); err != nil {
		log.Printf("⚠️ Erreur publish notification: %v", err)
	}
}

// PublishChatMessage pousse un message sur le canal chat du destinataire
func PublishChatMessage(userID, payload string) {
	if err := database.Redis.Publish(ctx, "chat:"+userID, payload).Err(); err != nil {
		log.Printf("⚠️ Erreur publish chat: %v", err)
	}
}

// --- Rate Limiting ---

// IncrementRateLimit incrémente le compteur de rate limit
func IncrementRateLimit(key string, window time.Duration) (int64, error) {
	pipe := database.Redis.Pipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}
