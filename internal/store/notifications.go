package store

import (
	"sarap_local_back_end/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Notify insère une notification adressée à un utilisateur. Pas de garantie
// de livraison au-delà de l'insert : le polling et le WebSocket font le reste.
// Une violation de clé étrangère (user_id inconnu) remonte en erreur serveur.
func Notify(userID uuid.UUID, ntype, title, message, link string) error {
	query, args, err := notifyQuery(userID, ntype, title, message, link)
	if err != nil {
		return err
	}
	_, err = db.Exec(query, args...)
	return err
}

// notifyTx fait le même insert dans la transaction du checkout : une
// annulation de commande annule aussi ses notifications.
func notifyTx(tx *sqlx.Tx, userID uuid.UUID, ntype, title, message, link string) error {
	query, args, err := notifyQuery(userID, ntype, title, message, link)
	if err != nil {
		return err
	}
	_, err = tx.Exec(query, args...)
	return err
}

func notifyQuery(userID uuid.UUID, ntype, title, message, link string) (string, []interface{}, error) {
	return QB.Insert("notifications").
		Columns("id", "user_id", "type", "title", "message", "link").
		Values(uuid.New(), userID, ntype, title, message, link).
		ToSql()
}

// ListNotifications retourne une page de notifications (plus récentes
// d'abord) et marque lues toutes celles renvoyées — effet de bord de lecture
// assumé : deux appareils qui pollent en même temps peuvent voir les mêmes
// notifications non lues.
func ListNotifications(userID uuid.UUID, page, perPage int) ([]models.Notification, int, error) {
	query, args, err := QB.Select("COUNT(*)").
		From("notifications").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total int
	if err := db.Get(&total, query, args...); err != nil {
		return nil, 0, err
	}

	query, args, err = QB.Select("id", "user_id", "type", "title", "message",
		"link", "is_read", "created_at").
		From("notifications").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		Limit(uint64(perPage)).
		Offset(uint64((page - 1) * perPage)).
		ToSql()
	if err != nil {
		return nil, 0, err
	}

	notifications := []models.Notification{}
	if err := db.Select(&notifications, query, args...); err != nil {
		return nil, 0, err
	}

	var unreadIDs []uuid.UUID
	for _, n := range notifications {
		if !n.IsRead {
			unreadIDs = append(unreadIDs, n.ID)
		}
	}
	if len(unreadIDs) > 0 {
		query, args, err = QB.Update("notifications").
			Set("is_read", true).
			Where(squirrel.Eq{"id": unreadIDs}).
			ToSql()
		if err != nil {
			return nil, 0, err
		}
		if _, err := db.Exec(query, args...); err != nil {
			return nil, 0, err
		}
	}

	return notifications, total, nil
}

// UnreadNotificationCount compte les notifications non lues
func UnreadNotificationCount(userID uuid.UUID) (int64, error) {
	query, args, err := QB.Select("COUNT(*)").
		From("notifications").
		Where(squirrel.Eq{"user_id": userID, "is_read": false}).
		ToSql()
	if err != nil {
		return 0, err
	}
	var count int64
	if err := db.Get(&count, query, args...); err != nil {
		return 0, err
	}
	return count, nil
}
