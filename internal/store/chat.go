package store

import (
	"database/sql"
	"errors"

	"sarap_local_back_end/internal/models"
	"sarap_local_back_end/internal/utils"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

// SendMessage crée (ou retrouve) la conversation client↔vendeur, insère le
// message et notifie le destinataire (type "message").
func SendMessage(senderID, recipientID uuid.UUID, content string) (*models.Message, error) {
	if content == "" {
		return nil, utils.ErrValidation("content", "Message vide")
	}
	if senderID == recipientID {
		return nil, utils.ErrValidation("recipient_id", "Impossible de s'écrire à soi-même")
	}

	var roles []struct {
		ID   uuid.UUID `db:"id"`
		Role string    `db:"role"`
	}
	query, args, err := QB.Select("id", "role").
		From("users").
		Where(squirrel.Eq{"id": []uuid.UUID{senderID, recipientID}}).
		ToSql()
	if err != nil {
		return nil, err
	}
	if err := db.Select(&roles, query, args...); err != nil {
		return nil, err
	}
	if len(roles) != 2 {
		return nil, utils.ErrNotFound("Destinataire introuvable")
	}

	// La conversation est toujours orientée client → vendeur
	var customerID, vendorID uuid.UUID
	byID := map[uuid.UUID]string{}
	for _, r := range roles {
		byID[r.ID] = r.Role
	}
	switch {
	case byID[senderID] == models.RoleCustomer && byID[recipientID] == models.RoleVendor:
		customerID, vendorID = senderID, recipientID
	case byID[senderID] == models.RoleVendor && byID[recipientID] == models.RoleCustomer:
		customerID, vendorID = recipientID, senderID
	default:
		return nil, utils.ErrValidation("recipient_id", "Le chat relie un client et un vendeur")
	}

	var conversationID uuid.UUID
	query, args, err = QB.Insert("conversations").
		Columns("id", "customer_id", "vendor_id").
		Values(uuid.New(), customerID, vendorID).
		Suffix(`ON CONFLICT (customer_id, vendor_id)
			DO UPDATE SET updated_at = now()
			RETURNING id`).
		ToSql()
	if err != nil {
		return nil, err
	}
	if err := db.Get(&conversationID, query, args...); err != nil {
		return nil, err
	}

	message := models.Message{
		ID:             uuid.New(),
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        content,
	}
	query, args, err = QB.Insert("messages").
		Columns("id", "conversation_id", "sender_id", "content").
		Values(message.ID, message.ConversationID, message.SenderID, message.Content).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return nil, err
	}
	if err := db.Get(&message.CreatedAt, query, args...); err != nil {
		return nil, err
	}

	if err := Notify(recipientID, models.NotificationMessage,
		"Nouveau message", content, "/chat/"+conversationID.String()); err != nil {
		return nil, err
	}

	return &message, nil
}

// ListConversations retourne les conversations du demandeur, les plus
// actives d'abord, avec dernier message et compteur non lu.
func ListConversations(userID uuid.UUID) ([]models.Conversation, error) {
	query, args, err := QB.Select(
		"cv.id", "cv.customer_id", "cv.vendor_id", "cv.created_at", "cv.updated_at",
		"c.name AS customer_name", "v.name AS vendor_name",
		`COALESCE((SELECT m.content FROM messages m
			WHERE m.conversation_id = cv.id
			ORDER BY m.created_at DESC LIMIT 1), '') AS last_message`,
	).
		Column(squirrel.Expr(`(SELECT COUNT(*) FROM messages m
			WHERE m.conversation_id = cv.id
			AND m.sender_id <> ? AND NOT m.is_read) AS unread_count`, userID)).
		From("conversations cv").
		Join("users c ON c.id = cv.customer_id").
		Join("users v ON v.id = cv.vendor_id").
		Where(squirrel.Or{
			squirrel.Eq{"cv.customer_id": userID},
			squirrel.Eq{"cv.vendor_id": userID},
		}).
		OrderBy("cv.updated_at DESC").
		ToSql()
	if err != nil {
		return nil, err
	}

	conversations := []models.Conversation{}
	if err := db.Select(&conversations, query, args...); err != nil {
		return nil, err
	}
	return conversations, nil
}

// GetMessages retourne l'historique d'une conversation (ordre chronologique)
// après contrôle de participation, et marque lus les messages reçus.
func GetMessages(userID, conversationID uuid.UUID) ([]models.Message, error) {
	var cv models.Conversation
	query, args, err := QB.Select("id", "customer_id", "vendor_id", "created_at", "updated_at").
		From("conversations").
		Where(squirrel.Eq{"id": conversationID}).
		ToSql()
	if err != nil {
		return nil, err
	}
	if err := db.Get(&cv, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrNotFound("Conversation introuvable")
		}
		return nil, err
	}

	if cv.CustomerID != userID && cv.VendorID != userID {
		return nil, utils.ErrForbidden("Vous ne participez pas à cette conversation")
	}

	query, args, err = QB.Select("id", "conversation_id", "sender_id", "content",
		"is_read", "created_at").
		From("messages").
		Where(squirrel.Eq{"conversation_id": conversationID}).
		OrderBy("created_at").
		ToSql()
	if err != nil {
		return nil, err
	}

	messages := []models.Message{}
	if err := db.Select(&messages, query, args...); err != nil {
		return nil, err
	}

	query, args, err = QB.Update("messages").
		Set("is_read", true).
		Where(squirrel.Eq{"conversation_id": conversationID, "is_read": false}).
		Where(squirrel.NotEq{"sender_id": userID}).
		ToSql()
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(query, args...); err != nil {
		return nil, err
	}

	return messages, nil
}
