package handlers

import (
	"database/sql"
	"errors"
	"log"
	"net/http"

	"sarap_local_back_end/internal/database"
	"sarap_local_back_end/internal/models"
	"sarap_local_back_end/internal/services"
	"sarap_local_back_end/internal/store"
	"sarap_local_back_end/internal/utils"

	"github.com/Masterminds/squirrel"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxReelSize = 50 << 20 // 50 Mo

// CreateReel publie une vidéo courte du vendeur, optionnellement liée à un
// produit de son catalogue
func CreateReel(c *gin.Context) {
	vendorID, ok := requesterID(c)
	if !ok {
		utils.RespondError(c, utils.ErrUnauthorized("Non authentifié"))
		return
	}

	file, err := c.FormFile("video")
	if err != nil {
		utils.RespondError(c, utils.ErrValidation("video", "Fichier vidéo requis"))
		return
	}
	if file.Size > maxReelSize {
		utils.RespondError(c, utils.ErrValidation("video", "Vidéo trop lourde (50 Mo maximum)"))
		return
	}

	var productID *uuid.UUID
	if raw := c.PostForm("product_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			utils.RespondError(c, utils.ErrValidation("product_id", "ID produit invalide"))
			return
		}
		if _, err := ownProduct(vendorID, parsed); err != nil {
			utils.RespondError(c, err)
			return
		}
		productID = &parsed
	}

	url, err := services.UploadFile(database.BucketReels, file)
	if err != nil {
		log.Printf("❌ Erreur upload reel: %v", err)
		utils.RespondError(c, err)
		return
	}

	reel := models.Reel{
		ID:        uuid.New(),
		VendorID:  vendorID,
		VideoURL:  url,
		Caption:   c.PostForm("caption"),
		ProductID: productID,
	}

	query, args, err := store.QB.Insert("reels").
		Columns("id", "vendor_id", "video_url", "caption", "product_id").
		Values(reel.ID, reel.VendorID, reel.VideoURL, reel.Caption, reel.ProductID).
		ToSql()
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	if _, err := store.DB().Exec(query, args...); err != nil {
		utils.RespondError(c, err)
		return
	}

	log.Printf("🎬 Reel publié par %s", vendorID)
	utils.RespondSuccess(c, http.StatusCreated, "Reel publié", reel)
}

// ListReels retourne le fil de reels (plus récents d'abord) avec compteur de
// likes et l'état liked_by_me du demandeur
func ListReels(c *gin.Context) {
	userID, ok := requesterID(c)
	if !ok {
		utils.RespondError(c, utils.ErrUnauthorized("Non authentifié"))
		return
	}
	page, perPage := parsePagination(c)

	query, args, err := store.QB.Select("COUNT(*)").From("reels").ToSql()
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	var total int
	if err := store.DB().Get(&total, query, args...); err != nil {
		utils.RespondError(c, err)
		return
	}

	query, args, err = store.QB.Select(
		"r.id", "r.vendor_id", "r.video_url", "r.caption", "r.product_id", "r.created_at",
		"u.name AS vendor_name",
		"(SELECT COUNT(*) FROM reel_likes rl WHERE rl.reel_id = r.id) AS likes_count",
	).
		Column(squirrel.Expr(`EXISTS(SELECT 1 FROM reel_likes rl
			WHERE rl.reel_id = r.id AND rl.user_id = ?) AS liked_by_me`, userID)).
		From("reels r").
		Join("users u ON u.id = r.vendor_id").
		OrderBy("r.created_at DESC").
		Limit(uint64(perPage)).
		Offset(uint64((page - 1) * perPage)).
		ToSql()
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	reels := []models.Reel{}
	if err := store.DB().Select(&reels, query, args...); err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.RespondPage(c, "Reels", reels, total, page, perPage)
}

// ToggleReelLike bascule le like du demandeur sur un reel
func ToggleReelLike(c *gin.Context) {
	userID, ok := requesterID(c)
	if !ok {
		utils.RespondError(c, utils.ErrUnauthorized("Non authentifié"))
		return
	}
	reelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondError(c, utils.ErrValidation("id", "ID reel invalide"))
		return
	}

	query, args, err := store.QB.Select("id").From("reels").
		Where(squirrel.Eq{"id": reelID}).ToSql()
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	var existing uuid.UUID
	if err := store.DB().Get(&existing, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			utils.RespondError(c, utils.ErrNotFound("Reel introuvable"))
			return
		}
		utils.RespondError(c, err)
		return
	}

	// Retrait d'abord : 0 ligne supprimée = pas encore liké, donc on insère
	query, args, err = store.QB.Delete("reel_likes").
		Where(squirrel.Eq{"reel_id": reelID, "user_id": userID}).
		ToSql()
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	res, err := store.DB().Exec(query, args...)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	liked := false
	if n, _ := res.RowsAffected(); n == 0 {
		query, args, err = store.QB.Insert("reel_likes").
			Columns("reel_id", "user_id").
			Values(reelID, userID).
			Suffix("ON CONFLICT DO NOTHING").
			ToSql()
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		if _, err := store.DB().Exec(query, args...); err != nil {
			utils.RespondError(c, err)
			return
		}
		liked = true
	}

	utils.RespondSuccess(c, http.StatusOK, "Like mis à jour", gin.H{"liked": liked})
}

// DeleteReel supprime un reel (propriétaire ou admin)
func DeleteReel(c *gin.Context) {
	userID, ok := requesterID(c)
	if !ok {
		utils.RespondError(c, utils.ErrUnauthorized("Non authentifié"))
		return
	}
	reelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondError(c, utils.ErrValidation("id", "ID reel invalide"))
		return
	}

	query, args, err := store.QB.Select("vendor_id").From("reels").
		Where(squirrel.Eq{"id": reelID}).ToSql()
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	var ownerID uuid.UUID
	if err := store.DB().Get(&ownerID, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			utils.RespondError(c, utils.ErrNotFound("Reel introuvable"))
			return
		}
		utils.RespondError(c, err)
		return
	}

	if ownerID != userID && c.GetString("role") != models.RoleAdmin {
		utils.RespondError(c, utils.ErrForbidden("Ce reel ne vous appartient pas"))
		return
	}

	query, args, err = store.QB.Delete("reels").
		Where(squirrel.Eq{"id": reelID}).
		ToSql()
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	if _, err := store.DB().Exec(query, args...); err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.RespondSuccess(c, http.StatusOK, "Reel supprimé", nil)
}
