package handlers

import (
	"log"
	"net/http"
	"time"

	"sarap_local_back_end/internal/models"
	"sarap_local_back_end/internal/store"
	"sarap_local_back_end/internal/utils"

	"github.com/Masterminds/squirrel"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type promotionInput struct {
	ProductID       uuid.UUID `json:"product_id"`
	DiscountPercent int       `json:"discount_percent"`
	StartsAt        time.Time `json:"starts_at"`
	EndsAt          time.Time `json:"ends_at"`
}

func (in promotionInput) validate() error {
	if in.ProductID == uuid.Nil {
		return utils.ErrValidation("product_id", "Produit requis")
	}
	if in.DiscountPercent < 1 || in.DiscountPercent > 90 {
		return utils.ErrValidation("discount_percent", "La remise doit être entre 1 et 90%")
	}
	if !in.EndsAt.After(in.StartsAt) {
		return utils.ErrValidation("ends_at", "La fin doit être après le début")
	}
	return nil
}

// ListPromotions liste les promotions du vendeur connecté
func ListPromotions(c *gin.Context) {
	vendorID, ok := requesterID(c)
	if !ok {
		utils.RespondError(c, utils.ErrUnauthorized("Non authentifié"))
		return
	}

	query, args, err := store.QB.Select(
		"pr.id", "pr.vendor_id", "pr.product_id", "pr.discount_percent",
		"pr.starts_at", "pr.ends_at", "pr.created_at",
		"p.name AS product_name",
	).
		From("promotions pr").
		Join("products p ON p.id = pr.product_id").
		Where(squirrel.Eq{"pr.vendor_id": vendorID}).
		OrderBy("pr.starts_at DESC").
		ToSql()
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	promotions := []models.Promotion{}
	if err := store.DB().Select(&promotions, query, args...); err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.RespondSuccess(c, http.StatusOK, "Promotions", promotions)
}

// CreatePromotion crée une promotion sur un produit du vendeur connecté
func CreatePromotion(c *gin.Context) {
	vendorID, ok := requesterID(c)
	if !ok {
		utils.RespondError(c, utils.ErrUnauthorized("Non authentifié"))
		return
	}

	var input promotionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, utils.ErrValidation("body", "Données invalides"))
		return
	}
	if err := input.validate(); err != nil {
		utils.RespondError(c, err)
		return
	}

	if _, err := ownProduct(vendorID, input.ProductID); err != nil {
		utils.RespondError(c, err)
		return
	}

	promotion := models.Promotion{
		ID:              uuid.New(),
		VendorID:        vendorID,
		ProductID:       input.ProductID,
		DiscountPercent: input.DiscountPercent,
		StartsAt:        input.StartsAt,
		EndsAt:          input.EndsAt,
	}

	query, args, err := store.QB.Insert("promotions").
		Columns("id", "vendor_id", "product_id", "discount_percent", "starts_at", "ends_at").
		Values(promotion.ID, promotion.VendorID, promotion.ProductID,
			promotion.DiscountPercent, promotion.StartsAt, promotion.EndsAt).
		ToSql()
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	if _, err := store.DB().Exec(query, args...); err != nil {
		log.Printf("❌ Erreur création promotion: %v", err)
		utils.RespondError(c, err)
		return
	}

	log.Printf("✅ Promotion -%d%% sur le produit %s", promotion.DiscountPercent, promotion.ProductID)
	utils.RespondSuccess(c, http.StatusCreated, "Promotion créée", promotion)
}

// UpdatePromotion modifie la remise ou la fenêtre d'une promotion
func UpdatePromotion(c *gin.Context) {
	vendorID, ok := requesterID(c)
	if !ok {
		utils.RespondError(c, utils.ErrUnauthorized("Non authentifié"))
		return
	}
	promotionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondError(c, utils.ErrValidation("id", "ID promotion invalide"))
		return
	}

	var input struct {
		DiscountPercent int       `json:"discount_percent"`
		StartsAt        time.Time `json:"starts_at"`
		EndsAt          time.Time `json:"ends_at"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, utils.ErrValidation("body", "Données invalides"))
		return
	}
	if input.DiscountPercent < 1 || input.DiscountPercent > 90 {
		utils.RespondError(c, utils.ErrValidation("discount_percent", "La remise doit être entre 1 et 90%"))
		return
	}
	if !input.EndsAt.After(input.StartsAt) {
		utils.RespondError(c, utils.ErrValidation("ends_at", "La fin doit être après le début"))
		return
	}

	query, args, err := store.QB.Update("promotions").
		Set("discount_percent", input.DiscountPercent).
		Set("starts_at", input.StartsAt).
		Set("ends_at", input.EndsAt).
		Where(squirrel.Eq{"id": promotionID, "vendor_id": vendorID}).
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
	if n, _ := res.RowsAffected(); n == 0 {
		utils.RespondError(c, utils.ErrNotFound("Promotion introuvable"))
		return
	}

	utils.RespondSuccess(c, http.StatusOK, "Promotion mise à jour", nil)
}

// DeletePromotion supprime une promotion du vendeur connecté
func DeletePromotion(c *gin.Context) {
	vendorID, ok := requesterID(c)
	if !ok {
		utils.RespondError(c, utils.ErrUnauthorized("Non authentifié"))
		return
	}
	promotionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondError(c, utils.ErrValidation("id", "ID promotion invalide"))
		return
	}

	query, args, err := store.QB.Delete("promotions").
		Where(squirrel.Eq{"id": promotionID, "vendor_id": vendorID}).
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
	if n, _ := res.RowsAffected(); n == 0 {
		utils.RespondError(c, utils.ErrNotFound("Promotion introuvable"))
		return
	}

	utils.RespondSuccess(c, http.StatusOK, "Promotion supprimée", nil)
}
