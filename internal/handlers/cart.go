package handlers

import (
	"net/http"

	"sarap_local_back_end/internal/store"
	"sarap_local_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type cartItemInput struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

// GetCart retourne le panier du client connecté
func GetCart(c *gin.Context) {
	customerID, ok := requesterID(c)
	if !ok {
		utils.RespondError(c, utils.ErrUnauthorized("Non authentifié"))
		return
	}

	view, err := store.GetCart(customerID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.RespondSuccess(c, http.StatusOK, "Panier", view)
}

// AddToCart ajoute un produit au panier (quantités cumulées)
func AddToCart(c *gin.Context) {
	customerID, ok := requesterID(c)
	if !ok {
		utils.RespondError(c, utils.ErrUnauthorized("Non authentifié"))
		return
	}

	var input cartItemInput
	if err := c.ShouldBindJSON(&input); err != nil || input.ProductID == uuid.Nil {
		utils.RespondError(c, utils.ErrValidation("product_id", "Produit requis"))
		return
	}

	if err := store.AddToCart(customerID, input.ProductID, input.Quantity); err != nil {
		utils.RespondError(c, err)
		return
	}

	view, err := store.GetCart(customerID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondSuccess(c, http.StatusOK, "Produit ajouté au panier", view)
}

// UpdateCartItem remplace la quantité d'une ligne du panier
func UpdateCartItem(c *gin.Context) {
	customerID, ok := requesterID(c)
	if !ok {
		utils.RespondError(c, utils.ErrUnauthorized("Non authentifié"))
		return
	}
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		utils.RespondError(c, utils.ErrValidation("productId", "ID produit invalide"))
		return
	}

	var input struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, utils.ErrValidation("body", "Données invalides"))
		return
	}

	if err := store.UpdateCartItem(customerID, productID, input.Quantity); err != nil {
		utils.RespondError(c, err)
		return
	}

	view, err := store.GetCart(customerID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondSuccess(c, http.StatusOK, "Panier mis à jour", view)
}

// RemoveFromCart retire un produit du panier
func RemoveFromCart(c *gin.Context) {
	customerID, ok := requesterID(c)
	if !ok {
		utils.RespondError(c, utils.ErrUnauthorized("Non authentifié"))
		return
	}
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		utils.RespondError(c, utils.ErrValidation("productId", "ID produit invalide"))
		return
	}

	if err := store.RemoveFromCart(customerID, productID); err != nil {
		utils.RespondError(c, err)
		return
	}

	view, err := store.GetCart(customerID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondSuccess(c, http.StatusOK, "Produit retiré du panier", view)
}

// ClearCart vide le panier
func ClearCart(c *gin.Context) {
	customerID, ok := requesterID(c)
	if !ok {
		utils.RespondError(c, utils.ErrUnauthorized("Non authentifié"))
		return
	}

	if err := store.ClearCart(customerID); err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.RespondSuccess(c, http.StatusOK, "Panier vidé", nil)
}
