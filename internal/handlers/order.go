package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"net/http"

	"sarap_local_back_end/internal/cache"
	"sarap_local_back_end/internal/models"
	"sarap_local_back_end/internal/store"
	"sarap_local_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/paymentintent"
)

// Checkout transforme le panier validé en commandes (une par vendeur).
// Paiement card/online : un PaymentIntent Stripe couvre le montant total
// du checkout, son client_secret part dans la réponse.
func Checkout(c *gin.Context) {
	customerID, ok := requesterID(c)
	if !ok {
		utils.RespondError(c, utils.ErrUnauthorized("Non authentifié"))
		return
	}

	var input models.CheckoutInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, utils.ErrValidation("body", "Données invalides"))
		return
	}

	orders, err := store.Checkout(customerID, input)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	result := models.CheckoutResult{
		OrderNumber: orders[0].OrderNumber,
	}
	for _, order := range orders {
		result.OrderIDs = append(result.OrderIDs, order.ID)
		result.TotalAmount += order.TotalAmount
	}

	data := gin.H{
		"order_number": result.OrderNumber,
		"order_ids":    result.OrderIDs,
		"total_amount": result.TotalAmount,
		"orders":       orders,
	}

	// Paiement en ligne : PaymentIntent en centavos sur le montant global
	if input.PaymentMethod == models.PaymentCard || input.PaymentMethod == models.PaymentOnline {
		params := &stripe.PaymentIntentParams{
			Amount:   stripe.Int64(int64(math.Round(result.TotalAmount * 100))),
			Currency: stripe.String(string(stripe.CurrencyPHP)),
			AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
				Enabled: stripe.Bool(true),
			},
		}
		params.AddMetadata("order_number", result.OrderNumber)
		params.AddMetadata("customer_id", customerID.String())

		pi, err := paymentintent.New(params)
		if err != nil {
			log.Printf("❌ Erreur création PaymentIntent: %v", err)
			utils.RespondError(c, err)
			return
		}
		if err := store.SetPaymentIntent(result.OrderIDs, pi.ID); err != nil {
			log.Printf("⚠️ Erreur rattachement PaymentIntent: %v", err)
		}
		data["client_secret"] = pi.ClientSecret
		log.Printf("💳 PaymentIntent %s créé pour %s", pi.ID, result.OrderNumber)
	}

	// Push temps réel vers les vendeurs, hors transaction
	for _, order := range orders {
		cache.InvalidateUnreadCount(order.VendorID.String())
		payload, _ := json.Marshal(gin.H{
			"type":    models.NotificationOrder,
			"title":   "Nouvelle commande",
			"message": fmt.Sprintf("Nouvelle commande %s (%.2f ₱)", order.OrderNumber, order.TotalAmount),
			"link":    "/orders/" + order.ID.String(),
		})
		cache.PublishNotification(order.VendorID.String(), string(payload))
	}

	utils.RespondSuccess(c, http.StatusCreated, "Commande créée", data)
}

// ListOrders liste les commandes du demandeur (portée selon son rôle)
func ListOrders(c *gin.Context) {
	userID, ok := requesterID(c)
	if !ok {
		utils.RespondError(c, utils.ErrUnauthorized("Non authentifié"))
		return
	}
	page, perPage := parsePagination(c)

	orders, total, err := store.ListOrders(userID, c.GetString("role"), page, perPage)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.RespondPage(c, "Commandes", orders, total, page, perPage)
}

// GetOrder retourne le détail d'une commande. Le client reçoit aussi le QR
// de retrait, que le vendeur scanne à la remise.
func GetOrder(c *gin.Context) {
	userID, ok := requesterID(c)
	if !ok {
		utils.RespondError(c, utils.ErrUnauthorized("Non authentifié"))
		return
	}
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondError(c, utils.ErrValidation("id", "ID commande invalide"))
		return
	}

	role := c.GetString("role")
	order, err := store.GetOrderDetail(userID, role, orderID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	data := gin.H{"order": order}
	if role == models.RoleCustomer {
		if qr, err := utils.GeneratePickupQR(order.OrderNumber); err == nil {
			data["pickup_qr"] = qr
		} else {
			log.Printf("⚠️ Erreur génération QR: %v", err)
		}
	}

	utils.RespondSuccess(c, http.StatusOK, "Commande", data)
}

// UpdateOrderStatus fait avancer le statut d'une commande (vendeur).
// Notifie le client en base, en push et par email.
func UpdateOrderStatus(c *gin.Context) {
	vendorID, ok := requesterID(c)
	if !ok {
		utils.RespondError(c, utils.ErrUnauthorized("Non authentifié"))
		return
	}
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondError(c, utils.ErrValidation("id", "ID commande invalide"))
		return
	}

	var input struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.Status == "" {
		utils.RespondError(c, utils.ErrValidation("status", "Statut requis"))
		return
	}

	order, customerEmail, err := store.UpdateOrderStatus(vendorID, orderID, input.Status)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	title := "Commande " + order.OrderNumber
	message := fmt.Sprintf("Votre commande est passée au statut: %s", order.Status)
	if err := store.Notify(order.CustomerID, models.NotificationOrder, title, message,
		"/orders/"+order.ID.String()); err != nil {
		log.Printf("⚠️ Erreur notification client: %v", err)
	}

	cache.InvalidateUnreadCount(order.CustomerID.String())
	payload, _ := json.Marshal(gin.H{
		"type":    models.NotificationOrder,
		"title":   title,
		"message": message,
		"link":    "/orders/" + order.ID.String(),
	})
	cache.PublishNotification(order.CustomerID.String(), string(payload))

	// Email best-effort, la requête n'attend pas le SMTP
	go utils.SendOrderStatusEmail(*order, customerEmail, order.Status)

	log.Printf("✅ Commande %s: %s", order.OrderNumber, order.Status)
	utils.RespondSuccess(c, http.StatusOK, "Statut mis à jour", order)
}
