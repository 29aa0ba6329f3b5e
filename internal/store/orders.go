package store

import (
	"database/sql"
	"errors"
	"fmt"
	"log"

	"sarap_local_back_end/internal/models"
	"sarap_local_back_end/internal/utils"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

var orderColumns = []string{
	"id", "order_number", "customer_id", "vendor_id", "total_amount", "status",
	"delivery_address", "customer_notes", "payment_method", "payment_intent_id",
	"created_at", "updated_at",
}

type checkoutLine struct {
	product  productSnapshot
	quantity int
	// prix effectif promo comprise, figé dans order_items
	unitPrice float64
}

// Checkout exécute tout le parcours de commande dans une transaction unique :
// verrouillage et contrôle du stock produit par produit, regroupement par
// vendeur, une commande + une notification par vendeur, décrément du stock,
// puis vidage du panier scopé aux produits commandés. Le moindre échec
// annule tout — jamais de commande partielle.
func Checkout(customerID uuid.UUID, in models.CheckoutInput) ([]models.Order, error) {
	if len(in.Items) == 0 {
		return nil, utils.ErrValidation("items", "La commande ne contient aucun article")
	}
	if in.DeliveryAddress == "" {
		return nil, utils.ErrValidation("delivery_address", "Adresse de livraison requise")
	}
	switch in.PaymentMethod {
	case models.PaymentCash, models.PaymentCard, models.PaymentOnline:
	default:
		return nil, utils.ErrValidation("payment_method", "Moyen de paiement invalide")
	}
	for _, item := range in.Items {
		if item.Quantity < 1 {
			return nil, utils.ErrValidation("items", "Quantité invalide pour le produit "+item.ProductID.String())
		}
	}

	tx, err := db.Beginx()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// Verrouille chaque produit (FOR UPDATE) pour sérialiser les décréments
	// de stock face aux checkouts concurrents
	lines := make([]checkoutLine, 0, len(in.Items))
	for _, item := range in.Items {
		query, args, err := QB.Select("id", "vendor_id", "name", "price", "stock_quantity").
			From("products").
			Where(squirrel.Eq{"id": item.ProductID}).
			Suffix("FOR UPDATE").
			ToSql()
		if err != nil {
			return nil, err
		}

		var p productSnapshot
		if err := tx.Get(&p, query, args...); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, utils.ErrNotFound("Produit introuvable: " + item.ProductID.String())
			}
			return nil, err
		}

		if p.StockQuantity < item.Quantity {
			return nil, utils.ErrValidation("stock",
				fmt.Sprintf("Stock insuffisant pour le produit %s", item.ProductID))
		}

		query, args, err = QB.Select("COALESCE(MAX(discount_percent), 0)").
			From("promotions").
			Where(squirrel.Eq{"product_id": item.ProductID}).
			Where("now() BETWEEN starts_at AND ends_at").
			ToSql()
		if err != nil {
			return nil, err
		}
		var discount int
		if err := tx.Get(&discount, query, args...); err != nil {
			return nil, err
		}

		lines = append(lines, checkoutLine{
			product:   p,
			quantity:  item.Quantity,
			unitPrice: round2(p.Price * (1 - float64(discount)/100)),
		})
	}

	// Regroupement par vendeur, dans l'ordre d'apparition des articles
	groups := make(map[uuid.UUID][]checkoutLine)
	var vendorOrder []uuid.UUID
	for _, line := range lines {
		vendorID := line.product.VendorID
		if _, seen := groups[vendorID]; !seen {
			vendorOrder = append(vendorOrder, vendorID)
		}
		groups[vendorID] = append(groups[vendorID], line)
	}

	// Un seul numéro partagé par toutes les commandes de ce checkout
	orderNumber := utils.GenerateOrderNumber()

	orders := make([]models.Order, 0, len(vendorOrder))
	orderedProductIDs := make([]uuid.UUID, 0, len(lines))

	for _, vendorID := range vendorOrder {
		group := groups[vendorID]

		var total float64
		for _, line := range group {
			total = round2(total + round2(line.unitPrice*float64(line.quantity)))
		}

		order := models.Order{
			ID:              uuid.New(),
			OrderNumber:     orderNumber,
			CustomerID:      customerID,
			VendorID:        vendorID,
			TotalAmount:     total,
			Status:          models.OrderStatusPending,
			DeliveryAddress: in.DeliveryAddress,
			CustomerNotes:   in.CustomerNotes,
			PaymentMethod:   in.PaymentMethod,
		}

		query, args, err := QB.Insert("orders").
			Columns("id", "order_number", "customer_id", "vendor_id", "total_amount",
				"status", "delivery_address", "customer_notes", "payment_method").
			Values(order.ID, order.OrderNumber, order.CustomerID, order.VendorID,
				order.TotalAmount, order.Status, order.DeliveryAddress,
				order.CustomerNotes, order.PaymentMethod).
			ToSql()
		if err != nil {
			return nil, err
		}
		if _, err := tx.Exec(query, args...); err != nil {
			return nil, err
		}

		for _, line := range group {
			item := models.OrderItem{
				ID:          uuid.New(),
				OrderID:     order.ID,
				ProductID:   line.product.ID,
				ProductName: line.product.Name,
				Quantity:    line.quantity,
				UnitPrice:   line.unitPrice,
				Subtotal:    round2(line.unitPrice * float64(line.quantity)),
			}
			order.Items = append(order.Items, item)

			query, args, err = QB.Insert("order_items").
				Columns("id", "order_id", "product_id", "product_name", "quantity", "unit_price", "subtotal").
				Values(item.ID, item.OrderID, item.ProductID, item.ProductName,
					item.Quantity, item.UnitPrice, item.Subtotal).
				ToSql()
			if err != nil {
				return nil, err
			}
			if _, err := tx.Exec(query, args...); err != nil {
				return nil, err
			}

			query, args, err = QB.Update("products").
				Set("stock_quantity", squirrel.Expr("stock_quantity - ?", line.quantity)).
				Set("updated_at", squirrel.Expr("now()")).
				Where(squirrel.Eq{"id": line.product.ID}).
				ToSql()
			if err != nil {
				return nil, err
			}
			if _, err := tx.Exec(query, args...); err != nil {
				return nil, err
			}

			orderedProductIDs = append(orderedProductIDs, line.product.ID)
		}

		// Fan-out : une notification par vendeur concerné, dans la transaction
		if err := notifyTx(tx, vendorID, models.NotificationOrder,
			"Nouvelle commande",
			fmt.Sprintf("Nouvelle commande %s (%.2f ₱)", orderNumber, total),
			"/orders/"+order.ID.String()); err != nil {
			return nil, err
		}

		orders = append(orders, order)
	}

	// Vidage scopé : seuls les produits commandés quittent le panier,
	// un checkout partiel laisse le reste intact
	query, args, err := QB.Delete("cart_items").
		Where(squirrel.Eq{"customer_id": customerID, "product_id": orderedProductIDs}).
		ToSql()
	if err != nil {
		return nil, err
	}
	if _, err := tx.Exec(query, args...); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	log.Printf("📦 Checkout %s : %d commande(s) créée(s) pour le client %s",
		orderNumber, len(orders), customerID)
	return orders, nil
}

// SetPaymentIntent rattache le PaymentIntent Stripe aux commandes d'un checkout
func SetPaymentIntent(orderIDs []uuid.UUID, intentID string) error {
	query, args, err := QB.Update("orders").
		Set("payment_intent_id", intentID).
		Where(squirrel.Eq{"id": orderIDs}).
		ToSql()
	if err != nil {
		return err
	}
	_, err = db.Exec(query, args...)
	return err
}

// ListOrders retourne les commandes du demandeur selon son rôle :
// un client voit ses achats, un vendeur ses ventes, l'admin tout.
func ListOrders(userID uuid.UUID, role string, page, perPage int) ([]models.Order, int, error) {
	scope := func(b squirrel.SelectBuilder) squirrel.SelectBuilder {
		switch role {
		case models.RoleVendor:
			return b.Where(squirrel.Eq{"o.vendor_id": userID})
		case models.RoleAdmin:
			return b
		default:
			return b.Where(squirrel.Eq{"o.customer_id": userID})
		}
	}

	query, args, err := scope(QB.Select("COUNT(*)").From("orders o")).ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total int
	if err := db.Get(&total, query, args...); err != nil {
		return nil, 0, err
	}

	query, args, err = scope(QB.Select(
		"o.id", "o.order_number", "o.customer_id", "o.vendor_id", "o.total_amount",
		"o.status", "o.delivery_address", "o.customer_notes", "o.payment_method",
		"o.payment_intent_id", "o.created_at", "o.updated_at",
		"c.name AS customer_name", "v.name AS vendor_name",
	).
		From("orders o").
		Join("users c ON c.id = o.customer_id").
		Join("users v ON v.id = o.vendor_id")).
		OrderBy("o.created_at DESC").
		Limit(uint64(perPage)).
		Offset(uint64((page - 1) * perPage)).
		ToSql()
	if err != nil {
		return nil, 0, err
	}

	orders := []models.Order{}
	if err := db.Select(&orders, query, args...); err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// GetOrderDetail retourne une commande et ses lignes, après contrôle de
// propriété : 403 si la commande n'appartient pas au demandeur pour son rôle.
func GetOrderDetail(userID uuid.UUID, role string, orderID uuid.UUID) (*models.Order, error) {
	query, args, err := QB.Select(
		"o.id", "o.order_number", "o.customer_id", "o.vendor_id", "o.total_amount",
		"o.status", "o.delivery_address", "o.customer_notes", "o.payment_method",
		"o.payment_intent_id", "o.created_at", "o.updated_at",
		"c.name AS customer_name", "v.name AS vendor_name",
	).
		From("orders o").
		Join("users c ON c.id = o.customer_id").
		Join("users v ON v.id = o.vendor_id").
		Where(squirrel.Eq{"o.id": orderID}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var order models.Order
	if err := db.Get(&order, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrNotFound("Commande introuvable")
		}
		return nil, err
	}

	switch role {
	case models.RoleVendor:
		if order.VendorID != userID {
			return nil, utils.ErrForbidden("Cette commande ne vous appartient pas")
		}
	case models.RoleAdmin:
	default:
		if order.CustomerID != userID {
			return nil, utils.ErrForbidden("Cette commande ne vous appartient pas")
		}
	}

	query, args, err = QB.Select("id", "order_id", "product_id", "product_name",
		"quantity", "unit_price", "subtotal").
		From("order_items").
		Where(squirrel.Eq{"order_id": orderID}).
		ToSql()
	if err != nil {
		return nil, err
	}
	if err := db.Select(&order.Items, query, args...); err != nil {
		return nil, err
	}

	return &order, nil
}

// transitions de statut autorisées pour le vendeur
var allowedTransitions = map[string][]string{
	models.OrderStatusPending:   {models.OrderStatusConfirmed, models.OrderStatusCancelled},
	models.OrderStatusConfirmed: {models.OrderStatusPreparing, models.OrderStatusCancelled},
	models.OrderStatusPreparing: {models.OrderStatusReady},
	models.OrderStatusReady:     {models.OrderStatusCompleted},
}

// UpdateOrderStatus fait avancer le statut d'une commande du vendeur.
// Retourne la commande mise à jour et l'email du client pour la notification.
func UpdateOrderStatus(vendorID, orderID uuid.UUID, newStatus string) (*models.Order, string, error) {
	query, args, err := QB.Select(
		"o.id", "o.order_number", "o.customer_id", "o.vendor_id", "o.total_amount",
		"o.status", "o.delivery_address", "o.customer_notes", "o.payment_method",
		"o.payment_intent_id", "o.created_at", "o.updated_at",
		"c.name AS customer_name", "c.email AS customer_email",
	).
		From("orders o").
		Join("users c ON c.id = o.customer_id").
		Where(squirrel.Eq{"o.id": orderID}).
		ToSql()
	if err != nil {
		return nil, "", err
	}

	var row struct {
		models.Order
		CustomerEmail string `db:"customer_email"`
	}
	if err := db.Get(&row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", utils.ErrNotFound("Commande introuvable")
		}
		return nil, "", err
	}

	if row.VendorID != vendorID {
		return nil, "", utils.ErrForbidden("Cette commande ne vous appartient pas")
	}

	valid := false
	for _, s := range allowedTransitions[row.Status] {
		if s == newStatus {
			valid = true
			break
		}
	}
	if !valid {
		return nil, "", utils.ErrValidation("status",
			fmt.Sprintf("Transition de statut invalide: %s → %s", row.Status, newStatus))
	}

	query, args, err = QB.Update("orders").
		Set("status", newStatus).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": orderID}).
		ToSql()
	if err != nil {
		return nil, "", err
	}
	if _, err := db.Exec(query, args...); err != nil {
		return nil, "", err
	}

	row.Order.Status = newStatus
	return &row.Order, row.CustomerEmail, nil
}
