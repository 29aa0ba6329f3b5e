package store

import (
	"database/sql"
	"errors"

	"sarap_local_back_end/internal/models"
	"sarap_local_back_end/internal/utils"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

// ActivePromoJoin joint la promotion active de chaque produit (remise max).
// Partagé par la vue panier et le catalogue.
const ActivePromoJoin = `LEFT JOIN (
		SELECT product_id, MAX(discount_percent) AS discount_percent
		FROM promotions
		WHERE now() BETWEEN starts_at AND ends_at
		GROUP BY product_id
	) pr ON pr.product_id = p.id`

type productSnapshot struct {
	ID            uuid.UUID `db:"id"`
	VendorID      uuid.UUID `db:"vendor_id"`
	Name          string    `db:"name"`
	Price         float64   `db:"price"`
	StockQuantity int       `db:"stock_quantity"`
}

// AddToCart ajoute une quantité au panier. Une seule ligne par couple
// (client, produit) : l'UPSERT cumule les quantités.
func AddToCart(customerID, productID uuid.UUID, quantity int) error {
	if quantity < 1 {
		return utils.ErrValidation("quantity", "Quantité invalide")
	}

	var p productSnapshot
	query, args, err := QB.Select("id", "vendor_id", "name", "price", "stock_quantity").
		From("products").
		Where(squirrel.Eq{"id": productID}).
		ToSql()
	if err != nil {
		return err
	}
	if err := db.Get(&p, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return utils.ErrNotFound("Produit introuvable")
		}
		return err
	}

	if p.StockQuantity <= 0 {
		return utils.ErrNotFound("Produit indisponible")
	}
	if p.StockQuantity < quantity {
		return utils.ErrValidation("stock", "Stock insuffisant pour "+p.Name)
	}

	query, args, err = QB.Insert("cart_items").
		Columns("customer_id", "product_id", "quantity").
		Values(customerID, productID, quantity).
		Suffix(`ON CONFLICT (customer_id, product_id)
			DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = now()`).
		ToSql()
	if err != nil {
		return err
	}

	_, err = db.Exec(query, args...)
	return err
}

// UpdateCartItem remplace la quantité. quantity <= 0 équivaut à un retrait.
func UpdateCartItem(customerID, productID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return RemoveFromCart(customerID, productID)
	}

	var p productSnapshot
	query, args, err := QB.Select("id", "vendor_id", "name", "price", "stock_quantity").
		From("products").
		Where(squirrel.Eq{"id": productID}).
		ToSql()
	if err != nil {
		return err
	}
	if err := db.Get(&p, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return utils.ErrNotFound("Produit introuvable")
		}
		return err
	}

	if p.StockQuantity < quantity {
		return utils.ErrValidation("stock", "Stock insuffisant pour "+p.Name)
	}

	query, args, err = QB.Update("cart_items").
		Set("quantity", quantity).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"customer_id": customerID, "product_id": productID}).
		ToSql()
	if err != nil {
		return err
	}

	res, err := db.Exec(query, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return utils.ErrNotFound("Article absent du panier")
	}
	return nil
}

// RemoveFromCart retire un produit du panier
func RemoveFromCart(customerID, productID uuid.UUID) error {
	query, args, err := QB.Delete("cart_items").
		Where(squirrel.Eq{"customer_id": customerID, "product_id": productID}).
		ToSql()
	if err != nil {
		return err
	}

	res, err := db.Exec(query, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return utils.ErrNotFound("Article absent du panier")
	}
	return nil
}

// GetCart retourne la vue dénormalisée du panier : lignes enrichies
// (produit, prix effectif promo comprise, vendeur) + total + item_count.
func GetCart(customerID uuid.UUID) (*models.CartView, error) {
	query, args, err := QB.Select(
		"ci.product_id",
		"p.name",
		"p.image_url",
		"ROUND(p.price * (1 - COALESCE(pr.discount_percent, 0) / 100.0), 2) AS unit_price",
		"ci.quantity",
		"p.vendor_id",
		"u.name AS vendor_name",
	).
		From("cart_items ci").
		Join("products p ON p.id = ci.product_id").
		Join("users u ON u.id = p.vendor_id").
		JoinClause(ActivePromoJoin).
		Where(squirrel.Eq{"ci.customer_id": customerID}).
		OrderBy("ci.created_at").
		ToSql()
	if err != nil {
		return nil, err
	}

	var lines []models.CartLine
	if err := db.Select(&lines, query, args...); err != nil {
		return nil, err
	}

	view := &models.CartView{Items: []models.CartLine{}}
	for _, line := range lines {
		line.Subtotal = round2(line.UnitPrice * float64(line.Quantity))
		view.Items = append(view.Items, line)
		view.Total = round2(view.Total + line.Subtotal)
		view.ItemCount += line.Quantity
	}
	return view, nil
}

// ClearCart vide entièrement le panier
func ClearCart(customerID uuid.UUID) error {
	query, args, err := QB.Delete("cart_items").
		Where(squirrel.Eq{"customer_id": customerID}).
		ToSql()
	if err != nil {
		return err
	}
	_, err = db.Exec(query, args...)
	return err
}
