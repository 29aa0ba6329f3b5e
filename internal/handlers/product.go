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

var productColumns = []string{
	"p.id", "p.vendor_id", "p.name", "p.description", "p.category", "p.price",
	"p.stock_quantity", "p.stock_quantity > 0 AS is_available", "p.image_url",
	"p.created_at", "p.updated_at",
	"u.name AS vendor_name",
	"ROUND(p.price * (1 - COALESCE(pr.discount_percent, 0) / 100.0), 2) AS effective_price",
}

func productSelect() squirrel.SelectBuilder {
	return store.QB.Select(productColumns...).
		From("products p").
		Join("users u ON u.id = p.vendor_id").
		JoinClause(store.ActivePromoJoin)
}

// ListProducts liste le catalogue avec filtres catégorie/vendeur
func ListProducts(c *gin.Context) {
	page, perPage := parsePagination(c)

	where := squirrel.And{}
	if category := c.Query("category"); category != "" {
		where = append(where, squirrel.Eq{"p.category": category})
	}
	if vendor := c.Query("vendor_id"); vendor != "" {
		vendorID, err := uuid.Parse(vendor)
		if err != nil {
			utils.RespondError(c, utils.ErrValidation("vendor_id", "ID vendeur invalide"))
			return
		}
		where = append(where, squirrel.Eq{"p.vendor_id": vendorID})
	}

	countQ := store.QB.Select("COUNT(*)").From("products p")
	if len(where) > 0 {
		countQ = countQ.Where(where)
	}
	query, args, err := countQ.ToSql()
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	var total int
	if err := store.DB().Get(&total, query, args...); err != nil {
		utils.RespondError(c, err)
		return
	}

	listQ := productSelect()
	if len(where) > 0 {
		listQ = listQ.Where(where)
	}
	query, args, err = listQ.
		OrderBy("p.created_at DESC").
		Limit(uint64(perPage)).
		Offset(uint64((page - 1) * perPage)).
		ToSql()
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	products := []models.Product{}
	if err := store.DB().Select(&products, query, args...); err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.RespondPage(c, "Produits", products, total, page, perPage)
}

// GetProduct retourne un produit
func GetProduct(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondError(c, utils.ErrValidation("id", "ID produit invalide"))
		return
	}

	query, args, err := productSelect().Where(squirrel.Eq{"p.id": productID}).ToSql()
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	var product models.Product
	if err := store.DB().Get(&product, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			utils.RespondError(c, utils.ErrNotFound("Produit introuvable"))
			return
		}
		utils.RespondError(c, err)
		return
	}

	utils.RespondSuccess(c, http.StatusOK, "Produit", product)
}

// SearchProducts interroge Elasticsearch, avec repli SQL (ILIKE) si l'index
// est indisponible
func SearchProducts(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		utils.RespondError(c, utils.ErrValidation("q", "Terme de recherche requis"))
		return
	}
	page, perPage := parsePagination(c)

	if results, err := services.SearchProducts(q, perPage); err == nil {
		utils.RespondSuccess(c, http.StatusOK, "Résultats de recherche", results)
		return
	}

	// Repli SQL
	pattern := "%" + q + "%"
	where := squirrel.Or{
		squirrel.ILike{"p.name": pattern},
		squirrel.ILike{"p.description": pattern},
		squirrel.ILike{"p.category": pattern},
	}

	query, args, err := store.QB.Select("COUNT(*)").From("products p").Where(where).ToSql()
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	var total int
	if err := store.DB().Get(&total, query, args...); err != nil {
		utils.RespondError(c, err)
		return
	}

	query, args, err = productSelect().
		Where(where).
		OrderBy("p.created_at DESC").
		Limit(uint64(perPage)).
		Offset(uint64((page - 1) * perPage)).
		ToSql()
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	products := []models.Product{}
	if err := store.DB().Select(&products, query, args...); err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.RespondPage(c, "Résultats de recherche", products, total, page, perPage)
}

type productInput struct {
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Category      string  `json:"category"`
	Price         float64 `json:"price"`
	StockQuantity int     `json:"stock_quantity"`
}

func (in productInput) validate() error {
	if in.Name == "" {
		return utils.ErrValidation("name", "Nom requis")
	}
	if in.Price <= 0 {
		return utils.ErrValidation("price", "Prix invalide")
	}
	if in.StockQuantity < 0 {
		return utils.ErrValidation("stock_quantity", "Stock invalide")
	}
	return nil
}

// CreateProduct crée un produit pour le vendeur connecté
func CreateProduct(c *gin.Context) {
	vendorID, ok := requesterID(c)
	if !ok {
		utils.RespondError(c, utils.ErrUnauthorized("Non authentifié"))
		return
	}

	var input productInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, utils.ErrValidation("body", "Données invalides"))
		return
	}
	if err := input.validate(); err != nil {
		utils.RespondError(c, err)
		return
	}

	product := models.Product{
		ID:            uuid.New(),
		VendorID:      vendorID,
		Name:          input.Name,
		Description:   input.Description,
		Category:      input.Category,
		Price:         input.Price,
		StockQuantity: input.StockQuantity,
		IsAvailable:   input.StockQuantity > 0,
	}

	query, args, err := store.QB.Insert("products").
		Columns("id", "vendor_id", "name", "description", "category", "price", "stock_quantity").
		Values(product.ID, product.VendorID, product.Name, product.Description,
			product.Category, product.Price, product.StockQuantity).
		ToSql()
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	if _, err := store.DB().Exec(query, args...); err != nil {
		log.Printf("❌ Erreur création produit: %v", err)
		utils.RespondError(c, err)
		return
	}

	services.IndexProduct(product)
	log.Printf("✅ Produit créé: %s (%s)", product.Name, product.ID)
	utils.RespondSuccess(c, http.StatusCreated, "Produit créé", product)
}

// ownProduct charge un produit et vérifie qu'il appartient au vendeur
func ownProduct(vendorID, productID uuid.UUID) (*models.Product, error) {
	query, args, err := productSelect().Where(squirrel.Eq{"p.id": productID}).ToSql()
	if err != nil {
		return nil, err
	}
	var product models.Product
	if err := store.DB().Get(&product, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrNotFound("Produit introuvable")
		}
		return nil, err
	}
	if product.VendorID != vendorID {
		return nil, utils.ErrForbidden("Ce produit ne vous appartient pas")
	}
	return &product, nil
}

// UpdateProduct modifie un produit du vendeur connecté
func UpdateProduct(c *gin.Context) {
	vendorID, ok := requesterID(c)
	if !ok {
		utils.RespondError(c, utils.ErrUnauthorized("Non authentifié"))
		return
	}
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondError(c, utils.ErrValidation("id", "ID produit invalide"))
		return
	}

	product, err := ownProduct(vendorID, productID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	var input productInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, utils.ErrValidation("body", "Données invalides"))
		return
	}
	if err := input.validate(); err != nil {
		utils.RespondError(c, err)
		return
	}

	query, args, err := store.QB.Update("products").
		Set("name", input.Name).
		Set("description", input.Description).
		Set("category", input.Category).
		Set("price", input.Price).
		Set("stock_quantity", input.StockQuantity).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": productID}).
		ToSql()
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	if _, err := store.DB().Exec(query, args...); err != nil {
		utils.RespondError(c, err)
		return
	}

	product.Name = input.Name
	product.Description = input.Description
	product.Category = input.Category
	product.Price = input.Price
	product.StockQuantity = input.StockQuantity
	product.IsAvailable = input.StockQuantity > 0

	services.IndexProduct(*product)
	utils.RespondSuccess(c, http.StatusOK, "Produit mis à jour", product)
}

// UpdateStock ajuste uniquement le stock (restock rapide côté vendeur).
// is_available en découle, il n'est jamais modifié directement.
func UpdateStock(c *gin.Context) {
	vendorID, ok := requesterID(c)
	if !ok {
		utils.RespondError(c, utils.ErrUnauthorized("Non authentifié"))
		return
	}
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondError(c, utils.ErrValidation("id", "ID produit invalide"))
		return
	}

	var input struct {
		StockQuantity int `json:"stock_quantity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, utils.ErrValidation("body", "Données invalides"))
		return
	}
	if input.StockQuantity < 0 {
		utils.RespondError(c, utils.ErrValidation("stock_quantity", "Stock invalide"))
		return
	}

	product, err := ownProduct(vendorID, productID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	query, args, err := store.QB.Update("products").
		Set("stock_quantity", input.StockQuantity).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": productID}).
		ToSql()
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	if _, err := store.DB().Exec(query, args...); err != nil {
		utils.RespondError(c, err)
		return
	}

	product.StockQuantity = input.StockQuantity
	product.IsAvailable = input.StockQuantity > 0
	services.IndexProduct(*product)

	utils.RespondSuccess(c, http.StatusOK, "Stock mis à jour", product)
}

// UploadProductImage envoie l'image du produit dans MinIO
func UploadProductImage(c *gin.Context) {
	vendorID, ok := requesterID(c)
	if !ok {
		utils.RespondError(c, utils.ErrUnauthorized("Non authentifié"))
		return
	}
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondError(c, utils.ErrValidation("id", "ID produit invalide"))
		return
	}

	product, err := ownProduct(vendorID, productID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		utils.RespondError(c, utils.ErrValidation("image", "Fichier image requis"))
		return
	}

	url, err := services.UploadFile(database.BucketProducts, file)
	if err != nil {
		log.Printf("❌ Erreur upload MinIO: %v", err)
		utils.RespondError(c, err)
		return
	}

	query, args, err := store.QB.Update("products").
		Set("image_url", url).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": productID}).
		ToSql()
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	if _, err := store.DB().Exec(query, args...); err != nil {
		utils.RespondError(c, err)
		return
	}

	product.ImageURL = url
	services.IndexProduct(*product)

	utils.RespondSuccess(c, http.StatusOK, "Image enregistrée", gin.H{"image_url": url})
}

// DeleteProduct supprime un produit du vendeur connecté
func DeleteProduct(c *gin.Context) {
	vendorID, ok := requesterID(c)
	if !ok {
		utils.RespondError(c, utils.ErrUnauthorized("Non authentifié"))
		return
	}
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondError(c, utils.ErrValidation("id", "ID produit invalide"))
		return
	}

	if _, err := ownProduct(vendorID, productID); err != nil {
		utils.RespondError(c, err)
		return
	}

	query, args, err := store.QB.Delete("products").
		Where(squirrel.Eq{"id": productID}).
		ToSql()
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	if _, err := store.DB().Exec(query, args...); err != nil {
		utils.RespondError(c, err)
		return
	}

	services.DeleteProductIndex(productID.String())
	utils.RespondSuccess(c, http.StatusOK, "Produit supprimé", nil)
}
