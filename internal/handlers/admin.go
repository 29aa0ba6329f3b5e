package handlers

import (
	"log"
	"net/http"

	"sarap_local_back_end/internal/cache"
	"sarap_local_back_end/internal/models"
	"sarap_local_back_end/internal/store"
	"sarap_local_back_end/internal/utils"

	"github.com/Masterminds/squirrel"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AdminListUsers liste tous les comptes (admin)
func AdminListUsers(c *gin.Context) {
	page, perPage := parsePagination(c)

	query, args, err := store.QB.Select("COUNT(*)").From("users").ToSql()
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
		"id", "name", "email", "role", "phone", "address",
		"latitude", "longitude", "avatar_url", "provider", "provider_id",
		"created_at", "updated_at",
	).
		From("users").
		OrderBy("created_at DESC").
		Limit(uint64(perPage)).
		Offset(uint64((page - 1) * perPage)).
		ToSql()
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	users := []models.User{}
	if err := store.DB().Select(&users, query, args...); err != nil {
		utils.RespondError(c, err)
		return
	}

	// L'état banni vient de Redis, pas de la table
	type adminUser struct {
		models.User
		Banned bool `json:"banned"`
	}
	out := make([]adminUser, 0, len(users))
	for _, u := range users {
		out = append(out, adminUser{User: u, Banned: cache.IsUserBanned(u.ID.String())})
	}

	utils.RespondPage(c, "Utilisateurs", out, total, page, perPage)
}

// AdminBanUser suspend un compte : connexions et requêtes authentifiées
// refusées tant que le ban n'est pas levé
func AdminBanUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondError(c, utils.ErrValidation("id", "ID utilisateur invalide"))
		return
	}

	user, err := getUserBy(squirrel.Eq{"id": userID})
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	if user.Role == models.RoleAdmin {
		utils.RespondError(c, utils.ErrForbidden("Impossible de bannir un admin"))
		return
	}

	if err := cache.BanUser(userID.String()); err != nil {
		utils.RespondError(c, err)
		return
	}
	// Coupe aussi la session en cours
	if err := cache.DeleteRefreshToken(userID.String()); err != nil {
		log.Printf("⚠️ Erreur suppression refresh token: %v", err)
	}

	log.Printf("🚫 Utilisateur banni: %s (%s)", user.Email, userID)
	utils.RespondSuccess(c, http.StatusOK, "Utilisateur banni", nil)
}

// AdminUnbanUser lève la suspension d'un compte
func AdminUnbanUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondError(c, utils.ErrValidation("id", "ID utilisateur invalide"))
		return
	}

	if err := cache.UnbanUser(userID.String()); err != nil {
		utils.RespondError(c, err)
		return
	}

	log.Printf("✅ Utilisateur débanni: %s", userID)
	utils.RespondSuccess(c, http.StatusOK, "Utilisateur débanni", nil)
}

// AdminStats retourne les compteurs globaux de la plateforme
func AdminStats(c *gin.Context) {
	counts := map[string]string{
		"users":    "users",
		"vendors":  "users WHERE role = 'vendor'",
		"products": "products",
		"orders":   "orders",
		"reels":    "reels",
	}

	stats := gin.H{}
	for name, from := range counts {
		var n int64
		if err := store.DB().Get(&n, "SELECT COUNT(*) FROM "+from); err != nil {
			utils.RespondError(c, err)
			return
		}
		stats[name] = n
	}

	var revenue float64
	if err := store.DB().Get(&revenue,
		"SELECT COALESCE(SUM(total_amount), 0) FROM orders WHERE status = 'completed'"); err != nil {
		utils.RespondError(c, err)
		return
	}
	stats["completed_revenue"] = revenue

	utils.RespondSuccess(c, http.StatusOK, "Statistiques", stats)
}
