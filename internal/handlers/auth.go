package handlers

import (
	"database/sql"
	"errors"
	"log"
	"net/http"
	"time"

	"sarap_local_back_end/internal/cache"
	"sarap_local_back_end/internal/models"
	"sarap_local_back_end/internal/store"
	"sarap_local_back_end/internal/utils"

	"github.com/Masterminds/squirrel"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var userColumns = []string{
	"id", "name", "email", "password", "role", "phone", "address",
	"latitude", "longitude", "avatar_url", "provider", "provider_id",
	"created_at", "updated_at",
}

// Register crée un compte client ou vendeur (jamais admin en self-service)
func Register(c *gin.Context) {
	var input struct {
		Name      string   `json:"name"`
		Email     string   `json:"email"`
		Password  string   `json:"password"`
		Role      string   `json:"role"`
		Phone     string   `json:"phone"`
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, utils.ErrValidation("body", "Données invalides"))
		return
	}

	if input.Name == "" {
		utils.RespondError(c, utils.ErrValidation("name", "Nom requis"))
		return
	}
	if input.Email == "" {
		utils.RespondError(c, utils.ErrValidation("email", "Email requis"))
		return
	}
	if len(input.Password) < 8 {
		utils.RespondError(c, utils.ErrValidation("password", "Mot de passe trop court (8 caractères minimum)"))
		return
	}
	if input.Role == "" {
		input.Role = models.RoleCustomer
	}
	if input.Role != models.RoleCustomer && input.Role != models.RoleVendor {
		utils.RespondError(c, utils.ErrValidation("role", "Rôle invalide"))
		return
	}

	// Email déjà pris ?
	query, args, err := store.QB.Select("id").From("users").
		Where(squirrel.Eq{"email": input.Email}).ToSql()
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	var existingID uuid.UUID
	if err := store.DB().Get(&existingID, query, args...); err == nil {
		utils.RespondError(c, utils.ErrValidation("email", "Un compte existe déjà avec cet email"))
		return
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		log.Printf("❌ Erreur hash mot de passe: %v", err)
		utils.RespondError(c, err)
		return
	}

	user := models.User{
		ID:        uuid.New(),
		Name:      input.Name,
		Email:     input.Email,
		Password:  hashed,
		Role:      input.Role,
		Phone:     input.Phone,
		Latitude:  input.Latitude,
		Longitude: input.Longitude,
	}

	query, args, err = store.QB.Insert("users").
		Columns("id", "name", "email", "password", "role", "phone", "latitude", "longitude").
		Values(user.ID, user.Name, user.Email, user.Password, user.Role,
			user.Phone, user.Latitude, user.Longitude).
		ToSql()
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	if _, err := store.DB().Exec(query, args...); err != nil {
		log.Printf("❌ Erreur création utilisateur: %v", err)
		utils.RespondError(c, err)
		return
	}

	log.Printf("✅ Nouveau compte %s: %s", user.Role, user.Email)
	issueTokens(c, user, http.StatusCreated, "Compte créé")
}

// Login vérifie le mot de passe et émet les tokens
func Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.Email == "" || input.Password == "" {
		utils.RespondError(c, utils.ErrValidation("body", "Email et mot de passe requis"))
		return
	}

	user, err := getUserBy(squirrel.Eq{"email": input.Email})
	if err != nil {
		utils.RespondError(c, utils.ErrUnauthorized("Email ou mot de passe invalide"))
		return
	}

	ok, err := utils.VerifyPassword(input.Password, user.Password)
	if err != nil || !ok {
		utils.RespondError(c, utils.ErrUnauthorized("Email ou mot de passe invalide"))
		return
	}

	if cache.IsUserBanned(user.ID.String()) {
		utils.RespondError(c, utils.ErrForbidden("Compte suspendu"))
		return
	}

	log.Printf("✅ Connexion: %s (%s)", user.Email, user.Role)
	issueTokens(c, *user, http.StatusOK, "Connexion réussie")
}

// Refresh échange un refresh token valide contre un nouveau couple de tokens
func Refresh(c *gin.Context) {
	var input struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.RefreshToken == "" {
		utils.RespondError(c, utils.ErrValidation("refresh_token", "Refresh token requis"))
		return
	}

	claims, err := utils.ParseToken(input.RefreshToken)
	if err != nil {
		utils.RespondError(c, utils.ErrUnauthorized("Refresh token invalide"))
		return
	}
	userID, _ := claims["user_id"].(string)

	stored, err := cache.GetRefreshToken(userID)
	if err != nil || stored != input.RefreshToken {
		utils.RespondError(c, utils.ErrUnauthorized("Refresh token révoqué"))
		return
	}

	uid, err := uuid.Parse(userID)
	if err != nil {
		utils.RespondError(c, utils.ErrUnauthorized("Refresh token invalide"))
		return
	}
	user, err := getUserBy(squirrel.Eq{"id": uid})
	if err != nil {
		utils.RespondError(c, utils.ErrUnauthorized("Utilisateur introuvable"))
		return
	}

	issueTokens(c, *user, http.StatusOK, "Tokens renouvelés")
}

// Logout révoque le token courant (blacklist jusqu'à son expiration) et
// supprime le refresh token
func Logout(c *gin.Context) {
	userID := c.GetString("user_id")

	if jti := c.GetString("jti"); jti != "" {
		ttl := utils.AccessTokenTTL
		if exp := c.GetInt64("exp"); exp > 0 {
			if remaining := time.Until(time.Unix(exp, 0)); remaining > 0 {
				ttl = remaining
			}
		}
		if err := cache.BlacklistToken(jti, ttl); err != nil {
			log.Printf("⚠️ Erreur blacklist token: %v", err)
		}
	}

	if err := cache.DeleteRefreshToken(userID); err != nil {
		log.Printf("⚠️ Erreur suppression refresh token: %v", err)
	}

	utils.RespondSuccess(c, http.StatusOK, "Déconnexion réussie", nil)
}

// Me retourne le profil de l'utilisateur connecté
func Me(c *gin.Context) {
	userID, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		utils.RespondError(c, utils.ErrUnauthorized("Non authentifié"))
		return
	}

	user, err := getUserBy(squirrel.Eq{"id": userID})
	if err != nil {
		utils.RespondError(c, utils.ErrNotFound("Utilisateur introuvable"))
		return
	}

	utils.RespondSuccess(c, http.StatusOK, "Profil", user)
}

func getUserBy(where squirrel.Eq) (*models.User, error) {
	query, args, err := store.QB.Select(userColumns...).From("users").Where(where).ToSql()
	if err != nil {
		return nil, err
	}
	var user models.User
	if err := store.DB().Get(&user, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrNotFound("Utilisateur introuvable")
		}
		return nil, err
	}
	return &user, nil
}

func issueTokens(c *gin.Context, user models.User, status int, message string) {
	accessToken, err := utils.GenerateJWT(user)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	refreshToken, err := utils.GenerateRefreshToken(user)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	if err := cache.StoreRefreshToken(user.ID.String(), refreshToken, utils.RefreshTokenTTL); err != nil {
		log.Printf("⚠️ Erreur stockage refresh token: %v", err)
	}

	utils.RespondSuccess(c, status, message, gin.H{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"expires_in":    int(utils.AccessTokenTTL / time.Second),
		"user":          user,
	})
}
