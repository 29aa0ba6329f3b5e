package handlers

import (
	"context"
	"log"
	"net/http"

	"sarap_local_back_end/internal/models"
	"sarap_local_back_end/internal/store"
	"sarap_local_back_end/internal/utils"

	"github.com/Masterminds/squirrel"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/markbates/goth/gothic"
)

type ctxKey string

const ProviderKey ctxKey = "provider"

// BeginAuth démarre le flux OAuth (Google/Facebook)
func BeginAuth(c *gin.Context) {
	provider := c.Param("provider")
	if provider == "" {
		utils.RespondError(c, utils.ErrValidation("provider", "Aucun provider spécifié"))
		return
	}

	c.Request = c.Request.WithContext(
		context.WithValue(c.Request.Context(), ProviderKey, provider),
	)

	gothic.BeginAuthHandler(c.Writer, c.Request)
}

// CallbackAuth termine le flux OAuth : find-or-create du compte (rôle
// customer) puis émission des mêmes JWT que le login classique.
func CallbackAuth(c *gin.Context) {
	provider := c.Param("provider")
	if provider == "" {
		utils.RespondError(c, utils.ErrValidation("provider", "Aucun provider spécifié"))
		return
	}

	c.Request = c.Request.WithContext(
		context.WithValue(c.Request.Context(), ProviderKey, provider),
	)

	gothUser, err := gothic.CompleteUserAuth(c.Writer, c.Request)
	if err != nil {
		utils.RespondError(c, utils.ErrUnauthorized("Échec de l'authentification OAuth"))
		return
	}

	user, err := getUserBy(squirrel.Eq{"email": gothUser.Email})
	if err != nil {
		// Première connexion : création du compte customer
		newUser := models.User{
			ID:         uuid.New(),
			Name:       gothUser.Name,
			Email:      gothUser.Email,
			Role:       models.RoleCustomer,
			AvatarURL:  gothUser.AvatarURL,
			Provider:   gothUser.Provider,
			ProviderID: gothUser.UserID,
		}

		query, args, qErr := store.QB.Insert("users").
			Columns("id", "name", "email", "role", "avatar_url", "provider", "provider_id").
			Values(newUser.ID, newUser.Name, newUser.Email, newUser.Role,
				newUser.AvatarURL, newUser.Provider, newUser.ProviderID).
			ToSql()
		if qErr != nil {
			utils.RespondError(c, qErr)
			return
		}
		if _, err := store.DB().Exec(query, args...); err != nil {
			log.Printf("❌ Erreur création compte OAuth: %v", err)
			utils.RespondError(c, err)
			return
		}

		log.Printf("✅ Compte OAuth créé via %s: %s", gothUser.Provider, gothUser.Email)
		user = &newUser
	}

	issueTokens(c, *user, http.StatusOK, "Connexion OAuth réussie")
}
