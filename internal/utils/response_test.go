package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(fn func(c *gin.Context)) (*httptest.ResponseRecorder, Envelope) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	fn(c)

	var env Envelope
	json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func TestRespondSuccess(t *testing.T) {
	w, env := record(func(c *gin.Context) {
		RespondSuccess(c, http.StatusCreated, "Créé", gin.H{"id": 1})
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "Créé", env.Message)
	assert.NotEmpty(t, env.Timestamp)
}

func TestRespondErrorValidation(t *testing.T) {
	w, env := record(func(c *gin.Context) {
		RespondError(c, ErrValidation("email", "Email requis"))
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "Email requis", env.Errors["email"])
}

func TestRespondErrorHidesInternals(t *testing.T) {
	w, env := record(func(c *gin.Context) {
		RespondError(c, errors.New("pq: duplicate key value violates unique constraint"))
	})

	// Le détail SQL ne sort jamais vers le client
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Erreur interne du serveur", env.Message)
}

func TestRespondPagePagination(t *testing.T) {
	_, env := record(func(c *gin.Context) {
		RespondPage(c, "Produits", []int{1, 2, 3}, 45, 2, 20)
	})

	require.NotNil(t, env.Pagination)
	assert.Equal(t, 45, env.Pagination.Total)
	assert.Equal(t, 3, env.Pagination.TotalPages)
	assert.True(t, env.Pagination.HasMore)
}
