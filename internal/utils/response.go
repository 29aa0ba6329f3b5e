package utils

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Envelope est le format unique de toutes les réponses JSON de l'API :
// {success, message, data|errors, timestamp}, plus la pagination le cas échéant.
type Envelope struct {
	Success    bool              `json:"success"`
	Message    string            `json:"message"`
	Data       interface{}       `json:"data,omitempty"`
	Errors     map[string]string `json:"errors,omitempty"`
	Pagination *Pagination       `json:"pagination,omitempty"`
	Timestamp  string            `json:"timestamp"`
}

type Pagination struct {
	Total      int  `json:"total"`
	Page       int  `json:"page"`
	PerPage    int  `json:"per_page"`
	TotalPages int  `json:"total_pages"`
	HasMore    bool `json:"has_more"`
}

// AppError porte le statut HTTP et les erreurs taggées par champ.
// Tout ce qui n'est pas un *AppError est traité comme une erreur serveur 500.
type AppError struct {
	Status  int
	Message string
	Errors  map[string]string
}

func (e *AppError) Error() string {
	return e.Message
}

// ErrValidation construit une erreur 400 taggée par champ
func ErrValidation(field, message string) *AppError {
	return &AppError{
		Status:  http.StatusBadRequest,
		Message: message,
		Errors:  map[string]string{field: message},
	}
}

// ErrNotFound construit une erreur 404
func ErrNotFound(message string) *AppError {
	return &AppError{Status: http.StatusNotFound, Message: message}
}

// ErrForbidden construit une erreur 403
func ErrForbidden(message string) *AppError {
	return &AppError{Status: http.StatusForbidden, Message: message}
}

// ErrUnauthorized construit une erreur 401
func ErrUnauthorized(message string) *AppError {
	return &AppError{Status: http.StatusUnauthorized, Message: message}
}

// RespondSuccess envoie l'enveloppe de succès
func RespondSuccess(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Envelope{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// RespondPage envoie l'enveloppe de succès avec pagination
func RespondPage(c *gin.Context, message string, data interface{}, total, page, perPage int) {
	totalPages := (total + perPage - 1) / perPage
	c.JSON(http.StatusOK, Envelope{
		Success: true,
		Message: message,
		Data:    data,
		Pagination: &Pagination{
			Total:      total,
			Page:       page,
			PerPage:    perPage,
			TotalPages: totalPages,
			HasMore:    page < totalPages,
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// RespondError convertit n'importe quelle erreur en enveloppe JSON.
// Le détail des erreurs serveur reste côté logs, le client reçoit un message générique.
func RespondError(c *gin.Context, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.Status, Envelope{
			Success:   false,
			Message:   appErr.Message,
			Errors:    appErr.Errors,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
		return
	}

	c.JSON(http.StatusInternalServerError, Envelope{
		Success:   false,
		Message:   "Erreur interne du serveur",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
