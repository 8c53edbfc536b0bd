package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/otakupedia/catalog-api/internal/models"
	appErrors "github.com/otakupedia/catalog-api/pkg/errors"
)

// Envelope represents the common response contract. Every payload carries a
// success flag; failures additionally carry the error message and code.
type Envelope struct {
	Success    bool                   `json:"success"`
	Error      string                 `json:"error,omitempty"`
	Code       string                 `json:"code,omitempty"`
	Pagination *models.Pagination     `json:"pagination,omitempty"`
	Message    string                 `json:"message,omitempty"`
	Data       map[string]interface{} `json:"-"`
}

// JSON sends a success response merging the named payload fields into the envelope.
func JSON(c *gin.Context, status int, fields gin.H) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	body := gin.H{"success": true}
	for k, v := range fields {
		body[k] = v
	}
	c.JSON(status, body)
}

// OK responds with HTTP 200.
func OK(c *gin.Context, fields gin.H) {
	JSON(c, http.StatusOK, fields)
}

// Created responds with HTTP 201 plus a human-readable message.
func Created(c *gin.Context, message string, fields gin.H) {
	body := gin.H{"message": message}
	for k, v := range fields {
		body[k] = v
	}
	JSON(c, http.StatusCreated, body)
}

// Paginated responds with HTTP 200 and pagination metadata.
func Paginated(c *gin.Context, fields gin.H, pagination *models.Pagination) {
	body := gin.H{}
	for k, v := range fields {
		body[k] = v
	}
	if pagination != nil {
		body["pagination"] = pagination
	}
	JSON(c, http.StatusOK, body)
}

// Error sends an error response converting the error to the common structure.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(appErr.Status, gin.H{
		"success": false,
		"error":   appErr.Message,
		"code":    appErr.Code,
	})
}

// NoContent sends a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
