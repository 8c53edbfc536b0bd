package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/otakupedia/catalog-api/internal/middleware"
	"github.com/otakupedia/catalog-api/internal/models"
)

// claimsFromContext pulls the authenticated user's claims set by the JWT
// middleware, or nil on unauthenticated routes.
func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, ok := c.Get(middleware.ContextUserKey)
	if !ok {
		return nil
	}
	claims, _ := value.(*models.JWTClaims)
	return claims
}
