package middleware

import (
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/otakupedia/catalog-api/internal/models"
	"github.com/otakupedia/catalog-api/internal/repository"
)

// Audit writes an audit-log row once the wrapped handler succeeds.
// Failed requests are skipped; they changed nothing worth trailing.
func Audit(repo *repository.UserRepository, action, resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now().UTC()
		c.Next()

		if c.Writer.Status() >= 400 {
			return
		}

		entry := &models.AuditLog{
			Action:    action,
			Resource:  resource,
			NewValues: auditDetails(c, start),
			IPAddress: c.ClientIP(),
			UserAgent: c.GetHeader("User-Agent"),
		}
		if claims := actorClaims(c); claims != nil {
			entry.UserID = &claims.UserID
		}
		if id := c.Param("id"); id != "" {
			entry.ResourceID = &id
		}

		// Best effort; an audit insert failure must not fail the request.
		_ = repo.CreateAuditLog(c.Request.Context(), entry)
	}
}

func actorClaims(c *gin.Context) *models.JWTClaims {
	value, ok := c.Get(ContextUserKey)
	if !ok {
		return nil
	}
	claims, _ := value.(*models.JWTClaims)
	return claims
}

func auditDetails(c *gin.Context, start time.Time) []byte {
	details, _ := json.Marshal(map[string]interface{}{
		"path":    c.FullPath(),
		"method":  c.Request.Method,
		"status":  c.Writer.Status(),
		"latency": time.Since(start).Milliseconds(),
	})
	return details
}
