package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/otakupedia/catalog-api/internal/models"
	appErrors "github.com/otakupedia/catalog-api/pkg/errors"
	"github.com/otakupedia/catalog-api/pkg/response"
)

type rankingRefresher interface {
	RefreshScheduled(ctx context.Context) (*models.RankingRefreshResult, error)
	RefreshManual(ctx context.Context) (*models.RankingRefreshResult, error)
}

// CronHandler guards the ranking refresh endpoints behind a shared secret.
type CronHandler struct {
	service rankingRefresher
	secret  string
}

// NewCronHandler constructs the handler.
func NewCronHandler(service rankingRefresher, secret string) *CronHandler {
	return &CronHandler{service: service, secret: secret}
}

// authorize checks the bearer secret. When the secret is unconfigured the
// endpoint refuses to run rather than running unprotected.
func (h *CronHandler) authorize(c *gin.Context) bool {
	if h.secret == "" {
		response.Error(c, appErrors.ErrCronMisconfigured)
		return false
	}

	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] != h.secret {
		response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid cron secret"))
		return false
	}
	return true
}

// RefreshScheduled godoc
// @Summary Refresh ranking views on the cron schedule
// @Description Skips the refresh when the throttle interval has not elapsed
// @Tags Cron
// @Produce json
// @Param Authorization header string true "Bearer cron secret"
// @Success 200 {object} models.RankingRefreshResult
// @Failure 401 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /cron/refresh-rankings [get]
func (h *CronHandler) RefreshScheduled(c *gin.Context) {
	if !h.authorize(c) {
		return
	}
	h.respond(c, func(ctx context.Context) (*models.RankingRefreshResult, error) {
		return h.service.RefreshScheduled(ctx)
	})
}

// RefreshManual godoc
// @Summary Force an immediate ranking refresh
// @Tags Cron
// @Produce json
// @Param Authorization header string true "Bearer cron secret"
// @Success 200 {object} models.RankingRefreshResult
// @Failure 401 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /cron/refresh-rankings [post]
func (h *CronHandler) RefreshManual(c *gin.Context) {
	if !h.authorize(c) {
		return
	}
	h.respond(c, func(ctx context.Context) (*models.RankingRefreshResult, error) {
		return h.service.RefreshManual(ctx)
	})
}

// respond writes the refresh result. On database failure the measured
// durations are still reported in the 500 body.
func (h *CronHandler) respond(c *gin.Context, refresh func(ctx context.Context) (*models.RankingRefreshResult, error)) {
	result, err := refresh(c.Request.Context())
	if err != nil {
		if result == nil {
			response.Error(c, err)
			return
		}
		c.JSON(http.StatusInternalServerError, result)
		return
	}
	c.JSON(http.StatusOK, result)
}
