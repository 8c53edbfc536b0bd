package handler

import (
	"context"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/otakupedia/catalog-api/internal/models"
	appErrors "github.com/otakupedia/catalog-api/pkg/errors"
	"github.com/otakupedia/catalog-api/pkg/response"
)

type contributionService interface {
	Submit(ctx context.Context, req models.SubmitContributionRequest, userID string) (*models.Contribution, error)
	ListMine(ctx context.Context, userID string, filter models.ContributionFilter) ([]models.Contribution, int, error)
	Get(ctx context.Context, id string, actor *models.JWTClaims) (*models.Contribution, error)
}

// ContributionHandler exposes REST endpoints for the contribution workflow.
type ContributionHandler struct {
	service contributionService
}

// NewContributionHandler constructs the handler.
func NewContributionHandler(service contributionService) *ContributionHandler {
	return &ContributionHandler{service: service}
}

// SubmitNew godoc
// @Summary Submit a new-entry or report contribution
// @Tags Contributions
// @Accept json
// @Produce json
// @Param payload body models.SubmitContributionRequest true "Contribution payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /user/contributions [post]
func (h *ContributionHandler) SubmitNew(c *gin.Context) {
	h.submit(c, false)
}

// SubmitEdit godoc
// @Summary Submit an edit contribution against an existing entry
// @Tags Contributions
// @Accept json
// @Produce json
// @Param payload body models.SubmitContributionRequest true "Contribution payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /content-contributions [post]
func (h *ContributionHandler) SubmitEdit(c *gin.Context) {
	h.submit(c, true)
}

func (h *ContributionHandler) submit(c *gin.Context, edit bool) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.SubmitContributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid contribution payload"))
		return
	}
	if req.ContributionType.IsEdit() != edit {
		if edit {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "this endpoint accepts add_info and modification contributions"))
		} else {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "this endpoint accepts full and report contributions"))
		}
		return
	}

	contribution, err := h.service.Submit(c.Request.Context(), req, claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "contribution submitted for review", gin.H{"contribution": contribution})
}

// ListMine godoc
// @Summary List the caller's contributions
// @Tags Contributions
// @Produce json
// @Param status query string false "Status filter"
// @Param type query string false "Contributable type filter"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /user/contributions [get]
func (h *ContributionHandler) ListMine(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	filter := contributionFilterFromQuery(c)
	contributions, total, err := h.service.ListMine(c.Request.Context(), claims.UserID, filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, gin.H{"contributions": contributions}, &models.Pagination{
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalCount: total,
	})
}

// Get godoc
// @Summary Get a single contribution
// @Tags Contributions
// @Produce json
// @Param id path string true "Contribution ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /user/contributions/{id} [get]
func (h *ContributionHandler) Get(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	contribution, err := h.service.Get(c.Request.Context(), c.Param("id"), claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"contribution": contribution})
}

func contributionFilterFromQuery(c *gin.Context) models.ContributionFilter {
	filter := models.ContributionFilter{Page: 1, PageSize: 20}
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		status := models.ContributionStatus(strings.ToLower(raw))
		filter.Status = &status
	}
	if raw := strings.TrimSpace(c.Query("type")); raw != "" {
		t := models.ContributableType(strings.ToLower(raw))
		filter.ContributableType = &t
	}
	if page, err := strconv.Atoi(c.Query("page")); err == nil && page > 0 {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.Query("page_size")); err == nil && size > 0 && size <= 100 {
		filter.PageSize = size
	}
	return filter
}
