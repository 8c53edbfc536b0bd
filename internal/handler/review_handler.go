package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/otakupedia/catalog-api/internal/models"
	"github.com/otakupedia/catalog-api/internal/service"
	appErrors "github.com/otakupedia/catalog-api/pkg/errors"
	"github.com/otakupedia/catalog-api/pkg/response"
)

// ReviewHandler serves user reviews on catalog entries.
type ReviewHandler struct {
	service *service.ReviewService
}

// NewReviewHandler constructs the handler.
func NewReviewHandler(service *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

// List godoc
// @Summary List reviews for a catalog entry
// @Tags Reviews
// @Produce json
// @Param type query string true "Reviewable type"
// @Param id query string true "Reviewable ID"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /reviews [get]
func (h *ReviewHandler) List(c *gin.Context) {
	filter := models.ReviewFilter{
		ReviewableType: models.ContributableType(strings.ToLower(strings.TrimSpace(c.Query("type")))),
		ReviewableID:   strings.TrimSpace(c.Query("id")),
		Page:           1,
		PageSize:       20,
	}
	if page, err := strconv.Atoi(c.Query("page")); err == nil && page > 0 {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.Query("page_size")); err == nil && size > 0 && size <= 100 {
		filter.PageSize = size
	}

	reviews, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, gin.H{"reviews": reviews}, &models.Pagination{
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalCount: total,
	})
}

// Upsert godoc
// @Summary Create or update the caller's review
// @Tags Reviews
// @Accept json
// @Produce json
// @Param payload body models.UpsertReviewRequest true "Review payload"
// @Success 200 {object} response.Envelope
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /reviews [post]
func (h *ReviewHandler) Upsert(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.UpsertReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid review payload"))
		return
	}

	review, created, err := h.service.Upsert(c.Request.Context(), req, claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if created {
		response.Created(c, "review posted", gin.H{"review": review})
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"review": review, "message": "review updated"})
}

// MarkHelpful godoc
// @Summary Mark a review as helpful
// @Tags Reviews
// @Produce json
// @Param id path string true "Review ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /reviews/{id}/helpful [post]
func (h *ReviewHandler) MarkHelpful(c *gin.Context) {
	if err := h.service.MarkHelpful(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"message": "vote recorded"})
}

// Delete godoc
// @Summary Delete a review
// @Tags Reviews
// @Produce json
// @Param id path string true "Review ID"
// @Success 204 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /reviews/{id} [delete]
func (h *ReviewHandler) Delete(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.service.Delete(c.Request.Context(), c.Param("id"), claims); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
