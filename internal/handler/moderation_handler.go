package handler

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/otakupedia/catalog-api/internal/models"
	"github.com/otakupedia/catalog-api/internal/service"
	appErrors "github.com/otakupedia/catalog-api/pkg/errors"
	"github.com/otakupedia/catalog-api/pkg/response"
)

type moderationService interface {
	ListQueue(ctx context.Context, filter models.ContributionFilter) ([]models.Contribution, int, error)
	Detail(ctx context.Context, id string) (*service.ModerationDetail, error)
	StartReview(ctx context.Context, id, reviewerID string) error
	Approve(ctx context.Context, id, reviewerID string) (*models.Contribution, error)
	Reject(ctx context.Context, id, reviewerID string, req models.RejectContributionRequest) (*models.Contribution, error)
	QueueCounts(ctx context.Context) (map[models.ContributionStatus]int, error)
}

// ModerationHandler exposes the review queue to moderators.
type ModerationHandler struct {
	service moderationService
}

// NewModerationHandler constructs the handler.
func NewModerationHandler(service moderationService) *ModerationHandler {
	return &ModerationHandler{service: service}
}

// reviewDecisionRequest is the PATCH body for the moderation endpoint. The
// action selects the transition; rejection_reason is required for reject.
type reviewDecisionRequest struct {
	Action          string `json:"action" binding:"required"`
	RejectionReason string `json:"rejection_reason"`
}

// List godoc
// @Summary List contributions awaiting moderation
// @Tags Moderation
// @Produce json
// @Param status query string false "Status filter, defaults to pending"
// @Param type query string false "Contributable type filter"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /moderation/contributions [get]
func (h *ModerationHandler) List(c *gin.Context) {
	filter := contributionFilterFromQuery(c)
	if filter.Status == nil {
		pending := models.ContributionPending
		filter.Status = &pending
	}

	contributions, total, err := h.service.ListQueue(c.Request.Context(), filter)
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

// Detail godoc
// @Summary Get contribution detail for review
// @Tags Moderation
// @Produce json
// @Param id path string true "Contribution ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /moderation/contributions/{id} [get]
func (h *ModerationHandler) Detail(c *gin.Context) {
	detail, err := h.service.Detail(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{
		"contribution": detail.Contribution,
		"contributor":  detail.User,
		"fields":       detail.Fields,
		"changes":      detail.Changes,
		"queue_counts": detail.QueueCounts,
	})
}

// Decide godoc
// @Summary Apply a moderation decision
// @Description Approve, reject, or park a contribution in review
// @Tags Moderation
// @Accept json
// @Produce json
// @Param id path string true "Contribution ID"
// @Param payload body reviewDecisionRequest true "Decision"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /moderation/contributions/{id} [patch]
func (h *ModerationHandler) Decide(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req reviewDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid decision payload"))
		return
	}

	id := c.Param("id")
	switch strings.ToLower(req.Action) {
	case "approve":
		contribution, err := h.service.Approve(c.Request.Context(), id, claims.UserID)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, gin.H{"contribution": contribution, "message": "contribution approved"})
	case "reject":
		contribution, err := h.service.Reject(c.Request.Context(), id, claims.UserID,
			models.RejectContributionRequest{Reason: req.RejectionReason})
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, gin.H{"contribution": contribution, "message": "contribution rejected"})
	case "review":
		if err := h.service.StartReview(c.Request.Context(), id, claims.UserID); err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, gin.H{"message": "contribution moved to in_review"})
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "action must be approve, reject, or review"))
	}
}

// Counts godoc
// @Summary Count contributions per status
// @Tags Moderation
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /moderation/contributions/counts [get]
func (h *ModerationHandler) Counts(c *gin.Context) {
	counts, err := h.service.QueueCounts(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"counts": counts})
}
