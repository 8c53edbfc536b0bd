package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/otakupedia/catalog-api/internal/models"
	"github.com/otakupedia/catalog-api/internal/service"
	appErrors "github.com/otakupedia/catalog-api/pkg/errors"
	"github.com/otakupedia/catalog-api/pkg/response"
)

// ScanlationHandler serves scanlation groups, projects, and link requests.
type ScanlationHandler struct {
	service *service.ScanlationService
}

// NewScanlationHandler constructs the handler.
func NewScanlationHandler(service *service.ScanlationService) *ScanlationHandler {
	return &ScanlationHandler{service: service}
}

// SearchGroups godoc
// @Summary Search scanlation groups
// @Tags Scanlation
// @Produce json
// @Param search query string false "Partial name"
// @Param limit query int false "Max results"
// @Success 200 {object} response.Envelope
// @Router /scan/groups [get]
func (h *ScanlationHandler) SearchGroups(c *gin.Context) {
	groups, err := h.service.SearchGroups(c.Request.Context(), entityFilterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"groups": groups})
}

// CreateGroup godoc
// @Summary Create a scanlation group
// @Tags Scanlation
// @Accept json
// @Produce json
// @Param payload body models.CreateGroupRequest true "Group payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /scan/groups [post]
func (h *ScanlationHandler) CreateGroup(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid group payload"))
		return
	}

	group, err := h.service.CreateGroup(c.Request.Context(), req, claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "group created", gin.H{"group": group})
}

// ListProjects godoc
// @Summary List scanlation projects
// @Tags Scanlation
// @Produce json
// @Param user_id query string false "Owner filter"
// @Param media_type query string false "Media type filter"
// @Param media_id query string false "Media id filter"
// @Success 200 {object} response.Envelope
// @Router /scan/projects [get]
func (h *ScanlationHandler) ListProjects(c *gin.Context) {
	mediaType := models.ContributableType(strings.ToLower(strings.TrimSpace(c.Query("media_type"))))
	projects, err := h.service.ListProjects(c.Request.Context(),
		strings.TrimSpace(c.Query("user_id")), mediaType, strings.TrimSpace(c.Query("media_id")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"projects": projects})
}

// RegisterProject godoc
// @Summary Register a scanlation project
// @Tags Scanlation
// @Accept json
// @Produce json
// @Param payload body models.RegisterProjectRequest true "Project payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /scan/projects [post]
func (h *ScanlationHandler) RegisterProject(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.RegisterProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid project payload"))
		return
	}

	project, err := h.service.RegisterProject(c.Request.Context(), req, claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "project registered", gin.H{"project": project})
}

// UpdateProject godoc
// @Summary Update a scanlation project
// @Tags Scanlation
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Param payload body models.UpdateProjectRequest true "Project update"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /scan/projects/{id} [put]
func (h *ScanlationHandler) UpdateProject(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid project update"))
		return
	}

	project, err := h.service.UpdateProject(c.Request.Context(), c.Param("id"), req, claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"project": project})
}

// DeleteProject godoc
// @Summary Delete a scanlation project
// @Tags Scanlation
// @Produce json
// @Param id path string true "Project ID"
// @Success 204 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /scan/projects/{id} [delete]
func (h *ScanlationHandler) DeleteProject(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.service.DeleteProject(c.Request.Context(), c.Param("id"), claims); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// CreateLinkRequest godoc
// @Summary Propose linking a group to a media entry
// @Tags Scanlation
// @Accept json
// @Produce json
// @Param payload body models.CreateLinkRequestRequest true "Link request payload"
// @Success 201 {object} response.Envelope
// @Router /scan/link-requests [post]
func (h *ScanlationHandler) CreateLinkRequest(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.CreateLinkRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid link request payload"))
		return
	}

	request, err := h.service.CreateLinkRequest(c.Request.Context(), req, claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "link request submitted", gin.H{"link_request": request})
}

// ListLinkRequests godoc
// @Summary List link requests for groups the caller owns
// @Tags Scanlation
// @Produce json
// @Param status query string false "Status filter"
// @Success 200 {object} response.Envelope
// @Router /scan/link-requests [get]
func (h *ScanlationHandler) ListLinkRequests(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	status := models.LinkRequestStatus(strings.ToLower(strings.TrimSpace(c.Query("status"))))
	requests, err := h.service.ListLinkRequests(c.Request.Context(), claims.UserID, status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"link_requests": requests})
}

// DecideLinkRequest godoc
// @Summary Approve or reject a link request
// @Tags Scanlation
// @Accept json
// @Produce json
// @Param id path string true "Link request ID"
// @Param payload body models.DecideLinkRequestRequest true "Decision"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /scan/link-requests/{id} [patch]
func (h *ScanlationHandler) DecideLinkRequest(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.DecideLinkRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid decision payload"))
		return
	}

	request, err := h.service.DecideLinkRequest(c.Request.Context(), c.Param("id"), req, claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"link_request": request})
}
