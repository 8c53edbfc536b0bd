package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/otakupedia/catalog-api/internal/models"
	"github.com/otakupedia/catalog-api/internal/repository"
	appErrors "github.com/otakupedia/catalog-api/pkg/errors"
)

type scanlationStore interface {
	SearchGroups(ctx context.Context, filter models.EntityFilter) ([]models.ScanlationGroup, error)
	FindGroupByID(ctx context.Context, id string) (*models.ScanlationGroup, error)
	CreateGroup(ctx context.Context, group *models.ScanlationGroup) error
	ListProjects(ctx context.Context, userID string, mediaType models.ContributableType, mediaID string) ([]models.ScanProject, error)
	FindProjectByID(ctx context.Context, id string) (*models.ScanProject, error)
	ProjectExists(ctx context.Context, userID string, mediaType models.ContributableType, mediaID string) (bool, error)
	CreateProject(ctx context.Context, project *models.ScanProject) error
	UpdateProject(ctx context.Context, project *models.ScanProject) error
	DeleteProject(ctx context.Context, id string) error
	ListLinkRequests(ctx context.Context, ownerUserID string, status models.LinkRequestStatus) ([]models.LinkRequest, error)
	FindLinkRequestByID(ctx context.Context, id string) (*models.LinkRequest, error)
	CreateLinkRequest(ctx context.Context, request *models.LinkRequest) error
	DecideLinkRequest(ctx context.Context, id string, status models.LinkRequestStatus, deciderID string, decidedAt time.Time) (bool, error)
}

type fanLinkWriter interface {
	AppendExternalLink(ctx context.Context, link models.ExternalLink) error
}

// ScanlationService manages scanlation groups, their translation projects, and
// the link requests other users file on a group's behalf.
type ScanlationService struct {
	repo      scanlationStore
	media     fanLinkWriter
	notifier  contributionNotifier
	validator *validator.Validate
	logger    *zap.Logger
}

// NewScanlationService constructs a ScanlationService.
func NewScanlationService(repo scanlationStore, media fanLinkWriter, notifier contributionNotifier, validate *validator.Validate, logger *zap.Logger) *ScanlationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ScanlationService{repo: repo, media: media, notifier: notifier, validator: validate, logger: logger}
}

// SearchGroups returns groups matching the query.
func (s *ScanlationService) SearchGroups(ctx context.Context, filter models.EntityFilter) ([]models.ScanlationGroup, error) {
	groups, err := s.repo.SearchGroups(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to search groups")
	}
	if groups == nil {
		groups = []models.ScanlationGroup{}
	}
	return groups, nil
}

// CreateGroup registers a group owned by the caller.
func (s *ScanlationService) CreateGroup(ctx context.Context, req models.CreateGroupRequest, ownerID string) (*models.ScanlationGroup, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid group payload")
	}
	group := &models.ScanlationGroup{
		OwnerUserID: ownerID,
		Name:        req.Name,
		Website:     req.Website,
		Discord:     req.Discord,
	}
	if err := s.repo.CreateGroup(ctx, group); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "a group with that name already exists")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create group")
	}
	return group, nil
}

// ListProjects returns projects for one media entity or one user.
func (s *ScanlationService) ListProjects(ctx context.Context, userID string, mediaType models.ContributableType, mediaID string) ([]models.ScanProject, error) {
	projects, err := s.repo.ListProjects(ctx, userID, mediaType, mediaID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list projects")
	}
	if projects == nil {
		projects = []models.ScanProject{}
	}
	return projects, nil
}

// RegisterProject creates a project for the caller. One registration per
// (user, media type, media id): the pre-check produces the friendly message,
// the unique constraint settles races.
func (s *ScanlationService) RegisterProject(ctx context.Context, req models.RegisterProjectRequest, actor *models.JWTClaims) (*models.ScanProject, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid project payload")
	}
	if !req.MediaType.IsMedia() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "projects can only target media entities")
	}
	status := req.Status
	if status == "" {
		status = models.ProjectActive
	}
	if !status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown project status")
	}

	group, err := s.loadGroup(ctx, req.GroupID)
	if err != nil {
		return nil, err
	}
	if group.OwnerUserID != actor.UserID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only the group owner can register projects")
	}

	exists, err := s.repo.ProjectExists(ctx, actor.UserID, req.MediaType, req.MediaID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check project")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrAlreadyRegistered, "you already registered a project for this entry")
	}

	project := &models.ScanProject{
		UserID:    actor.UserID,
		GroupID:   req.GroupID,
		MediaType: req.MediaType,
		MediaID:   req.MediaID,
		Status:    status,
		URL:       req.URL,
	}
	if err := s.repo.CreateProject(ctx, project); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrAlreadyRegistered, "you already registered a project for this entry")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create project")
	}
	project.GroupName = group.Name
	return project, nil
}

// UpdateProject changes status or URL of the caller's project.
func (s *ScanlationService) UpdateProject(ctx context.Context, id string, req models.UpdateProjectRequest, actor *models.JWTClaims) (*models.ScanProject, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid project payload")
	}
	if !req.Status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown project status")
	}
	project, err := s.loadProject(ctx, id)
	if err != nil {
		return nil, err
	}
	if project.UserID != actor.UserID && actor.Role != models.RoleAdmin {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "project belongs to another user")
	}
	project.Status = req.Status
	if req.URL != nil {
		project.URL = req.URL
	}
	if err := s.repo.UpdateProject(ctx, project); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update project")
	}
	return project, nil
}

// DeleteProject removes the caller's project.
func (s *ScanlationService) DeleteProject(ctx context.Context, id string, actor *models.JWTClaims) error {
	project, err := s.loadProject(ctx, id)
	if err != nil {
		return err
	}
	if project.UserID != actor.UserID && actor.Role != models.RoleAdmin {
		return appErrors.Clone(appErrors.ErrForbidden, "project belongs to another user")
	}
	if err := s.repo.DeleteProject(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete project")
	}
	return nil
}

// CreateLinkRequest files a proposal to associate a group with a media entity
// and notifies the group owner.
func (s *ScanlationService) CreateLinkRequest(ctx context.Context, req models.CreateLinkRequestRequest, requesterID string) (*models.LinkRequest, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid link request payload")
	}
	if !req.MediaType.IsMedia() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "link requests can only target media entities")
	}
	group, err := s.loadGroup(ctx, req.GroupID)
	if err != nil {
		return nil, err
	}
	// Link requests are third-party proposals; the owner attaches links to
	// their own group directly.
	if group.OwnerUserID == requesterID {
		return nil, appErrors.Clone(appErrors.ErrValidation, "cannot file a link request against your own group")
	}

	request := &models.LinkRequest{
		RequesterID: requesterID,
		GroupID:     req.GroupID,
		MediaType:   req.MediaType,
		MediaID:     req.MediaID,
		URL:         req.URL,
		Status:      models.LinkRequestPending,
	}
	if err := s.repo.CreateLinkRequest(ctx, request); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create link request")
	}
	request.GroupName = group.Name

	if s.notifier != nil {
		s.notifier.Notify(ctx, models.Notification{
			RecipientID:    group.OwnerUserID,
			ActorID:        &requesterID,
			ActionType:     models.NotifyLinkRequestReceived,
			NotifiableType: "link_request",
			NotifiableID:   request.ID,
			Message:        "New link request for " + group.Name,
		})
	}
	return request, nil
}

// ListLinkRequests returns requests awaiting the caller, i.e. requests against
// groups the caller owns.
func (s *ScanlationService) ListLinkRequests(ctx context.Context, ownerID string, status models.LinkRequestStatus) ([]models.LinkRequest, error) {
	requests, err := s.repo.ListLinkRequests(ctx, ownerID, status)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list link requests")
	}
	if requests == nil {
		requests = []models.LinkRequest{}
	}
	return requests, nil
}

// DecideLinkRequest resolves a pending request. Only the owner of the target
// group may decide. Approval attaches a fan-translation link to the media.
func (s *ScanlationService) DecideLinkRequest(ctx context.Context, id string, req models.DecideLinkRequestRequest, actor *models.JWTClaims) (*models.LinkRequest, error) {
	request, err := s.repo.FindLinkRequestByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "link request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load link request")
	}

	group, err := s.loadGroup(ctx, request.GroupID)
	if err != nil {
		return nil, err
	}
	if group.OwnerUserID != actor.UserID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only the group owner can decide link requests")
	}

	status := models.LinkRequestRejected
	action := models.NotifyLinkRequestRejected
	if req.Approve {
		status = models.LinkRequestApproved
		action = models.NotifyLinkRequestApproved
	}

	now := time.Now().UTC()
	ok, err := s.repo.DecideLinkRequest(ctx, id, status, actor.UserID, now)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to decide link request")
	}
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrConflict, "link request already decided")
	}

	if req.Approve && s.media != nil {
		url := ""
		if request.URL != nil {
			url = *request.URL
		}
		linkStatus := "active"
		if err := s.media.AppendExternalLink(ctx, models.ExternalLink{
			MediaID:  request.MediaID,
			Category: models.LinkFanTranslation,
			SiteName: group.Name,
			URL:      url,
			Status:   &linkStatus,
			GroupID:  &request.GroupID,
		}); err != nil {
			s.logger.Warn("failed to attach fan translation link",
				zap.String("link_request_id", id),
				zap.String("media_id", request.MediaID),
				zap.Error(err))
		}
	}

	request.Status = status
	request.DecidedBy = &actor.UserID
	request.DecidedAt = &now
	request.GroupName = group.Name

	if s.notifier != nil {
		s.notifier.Notify(ctx, models.Notification{
			RecipientID:    request.RequesterID,
			ActorID:        &actor.UserID,
			ActionType:     action,
			NotifiableType: "link_request",
			NotifiableID:   request.ID,
			Message:        "Your link request for " + group.Name + " was " + string(status),
		})
	}
	return request, nil
}

func (s *ScanlationService) loadGroup(ctx context.Context, id string) (*models.ScanlationGroup, error) {
	group, err := s.repo.FindGroupByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "group not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load group")
	}
	return group, nil
}

func (s *ScanlationService) loadProject(ctx context.Context, id string) (*models.ScanProject, error) {
	project, err := s.repo.FindProjectByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "project not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load project")
	}
	return project, nil
}
