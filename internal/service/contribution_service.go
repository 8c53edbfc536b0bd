package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/otakupedia/catalog-api/internal/catalog"
	"github.com/otakupedia/catalog-api/internal/models"
	appErrors "github.com/otakupedia/catalog-api/pkg/errors"
)

type contributionStore interface {
	Create(ctx context.Context, c *models.Contribution) error
	FindByID(ctx context.Context, id string) (*models.Contribution, error)
	List(ctx context.Context, filter models.ContributionFilter) ([]models.Contribution, int, error)
}

type moderatorDirectory interface {
	ListModeratorIDs(ctx context.Context) ([]string, error)
}

// EntitySnapshotter rebuilds the canonical payload of a stored entity. Edit
// submissions diff against it so stale client-side diffs cannot slip through.
type EntitySnapshotter interface {
	Snapshot(ctx context.Context, t models.ContributableType, id string) (map[string]interface{}, error)
}

type contributionNotifier interface {
	Notify(ctx context.Context, n models.Notification)
	NotifyAll(ctx context.Context, recipients []string, template models.Notification)
}

// ContributionService handles community submissions: payload validation,
// server-side diff recomputation for edits, and the pending-row insert.
type ContributionService struct {
	repo      contributionStore
	users     moderatorDirectory
	snapshots EntitySnapshotter
	notifier  contributionNotifier
	validator *validator.Validate
	logger    *zap.Logger
}

// NewContributionService constructs a ContributionService.
func NewContributionService(repo contributionStore, users moderatorDirectory, snapshots EntitySnapshotter, notifier contributionNotifier, validate *validator.Validate, logger *zap.Logger) *ContributionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ContributionService{
		repo:      repo,
		users:     users,
		snapshots: snapshots,
		notifier:  notifier,
		validator: validate,
		logger:    logger,
	}
}

// Submit validates and stores a new contribution as pending.
func (s *ContributionService) Submit(ctx context.Context, req models.SubmitContributionRequest, userID string) (*models.Contribution, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid contribution payload")
	}
	if !req.ContributableType.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown contributable type: %s", req.ContributableType))
	}
	switch req.ContributionType {
	case models.ContributionFull, models.ContributionAddInfo, models.ContributionModification, models.ContributionReport:
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown contribution type: %s", req.ContributionType))
	}
	if req.ContributionType.IsEdit() && (req.ContributableID == nil || *req.ContributableID == "") {
		return nil, appErrors.Clone(appErrors.ErrValidation, "edit contributions must target an existing entity")
	}
	if !req.ContributionType.IsEdit() && req.ContributableID != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "new-entity contributions must not target an existing entity")
	}

	contribution := &models.Contribution{
		UserID:            userID,
		ContributableType: req.ContributableType,
		ContributableID:   req.ContributableID,
		ContributionType:  req.ContributionType,
		ContributionNotes: req.Notes,
		Sources:           req.Sources,
	}

	if req.ContributionType.IsEdit() {
		if err := s.prepareEdit(ctx, req, contribution); err != nil {
			return nil, err
		}
	} else {
		normalized, err := catalog.ValidatePayload(req.ContributableType, req.Data)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
		}
		data, err := json.Marshal(normalized)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode payload")
		}
		contribution.ContributionData = data
	}

	if err := s.repo.Create(ctx, contribution); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store contribution")
	}

	s.notifyModerators(ctx, contribution, userID)
	return contribution, nil
}

// prepareEdit normalizes the edited payload, dedupes list entries, and
// recomputes the sparse diff against the stored snapshot. The client may ship
// its own diff for preview purposes; the server never trusts it.
func (s *ContributionService) prepareEdit(ctx context.Context, req models.SubmitContributionRequest, contribution *models.Contribution) error {
	normalized, err := catalog.ValidatePayload(req.ContributableType, req.Data)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	for key, value := range normalized {
		if items, ok := value.([]interface{}); ok {
			normalized[key] = catalog.DedupeByID(items, s.logger)
		}
	}

	snapshot, err := s.snapshots.Snapshot(ctx, req.ContributableType, *req.ContributableID)
	if err != nil {
		return err
	}

	changes := catalog.ComputeDiff(snapshot, normalized)
	if len(changes) == 0 {
		return appErrors.Clone(appErrors.ErrNoChanges, "submitted data matches the stored entity")
	}

	encodedChanges, err := json.Marshal(changes)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode changes")
	}
	encodedData, err := json.Marshal(normalized)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode payload")
	}
	contribution.ProposedChanges = encodedChanges
	contribution.ContributionData = encodedData
	return nil
}

func (s *ContributionService) notifyModerators(ctx context.Context, contribution *models.Contribution, actorID string) {
	if s.notifier == nil || s.users == nil {
		return
	}
	moderators, err := s.users.ListModeratorIDs(ctx)
	if err != nil {
		s.logger.Warn("failed to list moderators for notification", zap.Error(err))
		return
	}
	s.notifier.NotifyAll(ctx, moderators, models.Notification{
		ActorID:        &actorID,
		ActionType:     models.NotifyContributionSubmitted,
		NotifiableType: "contribution",
		NotifiableID:   contribution.ID,
		Message:        fmt.Sprintf("New %s contribution for %s awaiting review", contribution.ContributionType, contribution.ContributableType),
	})
}

// ListMine returns the authenticated user's own submissions.
func (s *ContributionService) ListMine(ctx context.Context, userID string, filter models.ContributionFilter) ([]models.Contribution, int, error) {
	filter.UserID = userID
	contributions, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list contributions")
	}
	if contributions == nil {
		contributions = []models.Contribution{}
	}
	return contributions, total, nil
}

// Get returns one contribution, visible to its author and to moderators.
func (s *ContributionService) Get(ctx context.Context, id string, actor *models.JWTClaims) (*models.Contribution, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	contribution, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "contribution not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load contribution")
	}
	if contribution.UserID != actor.UserID && actor.Role != models.RoleModerator && actor.Role != models.RoleAdmin {
		return nil, appErrors.ErrForbidden
	}
	return contribution, nil
}
