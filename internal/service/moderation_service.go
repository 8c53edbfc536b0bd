package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/otakupedia/catalog-api/internal/catalog"
	"github.com/otakupedia/catalog-api/internal/models"
	appErrors "github.com/otakupedia/catalog-api/pkg/errors"
)

type moderationStore interface {
	FindByID(ctx context.Context, id string) (*models.Contribution, error)
	FindUserInfo(ctx context.Context, userID string) (*models.UserInfo, error)
	List(ctx context.Context, filter models.ContributionFilter) ([]models.Contribution, int, error)
	MarkInReview(ctx context.Context, id, reviewerID string) (bool, error)
	Approve(ctx context.Context, id, reviewerID string, points int, reviewedAt time.Time) (bool, error)
	Reopen(ctx context.Context, id string) error
	Reject(ctx context.Context, id, reviewerID, reason string, reviewedAt time.Time) (bool, error)
	CountByStatus(ctx context.Context) (map[models.ContributionStatus]int, error)
}

type pointLedger interface {
	AddContributionPoints(ctx context.Context, userID string, points int) error
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

type contributionMaterializer interface {
	Apply(ctx context.Context, c *models.Contribution) (string, error)
}

// ModerationPoints configures the award attached to each approval.
type ModerationPoints struct {
	FullContribution int
	EditContribution int
}

// ModerationDetail is the projection moderators review: the raw row, the
// contributor, and the schema-ordered rendering of payload and changes.
type ModerationDetail struct {
	Contribution *models.Contribution              `json:"contribution"`
	User         *models.UserInfo                  `json:"user"`
	Fields       []catalog.FieldView               `json:"fields,omitempty"`
	Changes      map[string]models.FieldChange     `json:"changes,omitempty"`
	QueueCounts  map[models.ContributionStatus]int `json:"queue_counts,omitempty"`
}

// ModerationService drives the review queue and the approve/reject decisions.
type ModerationService struct {
	repo     moderationStore
	users    pointLedger
	applier  contributionMaterializer
	notifier contributionNotifier
	points   ModerationPoints
	logger   *zap.Logger
}

// NewModerationService constructs a ModerationService.
func NewModerationService(repo moderationStore, users pointLedger, applier contributionMaterializer, notifier contributionNotifier, points ModerationPoints, logger *zap.Logger) *ModerationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ModerationService{
		repo:     repo,
		users:    users,
		applier:  applier,
		notifier: notifier,
		points:   points,
		logger:   logger,
	}
}

// ListQueue returns contributions for the moderation queue.
func (s *ModerationService) ListQueue(ctx context.Context, filter models.ContributionFilter) ([]models.Contribution, int, error) {
	contributions, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list contributions")
	}
	if contributions == nil {
		contributions = []models.Contribution{}
	}
	return contributions, total, nil
}

// Detail loads one contribution with its contributor and the schema-driven
// rendering of its payload.
func (s *ModerationService) Detail(ctx context.Context, id string) (*ModerationDetail, error) {
	contribution, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &ModerationDetail{Contribution: contribution}

	user, err := s.repo.FindUserInfo(ctx, contribution.UserID)
	if err != nil {
		s.logger.Warn("failed to load contributor info", zap.String("contribution_id", id), zap.Error(err))
	} else {
		detail.User = user
	}

	if data, err := contribution.DecodeData(); err == nil && data != nil {
		fields, err := catalog.DetailView(contribution.ContributableType, data)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render contribution")
		}
		detail.Fields = fields
	}
	if changes, err := contribution.DecodeChanges(); err == nil && len(changes) > 0 {
		detail.Changes = changes
	}
	return detail, nil
}

// StartReview parks a pending contribution in the advisory in_review state so
// other moderators can see it is being handled. Not a lock: approvals and
// rejections remain valid from either state.
func (s *ModerationService) StartReview(ctx context.Context, id, reviewerID string) error {
	ok, err := s.repo.MarkInReview(ctx, id, reviewerID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark contribution in review")
	}
	if !ok {
		return appErrors.Clone(appErrors.ErrAlreadyReviewed, "contribution is not pending")
	}
	return nil
}

// Approve materializes the contribution into the catalog, flips its status,
// and awards contribution points. The guarded update makes a concurrent second
// decision fail with a conflict instead of double-applying.
func (s *ModerationService) Approve(ctx context.Context, id, reviewerID string) (*models.Contribution, error) {
	contribution, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if contribution.Status != models.ContributionPending && contribution.Status != models.ContributionInReview {
		return nil, appErrors.Clone(appErrors.ErrAlreadyReviewed, "contribution already decided")
	}

	points := s.points.FullContribution
	if contribution.ContributionType.IsEdit() {
		points = s.points.EditContribution
	}

	// Claim the row before touching the catalog: a concurrent decision
	// must conflict here, not after the entity has been materialized.
	now := time.Now().UTC()
	ok, err := s.repo.Approve(ctx, id, reviewerID, points, now)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to approve contribution")
	}
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrAlreadyReviewed, "contribution already decided")
	}

	entityID, err := s.applier.Apply(ctx, contribution)
	if err != nil {
		if reopenErr := s.repo.Reopen(ctx, id); reopenErr != nil {
			s.logger.Error("failed to reopen contribution after apply failure",
				zap.String("contribution_id", id),
				zap.Error(reopenErr))
		}
		return nil, err
	}

	if err := s.users.AddContributionPoints(ctx, contribution.UserID, points); err != nil {
		s.logger.Warn("failed to award contribution points",
			zap.String("contribution_id", id),
			zap.String("user_id", contribution.UserID),
			zap.Error(err))
	}

	contribution.Status = models.ContributionApproved
	contribution.ReviewedBy = &reviewerID
	contribution.ReviewedAt = &now
	contribution.AwardedPoints = points
	if contribution.ContributableID == nil {
		contribution.ContributableID = &entityID
	}

	s.emitAudit(ctx, &models.AuditLog{
		UserID:     &reviewerID,
		Action:     models.AuditActionContributionApprove,
		Resource:   string(contribution.ContributableType),
		ResourceID: &entityID,
		NewValues:  contribution.ContributionData,
	})
	s.notifyDecision(ctx, contribution, reviewerID, models.NotifyContributionApproved,
		fmt.Sprintf("Your %s contribution was approved (+%d points)", contribution.ContributableType, points))
	return contribution, nil
}

// Reject flips the contribution to rejected with a mandatory reason.
func (s *ModerationService) Reject(ctx context.Context, id, reviewerID string, req models.RejectContributionRequest) (*models.Contribution, error) {
	if req.Reason == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "rejection reason is required")
	}
	contribution, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if contribution.Status != models.ContributionPending && contribution.Status != models.ContributionInReview {
		return nil, appErrors.Clone(appErrors.ErrAlreadyReviewed, "contribution already decided")
	}

	now := time.Now().UTC()
	ok, err := s.repo.Reject(ctx, id, reviewerID, req.Reason, now)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reject contribution")
	}
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrAlreadyReviewed, "contribution already decided")
	}

	contribution.Status = models.ContributionRejected
	contribution.ReviewedBy = &reviewerID
	contribution.ReviewedAt = &now
	contribution.RejectionReason = &req.Reason

	s.emitAudit(ctx, &models.AuditLog{
		UserID:     &reviewerID,
		Action:     models.AuditActionContributionReject,
		Resource:   string(contribution.ContributableType),
		ResourceID: &contribution.ID,
		NewValues:  []byte(fmt.Sprintf(`{"reason":%q}`, req.Reason)),
	})
	s.notifyDecision(ctx, contribution, reviewerID, models.NotifyContributionRejected,
		fmt.Sprintf("Your %s contribution was rejected: %s", contribution.ContributableType, req.Reason))
	return contribution, nil
}

// QueueCounts reports the moderation queue sizes.
func (s *ModerationService) QueueCounts(ctx context.Context) (map[models.ContributionStatus]int, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count contributions")
	}
	return counts, nil
}

func (s *ModerationService) load(ctx context.Context, id string) (*models.Contribution, error) {
	contribution, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "contribution not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load contribution")
	}
	return contribution, nil
}

func (s *ModerationService) emitAudit(ctx context.Context, log *models.AuditLog) {
	if s.users == nil || log == nil {
		return
	}
	log.IPAddress = "system"
	log.UserAgent = "moderation-service"
	if err := s.users.CreateAuditLog(ctx, log); err != nil {
		s.logger.Warn("failed to persist audit log", zap.Error(err))
	}
}

func (s *ModerationService) notifyDecision(ctx context.Context, contribution *models.Contribution, reviewerID string, action models.NotificationAction, message string) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(ctx, models.Notification{
		RecipientID:    contribution.UserID,
		ActorID:        &reviewerID,
		ActionType:     action,
		NotifiableType: "contribution",
		NotifiableID:   contribution.ID,
		Message:        message,
	})
}
