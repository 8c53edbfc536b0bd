package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/otakupedia/catalog-api/internal/models"
	"github.com/otakupedia/catalog-api/internal/repository"
	appErrors "github.com/otakupedia/catalog-api/pkg/errors"
)

type reviewStore interface {
	List(ctx context.Context, filter models.ReviewFilter) ([]models.Review, int, error)
	FindByID(ctx context.Context, id string) (*models.Review, error)
	FindByUserAndTarget(ctx context.Context, userID string, reviewableType models.ContributableType, reviewableID string) (*models.Review, error)
	Create(ctx context.Context, review *models.Review) error
	Update(ctx context.Context, review *models.Review) error
	IncrementHelpfulVotes(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

// ReviewService manages user reviews. One review per user and entity: a second
// submission replaces the first instead of duplicating it.
type ReviewService struct {
	repo      reviewStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewReviewService constructs a ReviewService.
func NewReviewService(repo reviewStore, validate *validator.Validate, logger *zap.Logger) *ReviewService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ReviewService{repo: repo, validator: validate, logger: logger}
}

// List returns reviews for one reviewable target.
func (s *ReviewService) List(ctx context.Context, filter models.ReviewFilter) ([]models.Review, int, error) {
	if !filter.ReviewableType.Valid() {
		return nil, 0, appErrors.Clone(appErrors.ErrValidation, "unknown reviewable type")
	}
	reviews, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list reviews")
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	return reviews, total, nil
}

// Upsert creates the caller's review or replaces an existing one.
func (s *ReviewService) Upsert(ctx context.Context, req models.UpsertReviewRequest, userID string) (*models.Review, bool, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid review payload")
	}
	if !req.ReviewableType.Valid() {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "unknown reviewable type")
	}

	existing, err := s.repo.FindByUserAndTarget(ctx, userID, req.ReviewableType, req.ReviewableID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up review")
	}

	if existing != nil {
		existing.Content = req.Content
		existing.OverallScore = req.OverallScore
		if err := s.repo.Update(ctx, existing); err != nil {
			return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update review")
		}
		return existing, false, nil
	}

	review := &models.Review{
		UserID:         userID,
		ReviewableType: req.ReviewableType,
		ReviewableID:   req.ReviewableID,
		Content:        req.Content,
		OverallScore:   req.OverallScore,
	}
	if err := s.repo.Create(ctx, review); err != nil {
		if repository.IsUniqueViolation(err) {
			// Lost a race against a concurrent submission by the same user.
			return nil, false, appErrors.Clone(appErrors.ErrAlreadyReviewed, "you already reviewed this entry")
		}
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create review")
	}
	return review, true, nil
}

// MarkHelpful bumps a review's helpful counter.
func (s *ReviewService) MarkHelpful(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "review not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load review")
	}
	if err := s.repo.IncrementHelpfulVotes(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark review helpful")
	}
	return nil
}

// Delete removes the caller's review. Moderators may remove any review.
func (s *ReviewService) Delete(ctx context.Context, id string, actor *models.JWTClaims) error {
	review, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "review not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load review")
	}
	if review.UserID != actor.UserID && actor.Role != models.RoleModerator && actor.Role != models.RoleAdmin {
		return appErrors.Clone(appErrors.ErrForbidden, "review belongs to another user")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete review")
	}
	return nil
}
