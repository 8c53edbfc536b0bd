package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/otakupedia/catalog-api/internal/models"
)

// ReviewRepository manages persistence for media reviews.
type ReviewRepository struct {
	db *sqlx.DB
}

// NewReviewRepository constructs a ReviewRepository.
func NewReviewRepository(db *sqlx.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

const reviewColumns = `r.id, r.user_id, r.reviewable_type, r.reviewable_id, r.content, r.overall_score, r.helpful_votes, r.created_at, r.updated_at, u.username`

// List returns reviews for one reviewable target plus total count.
func (r *ReviewRepository) List(ctx context.Context, filter models.ReviewFilter) ([]models.Review, int, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 50 {
		size = 10
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s FROM reviews r JOIN users u ON u.id = r.user_id WHERE r.reviewable_type = $1 AND r.reviewable_id = $2 ORDER BY r.helpful_votes DESC, r.created_at DESC LIMIT %d OFFSET %d", reviewColumns, size, offset)
	var reviews []models.Review
	if err := r.db.SelectContext(ctx, &reviews, query, filter.ReviewableType, filter.ReviewableID); err != nil {
		return nil, 0, fmt.Errorf("list reviews: %w", err)
	}

	const countQuery = `SELECT COUNT(*) FROM reviews r WHERE r.reviewable_type = $1 AND r.reviewable_id = $2`
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, filter.ReviewableType, filter.ReviewableID); err != nil {
		return nil, 0, fmt.Errorf("count reviews: %w", err)
	}

	return reviews, total, nil
}

// FindByID fetches a review by id.
func (r *ReviewRepository) FindByID(ctx context.Context, id string) (*models.Review, error) {
	query := fmt.Sprintf("SELECT %s FROM reviews r JOIN users u ON u.id = r.user_id WHERE r.id = $1", reviewColumns)
	var review models.Review
	if err := r.db.GetContext(ctx, &review, query, id); err != nil {
		return nil, err
	}
	return &review, nil
}

// FindByUserAndTarget returns the user's review of a reviewable, if any.
func (r *ReviewRepository) FindByUserAndTarget(ctx context.Context, userID string, reviewableType models.ContributableType, reviewableID string) (*models.Review, error) {
	query := fmt.Sprintf("SELECT %s FROM reviews r JOIN users u ON u.id = r.user_id WHERE r.user_id = $1 AND r.reviewable_type = $2 AND r.reviewable_id = $3", reviewColumns)
	var review models.Review
	if err := r.db.GetContext(ctx, &review, query, userID, reviewableType, reviewableID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find review by user and target: %w", err)
	}
	return &review, nil
}

// Create inserts a new review. Unique-violation errors bubble up untouched so
// callers can map them to a conflict.
func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) error {
	if review.ID == "" {
		review.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if review.CreatedAt.IsZero() {
		review.CreatedAt = now
	}
	review.UpdatedAt = now
	const query = `INSERT INTO reviews (id, user_id, reviewable_type, reviewable_id, content, overall_score, helpful_votes, created_at, updated_at) VALUES (:id, :user_id, :reviewable_type, :reviewable_id, :content, :overall_score, :helpful_votes, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, review); err != nil {
		if IsUniqueViolation(err) {
			return err
		}
		return fmt.Errorf("create review: %w", err)
	}
	return nil
}

// Update modifies the content and score of an existing review.
func (r *ReviewRepository) Update(ctx context.Context, review *models.Review) error {
	review.UpdatedAt = time.Now().UTC()
	const query = `UPDATE reviews SET content = :content, overall_score = :overall_score, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, review); err != nil {
		return fmt.Errorf("update review: %w", err)
	}
	return nil
}

// IncrementHelpfulVotes bumps the helpful counter.
func (r *ReviewRepository) IncrementHelpfulVotes(ctx context.Context, id string) error {
	const query = `UPDATE reviews SET helpful_votes = helpful_votes + 1 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("increment helpful votes: %w", err)
	}
	return nil
}

// Delete removes a review.
func (r *ReviewRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	return nil
}
