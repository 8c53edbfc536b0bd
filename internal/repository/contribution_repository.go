package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/otakupedia/catalog-api/internal/models"
)

// ContributionRepository manages persistence for community contributions.
type ContributionRepository struct {
	db *sqlx.DB
}

// NewContributionRepository constructs a ContributionRepository.
func NewContributionRepository(db *sqlx.DB) *ContributionRepository {
	return &ContributionRepository{db: db}
}

const contributionColumns = `id, user_id, contributable_type, contributable_id, contribution_type, status, contribution_data, proposed_changes, contribution_notes, sources, rejection_reason, awarded_points, reviewed_by, reviewed_at, created_at`

// Create inserts a new pending contribution row.
func (r *ContributionRepository) Create(ctx context.Context, c *models.Contribution) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Status == "" {
		c.Status = models.ContributionPending
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO contributions (id, user_id, contributable_type, contributable_id, contribution_type, status, contribution_data, proposed_changes, contribution_notes, sources, awarded_points, created_at)
		VALUES (:id, :user_id, :contributable_type, :contributable_id, :contribution_type, :status, :contribution_data, :proposed_changes, :contribution_notes, :sources, :awarded_points, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, c); err != nil {
		return fmt.Errorf("create contribution: %w", err)
	}
	return nil
}

// FindByID fetches a contribution by id.
func (r *ContributionRepository) FindByID(ctx context.Context, id string) (*models.Contribution, error) {
	query := fmt.Sprintf("SELECT %s FROM contributions WHERE id = $1", contributionColumns)
	var c models.Contribution
	if err := r.db.GetContext(ctx, &c, query, id); err != nil {
		return nil, err
	}
	return &c, nil
}

// FindUserInfo loads the public projection of the contributor for detail views.
func (r *ContributionRepository) FindUserInfo(ctx context.Context, userID string) (*models.UserInfo, error) {
	const query = `SELECT id, email, username, role FROM users WHERE id = $1`
	var info models.UserInfo
	if err := r.db.GetContext(ctx, &info, query, userID); err != nil {
		return nil, err
	}
	return &info, nil
}

// List returns contributions matching filters along with total count.
func (r *ContributionRepository) List(ctx context.Context, filter models.ContributionFilter) ([]models.Contribution, int, error) {
	base := "FROM contributions WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}
	if filter.ContributableType != nil {
		conditions = append(conditions, fmt.Sprintf("contributable_type = $%d", len(args)+1))
		args = append(args, *filter.ContributableType)
	}
	if filter.UserID != "" {
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", len(args)+1))
		args = append(args, filter.UserID)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]string{
		"created_at":  "created_at",
		"reviewed_at": "reviewed_at",
		"status":      "status",
	}
	column, ok := allowedSorts[sortBy]
	if !ok {
		column = "created_at"
	}

	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", contributionColumns, base, column, order, size, offset)
	var contributions []models.Contribution
	if err := r.db.SelectContext(ctx, &contributions, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list contributions: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count contributions: %w", err)
	}

	return contributions, total, nil
}

// MarkInReview parks a pending contribution in the advisory in_review state.
// Returns false when the row was no longer pending.
func (r *ContributionRepository) MarkInReview(ctx context.Context, id, reviewerID string) (bool, error) {
	const query = `UPDATE contributions SET status = 'in_review', reviewed_by = $2 WHERE id = $1 AND status = 'pending'`
	res, err := r.db.ExecContext(ctx, query, id, reviewerID)
	if err != nil {
		return false, fmt.Errorf("mark contribution in review: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("mark contribution in review: %w", err)
	}
	return affected == 1, nil
}

// Approve flips an undecided contribution to approved and records the award.
// The status guard makes a second approval a no-op; callers treat the false
// return as a conflict.
func (r *ContributionRepository) Approve(ctx context.Context, id, reviewerID string, points int, reviewedAt time.Time) (bool, error) {
	const query = `UPDATE contributions SET status = 'approved', reviewed_by = $2, awarded_points = $3, reviewed_at = $4 WHERE id = $1 AND status IN ('pending', 'in_review')`
	res, err := r.db.ExecContext(ctx, query, id, reviewerID, points, reviewedAt)
	if err != nil {
		return false, fmt.Errorf("approve contribution: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("approve contribution: %w", err)
	}
	return affected == 1, nil
}

// Reopen reverts an approved contribution back to pending so the decision can
// be retried. Used when the catalog write that follows the approval fails.
func (r *ContributionRepository) Reopen(ctx context.Context, id string) error {
	const query = `UPDATE contributions SET status = 'pending', reviewed_by = NULL, awarded_points = 0, reviewed_at = NULL WHERE id = $1 AND status = 'approved'`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("reopen contribution: %w", err)
	}
	return nil
}

// Reject flips an undecided contribution to rejected with a mandatory reason.
func (r *ContributionRepository) Reject(ctx context.Context, id, reviewerID, reason string, reviewedAt time.Time) (bool, error) {
	const query = `UPDATE contributions SET status = 'rejected', reviewed_by = $2, rejection_reason = $3, reviewed_at = $4 WHERE id = $1 AND status IN ('pending', 'in_review')`
	res, err := r.db.ExecContext(ctx, query, id, reviewerID, reason, reviewedAt)
	if err != nil {
		return false, fmt.Errorf("reject contribution: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("reject contribution: %w", err)
	}
	return affected == 1, nil
}

// CountByStatus reports queue sizes for moderation dashboards and exports.
func (r *ContributionRepository) CountByStatus(ctx context.Context) (map[models.ContributionStatus]int, error) {
	const query = `SELECT status, COUNT(*) AS total FROM contributions GROUP BY status`
	rows, err := r.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("count contributions by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.ContributionStatus]int)
	for rows.Next() {
		var status models.ContributionStatus
		var total int
		if err := rows.Scan(&status, &total); err != nil {
			return nil, fmt.Errorf("scan contribution count: %w", err)
		}
		counts[status] = total
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contribution counts: %w", err)
	}
	return counts, nil
}

// ListDecidedBetween returns decided contributions inside a time window,
// oldest first. Used by moderation activity exports.
func (r *ContributionRepository) ListDecidedBetween(ctx context.Context, from, to time.Time) ([]models.Contribution, error) {
	query := fmt.Sprintf("SELECT %s FROM contributions WHERE status IN ('approved', 'rejected') AND reviewed_at >= $1 AND reviewed_at < $2 ORDER BY reviewed_at ASC", contributionColumns)
	var contributions []models.Contribution
	if err := r.db.SelectContext(ctx, &contributions, query, from, to); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("list decided contributions: %w", err)
	}
	return contributions, nil
}
