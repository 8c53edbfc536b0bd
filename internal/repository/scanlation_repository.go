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

// ScanlationRepository manages groups, translation projects and link requests.
type ScanlationRepository struct {
	db *sqlx.DB
}

// NewScanlationRepository constructs a ScanlationRepository.
func NewScanlationRepository(db *sqlx.DB) *ScanlationRepository {
	return &ScanlationRepository{db: db}
}

// SearchGroups returns groups whose name partially matches the query.
func (r *ScanlationRepository) SearchGroups(ctx context.Context, filter models.EntityFilter) ([]models.ScanlationGroup, error) {
	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	query := "SELECT id, owner_user_id, name, website, discord, verified, created_at, updated_at FROM scanlation_groups"
	var args []interface{}
	if filter.Search != "" {
		query += " WHERE LOWER(name) LIKE $1"
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	query += fmt.Sprintf(" ORDER BY name LIMIT %d", limit)

	var groups []models.ScanlationGroup
	if err := r.db.SelectContext(ctx, &groups, query, args...); err != nil {
		return nil, fmt.Errorf("search scanlation groups: %w", err)
	}
	return groups, nil
}

// FindGroupByID fetches a group by id.
func (r *ScanlationRepository) FindGroupByID(ctx context.Context, id string) (*models.ScanlationGroup, error) {
	const query = `SELECT id, owner_user_id, name, website, discord, verified, created_at, updated_at FROM scanlation_groups WHERE id = $1`
	var group models.ScanlationGroup
	if err := r.db.GetContext(ctx, &group, query, id); err != nil {
		return nil, err
	}
	return &group, nil
}

// CreateGroup inserts a new scanlation group.
func (r *ScanlationRepository) CreateGroup(ctx context.Context, group *models.ScanlationGroup) error {
	if group.ID == "" {
		group.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if group.CreatedAt.IsZero() {
		group.CreatedAt = now
	}
	group.UpdatedAt = now
	const query = `INSERT INTO scanlation_groups (id, owner_user_id, name, website, discord, verified, created_at, updated_at) VALUES (:id, :owner_user_id, :name, :website, :discord, :verified, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, group); err != nil {
		return fmt.Errorf("create scanlation group: %w", err)
	}
	return nil
}

const projectColumns = `p.id, p.user_id, p.group_id, p.media_type, p.media_id, p.status, p.url, p.created_at, p.updated_at, g.name AS group_name`

// ListProjects returns projects, optionally filtered by user or media target.
func (r *ScanlationRepository) ListProjects(ctx context.Context, userID string, mediaType models.ContributableType, mediaID string) ([]models.ScanProject, error) {
	base := fmt.Sprintf("SELECT %s FROM scan_projects p JOIN scanlation_groups g ON g.id = p.group_id WHERE 1=1", projectColumns)
	var conditions []string
	var args []interface{}

	if userID != "" {
		conditions = append(conditions, fmt.Sprintf("p.user_id = $%d", len(args)+1))
		args = append(args, userID)
	}
	if mediaType != "" {
		conditions = append(conditions, fmt.Sprintf("p.media_type = $%d", len(args)+1))
		args = append(args, mediaType)
	}
	if mediaID != "" {
		conditions = append(conditions, fmt.Sprintf("p.media_id = $%d", len(args)+1))
		args = append(args, mediaID)
	}
	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}
	base += " ORDER BY p.created_at DESC"

	var projects []models.ScanProject
	if err := r.db.SelectContext(ctx, &projects, base, args...); err != nil {
		return nil, fmt.Errorf("list scan projects: %w", err)
	}
	return projects, nil
}

// FindProjectByID fetches a project by id.
func (r *ScanlationRepository) FindProjectByID(ctx context.Context, id string) (*models.ScanProject, error) {
	query := fmt.Sprintf("SELECT %s FROM scan_projects p JOIN scanlation_groups g ON g.id = p.group_id WHERE p.id = $1", projectColumns)
	var project models.ScanProject
	if err := r.db.GetContext(ctx, &project, query, id); err != nil {
		return nil, err
	}
	return &project, nil
}

// ProjectExists checks for an existing registration of (user, media type, media id).
// This backs the friendly pre-check; the unique constraint is the authority.
func (r *ScanlationRepository) ProjectExists(ctx context.Context, userID string, mediaType models.ContributableType, mediaID string) (bool, error) {
	const query = `SELECT 1 FROM scan_projects WHERE user_id = $1 AND media_type = $2 AND media_id = $3 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, userID, mediaType, mediaID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check scan project: %w", err)
	}
	return true, nil
}

// CreateProject inserts a new translation project. Unique-violation errors
// bubble up untouched so callers can map them to a conflict.
func (r *ScanlationRepository) CreateProject(ctx context.Context, project *models.ScanProject) error {
	if project.ID == "" {
		project.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if project.CreatedAt.IsZero() {
		project.CreatedAt = now
	}
	project.UpdatedAt = now
	const query = `INSERT INTO scan_projects (id, user_id, group_id, media_type, media_id, status, url, created_at, updated_at) VALUES (:id, :user_id, :group_id, :media_type, :media_id, :status, :url, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, project); err != nil {
		if IsUniqueViolation(err) {
			return err
		}
		return fmt.Errorf("create scan project: %w", err)
	}
	return nil
}

// UpdateProject modifies the status and URL of an existing project.
func (r *ScanlationRepository) UpdateProject(ctx context.Context, project *models.ScanProject) error {
	project.UpdatedAt = time.Now().UTC()
	const query = `UPDATE scan_projects SET status = :status, url = :url, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, project); err != nil {
		return fmt.Errorf("update scan project: %w", err)
	}
	return nil
}

// DeleteProject removes a project registration.
func (r *ScanlationRepository) DeleteProject(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM scan_projects WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete scan project: %w", err)
	}
	return nil
}

const linkRequestColumns = `lr.id, lr.requester_id, lr.group_id, lr.media_type, lr.media_id, lr.url, lr.status, lr.decided_by, lr.decided_at, lr.created_at, g.name AS group_name`

// ListLinkRequests returns link requests for the groups owned by a scanlator,
// newest first.
func (r *ScanlationRepository) ListLinkRequests(ctx context.Context, ownerUserID string, status models.LinkRequestStatus) ([]models.LinkRequest, error) {
	base := fmt.Sprintf("SELECT %s FROM link_requests lr JOIN scanlation_groups g ON g.id = lr.group_id WHERE g.owner_user_id = $1", linkRequestColumns)
	args := []interface{}{ownerUserID}
	if status != "" {
		base += fmt.Sprintf(" AND lr.status = $%d", len(args)+1)
		args = append(args, status)
	}
	base += " ORDER BY lr.created_at DESC"

	var requests []models.LinkRequest
	if err := r.db.SelectContext(ctx, &requests, base, args...); err != nil {
		return nil, fmt.Errorf("list link requests: %w", err)
	}
	return requests, nil
}

// FindLinkRequestByID fetches a link request by id.
func (r *ScanlationRepository) FindLinkRequestByID(ctx context.Context, id string) (*models.LinkRequest, error) {
	query := fmt.Sprintf("SELECT %s FROM link_requests lr JOIN scanlation_groups g ON g.id = lr.group_id WHERE lr.id = $1", linkRequestColumns)
	var request models.LinkRequest
	if err := r.db.GetContext(ctx, &request, query, id); err != nil {
		return nil, err
	}
	return &request, nil
}

// CreateLinkRequest inserts a pending link proposal.
func (r *ScanlationRepository) CreateLinkRequest(ctx context.Context, request *models.LinkRequest) error {
	if request.ID == "" {
		request.ID = uuid.NewString()
	}
	if request.Status == "" {
		request.Status = models.LinkRequestPending
	}
	if request.CreatedAt.IsZero() {
		request.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO link_requests (id, requester_id, group_id, media_type, media_id, url, status, created_at) VALUES (:id, :requester_id, :group_id, :media_type, :media_id, :url, :status, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, request); err != nil {
		return fmt.Errorf("create link request: %w", err)
	}
	return nil
}

// DecideLinkRequest resolves a pending request. Returns false when the
// request was already decided.
func (r *ScanlationRepository) DecideLinkRequest(ctx context.Context, id string, status models.LinkRequestStatus, deciderID string, decidedAt time.Time) (bool, error) {
	const query = `UPDATE link_requests SET status = $2, decided_by = $3, decided_at = $4 WHERE id = $1 AND status = 'pending'`
	res, err := r.db.ExecContext(ctx, query, id, status, deciderID, decidedAt)
	if err != nil {
		return false, fmt.Errorf("decide link request: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("decide link request: %w", err)
	}
	return affected == 1, nil
}
