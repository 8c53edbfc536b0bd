package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/otakupedia/catalog-api/internal/models"
)

// StudioRepository manages persistence for studios.
type StudioRepository struct {
	db *sqlx.DB
}

// NewStudioRepository constructs a StudioRepository.
func NewStudioRepository(db *sqlx.DB) *StudioRepository {
	return &StudioRepository{db: db}
}

// Search returns studios whose name partially matches the query.
func (r *StudioRepository) Search(ctx context.Context, filter models.EntityFilter) ([]models.Studio, error) {
	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	query := "SELECT id, name, website, created_at, updated_at FROM studios"
	var args []interface{}
	if filter.Search != "" {
		query += " WHERE LOWER(name) LIKE $1"
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	query += fmt.Sprintf(" ORDER BY name LIMIT %d", limit)

	var studios []models.Studio
	if err := r.db.SelectContext(ctx, &studios, query, args...); err != nil {
		return nil, fmt.Errorf("search studios: %w", err)
	}
	return studios, nil
}

// FindByID fetches a studio by id.
func (r *StudioRepository) FindByID(ctx context.Context, id string) (*models.Studio, error) {
	const query = `SELECT id, name, website, created_at, updated_at FROM studios WHERE id = $1`
	var studio models.Studio
	if err := r.db.GetContext(ctx, &studio, query, id); err != nil {
		return nil, err
	}
	return &studio, nil
}

// Create inserts a new studio.
func (r *StudioRepository) Create(ctx context.Context, studio *models.Studio) error {
	if studio.ID == "" {
		studio.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if studio.CreatedAt.IsZero() {
		studio.CreatedAt = now
	}
	studio.UpdatedAt = now
	const query = `INSERT INTO studios (id, name, website, created_at, updated_at) VALUES (:id, :name, :website, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, studio); err != nil {
		return fmt.Errorf("create studio: %w", err)
	}
	return nil
}

// Update modifies an existing studio.
func (r *StudioRepository) Update(ctx context.Context, studio *models.Studio) error {
	studio.UpdatedAt = time.Now().UTC()
	const query = `UPDATE studios SET name = :name, website = :website, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, studio); err != nil {
		return fmt.Errorf("update studio: %w", err)
	}
	return nil
}
