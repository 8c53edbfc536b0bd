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

// VoiceActorRepository manages persistence for voice actors.
type VoiceActorRepository struct {
	db *sqlx.DB
}

// NewVoiceActorRepository constructs a VoiceActorRepository.
func NewVoiceActorRepository(db *sqlx.DB) *VoiceActorRepository {
	return &VoiceActorRepository{db: db}
}

// Search returns voice actors whose name partially matches the query.
func (r *VoiceActorRepository) Search(ctx context.Context, filter models.EntityFilter) ([]models.VoiceActor, error) {
	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	query := "SELECT id, name, native_name, language, created_at, updated_at FROM voice_actors"
	var args []interface{}
	if filter.Search != "" {
		query += " WHERE LOWER(name) LIKE $1 OR LOWER(COALESCE(native_name, '')) LIKE $1"
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	query += fmt.Sprintf(" ORDER BY name LIMIT %d", limit)

	var actors []models.VoiceActor
	if err := r.db.SelectContext(ctx, &actors, query, args...); err != nil {
		return nil, fmt.Errorf("search voice actors: %w", err)
	}
	return actors, nil
}

// FindByID fetches a voice actor by id.
func (r *VoiceActorRepository) FindByID(ctx context.Context, id string) (*models.VoiceActor, error) {
	const query = `SELECT id, name, native_name, language, created_at, updated_at FROM voice_actors WHERE id = $1`
	var actor models.VoiceActor
	if err := r.db.GetContext(ctx, &actor, query, id); err != nil {
		return nil, err
	}
	return &actor, nil
}

// Create inserts a new voice actor.
func (r *VoiceActorRepository) Create(ctx context.Context, actor *models.VoiceActor) error {
	if actor.ID == "" {
		actor.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if actor.CreatedAt.IsZero() {
		actor.CreatedAt = now
	}
	actor.UpdatedAt = now
	const query = `INSERT INTO voice_actors (id, name, native_name, language, created_at, updated_at) VALUES (:id, :name, :native_name, :language, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, actor); err != nil {
		return fmt.Errorf("create voice actor: %w", err)
	}
	return nil
}

// Update modifies an existing voice actor.
func (r *VoiceActorRepository) Update(ctx context.Context, actor *models.VoiceActor) error {
	actor.UpdatedAt = time.Now().UTC()
	const query = `UPDATE voice_actors SET name = :name, native_name = :native_name, language = :language, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, actor); err != nil {
		return fmt.Errorf("update voice actor: %w", err)
	}
	return nil
}
