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

// CharacterRepository manages persistence for characters.
type CharacterRepository struct {
	db *sqlx.DB
}

// NewCharacterRepository constructs a CharacterRepository.
func NewCharacterRepository(db *sqlx.DB) *CharacterRepository {
	return &CharacterRepository{db: db}
}

// Search returns characters whose name partially matches the query.
func (r *CharacterRepository) Search(ctx context.Context, filter models.EntityFilter) ([]models.Character, error) {
	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	query := "SELECT id, name, native_name, description, created_at, updated_at FROM characters"
	var args []interface{}
	if filter.Search != "" {
		query += " WHERE LOWER(name) LIKE $1 OR LOWER(COALESCE(native_name, '')) LIKE $1"
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	query += fmt.Sprintf(" ORDER BY name LIMIT %d", limit)

	var characters []models.Character
	if err := r.db.SelectContext(ctx, &characters, query, args...); err != nil {
		return nil, fmt.Errorf("search characters: %w", err)
	}
	return characters, nil
}

// FindByID fetches a character by id.
func (r *CharacterRepository) FindByID(ctx context.Context, id string) (*models.Character, error) {
	const query = `SELECT id, name, native_name, description, created_at, updated_at FROM characters WHERE id = $1`
	var character models.Character
	if err := r.db.GetContext(ctx, &character, query, id); err != nil {
		return nil, err
	}
	return &character, nil
}

// Create inserts a new character.
func (r *CharacterRepository) Create(ctx context.Context, character *models.Character) error {
	if character.ID == "" {
		character.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if character.CreatedAt.IsZero() {
		character.CreatedAt = now
	}
	character.UpdatedAt = now
	const query = `INSERT INTO characters (id, name, native_name, description, created_at, updated_at) VALUES (:id, :name, :native_name, :description, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, character); err != nil {
		return fmt.Errorf("create character: %w", err)
	}
	return nil
}

// Update modifies an existing character.
func (r *CharacterRepository) Update(ctx context.Context, character *models.Character) error {
	character.UpdatedAt = time.Now().UTC()
	const query = `UPDATE characters SET name = :name, native_name = :native_name, description = :description, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, character); err != nil {
		return fmt.Errorf("update character: %w", err)
	}
	return nil
}
