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

// GenreRepository manages persistence for genres.
type GenreRepository struct {
	db *sqlx.DB
}

// NewGenreRepository constructs a GenreRepository.
func NewGenreRepository(db *sqlx.DB) *GenreRepository {
	return &GenreRepository{db: db}
}

// Search returns genres whose name partially matches the query.
func (r *GenreRepository) Search(ctx context.Context, filter models.EntityFilter) ([]models.Genre, error) {
	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	query := "SELECT id, name, created_at FROM genres"
	var args []interface{}
	if filter.Search != "" {
		query += " WHERE LOWER(name) LIKE $1"
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	query += fmt.Sprintf(" ORDER BY name LIMIT %d", limit)

	var genres []models.Genre
	if err := r.db.SelectContext(ctx, &genres, query, args...); err != nil {
		return nil, fmt.Errorf("search genres: %w", err)
	}
	return genres, nil
}

// FindByID fetches a genre by id.
func (r *GenreRepository) FindByID(ctx context.Context, id string) (*models.Genre, error) {
	const query = `SELECT id, name, created_at FROM genres WHERE id = $1`
	var genre models.Genre
	if err := r.db.GetContext(ctx, &genre, query, id); err != nil {
		return nil, err
	}
	return &genre, nil
}

// Create inserts a new genre.
func (r *GenreRepository) Create(ctx context.Context, genre *models.Genre) error {
	if genre.ID == "" {
		genre.ID = uuid.NewString()
	}
	if genre.CreatedAt.IsZero() {
		genre.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO genres (id, name, created_at) VALUES (:id, :name, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, genre); err != nil {
		return fmt.Errorf("create genre: %w", err)
	}
	return nil
}
