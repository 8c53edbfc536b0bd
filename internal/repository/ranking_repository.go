package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// RankingRepository drives the materialized ranking views.
type RankingRepository struct {
	db *sqlx.DB
}

// NewRankingRepository constructs a RankingRepository.
func NewRankingRepository(db *sqlx.DB) *RankingRepository {
	return &RankingRepository{db: db}
}

// rankingRefreshRow mirrors the JSON payload returned by the database-side
// refresh function.
type rankingRefreshRow struct {
	Success         bool     `json:"success"`
	Message         string   `json:"message"`
	DurationSeconds float64  `json:"duration_seconds"`
	RefreshedViews  []string `json:"refreshed_views"`
}

// Refresh runs the refresh_ranking_views() function and decodes its result.
func (r *RankingRepository) Refresh(ctx context.Context) (bool, string, float64, []string, error) {
	var raw json.RawMessage
	if err := r.db.GetContext(ctx, &raw, `SELECT refresh_ranking_views()`); err != nil {
		return false, "", 0, nil, fmt.Errorf("refresh ranking views: %w", err)
	}
	var row rankingRefreshRow
	if err := json.Unmarshal(raw, &row); err != nil {
		return false, "", 0, nil, fmt.Errorf("decode ranking refresh result: %w", err)
	}
	return row.Success, row.Message, row.DurationSeconds, row.RefreshedViews, nil
}

// LastRefreshedAt returns the timestamp of the most recent completed refresh,
// or a zero time when no refresh has run yet.
func (r *RankingRepository) LastRefreshedAt(ctx context.Context) (time.Time, error) {
	var last time.Time
	err := r.db.GetContext(ctx, &last, `SELECT refreshed_at FROM ranking_refresh_log ORDER BY refreshed_at DESC LIMIT 1`)
	if err != nil {
		if err == sql.ErrNoRows {
			return time.Time{}, nil
		}
		return time.Time{}, fmt.Errorf("last ranking refresh: %w", err)
	}
	return last, nil
}

// RecordRefresh appends a row to the refresh log.
func (r *RankingRepository) RecordRefresh(ctx context.Context, refreshedAt time.Time, refreshType string, durationSeconds float64) error {
	const query = `INSERT INTO ranking_refresh_log (refreshed_at, refresh_type, duration_seconds) VALUES ($1, $2, $3)`
	if _, err := r.db.ExecContext(ctx, query, refreshedAt, refreshType, durationSeconds); err != nil {
		return fmt.Errorf("record ranking refresh: %w", err)
	}
	return nil
}
