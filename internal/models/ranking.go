package models

import "time"

// RankingRefreshResult is the payload reported by the ranking refresh
// stored procedure, augmented with API-side measurements.
type RankingRefreshResult struct {
	Success            bool       `json:"success"`
	Message            string     `json:"message"`
	Timestamp          time.Time  `json:"timestamp"`
	DurationSeconds    float64    `json:"duration_seconds"`
	APIDurationSeconds float64    `json:"api_duration_seconds"`
	RefreshedViews     []string   `json:"refreshed_views,omitempty"`
	NextRefresh        *time.Time `json:"next_refresh,omitempty"`
	Type               string     `json:"type,omitempty"`
	Skipped            bool       `json:"skipped,omitempty"`
}
