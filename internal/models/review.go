package models

import "time"

// Review is a user-authored review of a media entity. One review per
// (user, reviewable type, reviewable id); the database enforces it.
type Review struct {
	ID             string            `db:"id" json:"id"`
	UserID         string            `db:"user_id" json:"user_id"`
	ReviewableType ContributableType `db:"reviewable_type" json:"reviewable_type"`
	ReviewableID   string            `db:"reviewable_id" json:"reviewable_id"`
	Content        string            `db:"content" json:"content"`
	OverallScore   int               `db:"overall_score" json:"overall_score"`
	HelpfulVotes   int               `db:"helpful_votes" json:"helpful_votes"`
	CreatedAt      time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time         `db:"updated_at" json:"updated_at"`

	Username string `db:"username" json:"username,omitempty"`
}

// UpsertReviewRequest creates or replaces the caller's review of one entity.
type UpsertReviewRequest struct {
	ReviewableType ContributableType `json:"reviewable_type" validate:"required"`
	ReviewableID   string            `json:"reviewable_id" validate:"required"`
	Content        string            `json:"content" validate:"required,min=20"`
	OverallScore   int               `json:"overall_score" validate:"required,min=1,max=10"`
}

// ReviewFilter captures listing criteria for review queries.
type ReviewFilter struct {
	ReviewableType ContributableType
	ReviewableID   string
	Page           int
	PageSize       int
}
