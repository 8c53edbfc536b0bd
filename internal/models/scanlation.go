package models

import "time"

// ScanlationGroup is a fan-translation group owned by a scanlator account.
type ScanlationGroup struct {
	ID          string    `db:"id" json:"id"`
	OwnerUserID string    `db:"owner_user_id" json:"owner_user_id"`
	Name        string    `db:"name" json:"name"`
	Website     *string   `db:"website" json:"website,omitempty"`
	Discord     *string   `db:"discord" json:"discord,omitempty"`
	Verified    bool      `db:"verified" json:"verified"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// ProjectStatus tracks the translation state of a scanlation project.
type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectHiatus    ProjectStatus = "hiatus"
	ProjectCompleted ProjectStatus = "completed"
	ProjectDropped   ProjectStatus = "dropped"
	ProjectLicensed  ProjectStatus = "licensed"
)

// Valid reports whether the status is a known project state.
func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectActive, ProjectHiatus, ProjectCompleted, ProjectDropped, ProjectLicensed:
		return true
	}
	return false
}

// ScanProject registers one group translating one media entity. At most one
// project may exist per (user, media type, media id); the database enforces it.
type ScanProject struct {
	ID        string            `db:"id" json:"id"`
	UserID    string            `db:"user_id" json:"user_id"`
	GroupID   string            `db:"group_id" json:"group_id"`
	MediaType ContributableType `db:"media_type" json:"media_type"`
	MediaID   string            `db:"media_id" json:"media_id"`
	Status    ProjectStatus     `db:"status" json:"status"`
	URL       *string           `db:"url" json:"url,omitempty"`
	CreatedAt time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt time.Time         `db:"updated_at" json:"updated_at"`

	GroupName string `db:"group_name" json:"group_name,omitempty"`
}

// CreateGroupRequest registers a new scanlation group for the caller.
type CreateGroupRequest struct {
	Name    string  `json:"name" validate:"required,min=2,max=128"`
	Website *string `json:"website" validate:"omitempty,url"`
	Discord *string `json:"discord"`
}

// RegisterProjectRequest declares that the caller's group translates a media
// entity.
type RegisterProjectRequest struct {
	GroupID   string            `json:"group_id" validate:"required"`
	MediaType ContributableType `json:"media_type" validate:"required"`
	MediaID   string            `json:"media_id" validate:"required"`
	Status    ProjectStatus     `json:"status"`
	URL       *string           `json:"url" validate:"omitempty,url"`
}

// UpdateProjectRequest changes the status or URL of a registered project.
type UpdateProjectRequest struct {
	Status ProjectStatus `json:"status" validate:"required"`
	URL    *string       `json:"url" validate:"omitempty,url"`
}

// CreateLinkRequestRequest proposes associating an existing group with a media
// entity on behalf of that group.
type CreateLinkRequestRequest struct {
	GroupID   string            `json:"group_id" validate:"required"`
	MediaType ContributableType `json:"media_type" validate:"required"`
	MediaID   string            `json:"media_id" validate:"required"`
	URL       *string           `json:"url" validate:"omitempty,url"`
}

// DecideLinkRequestRequest is the group owner's approve/reject verdict.
type DecideLinkRequestRequest struct {
	Approve bool `json:"approve"`
}

// LinkRequestStatus mirrors the moderation trio for group link proposals.
type LinkRequestStatus string

const (
	LinkRequestPending  LinkRequestStatus = "pending"
	LinkRequestApproved LinkRequestStatus = "approved"
	LinkRequestRejected LinkRequestStatus = "rejected"
)

// LinkRequest is a proposal by a non-owner user to associate an existing group
// with a media entity. Only the owning scanlator may decide it.
type LinkRequest struct {
	ID          string            `db:"id" json:"id"`
	RequesterID string            `db:"requester_id" json:"requester_id"`
	GroupID     string            `db:"group_id" json:"group_id"`
	MediaType   ContributableType `db:"media_type" json:"media_type"`
	MediaID     string            `db:"media_id" json:"media_id"`
	URL         *string           `db:"url" json:"url,omitempty"`
	Status      LinkRequestStatus `db:"status" json:"status"`
	DecidedBy   *string           `db:"decided_by" json:"decided_by,omitempty"`
	DecidedAt   *time.Time        `db:"decided_at" json:"decided_at,omitempty"`
	CreatedAt   time.Time         `db:"created_at" json:"created_at"`

	GroupName string `db:"group_name" json:"group_name,omitempty"`
}
