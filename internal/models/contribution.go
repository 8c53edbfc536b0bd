package models

import (
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx/types"
)

// ContributableType is the polymorphic target taxonomy a contribution applies to.
type ContributableType string

const (
	ContributableAnime      ContributableType = "anime"
	ContributableManga      ContributableType = "manga"
	ContributableNovel      ContributableType = "novel"
	ContributableDonghua    ContributableType = "donghua"
	ContributableManhua     ContributableType = "manhua"
	ContributableManhwa     ContributableType = "manhwa"
	ContributableFanComic   ContributableType = "fan_comic"
	ContributableCharacter  ContributableType = "character"
	ContributableStaff      ContributableType = "staff"
	ContributableVoiceActor ContributableType = "voice_actor"
	ContributableStudio     ContributableType = "studio"
	ContributableGenre      ContributableType = "genre"
)

// MediaContributables lists the taxonomy buckets that resolve to media tables.
var MediaContributables = map[ContributableType]struct{}{
	ContributableAnime:    {},
	ContributableManga:    {},
	ContributableNovel:    {},
	ContributableDonghua:  {},
	ContributableManhua:   {},
	ContributableManhwa:   {},
	ContributableFanComic: {},
}

// IsMedia reports whether the type targets a media entity rather than a
// person/organisation record.
func (t ContributableType) IsMedia() bool {
	_, ok := MediaContributables[t]
	return ok
}

// Valid reports whether the type belongs to the known taxonomy.
func (t ContributableType) Valid() bool {
	switch t {
	case ContributableAnime, ContributableManga, ContributableNovel,
		ContributableDonghua, ContributableManhua, ContributableManhwa,
		ContributableFanComic, ContributableCharacter, ContributableStaff,
		ContributableVoiceActor, ContributableStudio, ContributableGenre:
		return true
	}
	return false
}

// ContributionType distinguishes new-entity proposals from edits.
type ContributionType string

const (
	ContributionFull         ContributionType = "full"
	ContributionAddInfo      ContributionType = "add_info"
	ContributionModification ContributionType = "modification"
	ContributionReport       ContributionType = "report"
)

// IsEdit reports whether the type targets an existing row. Edit-style
// contributions must carry a non-nil contributable id; full/report ones
// must not.
func (t ContributionType) IsEdit() bool {
	return t == ContributionAddInfo || t == ContributionModification
}

// ContributionStatus tracks the moderation lifecycle.
type ContributionStatus string

const (
	ContributionPending  ContributionStatus = "pending"
	ContributionInReview ContributionStatus = "in_review"
	ContributionApproved ContributionStatus = "approved"
	ContributionRejected ContributionStatus = "rejected"
)

// FieldChange captures the before/after values of a single edited field.
type FieldChange struct {
	Old interface{} `json:"old"`
	New interface{} `json:"new"`
}

// Contribution is a user-submitted proposal awaiting a moderator decision.
type Contribution struct {
	ID                string             `db:"id" json:"id"`
	UserID            string             `db:"user_id" json:"user_id"`
	ContributableType ContributableType  `db:"contributable_type" json:"contributable_type"`
	ContributableID   *string            `db:"contributable_id" json:"contributable_id"`
	ContributionType  ContributionType   `db:"contribution_type" json:"contribution_type"`
	Status            ContributionStatus `db:"status" json:"status"`
	// JSONText scans SQL NULL as an empty document; full and report
	// contributions store proposed_changes = NULL.
	ContributionData  types.JSONText     `db:"contribution_data" json:"contribution_data,omitempty"`
	ProposedChanges   types.JSONText     `db:"proposed_changes" json:"proposed_changes,omitempty"`
	ContributionNotes *string            `db:"contribution_notes" json:"contribution_notes,omitempty"`
	Sources           *string            `db:"sources" json:"sources,omitempty"`
	RejectionReason   *string            `db:"rejection_reason" json:"rejection_reason,omitempty"`
	AwardedPoints     int                `db:"awarded_points" json:"awarded_points"`
	ReviewedBy        *string            `db:"reviewed_by" json:"reviewed_by,omitempty"`
	ReviewedAt        *time.Time         `db:"reviewed_at" json:"reviewed_at,omitempty"`
	CreatedAt         time.Time          `db:"created_at" json:"created_at"`

	// Populated via JOIN for moderation views; never written back.
	User *UserInfo `db:"-" json:"user,omitempty"`
}

// DecodeChanges unmarshals the stored sparse field diff.
func (c *Contribution) DecodeChanges() (map[string]FieldChange, error) {
	if len(c.ProposedChanges) == 0 {
		return nil, nil
	}
	changes := map[string]FieldChange{}
	if err := json.Unmarshal(c.ProposedChanges, &changes); err != nil {
		return nil, err
	}
	return changes, nil
}

// DecodeData unmarshals the opaque payload into a generic map.
func (c *Contribution) DecodeData() (map[string]interface{}, error) {
	if len(c.ContributionData) == 0 {
		return nil, nil
	}
	data := map[string]interface{}{}
	if err := json.Unmarshal(c.ContributionData, &data); err != nil {
		return nil, err
	}
	return data, nil
}

// SubmitContributionRequest is the payload accepted by the submission
// endpoints. Data holds the type-specific form fields before normalization.
type SubmitContributionRequest struct {
	ContributableType ContributableType      `json:"contributable_type" validate:"required"`
	ContributableID   *string                `json:"contributable_id"`
	ContributionType  ContributionType       `json:"contribution_type" validate:"required"`
	Data              map[string]interface{} `json:"data" validate:"required"`
	Notes             *string                `json:"notes"`
	Sources           *string                `json:"sources"`
}

// RejectContributionRequest carries the mandatory moderator reason.
type RejectContributionRequest struct {
	Reason string `json:"reason" validate:"required,min=3"`
}

// ContributionFilter captures listing criteria for moderation queues.
type ContributionFilter struct {
	Status            *ContributionStatus
	ContributableType *ContributableType
	UserID            string
	Page              int
	PageSize          int
	SortBy            string
	SortOrder         string
}
