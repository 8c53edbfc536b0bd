package models

import "time"

// MediaStatus enumerates publication states for serialized media.
type MediaStatus string

const (
	MediaOngoing   MediaStatus = "ongoing"
	MediaCompleted MediaStatus = "completed"
	MediaHiatus    MediaStatus = "hiatus"
	MediaCancelled MediaStatus = "cancelled"
	MediaUpcoming  MediaStatus = "upcoming"
)

// MediaEntity is a canonical media record (anime, manga, novel and the rest of
// the taxonomy share one table keyed by media_type).
type MediaEntity struct {
	ID              string            `db:"id" json:"id"`
	MediaType       ContributableType `db:"media_type" json:"media_type"`
	TitleRomaji     string            `db:"title_romaji" json:"title_romaji"`
	TitleEnglish    *string           `db:"title_english" json:"title_english,omitempty"`
	TitleSpanish    *string           `db:"title_spanish" json:"title_spanish,omitempty"`
	TitleNative     *string           `db:"title_native" json:"title_native,omitempty"`
	Synopsis        string            `db:"synopsis" json:"synopsis"`
	Background      *string           `db:"background" json:"background,omitempty"`
	Format          *string           `db:"format" json:"format,omitempty"`
	CountryOfOrigin *string           `db:"country_of_origin" json:"country_of_origin,omitempty"`
	Status          MediaStatus       `db:"status" json:"status"`
	StartDate       *time.Time        `db:"start_date" json:"start_date,omitempty"`
	EndDate         *time.Time        `db:"end_date" json:"end_date,omitempty"`
	EpisodeCount    *int              `db:"episode_count" json:"episode_count,omitempty"`
	ChapterCount    *int              `db:"chapter_count" json:"chapter_count,omitempty"`
	VolumeCount     *int              `db:"volume_count" json:"volume_count,omitempty"`
	MALID           *int64            `db:"mal_id" json:"mal_id,omitempty"`
	AniListID       *int64            `db:"anilist_id" json:"anilist_id,omitempty"`
	KitsuID         *int64            `db:"kitsu_id" json:"kitsu_id,omitempty"`
	Adult           bool              `db:"adult" json:"adult"`
	CreatedAt       time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time         `db:"updated_at" json:"updated_at"`
}

// StaffCredit binds a staff member to a media entity with a role.
type StaffCredit struct {
	StaffID string `db:"staff_id" json:"id"`
	Name    string `db:"name" json:"name"`
	Role    string `db:"role" json:"role"`
}

// CharacterCredit binds a character to a media entity, optionally carrying
// per-language voice-actor bindings.
type CharacterCredit struct {
	CharacterID string         `db:"character_id" json:"id"`
	Name        string         `db:"name" json:"name"`
	Role        string         `db:"role" json:"role"`
	VoiceActors []VoiceBinding `db:"-" json:"voice_actors,omitempty"`
}

// VoiceBinding associates a voice actor and language with a character credit.
type VoiceBinding struct {
	VoiceActorID string `db:"voice_actor_id" json:"id"`
	Name         string `db:"name" json:"name"`
	Language     string `db:"language" json:"language"`
}

// ExternalLinkCategory classifies the origin of an external link.
type ExternalLinkCategory string

const (
	LinkOfficial       ExternalLinkCategory = "official"
	LinkStreaming      ExternalLinkCategory = "streaming"
	LinkFanTranslation ExternalLinkCategory = "fan_translation"
)

// ExternalLink is a categorised outbound link attached to a media entity.
// Fan-translation links may reference a scanlation group.
type ExternalLink struct {
	ID       string               `db:"id" json:"id"`
	MediaID  string               `db:"media_id" json:"media_id"`
	Category ExternalLinkCategory `db:"category" json:"category"`
	SiteName string               `db:"site_name" json:"site_name"`
	URL      string               `db:"url" json:"url"`
	Status   *string              `db:"status" json:"status,omitempty"`
	GroupID  *string              `db:"group_id" json:"group_id,omitempty"`
}

// MediaDetail aggregates a media entity with its relations for detail views
// and for the merge step of edit approvals.
type MediaDetail struct {
	MediaEntity
	Genres        []Genre           `json:"genres"`
	Studios       []Studio          `json:"studios"`
	Staff         []StaffCredit     `json:"staff"`
	Characters    []CharacterCredit `json:"characters"`
	ExternalLinks []ExternalLink    `json:"external_links"`
}
