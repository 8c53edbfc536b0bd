package models

import "time"

// Genre is a media classification tag.
type Genre struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Studio is an animation studio or publisher.
type Studio struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Website   *string   `db:"website" json:"website,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Staff is a creator credited on media entries (author, director, composer...).
type Staff struct {
	ID         string    `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	NativeName *string   `db:"native_name" json:"native_name,omitempty"`
	Biography  *string   `db:"biography" json:"biography,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// Character is a fictional character appearing in media entries.
type Character struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	NativeName  *string   `db:"native_name" json:"native_name,omitempty"`
	Description *string   `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// VoiceActor voices characters in a given language.
type VoiceActor struct {
	ID         string    `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	NativeName *string   `db:"native_name" json:"native_name,omitempty"`
	Language   *string   `db:"language" json:"language,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// EntityFilter captures search criteria for the lookup endpoints backing the
// search-or-create selectors.
type EntityFilter struct {
	Search string
	Limit  int
}

// CreateGenreRequest adds a new genre from a selector.
type CreateGenreRequest struct {
	Name string `json:"name" validate:"required,min=2,max=64"`
}

// CreateStudioRequest adds a new studio from a selector.
type CreateStudioRequest struct {
	Name    string  `json:"name" validate:"required,min=2,max=128"`
	Website *string `json:"website" validate:"omitempty,url"`
}

// CreatePersonRequest adds a new staff member or character from a selector.
type CreatePersonRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=128"`
	NativeName  *string `json:"native_name"`
	Description *string `json:"description"`
}

// CreateVoiceActorRequest adds a new voice actor from a selector.
type CreateVoiceActorRequest struct {
	Name       string  `json:"name" validate:"required,min=2,max=128"`
	NativeName *string `json:"native_name"`
	Language   *string `json:"language"`
}
