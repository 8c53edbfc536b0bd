package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/otakupedia/catalog-api/internal/models"
)

// MediaRepository manages canonical media entities and their relation sets.
type MediaRepository struct {
	db *sqlx.DB
}

// NewMediaRepository constructs a MediaRepository.
func NewMediaRepository(db *sqlx.DB) *MediaRepository {
	return &MediaRepository{db: db}
}

const mediaColumns = `id, media_type, title_romaji, title_english, title_spanish, title_native, synopsis, background, format, country_of_origin, status, start_date, end_date, episode_count, chapter_count, volume_count, mal_id, anilist_id, kitsu_id, adult, created_at, updated_at`

// FindByID fetches a media entity by id.
func (r *MediaRepository) FindByID(ctx context.Context, id string) (*models.MediaEntity, error) {
	query := fmt.Sprintf("SELECT %s FROM media_entities WHERE id = $1", mediaColumns)
	var media models.MediaEntity
	if err := r.db.GetContext(ctx, &media, query, id); err != nil {
		return nil, err
	}
	return &media, nil
}

// Create inserts a new media entity.
func (r *MediaRepository) Create(ctx context.Context, media *models.MediaEntity) error {
	if media.ID == "" {
		media.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if media.CreatedAt.IsZero() {
		media.CreatedAt = now
	}
	media.UpdatedAt = now

	const query = `INSERT INTO media_entities (id, media_type, title_romaji, title_english, title_spanish, title_native, synopsis, background, format, country_of_origin, status, start_date, end_date, episode_count, chapter_count, volume_count, mal_id, anilist_id, kitsu_id, adult, created_at, updated_at)
		VALUES (:id, :media_type, :title_romaji, :title_english, :title_spanish, :title_native, :synopsis, :background, :format, :country_of_origin, :status, :start_date, :end_date, :episode_count, :chapter_count, :volume_count, :mal_id, :anilist_id, :kitsu_id, :adult, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, media); err != nil {
		return fmt.Errorf("create media entity: %w", err)
	}
	return nil
}

// Update modifies an existing media entity.
func (r *MediaRepository) Update(ctx context.Context, media *models.MediaEntity) error {
	media.UpdatedAt = time.Now().UTC()
	const query = `UPDATE media_entities SET title_romaji = :title_romaji, title_english = :title_english, title_spanish = :title_spanish, title_native = :title_native, synopsis = :synopsis, background = :background, format = :format, country_of_origin = :country_of_origin, status = :status, start_date = :start_date, end_date = :end_date, episode_count = :episode_count, chapter_count = :chapter_count, volume_count = :volume_count, mal_id = :mal_id, anilist_id = :anilist_id, kitsu_id = :kitsu_id, adult = :adult, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, media); err != nil {
		return fmt.Errorf("update media entity: %w", err)
	}
	return nil
}

// ReplaceGenres swaps the full genre set of a media entity.
func (r *MediaRepository) ReplaceGenres(ctx context.Context, mediaID string, genreIDs []string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM media_genres WHERE media_id = $1`, mediaID); err != nil {
		return fmt.Errorf("clear media genres: %w", err)
	}
	for _, genreID := range genreIDs {
		if _, err := r.db.ExecContext(ctx, `INSERT INTO media_genres (media_id, genre_id) VALUES ($1, $2)`, mediaID, genreID); err != nil {
			return fmt.Errorf("insert media genre: %w", err)
		}
	}
	return nil
}

// ReplaceStudios swaps the full studio set of a media entity.
func (r *MediaRepository) ReplaceStudios(ctx context.Context, mediaID string, studioIDs []string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM media_studios WHERE media_id = $1`, mediaID); err != nil {
		return fmt.Errorf("clear media studios: %w", err)
	}
	for _, studioID := range studioIDs {
		if _, err := r.db.ExecContext(ctx, `INSERT INTO media_studios (media_id, studio_id) VALUES ($1, $2)`, mediaID, studioID); err != nil {
			return fmt.Errorf("insert media studio: %w", err)
		}
	}
	return nil
}

// ReplaceStaff swaps the credited staff of a media entity.
func (r *MediaRepository) ReplaceStaff(ctx context.Context, mediaID string, credits []models.StaffCredit) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM media_staff WHERE media_id = $1`, mediaID); err != nil {
		return fmt.Errorf("clear media staff: %w", err)
	}
	for _, credit := range credits {
		if _, err := r.db.ExecContext(ctx, `INSERT INTO media_staff (media_id, staff_id, role) VALUES ($1, $2, $3)`, mediaID, credit.StaffID, credit.Role); err != nil {
			return fmt.Errorf("insert media staff: %w", err)
		}
	}
	return nil
}

// ReplaceCharacters swaps the character credits of a media entity, including
// per-language voice-actor bindings.
func (r *MediaRepository) ReplaceCharacters(ctx context.Context, mediaID string, credits []models.CharacterCredit) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM media_character_voices WHERE media_id = $1`, mediaID); err != nil {
		return fmt.Errorf("clear character voices: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM media_characters WHERE media_id = $1`, mediaID); err != nil {
		return fmt.Errorf("clear media characters: %w", err)
	}
	for _, credit := range credits {
		if _, err := r.db.ExecContext(ctx, `INSERT INTO media_characters (media_id, character_id, role) VALUES ($1, $2, $3)`, mediaID, credit.CharacterID, credit.Role); err != nil {
			return fmt.Errorf("insert media character: %w", err)
		}
		for _, voice := range credit.VoiceActors {
			if _, err := r.db.ExecContext(ctx, `INSERT INTO media_character_voices (media_id, character_id, voice_actor_id, language) VALUES ($1, $2, $3, $4)`, mediaID, credit.CharacterID, voice.VoiceActorID, voice.Language); err != nil {
				return fmt.Errorf("insert character voice: %w", err)
			}
		}
	}
	return nil
}

// ReplaceExternalLinks swaps the categorised external links of a media entity.
func (r *MediaRepository) ReplaceExternalLinks(ctx context.Context, mediaID string, links []models.ExternalLink) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM external_links WHERE media_id = $1`, mediaID); err != nil {
		return fmt.Errorf("clear external links: %w", err)
	}
	for _, link := range links {
		id := link.ID
		if id == "" {
			id = uuid.NewString()
		}
		if _, err := r.db.ExecContext(ctx, `INSERT INTO external_links (id, media_id, category, site_name, url, status, group_id) VALUES ($1, $2, $3, $4, $5, $6, $7)`, id, mediaID, link.Category, link.SiteName, link.URL, link.Status, link.GroupID); err != nil {
			return fmt.Errorf("insert external link: %w", err)
		}
	}
	return nil
}

// AppendExternalLink adds a single external link without touching the rest.
// Used when an approved link request attaches a fan-translation entry.
func (r *MediaRepository) AppendExternalLink(ctx context.Context, link models.ExternalLink) error {
	if link.ID == "" {
		link.ID = uuid.NewString()
	}
	const query = `INSERT INTO external_links (id, media_id, category, site_name, url, status, group_id) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := r.db.ExecContext(ctx, query, link.ID, link.MediaID, link.Category, link.SiteName, link.URL, link.Status, link.GroupID); err != nil {
		return fmt.Errorf("append external link: %w", err)
	}
	return nil
}

// FindDetail loads a media entity with all relation sets attached.
func (r *MediaRepository) FindDetail(ctx context.Context, id string) (*models.MediaDetail, error) {
	media, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &models.MediaDetail{MediaEntity: *media}

	const genreQuery = `SELECT g.id, g.name, g.created_at FROM genres g JOIN media_genres mg ON mg.genre_id = g.id WHERE mg.media_id = $1 ORDER BY g.name`
	if err := r.db.SelectContext(ctx, &detail.Genres, genreQuery, id); err != nil {
		return nil, fmt.Errorf("load media genres: %w", err)
	}

	const studioQuery = `SELECT s.id, s.name, s.website, s.created_at, s.updated_at FROM studios s JOIN media_studios ms ON ms.studio_id = s.id WHERE ms.media_id = $1 ORDER BY s.name`
	if err := r.db.SelectContext(ctx, &detail.Studios, studioQuery, id); err != nil {
		return nil, fmt.Errorf("load media studios: %w", err)
	}

	const staffQuery = `SELECT st.id AS staff_id, st.name, ms.role FROM staff st JOIN media_staff ms ON ms.staff_id = st.id WHERE ms.media_id = $1 ORDER BY st.name`
	if err := r.db.SelectContext(ctx, &detail.Staff, staffQuery, id); err != nil {
		return nil, fmt.Errorf("load media staff: %w", err)
	}

	const characterQuery = `SELECT c.id AS character_id, c.name, mc.role FROM characters c JOIN media_characters mc ON mc.character_id = c.id WHERE mc.media_id = $1 ORDER BY c.name`
	if err := r.db.SelectContext(ctx, &detail.Characters, characterQuery, id); err != nil {
		return nil, fmt.Errorf("load media characters: %w", err)
	}

	const voiceQuery = `SELECT mcv.character_id, va.id AS voice_actor_id, va.name, mcv.language FROM media_character_voices mcv JOIN voice_actors va ON va.id = mcv.voice_actor_id WHERE mcv.media_id = $1`
	rows, err := r.db.QueryxContext(ctx, voiceQuery, id)
	if err != nil {
		return nil, fmt.Errorf("load character voices: %w", err)
	}
	defer rows.Close()

	voicesByCharacter := make(map[string][]models.VoiceBinding)
	for rows.Next() {
		var characterID string
		var binding models.VoiceBinding
		if err := rows.Scan(&characterID, &binding.VoiceActorID, &binding.Name, &binding.Language); err != nil {
			return nil, fmt.Errorf("scan character voice: %w", err)
		}
		voicesByCharacter[characterID] = append(voicesByCharacter[characterID], binding)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate character voices: %w", err)
	}
	for i := range detail.Characters {
		detail.Characters[i].VoiceActors = voicesByCharacter[detail.Characters[i].CharacterID]
	}

	const linkQuery = `SELECT id, media_id, category, site_name, url, status, group_id FROM external_links WHERE media_id = $1 ORDER BY category, site_name`
	if err := r.db.SelectContext(ctx, &detail.ExternalLinks, linkQuery, id); err != nil {
		return nil, fmt.Errorf("load external links: %w", err)
	}

	return detail, nil
}
