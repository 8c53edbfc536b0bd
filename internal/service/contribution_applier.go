package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/otakupedia/catalog-api/internal/models"
	appErrors "github.com/otakupedia/catalog-api/pkg/errors"
)

type mediaApplierRepository interface {
	FindDetail(ctx context.Context, id string) (*models.MediaDetail, error)
	Create(ctx context.Context, media *models.MediaEntity) error
	Update(ctx context.Context, media *models.MediaEntity) error
	ReplaceGenres(ctx context.Context, mediaID string, genreIDs []string) error
	ReplaceStudios(ctx context.Context, mediaID string, studioIDs []string) error
	ReplaceStaff(ctx context.Context, mediaID string, credits []models.StaffCredit) error
	ReplaceCharacters(ctx context.Context, mediaID string, credits []models.CharacterCredit) error
	ReplaceExternalLinks(ctx context.Context, mediaID string, links []models.ExternalLink) error
}

type genreApplierRepository interface {
	FindByID(ctx context.Context, id string) (*models.Genre, error)
	Create(ctx context.Context, genre *models.Genre) error
}

type studioApplierRepository interface {
	FindByID(ctx context.Context, id string) (*models.Studio, error)
	Create(ctx context.Context, studio *models.Studio) error
	Update(ctx context.Context, studio *models.Studio) error
}

type staffApplierRepository interface {
	FindByID(ctx context.Context, id string) (*models.Staff, error)
	Create(ctx context.Context, staff *models.Staff) error
	Update(ctx context.Context, staff *models.Staff) error
}

type characterApplierRepository interface {
	FindByID(ctx context.Context, id string) (*models.Character, error)
	Create(ctx context.Context, character *models.Character) error
	Update(ctx context.Context, character *models.Character) error
}

type voiceActorApplierRepository interface {
	FindByID(ctx context.Context, id string) (*models.VoiceActor, error)
	Create(ctx context.Context, actor *models.VoiceActor) error
	Update(ctx context.Context, actor *models.VoiceActor) error
}

// ContributionApplier materializes approved contributions into catalog rows
// and reconstructs canonical payload snapshots from stored entities. The same
// snapshot feeds both edit-diff recomputation and the merge step on approval.
type ContributionApplier struct {
	media       mediaApplierRepository
	genres      genreApplierRepository
	studios     studioApplierRepository
	staff       staffApplierRepository
	characters  characterApplierRepository
	voiceActors voiceActorApplierRepository
	logger      *zap.Logger
}

// NewContributionApplier constructs an applier over the catalog repositories.
func NewContributionApplier(
	media mediaApplierRepository,
	genres genreApplierRepository,
	studios studioApplierRepository,
	staff staffApplierRepository,
	characters characterApplierRepository,
	voiceActors voiceActorApplierRepository,
	logger *zap.Logger,
) *ContributionApplier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContributionApplier{
		media:       media,
		genres:      genres,
		studios:     studios,
		staff:       staff,
		characters:  characters,
		voiceActors: voiceActors,
		logger:      logger,
	}
}

// Snapshot rebuilds the canonical payload map for a stored entity, using the
// same field names the submission schema accepts.
func (a *ContributionApplier) Snapshot(ctx context.Context, t models.ContributableType, id string) (map[string]interface{}, error) {
	if t.IsMedia() {
		detail, err := a.media.FindDetail(ctx, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "media entity not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load media entity")
		}
		return mediaPayload(t, detail), nil
	}

	switch t {
	case models.ContributableGenre:
		genre, err := a.genres.FindByID(ctx, id)
		if err != nil {
			return nil, snapshotLoadError(err, "genre")
		}
		return map[string]interface{}{"name": genre.Name}, nil
	case models.ContributableStudio:
		studio, err := a.studios.FindByID(ctx, id)
		if err != nil {
			return nil, snapshotLoadError(err, "studio")
		}
		payload := map[string]interface{}{"name": studio.Name}
		putOptString(payload, "website", studio.Website)
		return payload, nil
	case models.ContributableStaff:
		person, err := a.staff.FindByID(ctx, id)
		if err != nil {
			return nil, snapshotLoadError(err, "staff")
		}
		payload := map[string]interface{}{"name": person.Name}
		putOptString(payload, "native_name", person.NativeName)
		putOptString(payload, "biography", person.Biography)
		return payload, nil
	case models.ContributableCharacter:
		character, err := a.characters.FindByID(ctx, id)
		if err != nil {
			return nil, snapshotLoadError(err, "character")
		}
		payload := map[string]interface{}{"name": character.Name}
		putOptString(payload, "native_name", character.NativeName)
		putOptString(payload, "description", character.Description)
		return payload, nil
	case models.ContributableVoiceActor:
		actor, err := a.voiceActors.FindByID(ctx, id)
		if err != nil {
			return nil, snapshotLoadError(err, "voice actor")
		}
		payload := map[string]interface{}{"name": actor.Name}
		putOptString(payload, "native_name", actor.NativeName)
		putOptString(payload, "language", actor.Language)
		return payload, nil
	}
	return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported contributable type: %s", t))
}

// Apply materializes an approved contribution. Full contributions create a new
// entity; edit contributions merge the approved field changes into the stored
// snapshot and persist the result. Returns the id of the affected entity.
func (a *ContributionApplier) Apply(ctx context.Context, c *models.Contribution) (string, error) {
	switch {
	case c.ContributionType.IsEdit():
		if c.ContributableID == nil {
			return "", appErrors.Clone(appErrors.ErrValidation, "edit contribution missing target entity")
		}
		payload, err := a.Snapshot(ctx, c.ContributableType, *c.ContributableID)
		if err != nil {
			return "", err
		}
		changes, err := c.DecodeChanges()
		if err != nil {
			return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "stored changes are not decodable")
		}
		for field, change := range changes {
			if change.New == nil {
				delete(payload, field)
				continue
			}
			payload[field] = change.New
		}
		return a.persist(ctx, c.ContributableType, *c.ContributableID, payload)
	default:
		payload, err := c.DecodeData()
		if err != nil {
			return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "stored payload is not decodable")
		}
		return a.persist(ctx, c.ContributableType, "", payload)
	}
}

func (a *ContributionApplier) persist(ctx context.Context, t models.ContributableType, id string, payload map[string]interface{}) (string, error) {
	if t.IsMedia() {
		return a.persistMedia(ctx, t, id, payload)
	}

	creating := id == ""
	if creating {
		id = uuid.NewString()
	}

	switch t {
	case models.ContributableGenre:
		if !creating {
			return "", appErrors.Clone(appErrors.ErrValidation, "genres cannot be edited")
		}
		genre := &models.Genre{ID: id, Name: payloadString(payload, "name")}
		if err := a.genres.Create(ctx, genre); err != nil {
			return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create genre")
		}
	case models.ContributableStudio:
		studio := &models.Studio{ID: id, Name: payloadString(payload, "name"), Website: payloadOptString(payload, "website")}
		if err := a.writeStudio(ctx, creating, studio); err != nil {
			return "", err
		}
	case models.ContributableStaff:
		person := &models.Staff{
			ID:         id,
			Name:       payloadString(payload, "name"),
			NativeName: payloadOptString(payload, "native_name"),
			Biography:  payloadOptString(payload, "biography"),
		}
		if err := a.writeStaff(ctx, creating, person); err != nil {
			return "", err
		}
	case models.ContributableCharacter:
		character := &models.Character{
			ID:          id,
			Name:        payloadString(payload, "name"),
			NativeName:  payloadOptString(payload, "native_name"),
			Description: payloadOptString(payload, "description"),
		}
		if err := a.writeCharacter(ctx, creating, character); err != nil {
			return "", err
		}
	case models.ContributableVoiceActor:
		actor := &models.VoiceActor{
			ID:         id,
			Name:       payloadString(payload, "name"),
			NativeName: payloadOptString(payload, "native_name"),
			Language:   payloadOptString(payload, "language"),
		}
		if err := a.writeVoiceActor(ctx, creating, actor); err != nil {
			return "", err
		}
	default:
		return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported contributable type: %s", t))
	}
	return id, nil
}

func (a *ContributionApplier) persistMedia(ctx context.Context, t models.ContributableType, id string, payload map[string]interface{}) (string, error) {
	creating := id == ""
	if creating {
		id = uuid.NewString()
	}

	media := &models.MediaEntity{
		ID:              id,
		MediaType:       t,
		TitleRomaji:     payloadString(payload, "title_romaji"),
		TitleEnglish:    payloadOptString(payload, "title_english"),
		TitleSpanish:    payloadOptString(payload, "title_spanish"),
		TitleNative:     payloadOptString(payload, "title_native"),
		Synopsis:        payloadString(payload, "synopsis"),
		Background:      payloadOptString(payload, "background"),
		CountryOfOrigin: payloadOptString(payload, "country_of_origin"),
		Status:          models.MediaStatus(payloadString(payload, "status")),
		StartDate:       payloadDate(payload, "start_date"),
		EndDate:         payloadDate(payload, "end_date"),
		EpisodeCount:    payloadInt(payload, "episode_count"),
		ChapterCount:    payloadInt(payload, "chapter_count"),
		VolumeCount:     payloadInt(payload, "volume_count"),
		MALID:           payloadInt64(payload, "mal_id"),
		AniListID:       payloadInt64(payload, "anilist_id"),
		KitsuID:         payloadInt64(payload, "kitsu_id"),
		Adult:           payloadBool(payload, "adult"),
	}
	// Animated buckets carry "type" (TV, Movie, ...); print buckets carry
	// "format". Both land in the same column.
	if v := payloadOptString(payload, "type"); v != nil {
		media.Format = v
	} else if v := payloadOptString(payload, "format"); v != nil {
		media.Format = v
	}

	if creating {
		if err := a.media.Create(ctx, media); err != nil {
			return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create media entity")
		}
	} else {
		if err := a.media.Update(ctx, media); err != nil {
			return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update media entity")
		}
	}

	if err := a.media.ReplaceGenres(ctx, id, payloadIDList(payload, "genre_ids")); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store genres")
	}
	if err := a.media.ReplaceStudios(ctx, id, payloadIDList(payload, "studio_ids")); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store studios")
	}
	if err := a.media.ReplaceStaff(ctx, id, payloadStaffCredits(payload)); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store staff credits")
	}
	if err := a.media.ReplaceCharacters(ctx, id, payloadCharacterCredits(payload)); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store character credits")
	}
	if err := a.media.ReplaceExternalLinks(ctx, id, payloadExternalLinks(id, payload)); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store external links")
	}
	return id, nil
}

func (a *ContributionApplier) writeStudio(ctx context.Context, creating bool, studio *models.Studio) error {
	var err error
	if creating {
		err = a.studios.Create(ctx, studio)
	} else {
		err = a.studios.Update(ctx, studio)
	}
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store studio")
	}
	return nil
}

func (a *ContributionApplier) writeStaff(ctx context.Context, creating bool, person *models.Staff) error {
	var err error
	if creating {
		err = a.staff.Create(ctx, person)
	} else {
		err = a.staff.Update(ctx, person)
	}
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store staff")
	}
	return nil
}

func (a *ContributionApplier) writeCharacter(ctx context.Context, creating bool, character *models.Character) error {
	var err error
	if creating {
		err = a.characters.Create(ctx, character)
	} else {
		err = a.characters.Update(ctx, character)
	}
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store character")
	}
	return nil
}

func (a *ContributionApplier) writeVoiceActor(ctx context.Context, creating bool, actor *models.VoiceActor) error {
	var err error
	if creating {
		err = a.voiceActors.Create(ctx, actor)
	} else {
		err = a.voiceActors.Update(ctx, actor)
	}
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store voice actor")
	}
	return nil
}

// mediaPayload flattens a stored media detail back into canonical payload form.
func mediaPayload(t models.ContributableType, detail *models.MediaDetail) map[string]interface{} {
	payload := map[string]interface{}{
		"title_romaji": detail.TitleRomaji,
		"synopsis":     detail.Synopsis,
		"status":       string(detail.Status),
	}
	putOptString(payload, "title_english", detail.TitleEnglish)
	putOptString(payload, "title_spanish", detail.TitleSpanish)
	putOptString(payload, "title_native", detail.TitleNative)
	putOptString(payload, "background", detail.Background)
	putOptString(payload, "country_of_origin", detail.CountryOfOrigin)
	if detail.Format != nil {
		switch t {
		case models.ContributableAnime, models.ContributableDonghua:
			payload["type"] = *detail.Format
		default:
			payload["format"] = *detail.Format
		}
	}
	putDate(payload, "start_date", detail.StartDate)
	putDate(payload, "end_date", detail.EndDate)
	putOptInt(payload, "episode_count", detail.EpisodeCount)
	putOptInt(payload, "chapter_count", detail.ChapterCount)
	putOptInt(payload, "volume_count", detail.VolumeCount)
	putOptInt64(payload, "mal_id", detail.MALID)
	putOptInt64(payload, "anilist_id", detail.AniListID)
	putOptInt64(payload, "kitsu_id", detail.KitsuID)
	if detail.Adult {
		payload["adult"] = true
	}

	if len(detail.Genres) > 0 {
		ids := make([]interface{}, 0, len(detail.Genres))
		for _, g := range detail.Genres {
			ids = append(ids, g.ID)
		}
		payload["genre_ids"] = ids
	}
	if len(detail.Studios) > 0 {
		ids := make([]interface{}, 0, len(detail.Studios))
		for _, s := range detail.Studios {
			ids = append(ids, s.ID)
		}
		payload["studio_ids"] = ids
	}
	if len(detail.Staff) > 0 {
		credits := make([]interface{}, 0, len(detail.Staff))
		for _, c := range detail.Staff {
			credits = append(credits, map[string]interface{}{"id": c.StaffID, "name": c.Name, "role": c.Role})
		}
		payload["staff"] = credits
	}
	if len(detail.Characters) > 0 {
		credits := make([]interface{}, 0, len(detail.Characters))
		for _, c := range detail.Characters {
			credits = append(credits, map[string]interface{}{"id": c.CharacterID, "name": c.Name, "role": c.Role})
		}
		payload["characters"] = credits
	}

	official := make([]interface{}, 0)
	streaming := make([]interface{}, 0)
	fanTranslations := make([]interface{}, 0)
	for _, link := range detail.ExternalLinks {
		entry := map[string]interface{}{"site_name": link.SiteName, "url": link.URL}
		switch link.Category {
		case models.LinkOfficial:
			official = append(official, entry)
		case models.LinkStreaming:
			streaming = append(streaming, entry)
		case models.LinkFanTranslation:
			if link.Status != nil {
				entry["status"] = *link.Status
			}
			if link.GroupID != nil {
				entry["group_id"] = *link.GroupID
			}
			fanTranslations = append(fanTranslations, entry)
		}
	}
	if len(official) > 0 {
		payload["official_sites"] = official
	}
	if len(streaming) > 0 {
		payload["streaming_platforms"] = streaming
	}
	if len(fanTranslations) > 0 {
		payload["fan_translations"] = fanTranslations
	}
	return payload
}

func snapshotLoadError(err error, entity string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, entity+" not found")
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load "+entity)
}

func putOptString(payload map[string]interface{}, key string, value *string) {
	if value != nil && *value != "" {
		payload[key] = *value
	}
}

func putOptInt(payload map[string]interface{}, key string, value *int) {
	if value != nil {
		payload[key] = int64(*value)
	}
}

func putOptInt64(payload map[string]interface{}, key string, value *int64) {
	if value != nil {
		payload[key] = *value
	}
}

func putDate(payload map[string]interface{}, key string, value *time.Time) {
	if value != nil {
		payload[key] = value.Format("2006-01-02")
	}
}

func payloadString(payload map[string]interface{}, key string) string {
	if v, ok := payload[key].(string); ok {
		return v
	}
	return ""
}

func payloadOptString(payload map[string]interface{}, key string) *string {
	if v, ok := payload[key].(string); ok && v != "" {
		return &v
	}
	return nil
}

func payloadInt(payload map[string]interface{}, key string) *int {
	if v := payloadInt64(payload, key); v != nil {
		i := int(*v)
		return &i
	}
	return nil
}

func payloadInt64(payload map[string]interface{}, key string) *int64 {
	switch v := payload[key].(type) {
	case int64:
		return &v
	case float64:
		i := int64(v)
		return &i
	case int:
		i := int64(v)
		return &i
	}
	return nil
}

func payloadBool(payload map[string]interface{}, key string) bool {
	v, _ := payload[key].(bool)
	return v
}

func payloadDate(payload map[string]interface{}, key string) *time.Time {
	v, ok := payload[key].(string)
	if !ok || v == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return nil
	}
	return &t
}

// payloadIDList accepts both string and numeric ids; JSON decoding turns
// numerics into float64.
func payloadIDList(payload map[string]interface{}, key string) []string {
	raw, ok := payload[key].([]interface{})
	if !ok {
		return nil
	}
	ids := make([]string, 0, len(raw))
	for _, item := range raw {
		switch id := item.(type) {
		case string:
			if id != "" {
				ids = append(ids, id)
			}
		case float64:
			ids = append(ids, strconv.FormatInt(int64(id), 10))
		}
	}
	return ids
}

func payloadObjectList(payload map[string]interface{}, key string) []map[string]interface{} {
	raw, ok := payload[key].([]interface{})
	if !ok {
		return nil
	}
	items := make([]map[string]interface{}, 0, len(raw))
	for _, item := range raw {
		if obj, ok := item.(map[string]interface{}); ok {
			items = append(items, obj)
		}
	}
	return items
}

func payloadStaffCredits(payload map[string]interface{}) []models.StaffCredit {
	items := payloadObjectList(payload, "staff")
	credits := make([]models.StaffCredit, 0, len(items))
	for _, item := range items {
		credits = append(credits, models.StaffCredit{
			StaffID: payloadString(item, "id"),
			Name:    payloadString(item, "name"),
			Role:    payloadString(item, "role"),
		})
	}
	return credits
}

func payloadCharacterCredits(payload map[string]interface{}) []models.CharacterCredit {
	items := payloadObjectList(payload, "characters")
	credits := make([]models.CharacterCredit, 0, len(items))
	for _, item := range items {
		credits = append(credits, models.CharacterCredit{
			CharacterID: payloadString(item, "id"),
			Name:        payloadString(item, "name"),
			Role:        payloadString(item, "role"),
		})
	}
	return credits
}

func payloadExternalLinks(mediaID string, payload map[string]interface{}) []models.ExternalLink {
	var links []models.ExternalLink
	appendLinks := func(key string, category models.ExternalLinkCategory) {
		for _, item := range payloadObjectList(payload, key) {
			link := models.ExternalLink{
				ID:       uuid.NewString(),
				MediaID:  mediaID,
				Category: category,
				SiteName: payloadString(item, "site_name"),
				URL:      payloadString(item, "url"),
				Status:   payloadOptString(item, "status"),
				GroupID:  payloadOptString(item, "group_id"),
			}
			links = append(links, link)
		}
	}
	appendLinks("official_sites", models.LinkOfficial)
	appendLinks("streaming_platforms", models.LinkStreaming)
	appendLinks("fan_translations", models.LinkFanTranslation)
	return links
}
