package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/otakupedia/catalog-api/internal/models"
	appErrors "github.com/otakupedia/catalog-api/pkg/errors"
)

type genreLookupRepository interface {
	Search(ctx context.Context, filter models.EntityFilter) ([]models.Genre, error)
	Create(ctx context.Context, genre *models.Genre) error
}

type studioLookupRepository interface {
	Search(ctx context.Context, filter models.EntityFilter) ([]models.Studio, error)
	Create(ctx context.Context, studio *models.Studio) error
}

type staffLookupRepository interface {
	Search(ctx context.Context, filter models.EntityFilter) ([]models.Staff, error)
	Create(ctx context.Context, staff *models.Staff) error
}

type characterLookupRepository interface {
	Search(ctx context.Context, filter models.EntityFilter) ([]models.Character, error)
	Create(ctx context.Context, character *models.Character) error
}

type voiceActorLookupRepository interface {
	Search(ctx context.Context, filter models.EntityFilter) ([]models.VoiceActor, error)
	Create(ctx context.Context, actor *models.VoiceActor) error
}

// LookupConfig bounds selector search queries.
type LookupConfig struct {
	DefaultLimit int
	MaxLimit     int
}

// LookupService backs the search-or-create entity selectors used by the
// contribution forms. Search results are cached; creates invalidate the
// matching cache segment.
type LookupService struct {
	genres      genreLookupRepository
	studios     studioLookupRepository
	staff       staffLookupRepository
	characters  characterLookupRepository
	voiceActors voiceActorLookupRepository
	cache       *CacheService
	validator   *validator.Validate
	logger      *zap.Logger
	config      LookupConfig
}

// NewLookupService constructs a LookupService.
func NewLookupService(
	genres genreLookupRepository,
	studios studioLookupRepository,
	staff staffLookupRepository,
	characters characterLookupRepository,
	voiceActors voiceActorLookupRepository,
	cache *CacheService,
	validate *validator.Validate,
	logger *zap.Logger,
	config LookupConfig,
) *LookupService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if config.DefaultLimit <= 0 {
		config.DefaultLimit = 10
	}
	if config.MaxLimit <= 0 {
		config.MaxLimit = 20
	}
	return &LookupService{
		genres:      genres,
		studios:     studios,
		staff:       staff,
		characters:  characters,
		voiceActors: voiceActors,
		cache:       cache,
		validator:   validate,
		logger:      logger,
		config:      config,
	}
}

func (s *LookupService) normalizeFilter(filter models.EntityFilter) models.EntityFilter {
	filter.Search = strings.TrimSpace(filter.Search)
	if filter.Limit <= 0 {
		filter.Limit = s.config.DefaultLimit
	}
	if filter.Limit > s.config.MaxLimit {
		filter.Limit = s.config.MaxLimit
	}
	return filter
}

func (s *LookupService) cacheKey(kind string, filter models.EntityFilter) string {
	return fmt.Sprintf("search:%s:%s:%d", kind, strings.ToLower(filter.Search), filter.Limit)
}

// SearchGenres returns genres matching the query plus a cache-hit flag.
func (s *LookupService) SearchGenres(ctx context.Context, filter models.EntityFilter) ([]models.Genre, bool, error) {
	filter = s.normalizeFilter(filter)
	key := s.cacheKey("genre", filter)

	var cached []models.Genre
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return cached, true, nil
	}
	genres, err := s.genres.Search(ctx, filter)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to search genres")
	}
	if genres == nil {
		genres = []models.Genre{}
	}
	_ = s.cache.Set(ctx, key, genres, 0)
	return genres, false, nil
}

// CreateGenre adds a genre and invalidates genre searches.
func (s *LookupService) CreateGenre(ctx context.Context, req models.CreateGenreRequest) (*models.Genre, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid genre payload")
	}
	genre := &models.Genre{Name: strings.TrimSpace(req.Name)}
	if err := s.genres.Create(ctx, genre); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create genre")
	}
	_ = s.cache.Invalidate(ctx, "search:genre:*")
	return genre, nil
}

// SearchStudios returns studios matching the query.
func (s *LookupService) SearchStudios(ctx context.Context, filter models.EntityFilter) ([]models.Studio, bool, error) {
	filter = s.normalizeFilter(filter)
	key := s.cacheKey("studio", filter)

	var cached []models.Studio
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return cached, true, nil
	}
	studios, err := s.studios.Search(ctx, filter)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to search studios")
	}
	if studios == nil {
		studios = []models.Studio{}
	}
	_ = s.cache.Set(ctx, key, studios, 0)
	return studios, false, nil
}

// CreateStudio adds a studio and invalidates studio searches.
func (s *LookupService) CreateStudio(ctx context.Context, req models.CreateStudioRequest) (*models.Studio, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid studio payload")
	}
	studio := &models.Studio{Name: strings.TrimSpace(req.Name), Website: req.Website}
	if err := s.studios.Create(ctx, studio); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create studio")
	}
	_ = s.cache.Invalidate(ctx, "search:studio:*")
	return studio, nil
}

// SearchStaff returns staff members matching the query.
func (s *LookupService) SearchStaff(ctx context.Context, filter models.EntityFilter) ([]models.Staff, bool, error) {
	filter = s.normalizeFilter(filter)
	key := s.cacheKey("staff", filter)

	var cached []models.Staff
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return cached, true, nil
	}
	staff, err := s.staff.Search(ctx, filter)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to search staff")
	}
	if staff == nil {
		staff = []models.Staff{}
	}
	_ = s.cache.Set(ctx, key, staff, 0)
	return staff, false, nil
}

// CreateStaff adds a staff member and invalidates staff searches.
func (s *LookupService) CreateStaff(ctx context.Context, req models.CreatePersonRequest) (*models.Staff, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid staff payload")
	}
	person := &models.Staff{Name: strings.TrimSpace(req.Name), NativeName: req.NativeName, Biography: req.Description}
	if err := s.staff.Create(ctx, person); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create staff")
	}
	_ = s.cache.Invalidate(ctx, "search:staff:*")
	return person, nil
}

// SearchCharacters returns characters matching the query.
func (s *LookupService) SearchCharacters(ctx context.Context, filter models.EntityFilter) ([]models.Character, bool, error) {
	filter = s.normalizeFilter(filter)
	key := s.cacheKey("character", filter)

	var cached []models.Character
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return cached, true, nil
	}
	characters, err := s.characters.Search(ctx, filter)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to search characters")
	}
	if characters == nil {
		characters = []models.Character{}
	}
	_ = s.cache.Set(ctx, key, characters, 0)
	return characters, false, nil
}

// CreateCharacter adds a character and invalidates character searches.
func (s *LookupService) CreateCharacter(ctx context.Context, req models.CreatePersonRequest) (*models.Character, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid character payload")
	}
	character := &models.Character{Name: strings.TrimSpace(req.Name), NativeName: req.NativeName, Description: req.Description}
	if err := s.characters.Create(ctx, character); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create character")
	}
	_ = s.cache.Invalidate(ctx, "search:character:*")
	return character, nil
}

// SearchVoiceActors returns voice actors matching the query.
func (s *LookupService) SearchVoiceActors(ctx context.Context, filter models.EntityFilter) ([]models.VoiceActor, bool, error) {
	filter = s.normalizeFilter(filter)
	key := s.cacheKey("voice_actor", filter)

	var cached []models.VoiceActor
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return cached, true, nil
	}
	actors, err := s.voiceActors.Search(ctx, filter)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to search voice actors")
	}
	if actors == nil {
		actors = []models.VoiceActor{}
	}
	_ = s.cache.Set(ctx, key, actors, 0)
	return actors, false, nil
}

// CreateVoiceActor adds a voice actor and invalidates voice actor searches.
func (s *LookupService) CreateVoiceActor(ctx context.Context, req models.CreateVoiceActorRequest) (*models.VoiceActor, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid voice actor payload")
	}
	actor := &models.VoiceActor{Name: strings.TrimSpace(req.Name), NativeName: req.NativeName, Language: req.Language}
	if err := s.voiceActors.Create(ctx, actor); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create voice actor")
	}
	_ = s.cache.Invalidate(ctx, "search:voice_actor:*")
	return actor, nil
}
