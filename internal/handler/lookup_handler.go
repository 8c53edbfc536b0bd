package handler

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/otakupedia/catalog-api/internal/middleware"
	"github.com/otakupedia/catalog-api/internal/models"
	"github.com/otakupedia/catalog-api/internal/service"
	appErrors "github.com/otakupedia/catalog-api/pkg/errors"
	"github.com/otakupedia/catalog-api/pkg/response"
)

// LookupHandler serves the entity selector endpoints backing contribution forms.
type LookupHandler struct {
	service *service.LookupService
}

// NewLookupHandler constructs the handler.
func NewLookupHandler(service *service.LookupService) *LookupHandler {
	return &LookupHandler{service: service}
}

func entityFilterFromQuery(c *gin.Context) models.EntityFilter {
	filter := models.EntityFilter{Search: strings.TrimSpace(c.Query("search"))}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit > 0 {
		filter.Limit = limit
	}
	return filter
}

// SearchGenres godoc
// @Summary Search genres by name
// @Tags Lookups
// @Produce json
// @Param search query string false "Partial name"
// @Param limit query int false "Max results"
// @Success 200 {object} response.Envelope
// @Router /genres [get]
func (h *LookupHandler) SearchGenres(c *gin.Context) {
	start := time.Now()
	genres, cacheHit, err := h.service.SearchGenres(c.Request.Context(), entityFilterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	meta := middleware.ExtractMeta(c)
	if meta == nil {
		meta = make(map[string]interface{})
	}
	meta["processing_time_ms"] = time.Since(start).Milliseconds()
	response.OK(c, gin.H{"genres": genres, "meta": meta})
}

// SearchStudios godoc
// @Summary Search studios by name
// @Tags Lookups
// @Produce json
// @Param search query string false "Partial name"
// @Param limit query int false "Max results"
// @Success 200 {object} response.Envelope
// @Router /studios [get]
func (h *LookupHandler) SearchStudios(c *gin.Context) {
	start := time.Now()
	studios, cacheHit, err := h.service.SearchStudios(c.Request.Context(), entityFilterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	meta := middleware.ExtractMeta(c)
	if meta == nil {
		meta = make(map[string]interface{})
	}
	meta["processing_time_ms"] = time.Since(start).Milliseconds()
	response.OK(c, gin.H{"studios": studios, "meta": meta})
}

// SearchStaff godoc
// @Summary Search staff members by name
// @Tags Lookups
// @Produce json
// @Param search query string false "Partial name"
// @Param limit query int false "Max results"
// @Success 200 {object} response.Envelope
// @Router /staff [get]
func (h *LookupHandler) SearchStaff(c *gin.Context) {
	start := time.Now()
	staff, cacheHit, err := h.service.SearchStaff(c.Request.Context(), entityFilterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	meta := middleware.ExtractMeta(c)
	if meta == nil {
		meta = make(map[string]interface{})
	}
	meta["processing_time_ms"] = time.Since(start).Milliseconds()
	response.OK(c, gin.H{"staff": staff, "meta": meta})
}

// SearchCharacters godoc
// @Summary Search characters by name
// @Tags Lookups
// @Produce json
// @Param search query string false "Partial name"
// @Param limit query int false "Max results"
// @Success 200 {object} response.Envelope
// @Router /characters [get]
func (h *LookupHandler) SearchCharacters(c *gin.Context) {
	start := time.Now()
	characters, cacheHit, err := h.service.SearchCharacters(c.Request.Context(), entityFilterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	meta := middleware.ExtractMeta(c)
	if meta == nil {
		meta = make(map[string]interface{})
	}
	meta["processing_time_ms"] = time.Since(start).Milliseconds()
	response.OK(c, gin.H{"characters": characters, "meta": meta})
}

// SearchVoiceActors godoc
// @Summary Search voice actors by name
// @Tags Lookups
// @Produce json
// @Param search query string false "Partial name"
// @Param limit query int false "Max results"
// @Success 200 {object} response.Envelope
// @Router /voice-actors [get]
func (h *LookupHandler) SearchVoiceActors(c *gin.Context) {
	start := time.Now()
	actors, cacheHit, err := h.service.SearchVoiceActors(c.Request.Context(), entityFilterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	meta := middleware.ExtractMeta(c)
	if meta == nil {
		meta = make(map[string]interface{})
	}
	meta["processing_time_ms"] = time.Since(start).Milliseconds()
	response.OK(c, gin.H{"voice_actors": actors, "meta": meta})
}

// CreateGenre godoc
// @Summary Create a genre
// @Tags Lookups
// @Accept json
// @Produce json
// @Param payload body models.CreateGenreRequest true "Genre payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /genres [post]
func (h *LookupHandler) CreateGenre(c *gin.Context) {
	var req models.CreateGenreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid genre payload"))
		return
	}
	genre, err := h.service.CreateGenre(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "genre created", gin.H{"genre": genre})
}

// CreateStudio godoc
// @Summary Create a studio
// @Tags Lookups
// @Accept json
// @Produce json
// @Param payload body models.CreateStudioRequest true "Studio payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /studios [post]
func (h *LookupHandler) CreateStudio(c *gin.Context) {
	var req models.CreateStudioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid studio payload"))
		return
	}
	studio, err := h.service.CreateStudio(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "studio created", gin.H{"studio": studio})
}

// CreateStaff godoc
// @Summary Create a staff member
// @Tags Lookups
// @Accept json
// @Produce json
// @Param payload body models.CreatePersonRequest true "Staff payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /staff [post]
func (h *LookupHandler) CreateStaff(c *gin.Context) {
	var req models.CreatePersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid staff payload"))
		return
	}
	staff, err := h.service.CreateStaff(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "staff member created", gin.H{"staff": staff})
}

// CreateCharacter godoc
// @Summary Create a character
// @Tags Lookups
// @Accept json
// @Produce json
// @Param payload body models.CreatePersonRequest true "Character payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /characters [post]
func (h *LookupHandler) CreateCharacter(c *gin.Context) {
	var req models.CreatePersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid character payload"))
		return
	}
	character, err := h.service.CreateCharacter(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "character created", gin.H{"character": character})
}

// CreateVoiceActor godoc
// @Summary Create a voice actor
// @Tags Lookups
// @Accept json
// @Produce json
// @Param payload body models.CreateVoiceActorRequest true "Voice actor payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /voice-actors [post]
func (h *LookupHandler) CreateVoiceActor(c *gin.Context) {
	var req models.CreateVoiceActorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid voice actor payload"))
		return
	}
	actor, err := h.service.CreateVoiceActor(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "voice actor created", gin.H{"voice_actor": actor})
}
