package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/otakupedia/catalog-api/internal/models"
)

func validAnimePayload() map[string]interface{} {
	return map[string]interface{}{
		"title_romaji": "Test Anime",
		"synopsis":     strings.Repeat("A", 20),
		"type":         "TV",
		"status":       "ongoing",
		"genre_ids":    []interface{}{float64(1)},
	}
}

func TestValidatePayloadAnimeMinimal(t *testing.T) {
	normalized, err := ValidatePayload(models.ContributableAnime, validAnimePayload())
	require.NoError(t, err)
	assert.Equal(t, "Test Anime", normalized["title_romaji"])
	assert.Equal(t, "TV", normalized["type"])
}

func TestValidatePayloadCoercesNumericStrings(t *testing.T) {
	payload := validAnimePayload()
	payload["episode_count"] = "12"
	payload["mal_id"] = "5114"

	normalized, err := ValidatePayload(models.ContributableAnime, payload)
	require.NoError(t, err)
	assert.Equal(t, int64(12), normalized["episode_count"])
	assert.Equal(t, int64(5114), normalized["mal_id"])
}

func TestValidatePayloadEmptyNumericStringBecomesAbsent(t *testing.T) {
	payload := validAnimePayload()
	payload["episode_count"] = ""

	normalized, err := ValidatePayload(models.ContributableAnime, payload)
	require.NoError(t, err)
	_, present := normalized["episode_count"]
	assert.False(t, present)
}

func TestValidatePayloadShortSynopsis(t *testing.T) {
	payload := validAnimePayload()
	payload["synopsis"] = "too short"

	_, err := ValidatePayload(models.ContributableAnime, payload)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "synopsis")
}

func TestValidatePayloadStringifiesNumericIDs(t *testing.T) {
	normalized, err := ValidatePayload(models.ContributableAnime, validAnimePayload())
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"1"}, normalized["genre_ids"])
}

func TestValidatePayloadFractionalIDRejected(t *testing.T) {
	payload := validAnimePayload()
	payload["genre_ids"] = []interface{}{float64(1.5)}

	_, err := ValidatePayload(models.ContributableAnime, payload)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "genre_ids contains a non-id element")
}

func TestValidatePayloadMissingGenres(t *testing.T) {
	payload := validAnimePayload()
	payload["genre_ids"] = []interface{}{}

	_, err := ValidatePayload(models.ContributableAnime, payload)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "genre_ids")
}

func TestValidatePayloadBadEnum(t *testing.T) {
	payload := validAnimePayload()
	payload["type"] = "Netflix"

	_, err := ValidatePayload(models.ContributableAnime, payload)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "type must be one of")
}

func TestValidatePayloadMangaRequiresFormatAndCountry(t *testing.T) {
	payload := map[string]interface{}{
		"title_romaji": "Test Manga",
		"synopsis":     strings.Repeat("B", 25),
		"status":       "ongoing",
		"genre_ids":    []interface{}{"g1"},
	}

	_, err := ValidatePayload(models.ContributableManga, payload)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "format is required")
	assert.Contains(t, err.Error(), "country_of_origin is required")
}

func TestValidatePayloadFanTranslationEntries(t *testing.T) {
	payload := validAnimePayload()
	payload["fan_translations"] = []interface{}{
		map[string]interface{}{
			"site_name": "SubGroup",
			"url":       "https://subs.example.com/test-anime",
			"status":    "active",
			"group_id":  "grp-1",
		},
	}

	normalized, err := ValidatePayload(models.ContributableAnime, payload)
	require.NoError(t, err)
	entries := normalized["fan_translations"].([]interface{})
	require.Len(t, entries, 1)
	entry := entries[0].(map[string]interface{})
	assert.Equal(t, "SubGroup", entry["site_name"])
}

func TestValidatePayloadRejectsRelativeURL(t *testing.T) {
	payload := validAnimePayload()
	payload["official_sites"] = []interface{}{
		map[string]interface{}{"site_name": "Official", "url": "/relative/path"},
	}

	_, err := ValidatePayload(models.ContributableAnime, payload)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "absolute URL")
}

func TestValidatePayloadEmptyURLTreatedAsAbsent(t *testing.T) {
	payload := map[string]interface{}{
		"name":    "Studio Bones",
		"website": "",
	}

	normalized, err := ValidatePayload(models.ContributableStudio, payload)
	require.NoError(t, err)
	_, present := normalized["website"]
	assert.False(t, present)
}

func TestValidatePayloadUnknownType(t *testing.T) {
	_, err := ValidatePayload(models.ContributableType("podcast"), map[string]interface{}{})
	require.Error(t, err)
}

func TestDetailViewFollowsSchemaOrder(t *testing.T) {
	payload := validAnimePayload()
	payload["episode_count"] = 24

	views, err := DetailView(models.ContributableAnime, payload)
	require.NoError(t, err)
	require.NotEmpty(t, views)
	assert.Equal(t, "title_romaji", views[0].Name)

	names := make([]string, 0, len(views))
	for _, v := range views {
		names = append(names, v.Name)
	}
	assert.NotContains(t, names, "format")
	assert.Contains(t, names, "episode_count")
}
