package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestComputeDiffEmptyWhenEqual(t *testing.T) {
	original := map[string]interface{}{
		"title_romaji": "Test Anime",
		"episode_count": float64(12),
		"genre_ids":    []interface{}{"g1", "g2"},
	}
	current := map[string]interface{}{
		"title_romaji": "Test Anime",
		"episode_count": 12,
		"genre_ids":    []interface{}{"g1", "g2"},
	}

	diff := ComputeDiff(original, current)
	assert.Empty(t, diff)
}

func TestComputeDiffDetectsChangedFields(t *testing.T) {
	original := map[string]interface{}{
		"title_romaji": "Old Title",
		"synopsis":     "Twenty characters here.",
	}
	current := map[string]interface{}{
		"title_romaji": "New Title",
		"synopsis":     "Twenty characters here.",
	}

	diff := ComputeDiff(original, current)
	require.Len(t, diff, 1)
	change, ok := diff["title_romaji"]
	require.True(t, ok)
	assert.Equal(t, "Old Title", change.Old)
	assert.Equal(t, "New Title", change.New)
}

func TestComputeDiffIgnoresAuditFields(t *testing.T) {
	original := map[string]interface{}{
		"id":         "m1",
		"updated_at": "2026-01-01T00:00:00Z",
	}
	current := map[string]interface{}{
		"id":         "m2",
		"updated_at": "2026-02-02T00:00:00Z",
	}

	assert.Empty(t, ComputeDiff(original, current))
}

func TestComputeDiffMapKeyOrderIrrelevant(t *testing.T) {
	original := map[string]interface{}{
		"staff": []interface{}{map[string]interface{}{"id": "s1", "role": "Director"}},
	}
	current := map[string]interface{}{
		"staff": []interface{}{map[string]interface{}{"role": "Director", "id": "s1"}},
	}

	assert.Empty(t, ComputeDiff(original, current))
}

func TestComputeDiffNewField(t *testing.T) {
	original := map[string]interface{}{}
	current := map[string]interface{}{"background": "Serialized since 2010."}

	diff := ComputeDiff(original, current)
	require.Len(t, diff, 1)
	assert.Nil(t, diff["background"].Old)
	assert.Equal(t, "Serialized since 2010.", diff["background"].New)
}

func TestDedupeByIDKeepsFirstOccurrence(t *testing.T) {
	items := []interface{}{
		map[string]interface{}{"id": "c1", "role": "Main"},
		map[string]interface{}{"id": "c2", "role": "Supporting"},
		map[string]interface{}{"id": "c1", "role": "Supporting"},
	}

	result := DedupeByID(items, zap.NewNop())
	require.Len(t, result, 2)
	first := result[0].(map[string]interface{})
	assert.Equal(t, "c1", first["id"])
	assert.Equal(t, "Main", first["role"])
}

func TestDedupeByIDPassesThroughNonObjects(t *testing.T) {
	items := []interface{}{"loose", map[string]interface{}{"id": "x"}}
	result := DedupeByID(items, nil)
	assert.Len(t, result, 2)
}
