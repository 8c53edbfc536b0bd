package catalog

import (
	"encoding/json"
	"reflect"

	"go.uber.org/zap"

	"github.com/otakupedia/catalog-api/internal/models"
)

// auditFields never participate in a diff: identity and timestamps change for
// reasons unrelated to the edit itself.
var auditFields = map[string]struct{}{
	"id":         {},
	"created_at": {},
	"updated_at": {},
	"createdAt":  {},
	"updatedAt":  {},
}

// ComputeDiff compares an entity snapshot against an edited draft and returns
// the sparse map of changed fields with their old and new values. Every key of
// the draft is considered except identity/audit fields. Comparison is deep
// structural equality over JSON-normalized values, so map key order can never
// produce a false positive.
func ComputeDiff(original, current map[string]interface{}) map[string]models.FieldChange {
	diff := make(map[string]models.FieldChange)
	for key, newValue := range current {
		if _, skip := auditFields[key]; skip {
			continue
		}
		oldValue := original[key]
		normOld := normalizeValue(oldValue)
		normNew := normalizeValue(newValue)
		if !reflect.DeepEqual(normOld, normNew) {
			diff[key] = models.FieldChange{Old: oldValue, New: newValue}
		}
	}
	return diff
}

// normalizeValue round-trips a value through JSON so that equivalent
// representations (int vs float64, struct vs map) compare equal.
func normalizeValue(v interface{}) interface{} {
	if v == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return v
	}
	return out
}

// DedupeByID filters a list of id-bearing objects so that only the first
// occurrence of each id survives. Upstream data occasionally carries
// duplicated relation rows; rendering them verbatim breaks any keyed UI, so
// the load path drops duplicates and logs each one.
func DedupeByID(items []interface{}, logger *zap.Logger) []interface{} {
	if logger == nil {
		logger = zap.NewNop()
	}
	seen := make(map[interface{}]struct{}, len(items))
	result := make([]interface{}, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]interface{})
		if !ok {
			result = append(result, item)
			continue
		}
		id, ok := obj["id"]
		if !ok || id == nil {
			result = append(result, item)
			continue
		}
		if _, dup := seen[id]; dup {
			logger.Warn("dropping duplicate id in relation list", zap.Any("id", id))
			continue
		}
		seen[id] = struct{}{}
		result = append(result, item)
	}
	return result
}
