package catalog

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/otakupedia/catalog-api/internal/models"
	appErrors "github.com/otakupedia/catalog-api/pkg/errors"
)

// ValidatePayload checks a contribution payload against the registered schema
// and returns a normalized copy: numeric-looking strings become integers, empty
// strings in optional slots become nil, URL fields must parse as absolute URLs.
// Field errors are aggregated into a single VALIDATION_ERROR.
func ValidatePayload(t models.ContributableType, data map[string]interface{}) (map[string]interface{}, error) {
	schema, err := SchemaFor(t)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}

	normalized := make(map[string]interface{}, len(data))
	var problems []string

	for _, field := range schema.Fields {
		raw := data[field.Name]
		if isEmptyValue(raw) {
			if field.Required {
				problems = append(problems, fmt.Sprintf("%s is required", field.Name))
			}
			continue
		}

		value, fieldErr := normalizeField(field, raw)
		if fieldErr != "" {
			problems = append(problems, fieldErr)
			continue
		}
		if value != nil {
			normalized[field.Name] = value
		}
	}

	if len(problems) > 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, strings.Join(problems, "; "))
	}
	return normalized, nil
}

func normalizeField(field Field, raw interface{}) (interface{}, string) {
	switch field.Kind {
	case KindText, KindDate:
		s, ok := asString(raw)
		if !ok {
			return nil, fmt.Sprintf("%s must be a string", field.Name)
		}
		s = strings.TrimSpace(s)
		if s == "" {
			if field.Required {
				return nil, fmt.Sprintf("%s is required", field.Name)
			}
			return nil, ""
		}
		if field.MinLen > 0 && len([]rune(s)) < field.MinLen {
			return nil, fmt.Sprintf("%s must be at least %d characters", field.Name, field.MinLen)
		}
		return s, ""

	case KindInt:
		n, ok := asInt(raw)
		if !ok {
			return nil, fmt.Sprintf("%s must be an integer", field.Name)
		}
		if n == nil {
			return nil, ""
		}
		return *n, ""

	case KindBool:
		b, ok := raw.(bool)
		if !ok {
			return nil, fmt.Sprintf("%s must be a boolean", field.Name)
		}
		return b, ""

	case KindURL:
		s, ok := asString(raw)
		if !ok {
			return nil, fmt.Sprintf("%s must be a string", field.Name)
		}
		s = strings.TrimSpace(s)
		if s == "" {
			// Empty URL fields are treated as absent.
			return nil, ""
		}
		parsed, err := url.Parse(s)
		if err != nil || !parsed.IsAbs() || parsed.Host == "" {
			return nil, fmt.Sprintf("%s must be an absolute URL", field.Name)
		}
		return s, ""

	case KindEnum:
		s, ok := asString(raw)
		if !ok {
			return nil, fmt.Sprintf("%s must be a string", field.Name)
		}
		for _, member := range field.Enum {
			if s == member {
				return s, ""
			}
		}
		return nil, fmt.Sprintf("%s must be one of %s", field.Name, strings.Join(field.Enum, ", "))

	case KindIDList:
		list, ok := raw.([]interface{})
		if !ok {
			return nil, fmt.Sprintf("%s must be a list", field.Name)
		}
		if len(list) == 0 {
			if field.Required {
				return nil, fmt.Sprintf("%s must not be empty", field.Name)
			}
			return nil, ""
		}
		ids := make([]interface{}, 0, len(list))
		for _, item := range list {
			switch v := item.(type) {
			case string:
				if strings.TrimSpace(v) == "" {
					return nil, fmt.Sprintf("%s contains an empty id", field.Name)
				}
				ids = append(ids, v)
			case float64:
				if v != math.Trunc(v) {
					return nil, fmt.Sprintf("%s contains a non-id element", field.Name)
				}
				ids = append(ids, strconv.FormatInt(int64(v), 10))
			default:
				return nil, fmt.Sprintf("%s contains a non-id element", field.Name)
			}
		}
		return ids, ""

	case KindObjectList:
		list, ok := raw.([]interface{})
		if !ok {
			return nil, fmt.Sprintf("%s must be a list", field.Name)
		}
		items := make([]interface{}, 0, len(list))
		for i, item := range list {
			obj, ok := item.(map[string]interface{})
			if !ok {
				return nil, fmt.Sprintf("%s[%d] must be an object", field.Name, i)
			}
			normalizedItem := make(map[string]interface{}, len(obj))
			for _, itemField := range field.ItemFields {
				rawItem, ok := obj[itemField.Name]
				if !ok || isEmptyValue(rawItem) {
					if itemField.Required {
						return nil, fmt.Sprintf("%s[%d].%s is required", field.Name, i, itemField.Name)
					}
					continue
				}
				value, fieldErr := normalizeField(itemField, rawItem)
				if fieldErr != "" {
					return nil, fmt.Sprintf("%s[%d].%s", field.Name, i, fieldErr)
				}
				if value != nil {
					normalizedItem[itemField.Name] = value
				}
			}
			items = append(items, normalizedItem)
		}
		if len(items) == 0 && !field.Required {
			return nil, ""
		}
		return items, ""
	}

	return raw, ""
}

// asInt accepts JSON numbers and numeric-looking strings; an empty string
// reports success with a nil value (the field is treated as absent).
func asInt(raw interface{}) (*int64, bool) {
	switch v := raw.(type) {
	case float64:
		n := int64(v)
		return &n, true
	case int:
		n := int64(v)
		return &n, true
	case int64:
		return &v, true
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return nil, true
		}
		n, err := strconv.ParseInt(trimmed, 10, 64)
		if err != nil {
			return nil, false
		}
		return &n, true
	}
	return nil, false
}

func asString(raw interface{}) (string, bool) {
	s, ok := raw.(string)
	return s, ok
}

func isEmptyValue(raw interface{}) bool {
	if raw == nil {
		return true
	}
	if s, ok := raw.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}
