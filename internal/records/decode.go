package records

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"gorm.io/datatypes"

	"github.com/charlesng35/nebula/internal/resources"
)

var (
	timeType = reflect.TypeOf(time.Time{})
	jsonType = reflect.TypeOf(datatypes.JSON{})
)

var timeLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

// decode copies values onto target using json tag names. It returns the keys
// that matched a struct field.
func decode(values resources.Values, target any) ([]string, error) {
	values, cleared := clearBlankPointers(values, target)

	var meta mapstructure.Metadata
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       attributeHook,
		Metadata:         &meta,
		Result:           target,
		TagName:          "json",
		Squash:           true,
		WeaklyTypedInput: true,
		ZeroFields:       true,
	})
	if err != nil {
		return nil, fmt.Errorf("records: build decoder: %w", err)
	}

	if err := decoder.Decode(map[string]any(values)); err != nil {
		return nil, fmt.Errorf("records: decode attributes: %w", err)
	}

	unused := make(map[string]struct{}, len(meta.Unused))
	for _, key := range meta.Unused {
		unused[key] = struct{}{}
	}

	keys := make([]string, 0, len(values)+len(cleared))
	keys = append(keys, cleared...)
	for key := range values {
		if _, skip := unused[key]; !skip {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

// clearBlankPointers sets pointer fields submitted as blank strings to nil
// and returns the remaining values with the cleared keys. mapstructure
// decodes into the target of a non-nil pointer, which a hook cannot undo.
func clearBlankPointers(values resources.Values, target any) (resources.Values, []string) {
	entity := reflect.Indirect(reflect.ValueOf(target))
	if entity.Kind() != reflect.Struct {
		return values, nil
	}

	var cleared []string
	rest := make(resources.Values, len(values))
	for key, value := range values {
		if raw, ok := value.(string); ok && strings.TrimSpace(raw) == "" {
			field, found := fieldByJSONName(entity, key)
			if found && field.Kind() == reflect.Ptr && field.CanSet() {
				field.Set(reflect.Zero(field.Type()))
				cleared = append(cleared, key)
				continue
			}
		}
		rest[key] = value
	}
	return rest, cleared
}

// fieldByJSONName finds the field tagged name, descending into embedded
// structs the way the decoder squashes them.
func fieldByJSONName(entity reflect.Value, name string) (reflect.Value, bool) {
	typ := entity.Type()
	for i := range typ.NumField() {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			if found, ok := fieldByJSONName(entity.Field(i), name); ok {
				return found, true
			}
			continue
		}
		tag, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if tag == "" {
			tag = field.Name
		}
		if tag == name {
			return entity.Field(i), true
		}
	}
	return reflect.Value{}, false
}

// attributeHook converts submitted values for the column types the json
// decoder cannot fill on its own. Hooks are not composed because a nil result
// cannot be passed down a mapstructure hook chain.
func attributeHook(from, to reflect.Type, data any) (any, error) {
	if to == jsonType {
		return toJSON(data)
	}
	if from.Kind() != reflect.String {
		return data, nil
	}

	raw := strings.TrimSpace(data.(string))
	switch {
	case to == timeType:
		if raw == "" {
			return time.Time{}, nil
		}
		return parseTime(raw)
	case to.Kind() != reflect.Ptr:
		return data, nil
	case raw == "":
		// Optional attributes submitted as "" are cleared.
		return nil, nil
	case to.Elem() == timeType:
		return parseTime(raw)
	}
	return data, nil
}

func parseTime(raw string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("records: %q is not a valid time", raw)
}

func toJSON(data any) (datatypes.JSON, error) {
	switch value := data.(type) {
	case nil:
		return datatypes.JSON("null"), nil
	case datatypes.JSON:
		return value, nil
	case json.RawMessage:
		return datatypes.JSON(value), nil
	case string:
		if json.Valid([]byte(value)) {
			return datatypes.JSON(value), nil
		}
	}
	encoded, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("records: encode json attribute: %w", err)
	}
	return datatypes.JSON(encoded), nil
}
