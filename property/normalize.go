package property

import (
	"fmt"
	"strings"
	"time"
)

// UnknownTypeError is returned when a value is normalized against a type
// tag this service was not built for.
type UnknownTypeError struct {
	Tag string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unexpected property type %q", e.Tag)
}

/* Normalize coerces a raw form value to the shape its type definition expects
 * The second return value is false when the value is absent and must be dropped
 * A nil definition passes the value through unchanged
 */
func Normalize(value any, def TypeDefinition) (any, bool, error) {
	if isEmpty(value) {
		return nil, false, nil
	}
	if def == nil {
		return value, true, nil
	}

	switch d := def.(type) {
	case Boolean:
		if b, ok := value.(bool); ok {
			return b, true, nil
		}
		return truthy(value), true, nil
	case Number:
		if isNumber(value) {
			return value, true, nil
		}
		return toNumber(value), true, nil
	case String:
		if s, ok := value.(string); ok {
			return s, true, nil
		}
		return toJSString(value), true, nil
	case DateTime:
		switch v := value.(type) {
		case Timestamp:
			return v, true, nil
		case time.Time:
			return Timestamp{Time: v, Valid: true}, true, nil
		case string:
			return ParseTimestamp(v), true, nil
		default:
			return ParseTimestamp(toJSString(v)), true, nil
		}
	case Select:
		return toStringSlice(value), true, nil
	case Unknown:
		return nil, false, &UnknownTypeError{Tag: d.Name}
	default:
		panic(fmt.Sprintf("property: unhandled type definition %T", def))
	}
}

// NormalizeFields normalizes every entry of one table bucket, dropping
// absent values. Types are looked up by the table-prefixed key.
func NormalizeFields(table TableName, input map[string]any, types map[string]TypeDefinition) (map[string]any, error) {
	out := make(map[string]any, len(input))
	for key, value := range input {
		normalized, ok, err := Normalize(value, types[PrefixKey(table, key)])
		if err != nil {
			return nil, fmt.Errorf("normalizing %s: %w", PrefixKey(table, key), err)
		}
		if !ok {
			continue
		}
		out[key] = normalized
	}
	return out, nil
}

func isEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	default:
		return false
	}
}

func toStringSlice(value any) []string {
	switch v := value.(type) {
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		return out
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, toJSString(item))
		}
		return out
	default:
		return []string{toJSString(v)}
	}
}
