package action

import (
	"fmt"
	"strconv"
	"strings"
)

// Params are the inputs of one operation, as decoded from JSON
type Params map[string]any

// String returns the parameter as a string, "" when missing
func (p Params) String(key string) string {
	switch v := p[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// Trimmed returns the parameter as a string without surrounding spaces
func (p Params) Trimmed(key string) string {
	return strings.TrimSpace(p.String(key))
}

func (p Params) Bool(key string) bool {
	switch v := p[key].(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	default:
		return false
	}
}

// Int returns the parameter as an int, def when missing or not a number
func (p Params) Int(key string, def int) int {
	switch v := p[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return def
}

// Strings returns a list parameter. A single string becomes one element.
func (p Params) Strings(key string) []string {
	switch v := p[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s := fmt.Sprint(item); item != nil && s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	default:
		return nil
	}
}

// Fields returns the flat field map of a mapper form. A {"value": {...}}
// wrapper is unwrapped.
func (p Params) Fields() map[string]any {
	raw, _ := p["fields"].(map[string]any)
	if raw == nil {
		return map[string]any{}
	}
	if inner, ok := raw["value"].(map[string]any); ok {
		return inner
	}
	return raw
}
