package salessuite

import (
	"encoding/json"
	"math"
)

// FiniteJSON replaces NaN and infinite numbers inside maps and slices with
// nil so they encode as null, like JSON.stringify does. Other values are
// returned unchanged.
func FiniteJSON(v any) any {
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil
		}
	case float32:
		if math.IsNaN(float64(x)) || math.IsInf(float64(x), 0) {
			return nil
		}
	case map[string]any:
		return finiteFields(x)
	case []any:
		if x == nil {
			return x
		}
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = FiniteJSON(item)
		}
		return out
	}
	return v
}

func finiteFields(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for key, value := range m {
		out[key] = FiniteJSON(value)
	}
	return out
}

func (p ContactPayload) MarshalJSON() ([]byte, error) {
	type wire ContactPayload
	return json.Marshal(wire{
		Contact:       finiteFields(p.Contact),
		ContactPerson: finiteFields(p.ContactPerson),
	})
}
