package property

import (
	"encoding/json"
	"fmt"
)

/* TypeDefinition is the closed set of remote property types
 * The unexported method seals the interface to the variants below
 */
type TypeDefinition interface {
	Tag() string
	sealed()
}

type Boolean struct{}
type Number struct{}
type String struct{}
type DateTime struct{}

// SelectVariant tells single from multi selects
type SelectVariant string

const (
	SingleSelect SelectVariant = "single"
	MultiSelect  SelectVariant = "multi"
)

// Option is one choice of a select property
type Option struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

type Select struct {
	Variant SelectVariant
	Options []Option
}

// Unknown holds a type tag this service does not understand yet.
// Normalizing against it fails.
type Unknown struct {
	Name string
}

func (Boolean) Tag() string  { return "boolean" }
func (Number) Tag() string   { return "number" }
func (String) Tag() string   { return "string" }
func (DateTime) Tag() string { return "dateTime" }
func (Select) Tag() string   { return "select" }
func (u Unknown) Tag() string {
	return u.Name
}

func (Boolean) sealed()  {}
func (Number) sealed()   {}
func (String) sealed()   {}
func (DateTime) sealed() {}
func (Select) sealed()   {}
func (Unknown) sealed()  {}

type wireTypeDefinition struct {
	Type    string        `json:"type"`
	Variant SelectVariant `json:"variant,omitempty"`
	Options []Option      `json:"options,omitempty"`
}

// DecodeTypeDefinition parses the remote {"type": ...} object.
// A missing or null definition decodes to nil.
func DecodeTypeDefinition(raw json.RawMessage) (TypeDefinition, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var w wireTypeDefinition
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("decoding type definition: %w", err)
	}
	switch w.Type {
	case "":
		return nil, nil
	case "boolean":
		return Boolean{}, nil
	case "number":
		return Number{}, nil
	case "string":
		return String{}, nil
	case "dateTime":
		return DateTime{}, nil
	case "select":
		variant := w.Variant
		if variant == "" {
			variant = SingleSelect
		}
		return Select{Variant: variant, Options: w.Options}, nil
	default:
		return Unknown{Name: w.Type}, nil
	}
}

// EncodeTypeDefinition is the inverse of DecodeTypeDefinition
func EncodeTypeDefinition(def TypeDefinition) (json.RawMessage, error) {
	if def == nil {
		return json.RawMessage("null"), nil
	}
	w := wireTypeDefinition{Type: def.Tag()}
	if s, ok := def.(Select); ok {
		w.Variant = s.Variant
		w.Options = s.Options
	}
	data, err := json.Marshal(w)
	if err != nil {
		return nil, fmt.Errorf("encoding type definition: %w", err)
	}
	return data, nil
}
