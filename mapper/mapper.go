package mapper

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/marcelsud/salessuite-connector/property"
)

/* Field is one mappable form field
 * ID is the composite "{prefix}.{identifier}" key
 */
type Field struct {
	ID               string   `json:"id"`
	DisplayName      string   `json:"displayName"`
	Required         bool     `json:"required"`
	CanBeUsedToMatch bool     `json:"canBeUsedToMatch"`
	DefaultMatch     bool     `json:"defaultMatch"`
	Display          bool     `json:"display"`
	Type             string   `json:"type"`
	Options          []Choice `json:"options,omitempty"`
	ReadOnly         bool     `json:"readOnly"`
	Removed          bool     `json:"removed"`
	Group            string   `json:"group"`
}

// Choice is a selectable value in a UI list
type Choice struct {
	Name        string `json:"name"`
	Value       any    `json:"value"`
	Description string `json:"description,omitempty"`
}

const OtherGroup = "Other"

// Source loads the remote schema
type Source interface {
	ContactFields(ctx context.Context) (property.FieldSet, error)
	DealFields(ctx context.Context) (property.FieldSet, error)
}

type Builder struct {
	Source Source
}

func NewBuilder(src Source) *Builder {
	return &Builder{Source: src}
}

type entity struct {
	keep   func(property.Definition) bool
	usable func([]property.Definition) []property.Definition
	label  func(property.Definition, string) string
	match  func(property.Definition) bool
}

var contactEntity = entity{
	keep: func(d property.Definition) bool {
		return d.TableName == property.Contact || d.TableName == property.ContactPerson
	},
	usable: property.ContactProperties,
	label: func(d property.Definition, label string) string {
		if d.TableName == property.ContactPerson {
			return "Contact Person: " + label
		}
		return "Contact: " + label
	},
	match: func(d property.Definition) bool {
		return d.TableName == property.ContactPerson && d.PropertyIdentifier == "email"
	},
}

// name is a required top-level parameter of deal operations
var dealEntity = entity{
	keep: func(d property.Definition) bool {
		return d.TableName == property.Deal && d.PropertyIdentifier != "name"
	},
	usable: property.DealProperties,
	label: func(_ property.Definition, label string) string { return label },
	match: func(property.Definition) bool { return false },
}

// ContactFields lists the Contact and ContactPerson fields for create forms
func (b *Builder) ContactFields(ctx context.Context) ([]Field, error) {
	set, err := b.Source.ContactFields(ctx)
	if err != nil {
		return nil, fmt.Errorf("building contact fields: %w", err)
	}
	return build(set, contactEntity), nil
}

func (b *Builder) ContactFieldsForUpdate(ctx context.Context) ([]Field, error) {
	fields, err := b.ContactFields(ctx)
	if err != nil {
		return nil, err
	}
	return forUpdate(fields), nil
}

// DealFields lists the Deal fields for create forms, without name
func (b *Builder) DealFields(ctx context.Context) ([]Field, error) {
	set, err := b.Source.DealFields(ctx)
	if err != nil {
		return nil, fmt.Errorf("building deal fields: %w", err)
	}
	return build(set, dealEntity), nil
}

func (b *Builder) DealFieldsForUpdate(ctx context.Context) ([]Field, error) {
	fields, err := b.DealFields(ctx)
	if err != nil {
		return nil, err
	}
	return forUpdate(fields), nil
}

func build(set property.FieldSet, e entity) []Field {
	properties := e.usable(set.Properties)
	byID := make(map[string]property.Definition, len(properties))
	for _, p := range properties {
		byID[p.ID] = p
	}

	seen := map[string]struct{}{}
	var fields []Field

	add := func(d property.Definition, group string) {
		if d.PropertyIdentifier == "" || !e.keep(d) || !property.Usable(d) {
			return
		}
		key := d.Key()
		if _, ok := seen[key]; ok {
			return
		}

		prop, ok := byID[d.ID]
		if !ok {
			prop = d
		}
		typeDef := prop.TypeDefinition
		if typeDef == nil {
			typeDef = d.TypeDefinition
		}
		widget, options := Widget(typeDef)
		match := e.match(d)

		seen[key] = struct{}{}
		fields = append(fields, Field{
			ID:               key,
			DisplayName:      e.label(d, d.Label()),
			CanBeUsedToMatch: match,
			DefaultMatch:     match,
			Display:          true,
			Type:             widget,
			Options:          options,
			Group:            group,
		})
	}

	for _, card := range set.Cards {
		for _, d := range card.PropertyDefinitions {
			add(d, card.Label())
		}
	}
	for _, p := range properties {
		add(p, OtherGroup)
	}
	return fields
}

func forUpdate(fields []Field) []Field {
	out := make([]Field, len(fields))
	for i, f := range fields {
		f.Required = false
		f.CanBeUsedToMatch = false
		f.DefaultMatch = false
		out[i] = f
	}
	return out
}

// Widget maps a type definition to a UI widget type and its options
func Widget(def property.TypeDefinition) (string, []Choice) {
	switch d := def.(type) {
	case property.Boolean:
		return "options", []Choice{{Name: "Yes", Value: true}, {Name: "No", Value: false}}
	case property.Number:
		return "number", nil
	case property.DateTime:
		return "dateTime", nil
	case property.Select:
		options := make([]Choice, 0, len(d.Options))
		for _, o := range d.Options {
			options = append(options, Choice{Name: o.Label, Value: o.Key})
		}
		if d.Variant == property.MultiSelect {
			return "multiOptions", options
		}
		return "options", options
	default:
		return "string", nil
	}
}

// PropertyChoices lists usable properties as {label, identifier} pairs
// sorted by label, ignoring case
func PropertyChoices(defs []property.Definition) []Choice {
	sorted := make([]property.Definition, len(defs))
	copy(sorted, defs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return strings.ToLower(sorted[i].Label()) < strings.ToLower(sorted[j].Label())
	})

	out := make([]Choice, 0, len(sorted))
	for _, d := range sorted {
		out = append(out, Choice{Name: d.Label(), Value: d.PropertyIdentifier})
	}
	return out
}

// ContactPropertyChoices loads the usable contact properties as choices
func (b *Builder) ContactPropertyChoices(ctx context.Context) ([]Choice, error) {
	set, err := b.Source.ContactFields(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading contact properties: %w", err)
	}
	return PropertyChoices(property.ContactProperties(set.Properties)), nil
}

// DealPropertyChoices loads the usable deal properties as choices
func (b *Builder) DealPropertyChoices(ctx context.Context) ([]Choice, error) {
	set, err := b.Source.DealFields(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading deal properties: %w", err)
	}
	return PropertyChoices(property.DealProperties(set.Properties)), nil
}
