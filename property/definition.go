package property

import (
	"encoding/json"
	"fmt"
)

/* Definition describes one remote-defined field
 * PropertyIdentifier and TableName together form the unique key
 */
type Definition struct {
	ID                 string
	PropertyIdentifier string
	TableName          TableName
	Required           bool
	TypeDefinition     TypeDefinition
	DisplayLabel       string
}

// Key returns the composite "{prefix}.{identifier}" key
func (d Definition) Key() string {
	return PrefixKey(d.TableName, d.PropertyIdentifier)
}

// Label returns the display label, falling back to the identifier
func (d Definition) Label() string {
	if d.DisplayLabel != "" {
		return d.DisplayLabel
	}
	return d.PropertyIdentifier
}

type wireDynamicType struct {
	FieldName string          `json:"fieldName,omitempty"`
	Type      json.RawMessage `json:"type,omitempty"`
}

type wireDefinition struct {
	ID                    string           `json:"id"`
	PropertyIdentifier    string           `json:"propertyIdentifier"`
	DynamicDBTableName    TableName        `json:"dynamicDbTableName"`
	Required              *bool            `json:"required,omitempty"`
	DynamicTypeDefinition *wireDynamicType `json:"dynamicTypeDefinition,omitempty"`
	TypeDefinition        json.RawMessage  `json:"typeDefinition,omitempty"`
}

// UnmarshalJSON reads the remote property shape. The explicit
// typeDefinition wins over dynamicTypeDefinition.type.
func (d *Definition) UnmarshalJSON(data []byte) error {
	var w wireDefinition
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("decoding property definition: %w", err)
	}

	def, err := DecodeTypeDefinition(w.TypeDefinition)
	if err != nil {
		return err
	}
	var label string
	if w.DynamicTypeDefinition != nil {
		label = w.DynamicTypeDefinition.FieldName
		if def == nil {
			def, err = DecodeTypeDefinition(w.DynamicTypeDefinition.Type)
			if err != nil {
				return err
			}
		}
	}

	*d = Definition{
		ID:                 w.ID,
		PropertyIdentifier: w.PropertyIdentifier,
		TableName:          w.DynamicDBTableName,
		Required:           w.Required != nil && *w.Required,
		TypeDefinition:     def,
		DisplayLabel:       label,
	}
	return nil
}

func (d Definition) MarshalJSON() ([]byte, error) {
	typeDef, err := EncodeTypeDefinition(d.TypeDefinition)
	if err != nil {
		return nil, err
	}
	required := d.Required
	w := wireDefinition{
		ID:                 d.ID,
		PropertyIdentifier: d.PropertyIdentifier,
		DynamicDBTableName: d.TableName,
		Required:           &required,
		DynamicTypeDefinition: &wireDynamicType{
			FieldName: d.DisplayLabel,
		},
		TypeDefinition: typeDef,
	}
	return json.Marshal(w)
}

// Card is a named UI grouping of properties
type Card struct {
	ID                  string       `json:"id"`
	DisplayName         string       `json:"displayName,omitempty"`
	InternalCardName    string       `json:"internalCardName,omitempty"`
	PropertyDefinitions []Definition `json:"propertyDefinitions"`
}

// Label returns the card's group label
func (c Card) Label() string {
	if c.InternalCardName != "" {
		return c.InternalCardName
	}
	if c.DisplayName != "" {
		return c.DisplayName
	}
	return "Card"
}

// FieldSet is the response of the field discovery endpoints
type FieldSet struct {
	Properties []Definition `json:"properties"`
	Cards      []Card       `json:"cards,omitempty"`
}

// BuildTypeMap indexes type definitions by composite key
func BuildTypeMap(defs []Definition) map[string]TypeDefinition {
	types := make(map[string]TypeDefinition, len(defs))
	for _, d := range defs {
		types[d.Key()] = d.TypeDefinition
	}
	return types
}
