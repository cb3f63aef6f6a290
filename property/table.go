package property

import (
	"encoding/json"
	"fmt"
)

/* TableName identifies which remote table owns a property
 * Contact and ContactPerson are both edited through the contact forms
 */
type TableName int

const (
	Contact TableName = iota + 1
	ContactPerson
	Deal
)

// String returns the remote name of the table
func (t TableName) String() string {
	switch t {
	case Contact:
		return "Contact"
	case ContactPerson:
		return "ContactPerson"
	case Deal:
		return "Deal"
	default:
		return "unknown"
	}
}

// NewTableName creates a TableName from its remote name
func NewTableName(s string) TableName {
	switch s {
	case "Contact":
		return Contact
	case "ContactPerson":
		return ContactPerson
	case "Deal":
		return Deal
	default:
		return 0
	}
}

// Validate checks if the table name is known
func (t TableName) Validate() error {
	if t < Contact || t > Deal {
		return fmt.Errorf("invalid table name: %d", t)
	}
	return nil
}

// Prefix returns the key prefix used for flat field keys of this table
func (t TableName) Prefix() string {
	switch t {
	case Contact:
		return "contact"
	case ContactPerson:
		return "contactPerson"
	case Deal:
		return "deal"
	default:
		return ""
	}
}

func (t TableName) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TableName) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("decoding table name: %w", err)
	}
	*t = NewTableName(s)
	return nil
}

// PrefixKey builds the composite lookup key "{prefix}.{identifier}"
func PrefixKey(table TableName, identifier string) string {
	return table.Prefix() + "." + identifier
}
