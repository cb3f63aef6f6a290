package property

import "strings"

// Buckets holds flat form values routed to their destination table
type Buckets struct {
	Contact       map[string]any
	ContactPerson map[string]any
	Deal          map[string]any
}

// SplitPrefixedFields routes each key by its "contact.", "contactPerson."
// or "deal." prefix, stripping it. Unprefixed keys go to Contact.
func SplitPrefixedFields(input map[string]any) Buckets {
	b := Buckets{
		Contact:       map[string]any{},
		ContactPerson: map[string]any{},
		Deal:          map[string]any{},
	}
	for key, value := range input {
		switch {
		case strings.HasPrefix(key, "contact."):
			b.Contact[strings.TrimPrefix(key, "contact.")] = value
		case strings.HasPrefix(key, "contactPerson."):
			b.ContactPerson[strings.TrimPrefix(key, "contactPerson.")] = value
		case strings.HasPrefix(key, "deal."):
			b.Deal[strings.TrimPrefix(key, "deal.")] = value
		default:
			b.Contact[key] = value
		}
	}
	return b
}
