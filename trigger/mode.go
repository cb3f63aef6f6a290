package trigger

import "fmt"

/* Mode selects one of the two lifelines of a trigger
 * Manual listens once for a test run, Production stays subscribed while deployed
 */
type Mode int

const (
	Manual Mode = iota + 1
	Production
)

// String returns the string representation of the mode
func (m Mode) String() string {
	switch m {
	case Manual:
		return "manual"
	case Production:
		return "production"
	default:
		return "unknown"
	}
}

// NewMode creates a Mode from a string, 0 when unknown
func NewMode(s string) Mode {
	switch s {
	case "manual", "test":
		return Manual
	case "production", "trigger":
		return Production
	default:
		return 0
	}
}

// Validate checks if the mode is valid
func (m Mode) Validate() error {
	if m != Manual && m != Production {
		return fmt.Errorf("invalid trigger mode: %d", m)
	}
	return nil
}
