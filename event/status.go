package event

import "fmt"

/* Status follows the inbox lifecycle: Pending -> Consumed -> Acknowledged
 * A consumed event that is never acknowledged stays pending in its stream
 */
type Status int

const (
	Pending Status = iota + 1
	Consumed
	Acknowledged
)

// String returns the string representation of the status
func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case Consumed:
		return "consumed"
	case Acknowledged:
		return "acknowledged"
	default:
		return "unknown"
	}
}

// NewStatus creates a Status from a string
func NewStatus(str string) Status {
	switch str {
	case "consumed":
		return Consumed
	case "acknowledged":
		return Acknowledged
	default:
		return Pending
	}
}

func (s Status) Validate() error {
	if s < Pending || s > Acknowledged {
		return fmt.Errorf("invalid status: %d", s)
	}
	return nil
}
