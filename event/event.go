package event

import (
	"time"

	"github.com/marcelsud/salessuite-connector/trigger"
)

/* Event is an inbound SalesSuite delivery recorded for a trigger node
 * Uses value semantics as it represents data, not behavior
 */
type Event struct {
	ID         string
	NodeID     string
	Mode       trigger.Mode
	Envelope   Envelope
	Headers    map[string]string
	Status     Status
	ReceivedAt time.Time
	UpdatedAt  time.Time
}
