package event

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// typePattern accepts dotted event names such as deal.stageChanged
var typePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+(\.[a-zA-Z0-9_]+)*$`)

// UnknownType is used when a delivery does not name a valid event type
const UnknownType = "unknown"

// Envelope wraps a delivery body with its event type and receive time
type Envelope struct {
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

func (e Envelope) Validate() error {
	if !typePattern.MatchString(e.Type) {
		return fmt.Errorf("invalid event type: %q", e.Type)
	}
	if e.Timestamp.IsZero() {
		return fmt.Errorf("timestamp is required")
	}
	if len(e.Data) == 0 || !json.Valid(e.Data) {
		return fmt.Errorf("data must be valid JSON")
	}
	return nil
}

// NewEnvelope wraps a raw delivery body. The type is read from the body's
// "type" field. A body that is not a JSON object is stored as {}.
func NewEnvelope(body []byte, receivedAt time.Time) Envelope {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		return Envelope{Type: UnknownType, Timestamp: receivedAt.UTC(), Data: json.RawMessage(`{}`)}
	}

	eventType := UnknownType
	var declared string
	if raw, ok := fields["type"]; ok && json.Unmarshal(raw, &declared) == nil && typePattern.MatchString(declared) {
		eventType = declared
	}
	return Envelope{Type: eventType, Timestamp: receivedAt.UTC(), Data: json.RawMessage(body)}
}

// Body decodes the wrapped data as an object
func (e Envelope) Body() map[string]any {
	out := map[string]any{}
	if err := json.Unmarshal(e.Data, &out); err != nil || out == nil {
		return map[string]any{}
	}
	return out
}

// MatchesType checks the type against exact names or "prefix.*" patterns.
// No patterns match everything.
func (e Envelope) MatchesType(patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}
	for _, p := range patterns {
		if p == e.Type {
			return true
		}
		if prefix, ok := strings.CutSuffix(p, ".*"); ok && strings.HasPrefix(e.Type, prefix+".") {
			return true
		}
	}
	return false
}
