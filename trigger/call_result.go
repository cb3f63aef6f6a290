package trigger

import (
	"encoding/json"
	"fmt"
	"strings"
)

// CallCategory groups call results by the kind of call
type CallCategory string

const (
	Opening CallCategory = "opening"
	Closing CallCategory = "closing"
	Setting CallCategory = "setting"
)

/* CallResult is the outcome filter of activity.created
 * ViaGatekeeper only exists for opening results that distinguish it
 */
type CallResult struct {
	Category      CallCategory
	Result        string
	ViaGatekeeper *bool
}

type openingResult struct {
	Result        string `json:"result"`
	ViaGatekeeper *bool  `json:"viaGatekeeper,omitempty"`
}

type wireCallResult struct {
	Type          CallCategory   `json:"type"`
	OpeningResult *openingResult `json:"openingResult,omitempty"`
	SettingResult *string        `json:"settingResult,omitempty"`
	ClosingResult *string        `json:"closingResult,omitempty"`
}

func (c CallResult) MarshalJSON() ([]byte, error) {
	w := wireCallResult{Type: c.Category}
	switch c.Category {
	case Opening:
		w.OpeningResult = &openingResult{Result: c.Result, ViaGatekeeper: c.ViaGatekeeper}
	case Setting:
		w.SettingResult = &c.Result
	case Closing:
		w.ClosingResult = &c.Result
	default:
		return nil, fmt.Errorf("unsupported call result type: %q", c.Category)
	}
	return json.Marshal(w)
}

func (c *CallResult) UnmarshalJSON(data []byte) error {
	var w wireCallResult
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	switch w.Type {
	case Opening:
		if w.OpeningResult == nil || w.OpeningResult.Result == "" {
			return fmt.Errorf("opening call result without result")
		}
		*c = CallResult{Category: Opening, Result: w.OpeningResult.Result, ViaGatekeeper: w.OpeningResult.ViaGatekeeper}
	case Setting:
		if w.SettingResult == nil || *w.SettingResult == "" {
			return fmt.Errorf("setting call result without result")
		}
		*c = CallResult{Category: Setting, Result: *w.SettingResult}
	case Closing:
		if w.ClosingResult == nil || *w.ClosingResult == "" {
			return fmt.Errorf("closing call result without result")
		}
		*c = CallResult{Category: Closing, Result: *w.ClosingResult}
	default:
		return fmt.Errorf("unsupported call result type: %q", w.Type)
	}
	return nil
}

// Encode returns the wire form used as option value
func (c CallResult) Encode() string {
	data, err := json.Marshal(c)
	if err != nil {
		return ""
	}
	return string(data)
}

// Label is the human name of the result
func (c CallResult) Label() string {
	if c.Category == Opening && c.ViaGatekeeper != nil {
		if *c.ViaGatekeeper {
			return c.Result + " (via gatekeeper)"
		}
		return c.Result + " (direct)"
	}
	return c.Result
}

// AnyCallOption is the option value that disables a call filter
const AnyCallOption = "any"

// ParseCallResult decodes a selected call result. Empty and "any" yield nil.
// Anything else that is not a valid result is a validation error.
func ParseCallResult(raw string) (*CallResult, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == AnyCallOption {
		return nil, nil
	}
	var c CallResult
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return nil, invalidf("Call Result must be a valid JSON option.")
	}
	return &c, nil
}

// ParseCallResultFilter is the lenient variant: a known result, else any
// JSON value, else the raw string
func ParseCallResultFilter(raw string) any {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == AnyCallOption {
		return nil
	}
	var c CallResult
	if err := json.Unmarshal([]byte(raw), &c); err == nil {
		return c
	}
	var generic any
	if err := json.Unmarshal([]byte(raw), &generic); err == nil {
		return generic
	}
	return raw
}

func boolPtr(b bool) *bool {
	return &b
}

// Result names mirror the SalesSuite call result enums and must track them.
var (
	openingResults = []struct {
		result     string
		gatekeeper bool
	}{
		{"decisionMakerReached", true},
		{"callbackRequested", true},
		{"noInterest", true},
		{"notReached", false},
		{"wrongContact", false},
	}
	closingResults = []string{"won", "lost", "followUp", "noDecision"}
	settingResults = []string{"appointmentSet", "noAppointment", "followUp"}
)

// CallResults returns the catalog of results of a category. Opening results
// that distinguish the gatekeeper come in both variants.
func CallResults(category CallCategory) []CallResult {
	var out []CallResult
	switch category {
	case Opening:
		for _, r := range openingResults {
			if !r.gatekeeper {
				out = append(out, CallResult{Category: Opening, Result: r.result})
				continue
			}
			for _, via := range []bool{true, false} {
				out = append(out, CallResult{Category: Opening, Result: r.result, ViaGatekeeper: boolPtr(via)})
			}
		}
	case Closing:
		for _, r := range closingResults {
			out = append(out, CallResult{Category: Closing, Result: r})
		}
	case Setting:
		for _, r := range settingResults {
			out = append(out, CallResult{Category: Setting, Result: r})
		}
	}
	return out
}

// AllCallResults lists closing, then opening, then setting results
func AllCallResults() []CallResult {
	var out []CallResult
	for _, c := range []CallCategory{Closing, Opening, Setting} {
		out = append(out, CallResults(c)...)
	}
	return out
}
