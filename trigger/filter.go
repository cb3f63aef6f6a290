package trigger

import (
	"fmt"
	"strings"
)

// ValidationError is raised before any network call when input is incomplete
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalidf(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// Stage scopes of deal.stageChanged
const (
	AllStages      = "all"
	SpecificStages = "specific"
)

/* FilterParams are the event criteria chosen for a subscription
 * CallResult carries the encoded option value, see CallResult.Encode
 */
type FilterParams struct {
	PropertyIDs []string `json:"propertyIds,omitempty" yaml:"property_ids"`
	StageScope  string   `json:"stageScope,omitempty" yaml:"stage_scope"`
	PipelineID  string   `json:"pipelineId,omitempty" yaml:"pipeline_id"`
	PhaseID     string   `json:"phaseId,omitempty" yaml:"phase_id"`
	FormID      string   `json:"formId,omitempty" yaml:"form_id"`
	CallTypeID  string   `json:"callTypeId,omitempty" yaml:"call_type_id"`
	CallResult  string   `json:"callResult,omitempty" yaml:"call_result"`
}

// BuildFilter builds the subscription filter of a trigger. Missing
// required criteria are validation errors.
func BuildFilter(event Event, p FilterParams) (map[string]any, error) {
	if err := event.Validate(); err != nil {
		return nil, err
	}
	filter := map[string]any{}

	switch event {
	case ContactPropertyChanged:
		if len(p.PropertyIDs) == 0 {
			return nil, invalidf("Please select at least one Contact property.")
		}
		filter["propertyIds"] = p.PropertyIDs
	case DealPropertyChanged:
		if len(p.PropertyIDs) == 0 {
			return nil, invalidf("Please select at least one Deal property.")
		}
		filter["propertyIds"] = p.PropertyIDs
	case DealStageChanged:
		if p.StageScope == SpecificStages {
			if p.PipelineID == "" || p.PhaseID == "" {
				return nil, invalidf("Please select a pipeline and phase for this trigger.")
			}
			filter["pipelineId"] = p.PipelineID
			filter["phaseId"] = p.PhaseID
		}
	case DealCreated:
		if p.PipelineID != "" {
			filter["pipelineId"] = p.PipelineID
		}
	case FormSubmitted:
		if p.FormID == "" {
			return nil, invalidf("Please select a form.")
		}
		filter["formId"] = p.FormID
	case ActivityCreated:
		filter["activityType"] = "call"
		if p.CallTypeID != "" && p.CallTypeID != AnyCallOption {
			filter["callTypeId"] = p.CallTypeID
		}
		result, err := ParseCallResult(p.CallResult)
		if err != nil {
			return nil, err
		}
		if result != nil {
			filter["callResult"] = *result
		}
	}
	return filter, nil
}

// BuildSubscriptionFilter is the filter of direct subscription management.
// Stage criteria are optional, call results fall back to the raw value and
// with allowEmpty a missing required criterion yields an empty filter.
func BuildSubscriptionFilter(event Event, p FilterParams, allowEmpty bool) (map[string]any, error) {
	filter := map[string]any{}

	switch event {
	case ContactPropertyChanged, DealPropertyChanged:
		if len(p.PropertyIDs) == 0 {
			if allowEmpty {
				return filter, nil
			}
			return nil, invalidf("Select at least one property for this trigger.")
		}
		filter["propertyIds"] = p.PropertyIDs
	case DealStageChanged:
		if id := strings.TrimSpace(p.PipelineID); id != "" {
			filter["pipelineId"] = id
		}
		if id := strings.TrimSpace(p.PhaseID); id != "" {
			filter["phaseId"] = id
		}
	case DealCreated:
		if id := strings.TrimSpace(p.PipelineID); id != "" {
			filter["pipelineId"] = id
		}
	case FormSubmitted:
		id := strings.TrimSpace(p.FormID)
		if id == "" {
			if allowEmpty {
				return filter, nil
			}
			return nil, invalidf("form.submitted requires a formId.")
		}
		filter["formId"] = id
	case ActivityCreated:
		filter["activityType"] = "call"
		if id := strings.TrimSpace(p.CallTypeID); id != "" && id != AnyCallOption {
			filter["callTypeId"] = id
		}
		if result := ParseCallResultFilter(p.CallResult); result != nil {
			filter["callResult"] = result
		}
	}
	return filter, nil
}
