package trigger

// Event is a SalesSuite webhook event type
type Event string

const (
	ContactCreated         Event = "contact.created"
	ContactPropertyChanged Event = "contact.propertyChanged"
	DealCreated            Event = "deal.created"
	DealPropertyChanged    Event = "deal.propertyChanged"
	DealStageChanged       Event = "deal.stageChanged"
	FormSubmitted          Event = "form.submitted"
	ActivityCreated        Event = "activity.created"
)

var eventNames = map[Event]string{
	ContactCreated:         "Contact Created",
	ContactPropertyChanged: "Contact Property Changed",
	DealCreated:            "Deal Created",
	DealPropertyChanged:    "Deal Property Changed",
	DealStageChanged:       "Deal Stage Changed",
	FormSubmitted:          "Form Submitted",
	ActivityCreated:        "Activity Created",
}

// Events lists every supported event in display order
func Events() []Event {
	return []Event{
		ContactCreated,
		ContactPropertyChanged,
		DealCreated,
		DealPropertyChanged,
		DealStageChanged,
		FormSubmitted,
		ActivityCreated,
	}
}

// DisplayName returns the human label of the event
func (e Event) DisplayName() string {
	if name, ok := eventNames[e]; ok {
		return name
	}
	return string(e)
}

func (e Event) Validate() error {
	if _, ok := eventNames[e]; !ok {
		return invalidf("Unsupported event: %s", e)
	}
	return nil
}
