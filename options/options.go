package options

import (
	"context"
	"fmt"
	"strings"

	"github.com/marcelsud/salessuite-connector/mapper"
	"github.com/marcelsud/salessuite-connector/salessuite"
	"github.com/marcelsud/salessuite-connector/trigger"
)

// Option is one entry of a picker list
type Option = mapper.Choice

// API is the remote surface the loaders read from
type API interface {
	mapper.Source
	ListPipelines(ctx context.Context) ([]salessuite.Pipeline, error)
	ListContacts(ctx context.Context, page, pageSize int) ([]map[string]any, error)
	SearchContacts(ctx context.Context, query string) ([]map[string]any, error)
	ListDeals(ctx context.Context, page, pageSize int, pipelineID string) ([]map[string]any, error)
	ListForms(ctx context.Context) ([]salessuite.Form, error)
	ListCallTypes(ctx context.Context) ([]salessuite.CallType, error)
	ListSubscriptions(ctx context.Context) ([]salessuite.Subscription, error)
}

const (
	contactPageSize = 25
	dealPageSize    = 50
)

/* Loader builds the dynamic option lists of the workflow editor
 * Uses pointer semantics as it's an API, not data
 */
type Loader struct {
	API    API
	Fields *mapper.Builder
}

func NewLoader(api API) *Loader {
	return &Loader{API: api, Fields: mapper.NewBuilder(api)}
}

func placeholder(name string) []Option {
	return []Option{{Name: name, Value: ""}}
}

func (l *Loader) Pipelines(ctx context.Context) ([]Option, error) {
	pipelines, err := l.API.ListPipelines(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Option, 0, len(pipelines))
	for _, p := range pipelines {
		out = append(out, Option{Name: firstNonEmpty(p.DisplayName, p.ID), Value: p.ID})
	}
	return out, nil
}

// Stages lists the phases of the selected pipeline
func (l *Loader) Stages(ctx context.Context, pipelineID string) ([]Option, error) {
	if pipelineID == "" {
		return placeholder("Please Select a Pipeline First"), nil
	}
	pipelines, err := l.API.ListPipelines(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range pipelines {
		if p.ID != pipelineID {
			continue
		}
		out := make([]Option, 0, len(p.Phases))
		for _, phase := range p.Phases {
			out = append(out, Option{Name: firstNonEmpty(phase.DisplayName, phase.ID), Value: phase.ID})
		}
		return out, nil
	}
	return placeholder("Pipeline not found"), nil
}

// Contacts searches contacts, or lists the first page when search is blank
func (l *Loader) Contacts(ctx context.Context, search string) ([]Option, error) {
	var (
		entries []map[string]any
		err     error
	)
	if s := strings.TrimSpace(search); s != "" {
		entries, err = l.API.SearchContacts(ctx, s)
	} else {
		entries, err = l.API.ListContacts(ctx, 0, contactPageSize)
	}
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return placeholder("No contacts found"), nil
	}

	out := make([]Option, 0, len(entries))
	for _, entry := range entries {
		contact, _ := entry["contact"].(map[string]any)
		person, _ := entry["mainContactPerson"].(map[string]any)
		label, email := contactLabel(contact, person)
		out = append(out, Option{Name: label, Value: text(contact, "id"), Description: email})
	}
	return out, nil
}

func contactLabel(contact, person map[string]any) (string, string) {
	first := firstNonEmpty(text(person, "firstName"), text(contact, "firstName"))
	last := firstNonEmpty(text(person, "lastName"), text(contact, "lastName"))
	email := firstNonEmpty(text(person, "email"), text(contact, "email"))
	full := strings.TrimSpace(first + " " + last)
	return firstNonEmpty(full, email, text(contact, "id"), "Unknown"), email
}

// Deals lists the first deals with their pipeline position
func (l *Loader) Deals(ctx context.Context) ([]Option, error) {
	deals, err := l.API.ListDeals(ctx, 0, dealPageSize, "")
	if err != nil {
		return nil, err
	}
	if len(deals) == 0 {
		return placeholder("No deals found"), nil
	}

	out := make([]Option, 0, len(deals))
	for _, d := range deals {
		pipeline, phase := text(d, "pipelineName"), text(d, "phaseName")
		name := firstNonEmpty(text(d, "name"), text(d, "id"))
		if pipeline != "" {
			name += " • " + pipeline
		}
		if phase != "" {
			name += " › " + phase
		}
		opt := Option{Name: name, Value: text(d, "id")}
		if pipeline != "" && phase != "" {
			opt.Description = pipeline + " / " + phase
		}
		out = append(out, opt)
	}
	return out, nil
}

func (l *Loader) Forms(ctx context.Context) ([]Option, error) {
	forms, err := l.API.ListForms(ctx)
	if err != nil {
		return nil, err
	}
	if len(forms) == 0 {
		return placeholder("No Forms Found"), nil
	}
	out := make([]Option, 0, len(forms))
	for _, f := range forms {
		out = append(out, Option{Name: firstNonEmpty(f.Name, f.FormID), Value: f.FormID})
	}
	return out, nil
}

// CallTypes lists call types after an "any" entry
func (l *Loader) CallTypes(ctx context.Context) ([]Option, error) {
	types, err := l.API.ListCallTypes(ctx)
	if err != nil {
		return nil, err
	}
	out := []Option{{Name: "Any Call Type", Value: trigger.AnyCallOption}}
	for _, t := range types {
		name := t.Name
		if t.Category != "" {
			name = fmt.Sprintf("%s (%s)", t.Name, t.Category)
		}
		out = append(out, Option{Name: name, Value: t.ID})
	}
	return out, nil
}

// CallResults lists the results of the selected call type's category, or
// every result when no known category is selected
func (l *Loader) CallResults(ctx context.Context, callTypeID string) ([]Option, error) {
	types, err := l.API.ListCallTypes(ctx)
	if err != nil {
		return nil, err
	}

	results := trigger.AllCallResults()
	if callTypeID != "" && callTypeID != trigger.AnyCallOption {
		for _, t := range types {
			if t.ID != callTypeID {
				continue
			}
			if scoped := trigger.CallResults(trigger.CallCategory(t.Category)); len(scoped) > 0 {
				results = scoped
			}
			break
		}
	}

	out := []Option{{Name: "Any Call Result", Value: trigger.AnyCallOption}}
	for _, r := range results {
		out = append(out, Option{Name: r.Label(), Value: r.Encode()})
	}
	return out, nil
}

// EventTypes lists the webhook event types
func EventTypes() []Option {
	events := trigger.Events()
	out := make([]Option, 0, len(events))
	for _, e := range events {
		out = append(out, Option{Name: e.DisplayName(), Value: string(e)})
	}
	return out
}

// Webhooks lists the existing subscriptions
func (l *Loader) Webhooks(ctx context.Context) ([]Option, error) {
	subs, err := l.API.ListSubscriptions(ctx)
	if err != nil {
		return nil, err
	}
	if len(subs) == 0 {
		return placeholder("No Webhooks Found"), nil
	}
	out := make([]Option, 0, len(subs))
	for _, s := range subs {
		out = append(out, Option{Name: fmt.Sprintf("%s (%s)", s.HookURL, s.Type), Value: s.ID})
	}
	return out, nil
}

func (l *Loader) ContactProperties(ctx context.Context) ([]Option, error) {
	return l.Fields.ContactPropertyChoices(ctx)
}

func (l *Loader) DealProperties(ctx context.Context) ([]Option, error) {
	return l.Fields.DealPropertyChoices(ctx)
}

// WebhookProperties lists the properties that can be watched by a
// property changed event
func (l *Loader) WebhookProperties(ctx context.Context, event trigger.Event) ([]Option, error) {
	var (
		out []Option
		err error
	)
	switch event {
	case "":
		return placeholder("Select a Trigger First"), nil
	case trigger.ContactPropertyChanged:
		out, err = l.ContactProperties(ctx)
	case trigger.DealPropertyChanged:
		out, err = l.DealProperties(ctx)
	default:
		return placeholder("No properties required for this trigger"), nil
	}
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return placeholder("No Properties Found"), nil
	}
	return out, nil
}

func text(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
