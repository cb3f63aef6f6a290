package action

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/marcelsud/salessuite-connector/mapper"
	"github.com/marcelsud/salessuite-connector/salessuite"
)

// ValidationError is returned before any network call when an operation's
// input is incomplete or unsupported
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalidf(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// Record is one output item of an operation
type Record = map[string]any

// CRM is the remote API used by the operations
type CRM interface {
	mapper.Source

	CreateContact(ctx context.Context, payload salessuite.ContactPayload) (map[string]any, error)
	UpdateContact(ctx context.Context, id string, payload salessuite.ContactPayload, appendMultiSelect bool) (map[string]any, error)
	GetContact(ctx context.Context, id string) (any, error)
	ContactsByEmail(ctx context.Context, email string) ([]map[string]any, error)
	SearchContacts(ctx context.Context, query string) ([]map[string]any, error)
	ListContacts(ctx context.Context, page, pageSize int) ([]map[string]any, error)

	CreateDeal(ctx context.Context, q salessuite.DealQuery, body map[string]any) (map[string]any, error)
	UpdateDeal(ctx context.Context, id string, q salessuite.DealQuery, body map[string]any) (map[string]any, error)
	GetDeal(ctx context.Context, id string) (any, error)
	DealsByEmail(ctx context.Context, email string) ([]map[string]any, error)
	ListDeals(ctx context.Context, page, pageSize int, pipelineID string) ([]map[string]any, error)
	ListPipelines(ctx context.Context) ([]salessuite.Pipeline, error)

	CreateNote(ctx context.Context, parent salessuite.NoteParent, parentID, text string) (string, error)
	MailActivities(ctx context.Context, contactID string) (any, error)
	CallActivities(ctx context.Context, q salessuite.CallActivityQuery) (any, error)

	ListSubscriptions(ctx context.Context) ([]salessuite.Subscription, error)
	GetSubscription(ctx context.Context, id string) (salessuite.Subscription, error)
	CreateSubscription(ctx context.Context, in salessuite.SubscriptionInput) (salessuite.Subscription, error)
	UpdateSubscription(ctx context.Context, id string, in salessuite.SubscriptionInput) (salessuite.Subscription, error)
	DeleteSubscription(ctx context.Context, id string) (any, error)
}

type operation func(ctx context.Context, p Params) (any, error)

/* Router dispatches resource/operation pairs to their handlers
 * Uses pointer semantics as it's an API, not data
 */
type Router struct {
	CRM        CRM
	operations map[string]map[string]operation
}

// NewRouter creates a router over the given API
func NewRouter(crm CRM) *Router {
	r := &Router{CRM: crm}
	r.operations = map[string]map[string]operation{
		"contact": {
			"createContact":  r.createContact,
			"updateContact":  r.updateContact,
			"upsertContact":  r.upsertContact,
			"getByEmail":     r.contactsByEmail,
			"getContactById": r.getContact,
			"searchContacts": r.searchContacts,
			"listContacts":   r.listContacts,
		},
		"deal": {
			"createDeal":       r.createDeal,
			"updateDeal":       r.updateDeal,
			"getById":          r.getDeal,
			"findDealsByEmail": r.dealsByEmail,
			"listDeals":        r.listDeals,
			"getPipelines":     r.pipelines,
		},
		"activity": {
			"createNote":              r.createNote,
			"listEmailActivities":     r.mailActivities,
			"listPhoneCallActivities": r.callActivities,
		},
		"webhook": {
			"listWebhooks":  r.listWebhooks,
			"createWebhook": r.createWebhook,
			"updateWebhook": r.updateWebhook,
			"deleteWebhook": r.deleteWebhook,
		},
	}
	return r
}

// Operations lists the supported operations of a resource
func (r *Router) Operations(resource string) []string {
	ops := make([]string, 0, len(r.operations[resource]))
	for name := range r.operations[resource] {
		ops = append(ops, name)
	}
	slices.Sort(ops)
	return ops
}

// Execute runs one operation and flattens its result into records
func (r *Router) Execute(ctx context.Context, resource, op string, p Params) ([]Record, error) {
	ops, ok := r.operations[resource]
	if !ok {
		return nil, invalidf("Unsupported resource: %s", resource)
	}
	handler, ok := ops[op]
	if !ok {
		return nil, invalidf("Unsupported %s operation: %s", resource, op)
	}
	if p == nil {
		p = Params{}
	}

	result, err := handler(ctx, p)
	if err != nil {
		return nil, err
	}
	return Flatten(result)
}

/* Flatten turns an operation result into output records
 * Arrays fan out to one record per element, objects stay one record
 * and anything else is wrapped as {"result": v}
 */
func Flatten(result any) ([]Record, error) {
	raw, err := json.Marshal(salessuite.FiniteJSON(result))
	if err != nil {
		return nil, fmt.Errorf("encoding result: %w", err)
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("decoding result: %w", err)
	}

	switch v := generic.(type) {
	case []any:
		records := make([]Record, 0, len(v))
		for _, entry := range v {
			records = append(records, toRecord(entry))
		}
		return records, nil
	default:
		return []Record{toRecord(v)}, nil
	}
}

func toRecord(v any) Record {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return Record{"result": v}
}

// merge copies result and adds the extra keys. Nil extras are skipped.
func merge(result map[string]any, extra map[string]any) map[string]any {
	out := make(map[string]any, len(result)+len(extra))
	for k, v := range result {
		out[k] = v
	}
	for k, v := range extra {
		if v == nil {
			continue
		}
		out[k] = v
	}
	return out
}

func orEmptyList(v any) any {
	if v == nil {
		return []any{}
	}
	return v
}
