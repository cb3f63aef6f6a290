package salessuite

import (
	"context"
	"fmt"
	"net/http"

	"github.com/marcelsud/salessuite-connector/property"
)

// Phase is one stage of a deal pipeline
type Phase struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

type Pipeline struct {
	ID          string  `json:"id"`
	DisplayName string  `json:"displayName"`
	Phases      []Phase `json:"phases"`
}

type CallType struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
}

type Form struct {
	FormID string `json:"formId"`
	Name   string `json:"name"`
}

// Subscription is a remote webhook subscription
type Subscription struct {
	ID      string         `json:"id"`
	HookURL string         `json:"hookUrl"`
	Type    string         `json:"type"`
	Filter  map[string]any `json:"filter,omitempty"`
}

// SubscriptionInput is the body of create and update calls
type SubscriptionInput struct {
	HookURL string `json:"hookUrl"`
	Type    string `json:"type"`
	Filter  any    `json:"filter"`
}

// ContactPayload is the create/update body for contacts
type ContactPayload struct {
	Contact       map[string]any `json:"contact"`
	ContactPerson map[string]any `json:"contactPerson"`
}

// DealQuery holds the query parameters of deal writes
type DealQuery struct {
	PipelineID              string
	ContactID               string
	PhaseID                 string
	AppendMultiSelectValues bool
}

// NoteParent selects which record a note is attached to
type NoteParent string

const (
	NoteOnContact NoteParent = "contact"
	NoteOnDeal    NoteParent = "deal"
)

// CallActivityQuery filters phone call activities of a contact
type CallActivityQuery struct {
	ContactID  string `json:"contactId"`
	CallTypeID string `json:"callTypeId,omitempty"`
	CallResult any    `json:"callResult,omitempty"`
}

func (c *Client) ListPipelines(ctx context.Context) ([]Pipeline, error) {
	var out []Pipeline
	if err := c.do(ctx, http.MethodGet, "/pipelines", Request{}, &out); err != nil {
		return nil, fmt.Errorf("listing pipelines: %w", err)
	}
	return out, nil
}

// ContactFields returns the Contact and ContactPerson schema with its cards
func (c *Client) ContactFields(ctx context.Context) (property.FieldSet, error) {
	var out property.FieldSet
	if err := c.do(ctx, http.MethodGet, "/fields/contact", Request{}, &out); err != nil {
		return property.FieldSet{}, fmt.Errorf("loading contact fields: %w", err)
	}
	return out, nil
}

// DealFields returns the Deal schema with its cards
func (c *Client) DealFields(ctx context.Context) (property.FieldSet, error) {
	var out property.FieldSet
	if err := c.do(ctx, http.MethodGet, "/fields/deal", Request{}, &out); err != nil {
		return property.FieldSet{}, fmt.Errorf("loading deal fields: %w", err)
	}
	return out, nil
}

func (c *Client) ListCallTypes(ctx context.Context) ([]CallType, error) {
	var out []CallType
	if err := c.do(ctx, http.MethodGet, "/call-types", Request{}, &out); err != nil {
		return nil, fmt.Errorf("listing call types: %w", err)
	}
	return out, nil
}

func (c *Client) ListForms(ctx context.Context) ([]Form, error) {
	var out []Form
	if err := c.do(ctx, http.MethodGet, "/form", Request{}, &out); err != nil {
		return nil, fmt.Errorf("listing forms: %w", err)
	}
	return out, nil
}

func (c *Client) ListSubscriptions(ctx context.Context) ([]Subscription, error) {
	var out []Subscription
	if err := c.do(ctx, http.MethodGet, "/webhooks/subscription", Request{}, &out); err != nil {
		return nil, fmt.Errorf("listing subscriptions: %w", err)
	}
	return out, nil
}

func (c *Client) GetSubscription(ctx context.Context, id string) (Subscription, error) {
	var out Subscription
	req := Request{Path: map[string]string{"id": id}}
	if err := c.do(ctx, http.MethodGet, "/webhooks/subscription/{id}", req, &out); err != nil {
		return Subscription{}, fmt.Errorf("getting subscription: %w", err)
	}
	return out, nil
}

func (c *Client) CreateSubscription(ctx context.Context, in SubscriptionInput) (Subscription, error) {
	var out Subscription
	if err := c.do(ctx, http.MethodPost, "/webhooks/subscription", Request{Body: in}, &out); err != nil {
		return Subscription{}, fmt.Errorf("creating subscription: %w", err)
	}
	return out, nil
}

func (c *Client) UpdateSubscription(ctx context.Context, id string, in SubscriptionInput) (Subscription, error) {
	var out Subscription
	req := Request{Path: map[string]string{"id": id}, Body: in}
	if err := c.do(ctx, http.MethodPut, "/webhooks/subscription/{id}", req, &out); err != nil {
		return Subscription{}, fmt.Errorf("updating subscription: %w", err)
	}
	return out, nil
}

func (c *Client) DeleteSubscription(ctx context.Context, id string) (any, error) {
	out, err := c.Call(ctx, http.MethodDelete, "/webhooks/subscription/{id}", Request{Path: map[string]string{"id": id}})
	if err != nil {
		return nil, fmt.Errorf("deleting subscription: %w", err)
	}
	return out, nil
}

func (c *Client) CreateContact(ctx context.Context, payload ContactPayload) (map[string]any, error) {
	var out map[string]any
	if err := c.do(ctx, http.MethodPost, "/contact/create", Request{Body: payload}, &out); err != nil {
		return nil, fmt.Errorf("creating contact: %w", err)
	}
	return out, nil
}

func (c *Client) UpdateContact(ctx context.Context, id string, payload ContactPayload, appendMultiSelect bool) (map[string]any, error) {
	var out map[string]any
	req := Request{
		Path:  map[string]string{"id": id},
		Query: map[string]any{"appendMultiSelectValues": appendMultiSelect},
		Body:  payload,
	}
	if err := c.do(ctx, http.MethodPatch, "/contact/{id}", req, &out); err != nil {
		return nil, fmt.Errorf("updating contact: %w", err)
	}
	return out, nil
}

func (c *Client) GetContact(ctx context.Context, id string) (any, error) {
	out, err := c.Call(ctx, http.MethodGet, "/contact/{id}", Request{Path: map[string]string{"id": id}})
	if err != nil {
		return nil, fmt.Errorf("getting contact: %w", err)
	}
	return out, nil
}

func (c *Client) ContactsByEmail(ctx context.Context, email string) ([]map[string]any, error) {
	var out []map[string]any
	req := Request{Query: map[string]any{"email": email}}
	if err := c.do(ctx, http.MethodGet, "/contact/by-email", req, &out); err != nil {
		return nil, fmt.Errorf("finding contacts by email: %w", err)
	}
	return out, nil
}

func (c *Client) SearchContacts(ctx context.Context, query string) ([]map[string]any, error) {
	var out []map[string]any
	req := Request{Query: map[string]any{"query": query}}
	if err := c.do(ctx, http.MethodGet, "/contact/search", req, &out); err != nil {
		return nil, fmt.Errorf("searching contacts: %w", err)
	}
	return out, nil
}

func (c *Client) ListContacts(ctx context.Context, page, pageSize int) ([]map[string]any, error) {
	var out []map[string]any
	req := Request{Query: map[string]any{"page": page, "pageSize": pageSize}}
	if err := c.do(ctx, http.MethodGet, "/contact", req, &out); err != nil {
		return nil, fmt.Errorf("listing contacts: %w", err)
	}
	return out, nil
}

func (c *Client) CreateDeal(ctx context.Context, q DealQuery, body map[string]any) (map[string]any, error) {
	var out map[string]any
	req := Request{
		Query: map[string]any{"pipelineId": q.PipelineID, "contactId": q.ContactID, "phaseId": q.PhaseID},
		Body:  body,
	}
	if err := c.do(ctx, http.MethodPost, "/deal", req, &out); err != nil {
		return nil, fmt.Errorf("creating deal: %w", err)
	}
	return out, nil
}

func (c *Client) UpdateDeal(ctx context.Context, id string, q DealQuery, body map[string]any) (map[string]any, error) {
	var out map[string]any
	req := Request{
		Path: map[string]string{"id": id},
		Query: map[string]any{
			"pipelineId":              q.PipelineID,
			"phaseId":                 q.PhaseID,
			"appendMultiSelectValues": q.AppendMultiSelectValues,
		},
		Body: body,
	}
	if err := c.do(ctx, http.MethodPatch, "/deal/{id}", req, &out); err != nil {
		return nil, fmt.Errorf("updating deal: %w", err)
	}
	return out, nil
}

func (c *Client) GetDeal(ctx context.Context, id string) (any, error) {
	out, err := c.Call(ctx, http.MethodGet, "/deal/{id}", Request{Path: map[string]string{"id": id}})
	if err != nil {
		return nil, fmt.Errorf("getting deal: %w", err)
	}
	return out, nil
}

func (c *Client) DealsByEmail(ctx context.Context, email string) ([]map[string]any, error) {
	var out []map[string]any
	req := Request{Query: map[string]any{"email": email}}
	if err := c.do(ctx, http.MethodGet, "/deal/by-email", req, &out); err != nil {
		return nil, fmt.Errorf("finding deals by email: %w", err)
	}
	return out, nil
}

func (c *Client) ListDeals(ctx context.Context, page, pageSize int, pipelineID string) ([]map[string]any, error) {
	var out []map[string]any
	req := Request{Query: map[string]any{"page": page, "pageSize": pageSize, "pipelineId": pipelineID}}
	if err := c.do(ctx, http.MethodGet, "/deal", req, &out); err != nil {
		return nil, fmt.Errorf("listing deals: %w", err)
	}
	return out, nil
}

// CreateNote posts a plain text note and returns its id
func (c *Client) CreateNote(ctx context.Context, parent NoteParent, parentID, text string) (string, error) {
	var out struct {
		ID string `json:"id"`
	}
	req := Request{
		Query:       map[string]any{string(parent) + "Id": parentID},
		Body:        text,
		ContentType: "text/plain",
	}
	if err := c.do(ctx, http.MethodPost, "/note", req, &out); err != nil {
		return "", fmt.Errorf("creating note: %w", err)
	}
	return out.ID, nil
}

func (c *Client) MailActivities(ctx context.Context, contactID string) (any, error) {
	req := Request{Body: map[string]string{"contactId": contactID}}
	out, err := c.Call(ctx, http.MethodPost, "/get-mail-activities", req)
	if err != nil {
		return nil, fmt.Errorf("listing mail activities: %w", err)
	}
	return out, nil
}

func (c *Client) CallActivities(ctx context.Context, q CallActivityQuery) (any, error) {
	out, err := c.Call(ctx, http.MethodPost, "/get-call-activities", Request{Body: q})
	if err != nil {
		return nil, fmt.Errorf("listing call activities: %w", err)
	}
	return out, nil
}
