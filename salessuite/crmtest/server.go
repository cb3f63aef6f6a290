package crmtest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/marcelsud/salessuite-connector/property"
	"github.com/marcelsud/salessuite-connector/salessuite"
	"github.com/marcelsud/salessuite-connector/salessuite/contract"
	"github.com/stretchr/testify/require"
)

/* Server is an in-memory SalesSuite API for tests
 * Every request is recorded and validated against the OpenAPI contract
 */

const (
	BasePath = "/api/v1"
	APIKey   = "test-key"
)

// RecordedRequest is one call received by the fake API, path without BasePath
type RecordedRequest struct {
	Method      string
	Path        string
	Query       url.Values
	Body        []byte
	ContentType string
}

// JSON decodes the recorded body
func (r RecordedRequest) JSON(t testing.TB) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(r.Body, &out))
	return out
}

type Server struct {
	*httptest.Server

	validator *contract.Validator

	mu             sync.Mutex
	requests       []RecordedRequest
	nextID         int
	failDeletes    bool
	failStatus     int
	deleteAttempts map[string]int
	subscriptions  []salessuite.Subscription
	contacts       []map[string]any
	deals          []map[string]any
	notes          []Note

	ContactFieldSet property.FieldSet
	DealFieldSet    property.FieldSet
	Pipelines       []salessuite.Pipeline
	CallTypes       []salessuite.CallType
	Forms           []salessuite.Form
}

// Note is a note created through the fake API
type Note struct {
	ID        string
	ContactID string
	DealID    string
	Text      string
}

// NewServer starts a fake API seeded with a small schema. It is closed when
// the test ends.
func NewServer(t testing.TB) *Server {
	t.Helper()

	validator, err := contract.NewValidator(context.Background(), BasePath)
	require.NoError(t, err, "failed to load contract")

	s := &Server{
		validator:       validator,
		deleteAttempts:  map[string]int{},
		failStatus:      http.StatusInternalServerError,
		ContactFieldSet: DefaultContactFields(),
		DealFieldSet:    DefaultDealFields(),
		Pipelines: []salessuite.Pipeline{
			{ID: "pl-1", DisplayName: "Sales", Phases: []salessuite.Phase{
				{ID: "ph-1", DisplayName: "Lead"},
				{ID: "ph-2", DisplayName: "Won"},
			}},
			{ID: "pl-2", DisplayName: "", Phases: nil},
		},
		CallTypes: []salessuite.CallType{
			{ID: "ct-1", Name: "Cold call", Category: "opening"},
			{ID: "ct-2", Name: "Closing call", Category: "closing"},
			{ID: "ct-3", Name: "Misc"},
		},
		Forms: []salessuite.Form{{FormID: "f-1", Name: "Contact us"}},
	}

	r := chi.NewRouter()
	r.Route(BasePath, func(r chi.Router) {
		r.Use(s.record)
		r.Get("/pipelines", s.json(func(*http.Request) (any, int) { return s.Pipelines, http.StatusOK }))
		r.Get("/fields/contact", s.json(func(*http.Request) (any, int) { return s.ContactFieldSet, http.StatusOK }))
		r.Get("/fields/deal", s.json(func(*http.Request) (any, int) { return s.DealFieldSet, http.StatusOK }))
		r.Get("/call-types", s.json(func(*http.Request) (any, int) { return s.CallTypes, http.StatusOK }))
		r.Get("/form", s.json(func(*http.Request) (any, int) { return s.Forms, http.StatusOK }))

		r.Get("/contact", s.json(s.listContacts))
		r.Post("/contact/create", s.json(s.createContact))
		r.Get("/contact/by-email", s.json(s.contactsByEmail))
		r.Get("/contact/search", s.json(s.searchContacts))
		r.Get("/contact/{id}", s.json(s.getContact))
		r.Patch("/contact/{id}", s.json(s.updateContact))

		r.Get("/deal", s.json(s.listDeals))
		r.Post("/deal", s.json(s.createDeal))
		r.Get("/deal/by-email", s.json(s.dealsByEmail))
		r.Get("/deal/{id}", s.json(s.getDeal))
		r.Patch("/deal/{id}", s.json(s.updateDeal))

		r.Post("/note", s.json(s.createNote))
		r.Post("/get-mail-activities", s.json(func(*http.Request) (any, int) { return []any{}, http.StatusOK }))
		r.Post("/get-call-activities", s.json(func(*http.Request) (any, int) { return []any{}, http.StatusOK }))

		r.Get("/webhooks/subscription", s.json(s.listSubscriptions))
		r.Post("/webhooks/subscription", s.json(s.createSubscription))
		r.Get("/webhooks/subscription/{id}", s.json(s.getSubscription))
		r.Put("/webhooks/subscription/{id}", s.json(s.updateSubscription))
		r.Delete("/webhooks/subscription/{id}", s.json(s.deleteSubscription))
	})

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// BaseURL is the value to use as SalesSuite base URL
func (s *Server) BaseURL() string {
	return s.URL + BasePath
}

// APIClient returns a client authenticated against the fake API
func (s *Server) APIClient() *salessuite.Client {
	return salessuite.NewClient(salessuite.Credentials{BaseURL: s.BaseURL(), APIKey: APIKey})
}

// FailDeletes makes every subscription delete answer with a server error
func (s *Server) FailDeletes(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failDeletes = fail
}

// DeleteAttempts returns how many times a subscription delete was requested
func (s *Server) DeleteAttempts(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteAttempts[id]
}

// Requests returns a copy of every request received so far
func (s *Server) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]RecordedRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

// RequestsTo filters the recorded requests by method and path
func (s *Server) RequestsTo(method, path string) []RecordedRequest {
	var out []RecordedRequest
	for _, r := range s.Requests() {
		if r.Method == method && r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

// Subscriptions returns the live subscriptions
func (s *Server) Subscriptions() []salessuite.Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]salessuite.Subscription, len(s.subscriptions))
	copy(out, s.subscriptions)
	return out
}

// AddSubscription seeds a subscription
func (s *Server) AddSubscription(hookURL, eventType string) salessuite.Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub := salessuite.Subscription{ID: s.newID("sub"), HookURL: hookURL, Type: eventType, Filter: map[string]any{}}
	s.subscriptions = append(s.subscriptions, sub)
	return sub
}

// AddContact seeds a contact record and returns its id
func (s *Server) AddContact(contact, person map[string]any) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.storeContact(contact, person)
}

// AddDeal seeds a deal and returns its id
func (s *Server) AddDeal(deal map[string]any) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := copyMap(deal)
	d["id"] = s.newID("d")
	s.deals = append(s.deals, d)
	return d["id"].(string)
}

// Notes returns the notes created so far
func (s *Server) Notes() []Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Note, len(s.notes))
	copy(out, s.notes)
	return out
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body.Close()
		r.Body = io.NopCloser(strings.NewReader(string(body)))

		s.mu.Lock()
		s.requests = append(s.requests, RecordedRequest{
			Method:      r.Method,
			Path:        strings.TrimPrefix(r.URL.Path, BasePath),
			Query:       r.URL.Query(),
			Body:        body,
			ContentType: r.Header.Get("Content-Type"),
		})
		s.mu.Unlock()

		if r.Header.Get(salessuite.APIKeyHeader) != APIKey {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "invalid api key"})
			return
		}
		if err := s.validator.Validate(r); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) json(h func(*http.Request) (any, int)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		body, status := h(r)
		s.mu.Unlock()
		writeJSON(w, status, body)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		json.NewEncoder(w).Encode(body)
	}
}

func (s *Server) newID(prefix string) string {
	s.nextID++
	return fmt.Sprintf("%s-%d", prefix, s.nextID)
}

func notFound() (any, int) {
	return map[string]string{"message": "not found"}, http.StatusNotFound
}

func badRequest(err error) (any, int) {
	return map[string]string{"message": err.Error()}, http.StatusBadRequest
}

func decode(r *http.Request, out any) error {
	return json.NewDecoder(r.Body).Decode(out)
}

func page(r *http.Request, total int) (int, int) {
	p, _ := strconv.Atoi(r.URL.Query().Get("page"))
	size, err := strconv.Atoi(r.URL.Query().Get("pageSize"))
	if err != nil || size <= 0 {
		size = 25
	}
	start := p * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}
	return start, end
}

func copyMap(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
