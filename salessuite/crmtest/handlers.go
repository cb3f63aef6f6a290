package crmtest

import (
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/marcelsud/salessuite-connector/salessuite"
)

// handlers run with s.mu held

func (s *Server) storeContact(contact, person map[string]any) string {
	c := copyMap(contact)
	c["id"] = s.newID("c")
	s.contacts = append(s.contacts, map[string]any{
		"contact":           c,
		"mainContactPerson": copyMap(person),
	})
	return c["id"].(string)
}

func (s *Server) findContact(id string) map[string]any {
	for _, entry := range s.contacts {
		if entry["contact"].(map[string]any)["id"] == id {
			return entry
		}
	}
	return nil
}

func contactEmail(entry map[string]any) string {
	if email, ok := entry["mainContactPerson"].(map[string]any)["email"].(string); ok && email != "" {
		return email
	}
	email, _ := entry["contact"].(map[string]any)["email"].(string)
	return email
}

func (s *Server) listContacts(r *http.Request) (any, int) {
	start, end := page(r, len(s.contacts))
	return s.contacts[start:end], http.StatusOK
}

func (s *Server) createContact(r *http.Request) (any, int) {
	var payload salessuite.ContactPayload
	if err := decode(r, &payload); err != nil {
		return badRequest(err)
	}
	id := s.storeContact(payload.Contact, payload.ContactPerson)
	return s.findContact(id), http.StatusOK
}

func (s *Server) contactsByEmail(r *http.Request) (any, int) {
	email := r.URL.Query().Get("email")
	out := []map[string]any{}
	for _, entry := range s.contacts {
		if strings.EqualFold(contactEmail(entry), email) {
			out = append(out, entry)
		}
	}
	return out, http.StatusOK
}

func (s *Server) searchContacts(r *http.Request) (any, int) {
	q := strings.ToLower(r.URL.Query().Get("query"))
	out := []map[string]any{}
	for _, entry := range s.contacts {
		for _, part := range []string{"contact", "mainContactPerson"} {
			if matchesAny(entry[part].(map[string]any), q) {
				out = append(out, entry)
				break
			}
		}
	}
	return out, http.StatusOK
}

func matchesAny(record map[string]any, q string) bool {
	for _, v := range record {
		if s, ok := v.(string); ok && strings.Contains(strings.ToLower(s), q) {
			return true
		}
	}
	return false
}

func (s *Server) getContact(r *http.Request) (any, int) {
	entry := s.findContact(chi.URLParam(r, "id"))
	if entry == nil {
		return notFound()
	}
	return entry, http.StatusOK
}

func (s *Server) updateContact(r *http.Request) (any, int) {
	entry := s.findContact(chi.URLParam(r, "id"))
	if entry == nil {
		return notFound()
	}
	var payload salessuite.ContactPayload
	if err := decode(r, &payload); err != nil {
		return badRequest(err)
	}
	for k, v := range payload.Contact {
		entry["contact"].(map[string]any)[k] = v
	}
	for k, v := range payload.ContactPerson {
		entry["mainContactPerson"].(map[string]any)[k] = v
	}
	return entry, http.StatusOK
}

func (s *Server) findDeal(id string) map[string]any {
	for _, d := range s.deals {
		if d["id"] == id {
			return d
		}
	}
	return nil
}

func (s *Server) listDeals(r *http.Request) (any, int) {
	pipelineID := r.URL.Query().Get("pipelineId")
	deals := []map[string]any{}
	for _, d := range s.deals {
		if pipelineID == "" || d["pipelineId"] == pipelineID {
			deals = append(deals, d)
		}
	}
	start, end := page(r, len(deals))
	return deals[start:end], http.StatusOK
}

func (s *Server) createDeal(r *http.Request) (any, int) {
	var body map[string]any
	if err := decode(r, &body); err != nil {
		return badRequest(err)
	}
	d := copyMap(body)
	d["id"] = s.newID("d")
	q := r.URL.Query()
	for _, key := range []string{"pipelineId", "contactId", "phaseId"} {
		if v := q.Get(key); v != "" {
			d[key] = v
		}
	}
	s.deals = append(s.deals, d)
	return map[string]any{"deal": d}, http.StatusOK
}

func (s *Server) dealsByEmail(r *http.Request) (any, int) {
	email := r.URL.Query().Get("email")
	out := []map[string]any{}
	for _, entry := range s.contacts {
		if !strings.EqualFold(contactEmail(entry), email) {
			continue
		}
		id := entry["contact"].(map[string]any)["id"]
		for _, d := range s.deals {
			if d["contactId"] == id {
				out = append(out, d)
			}
		}
	}
	return out, http.StatusOK
}

func (s *Server) getDeal(r *http.Request) (any, int) {
	d := s.findDeal(chi.URLParam(r, "id"))
	if d == nil {
		return notFound()
	}
	return d, http.StatusOK
}

func (s *Server) updateDeal(r *http.Request) (any, int) {
	d := s.findDeal(chi.URLParam(r, "id"))
	if d == nil {
		return notFound()
	}
	var body map[string]any
	if err := decode(r, &body); err != nil {
		return badRequest(err)
	}
	for k, v := range body {
		d[k] = v
	}
	q := r.URL.Query()
	if q.Get("pipelineId") != "" {
		d["pipelineId"] = q.Get("pipelineId")
		d["phaseId"] = q.Get("phaseId")
	}
	return map[string]any{"deal": d}, http.StatusOK
}

func (s *Server) createNote(r *http.Request) (any, int) {
	text, err := io.ReadAll(r.Body)
	if err != nil {
		return badRequest(err)
	}
	q := r.URL.Query()
	n := Note{ID: s.newID("n"), ContactID: q.Get("contactId"), DealID: q.Get("dealId"), Text: string(text)}
	s.notes = append(s.notes, n)
	return map[string]string{"id": n.ID}, http.StatusOK
}

func (s *Server) listSubscriptions(*http.Request) (any, int) {
	out := make([]salessuite.Subscription, len(s.subscriptions))
	copy(out, s.subscriptions)
	return out, http.StatusOK
}

func (s *Server) subscriptionIndex(id string) int {
	for i, sub := range s.subscriptions {
		if sub.ID == id {
			return i
		}
	}
	return -1
}

func (s *Server) createSubscription(r *http.Request) (any, int) {
	var in struct {
		HookURL string         `json:"hookUrl"`
		Type    string         `json:"type"`
		Filter  map[string]any `json:"filter"`
	}
	if err := decode(r, &in); err != nil {
		return badRequest(err)
	}
	sub := salessuite.Subscription{ID: s.newID("sub"), HookURL: in.HookURL, Type: in.Type, Filter: in.Filter}
	s.subscriptions = append(s.subscriptions, sub)
	return sub, http.StatusOK
}

func (s *Server) getSubscription(r *http.Request) (any, int) {
	i := s.subscriptionIndex(chi.URLParam(r, "id"))
	if i < 0 {
		return notFound()
	}
	return s.subscriptions[i], http.StatusOK
}

func (s *Server) updateSubscription(r *http.Request) (any, int) {
	i := s.subscriptionIndex(chi.URLParam(r, "id"))
	if i < 0 {
		return notFound()
	}
	var in struct {
		HookURL string         `json:"hookUrl"`
		Type    string         `json:"type"`
		Filter  map[string]any `json:"filter"`
	}
	if err := decode(r, &in); err != nil {
		return badRequest(err)
	}
	s.subscriptions[i] = salessuite.Subscription{ID: s.subscriptions[i].ID, HookURL: in.HookURL, Type: in.Type, Filter: in.Filter}
	return s.subscriptions[i], http.StatusOK
}

func (s *Server) deleteSubscription(r *http.Request) (any, int) {
	id := chi.URLParam(r, "id")
	s.deleteAttempts[id]++
	if s.failDeletes {
		return map[string]string{"message": "delete failed"}, s.failStatus
	}
	i := s.subscriptionIndex(id)
	if i < 0 {
		return notFound()
	}
	s.subscriptions = append(s.subscriptions[:i], s.subscriptions[i+1:]...)
	return map[string]any{"id": id, "deleted": true}, http.StatusOK
}
