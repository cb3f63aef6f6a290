package action

import (
	"context"
	"fmt"
	"strings"

	"github.com/marcelsud/salessuite-connector/property"
	"github.com/marcelsud/salessuite-connector/salessuite"
)

// contactPayload splits and normalizes the flat field form of a contact
func (r *Router) contactPayload(ctx context.Context, p Params) (salessuite.ContactPayload, error) {
	buckets := property.SplitPrefixedFields(p.Fields())

	set, err := r.CRM.ContactFields(ctx)
	if err != nil {
		return salessuite.ContactPayload{}, err
	}
	types := property.BuildTypeMap(property.ContactProperties(set.Properties))

	contact, err := property.NormalizeFields(property.Contact, buckets.Contact, types)
	if err != nil {
		return salessuite.ContactPayload{}, err
	}
	person, err := property.NormalizeFields(property.ContactPerson, buckets.ContactPerson, types)
	if err != nil {
		return salessuite.ContactPayload{}, err
	}
	return salessuite.ContactPayload{Contact: contact, ContactPerson: person}, nil
}

func pickEmail(payload salessuite.ContactPayload) string {
	email, ok := payload.ContactPerson["email"]
	if !ok || email == nil {
		email = payload.Contact["email"]
	}
	if email == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(email))
}

func contactID(result map[string]any) string {
	contact, _ := result["contact"].(map[string]any)
	id, _ := contact["id"].(string)
	return id
}

func (r *Router) createContact(ctx context.Context, p Params) (any, error) {
	payload, err := r.contactPayload(ctx, p)
	if err != nil {
		return nil, err
	}
	if pickEmail(payload) == "" {
		return nil, invalidf("Create Contact requires at least an email (contactPerson.email or contact.email).")
	}

	result, err := r.CRM.CreateContact(ctx, payload)
	if err != nil {
		return nil, err
	}
	noteID, err := r.initialNote(ctx, p, salessuite.NoteOnContact, contactID(result))
	if err != nil {
		return nil, err
	}
	return merge(result, map[string]any{"inputData": payload, "initialNoteId": noteID}), nil
}

func (r *Router) updateContact(ctx context.Context, p Params) (any, error) {
	id := p.Trimmed("contactId")
	if id == "" {
		return nil, invalidf("updateContact requires a contactId.")
	}

	payload, err := r.contactPayload(ctx, p)
	if err != nil {
		return nil, err
	}
	if !p.Bool("allowChangeEmail") {
		delete(payload.Contact, "email")
		delete(payload.ContactPerson, "email")
	}
	if len(payload.Contact) == 0 && len(payload.ContactPerson) == 0 {
		return nil, invalidf("No fields provided to update.")
	}

	result, err := r.CRM.UpdateContact(ctx, id, payload, p.Bool("appendMultiSelectValues"))
	if err != nil {
		return nil, err
	}
	noteID, err := r.initialNote(ctx, p, salessuite.NoteOnContact, id)
	if err != nil {
		return nil, err
	}
	return merge(result, map[string]any{"inputData": payload, "initialNoteId": noteID}), nil
}

// upsertContact updates the first contact with the payload's email or
// creates a new one
func (r *Router) upsertContact(ctx context.Context, p Params) (any, error) {
	payload, err := r.contactPayload(ctx, p)
	if err != nil {
		return nil, err
	}
	email := pickEmail(payload)
	if email == "" {
		return nil, invalidf("Upsert requires an email (contactPerson.email or contact.email).")
	}

	existing, err := r.CRM.ContactsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		if id := contactID(existing[0]); id != "" {
			result, err := r.CRM.UpdateContact(ctx, id, payload, p.Bool("appendMultiSelectValues"))
			if err != nil {
				return nil, err
			}
			return merge(result, map[string]any{"mode": "found-and-updated", "inputData": payload}), nil
		}
	}

	created, err := r.CRM.CreateContact(ctx, payload)
	if err != nil {
		return nil, err
	}
	return merge(created, map[string]any{"mode": "created-new", "inputData": payload}), nil
}

func (r *Router) contactsByEmail(ctx context.Context, p Params) (any, error) {
	email := p.String("email")
	contacts, err := r.CRM.ContactsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return map[string]any{"email": email, "contacts": orEmptyList(contacts)}, nil
}

func (r *Router) getContact(ctx context.Context, p Params) (any, error) {
	id := p.Trimmed("contactId")
	if id == "" {
		return nil, invalidf("getContactById requires a contactId.")
	}
	contact, err := r.CRM.GetContact(ctx, id)
	if err != nil {
		return nil, err
	}
	return map[string]any{"contactId": id, "contact": contact}, nil
}

func (r *Router) searchContacts(ctx context.Context, p Params) (any, error) {
	query := p.String("searchString")
	if strings.TrimSpace(query) == "" {
		return nil, invalidf("Search requires a query string.")
	}
	contacts, err := r.CRM.SearchContacts(ctx, strings.TrimSpace(query))
	if err != nil {
		return nil, err
	}
	return map[string]any{"searchString": query, "contacts": orEmptyList(contacts)}, nil
}

func (r *Router) listContacts(ctx context.Context, p Params) (any, error) {
	page, pageSize := p.Int("page", 0), p.Int("pageSize", 25)
	contacts, err := r.CRM.ListContacts(ctx, page, pageSize)
	if err != nil {
		return nil, err
	}
	return map[string]any{"page": page, "pageSize": pageSize, "contacts": orEmptyList(contacts)}, nil
}
