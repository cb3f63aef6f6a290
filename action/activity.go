package action

import (
	"context"

	"github.com/marcelsud/salessuite-connector/salessuite"
	"github.com/marcelsud/salessuite-connector/trigger"
)

func (r *Router) createNote(ctx context.Context, p Params) (any, error) {
	parent, key := salessuite.NoteOnContact, "contactId"
	if p.String("parentType") == string(salessuite.NoteOnDeal) {
		parent, key = salessuite.NoteOnDeal, "dealId"
	}
	parentID := p.Trimmed(key)

	noteID, err := r.addNote(ctx, parent, parentID, p.String("noteText"))
	if err != nil {
		return nil, err
	}

	var id any
	if noteID != "" {
		id = noteID
	}
	return map[string]any{"parentType": string(parent), "parentId": parentID, "noteId": id}, nil
}

func (r *Router) mailActivities(ctx context.Context, p Params) (any, error) {
	id := p.Trimmed("contactId")
	if id == "" {
		return nil, invalidf("listEmailActivities requires a contactId.")
	}
	data, err := r.CRM.MailActivities(ctx, id)
	if err != nil {
		return nil, err
	}
	return map[string]any{"scope": "contact", "parentId": id, "activities": orEmptyList(data)}, nil
}

// callActivities lists phone calls of a contact. "any" call type or
// result means no filter.
func (r *Router) callActivities(ctx context.Context, p Params) (any, error) {
	id := p.Trimmed("contactId")
	if id == "" {
		return nil, invalidf("listPhoneCallActivities requires a contactId.")
	}

	q := salessuite.CallActivityQuery{ContactID: id}
	if callType := p.Trimmed("callTypeId"); callType != "" && callType != trigger.AnyCallOption {
		q.CallTypeID = callType
	}
	q.CallResult = trigger.ParseCallResultFilter(p.Trimmed("callResult"))

	data, err := r.CRM.CallActivities(ctx, q)
	if err != nil {
		return nil, err
	}
	return map[string]any{"scope": "contact", "parentId": id, "activities": orEmptyList(data)}, nil
}
