package action

import (
	"context"
	"strings"

	"github.com/marcelsud/salessuite-connector/salessuite"
)

// addNote posts a plain text note on a contact or deal
func (r *Router) addNote(ctx context.Context, parent salessuite.NoteParent, parentID, text string) (string, error) {
	if strings.TrimSpace(parentID) == "" {
		return "", invalidf("createNote: parentId is required")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", invalidf("createNote: note text is required")
	}
	return r.CRM.CreateNote(ctx, parent, parentID, text)
}

// initialNote adds the optional note of create and update operations.
// It returns nil when no note was requested.
func (r *Router) initialNote(ctx context.Context, p Params, parent salessuite.NoteParent, parentID string) (any, error) {
	if !p.Bool("createInitialNote") || parentID == "" {
		return nil, nil
	}
	text := p.String("initialNoteText")
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	id, err := r.addNote(ctx, parent, parentID, text)
	if err != nil {
		return nil, err
	}
	return id, nil
}
