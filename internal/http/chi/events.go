package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/marcelsud/salessuite-connector/event"
	"github.com/marcelsud/salessuite-connector/trigger"
)

type eventResponse struct {
	ID         string            `json:"id"`
	NodeID     string            `json:"node_id"`
	Mode       string            `json:"mode"`
	Type       string            `json:"type"`
	Data       json.RawMessage   `json:"data"`
	Headers    map[string]string `json:"headers,omitempty"`
	Status     string            `json:"status"`
	ReceivedAt time.Time         `json:"received_at"`
}

func newEventResponse(ev event.Event) eventResponse {
	return eventResponse{
		ID:         ev.ID,
		NodeID:     ev.NodeID,
		Mode:       ev.Mode.String(),
		Type:       ev.Envelope.Type,
		Data:       ev.Envelope.Data,
		Headers:    ev.Headers,
		Status:     ev.Status.String(),
		ReceivedAt: ev.ReceivedAt,
	}
}

// typesParam accepts repeated or comma separated type filters
func typesParam(r *http.Request) []string {
	var types []string
	for _, raw := range r.URL.Query()["type"] {
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				types = append(types, t)
			}
		}
	}
	return types
}

// getEvents handles GET /v1/triggers/{node_id}/events
func getEvents(events event.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nodeID := chi.URLParam(r, "node_id")
		mode, ok := modeParam(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid mode")
			return
		}

		evs, err := events.Next(r.Context(), nodeID, mode, typesParam(r))
		if err != nil {
			if errors.Is(err, trigger.ErrMissingNodeID) {
				writeErr(w, err)
				return
			}
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		responses := make([]eventResponse, 0, len(evs))
		for _, ev := range evs {
			responses = append(responses, newEventResponse(ev))
		}
		writeJSON(w, http.StatusOK, responses)
	})
}

// postAck handles POST /v1/triggers/{node_id}/events/{event_id}/ack
func postAck(events event.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nodeID := chi.URLParam(r, "node_id")
		eventID := chi.URLParam(r, "event_id")
		mode, ok := modeParam(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid mode")
			return
		}

		if err := events.Ack(r.Context(), nodeID, mode, eventID); err != nil {
			writeErr(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
}
