package chi

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog"
	"github.com/marcelsud/salessuite-connector/trigger"
)

/* HTTP layer DTOs for the trigger API
 * Separate from domain entities to avoid leaking internal structure
 */

type deliveryResponse struct {
	OK bool `json:"ok"`
}

type activateRequest struct {
	Mode   string               `json:"mode"`
	Event  trigger.Event        `json:"event"`
	Filter trigger.FilterParams `json:"filter"`
}

type activateResponse struct {
	NodeID  string `json:"node_id"`
	Mode    string `json:"mode"`
	URL     string `json:"url"`
	Created bool   `json:"created"`
}

// postDelivery handles POST /webhook/{node_id} and /webhook-test/{node_id}.
// SalesSuite always gets its acknowledgment, recording failures are logged.
func postDelivery(s Services, mode trigger.Mode) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nodeID := chi.URLParam(r, "node_id")
		logger := httplog.LogEntry(r.Context())

		body, err := io.ReadAll(r.Body)
		if err != nil {
			logger.Warn().Err(err).Str("node_id", nodeID).Msg("reading delivery body")
		}
		defer r.Body.Close()

		headers := make(map[string]string)
		for key, values := range r.Header {
			if len(values) > 0 {
				headers[key] = values[0]
			}
		}

		if _, err := s.Events.Receive(r.Context(), nodeID, mode, body, headers); err != nil {
			logger.Warn().Err(err).Str("node_id", nodeID).Str("mode", mode.String()).Msg("recording delivery")
		}

		var payload map[string]any
		_ = json.Unmarshal(body, &payload)
		s.Lifecycle.HandleDelivery(r.Context(), trigger.Activation{
			NodeID: nodeID,
			Mode:   mode,
			URL:    trigger.CallbackURL(s.PublicURL, mode, nodeID),
		}, payload)

		writeJSON(w, http.StatusOK, deliveryResponse{OK: true})
	})
}

// postActivate handles POST /v1/triggers/{node_id}/activate
func postActivate(s Services) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nodeID := chi.URLParam(r, "node_id")

		var req activateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		defer r.Body.Close()

		mode := trigger.Production
		if req.Mode != "" {
			mode = trigger.NewMode(req.Mode)
		}
		if err := mode.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := req.Event.Validate(); err != nil {
			writeErr(w, err)
			return
		}

		a := trigger.Activation{
			NodeID: nodeID,
			Mode:   mode,
			URL:    trigger.CallbackURL(s.PublicURL, mode, nodeID),
			Event:  req.Event,
			Filter: req.Filter,
		}
		exists, err := s.Lifecycle.CheckExists(r.Context(), a)
		if err != nil {
			writeErr(w, err)
			return
		}
		if !exists {
			if err := s.Lifecycle.Create(r.Context(), a); err != nil {
				writeErr(w, err)
				return
			}
		}

		writeJSON(w, http.StatusOK, activateResponse{
			NodeID:  nodeID,
			Mode:    mode.String(),
			URL:     a.URL,
			Created: !exists,
		})
	})
}

// deleteTrigger handles DELETE /v1/triggers/{node_id}?mode=
func deleteTrigger(s Services) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nodeID := chi.URLParam(r, "node_id")
		mode, ok := modeParam(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid mode")
			return
		}

		err := s.Lifecycle.Delete(r.Context(), trigger.Activation{
			NodeID: nodeID,
			Mode:   mode,
			URL:    trigger.CallbackURL(s.PublicURL, mode, nodeID),
		})
		if err != nil {
			writeErr(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
}
