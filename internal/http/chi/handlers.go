package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog"
	"github.com/marcelsud/salessuite-connector/action"
	"github.com/marcelsud/salessuite-connector/event"
	"github.com/marcelsud/salessuite-connector/mapper"
	"github.com/marcelsud/salessuite-connector/options"
	"github.com/marcelsud/salessuite-connector/property"
	"github.com/marcelsud/salessuite-connector/salessuite"
	"github.com/marcelsud/salessuite-connector/trigger"
	"github.com/rs/zerolog"
)

const RequestTimeout = 30 * time.Second

// ActionRunner executes resource operations
type ActionRunner interface {
	Execute(ctx context.Context, resource, op string, p action.Params) ([]action.Record, error)
}

// FieldBuilder produces the mappable fields of an entity
type FieldBuilder interface {
	ContactFields(ctx context.Context) ([]mapper.Field, error)
	ContactFieldsForUpdate(ctx context.Context) ([]mapper.Field, error)
	DealFields(ctx context.Context) ([]mapper.Field, error)
	DealFieldsForUpdate(ctx context.Context) ([]mapper.Field, error)
}

// OptionLoader resolves a named option list
type OptionLoader interface {
	Load(ctx context.Context, name string, args map[string]string) ([]options.Option, error)
}

/* Services is everything the HTTP layer drives
 * PublicURL is the externally reachable base used to build callback URLs
 */
type Services struct {
	Lifecycle trigger.UseCase
	Events    event.UseCase
	Actions   ActionRunner
	Fields    FieldBuilder
	Options   OptionLoader
	Metrics   http.Handler
	PublicURL string
}

// NewLogger builds the structured logger shared by the router and the lifecycle
func NewLogger() zerolog.Logger {
	return httplog.NewLogger("salessuite-connector", httplog.Options{
		JSON: true,
	})
}

// Handlers sets up the connector API routes
func Handlers(ctx context.Context, s Services, logger zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()
	r.Use(httplog.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(RequestTimeout))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})
	if s.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.Metrics)
	}

	// Inbound SalesSuite deliveries
	r.Method(http.MethodPost, "/webhook/{node_id}", postDelivery(s, trigger.Production))
	r.Method(http.MethodPost, "/webhook-test/{node_id}", postDelivery(s, trigger.Manual))

	r.Route("/v1", func(r chi.Router) {
		r.Method(http.MethodPost, "/triggers/{node_id}/activate", postActivate(s))
		r.Method(http.MethodDelete, "/triggers/{node_id}", deleteTrigger(s))
		r.Method(http.MethodGet, "/triggers/{node_id}/events", getEvents(s.Events))
		r.Method(http.MethodPost, "/triggers/{node_id}/events/{event_id}/ack", postAck(s.Events))

		r.Method(http.MethodPost, "/actions/{resource}/{operation}", postAction(s.Actions))
		r.Method(http.MethodGet, "/fields/{entity}", getFields(s.Fields))
		r.Method(http.MethodGet, "/options/{name}", getOptions(s.Options))
	})

	return r
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	var actionErr *action.ValidationError
	var triggerErr *trigger.ValidationError
	var typeErr *property.UnknownTypeError
	var apiErr *salessuite.APIError
	switch {
	case errors.As(err, &actionErr), errors.As(err, &triggerErr), errors.As(err, &typeErr):
		return http.StatusBadRequest
	case errors.Is(err, trigger.ErrMissingNodeID), errors.Is(err, trigger.ErrMissingURL):
		return http.StatusBadRequest
	case errors.Is(err, options.ErrUnknownList):
		return http.StatusNotFound
	case errors.As(err, &apiErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeErr(w http.ResponseWriter, err error) {
	writeError(w, statusFor(err), err.Error())
}

// modeParam reads the mode query parameter, production when absent
func modeParam(r *http.Request) (trigger.Mode, bool) {
	raw := r.URL.Query().Get("mode")
	if raw == "" {
		return trigger.Production, true
	}
	mode := trigger.NewMode(raw)
	return mode, mode.Validate() == nil
}
