package chi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/marcelsud/salessuite-connector/action"
	"github.com/marcelsud/salessuite-connector/mapper"
)

// postAction handles POST /v1/actions/{resource}/{operation}
func postAction(actions ActionRunner) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resource := chi.URLParam(r, "resource")
		operation := chi.URLParam(r, "operation")

		params := action.Params{}
		err := json.NewDecoder(r.Body).Decode(&params)
		if err != nil && !errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		defer r.Body.Close()

		records, err := actions.Execute(r.Context(), resource, operation, params)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, records)
	})
}

// getFields handles GET /v1/fields/{entity}?variant=update
func getFields(fields FieldBuilder) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		update := r.URL.Query().Get("variant") == "update"

		var (
			out []mapper.Field
			err error
		)
		switch entity := chi.URLParam(r, "entity"); {
		case entity == "contact" && update:
			out, err = fields.ContactFieldsForUpdate(r.Context())
		case entity == "contact":
			out, err = fields.ContactFields(r.Context())
		case entity == "deal" && update:
			out, err = fields.DealFieldsForUpdate(r.Context())
		case entity == "deal":
			out, err = fields.DealFields(r.Context())
		default:
			writeError(w, http.StatusNotFound, "unknown entity: "+entity)
			return
		}
		if err != nil {
			writeErr(w, err)
			return
		}
		if out == nil {
			out = []mapper.Field{}
		}
		writeJSON(w, http.StatusOK, out)
	})
}

// getOptions handles GET /v1/options/{name}. Query parameters are passed
// to the loader as its dependent arguments.
func getOptions(loader OptionLoader) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		args := make(map[string]string)
		for key, values := range r.URL.Query() {
			if len(values) > 0 {
				args[key] = values[0]
			}
		}

		opts, err := loader.Load(r.Context(), chi.URLParam(r, "name"), args)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, opts)
	})
}
