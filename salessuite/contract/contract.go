package contract

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"
)

/* Package contract holds the OpenAPI description of the SalesSuite
 * endpoints this service consumes, and validates requests against it
 */

//go:embed openapi.yaml
var document []byte

// Document returns the raw OpenAPI document
func Document() []byte {
	return document
}

// Load parses and validates the embedded document
func Load(ctx context.Context) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx
	doc, err := loader.LoadFromData(document)
	if err != nil {
		return nil, fmt.Errorf("loading openapi document: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validating openapi document: %w", err)
	}
	return doc, nil
}

var ErrMissingAPIKey = errors.New("missing x-api-key header")

// Validator checks requests against the contract. Requests are matched by
// path only, after BasePath is removed.
type Validator struct {
	router   routers.Router
	BasePath string
}

func NewValidator(ctx context.Context, basePath string) (*Validator, error) {
	doc, err := Load(ctx)
	if err != nil {
		return nil, err
	}
	doc.Servers = openapi3.Servers{{URL: "/"}}
	router, err := gorillamux.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("building contract router: %w", err)
	}
	return &Validator{
		router:   router,
		BasePath: strings.TrimRight(basePath, "/"),
	}, nil
}

// Validate checks one request. The request body stays readable.
func (v *Validator) Validate(r *http.Request) error {
	var body []byte
	if r.Body != nil && r.Body != http.NoBody {
		data, err := io.ReadAll(r.Body)
		if err != nil {
			return fmt.Errorf("reading request body: %w", err)
		}
		r.Body.Close()
		body = data
		r.Body = io.NopCloser(bytes.NewReader(body))
	}

	routed := r.Clone(r.Context())
	routed.URL.Path = strings.TrimPrefix(r.URL.Path, v.BasePath)
	routed.URL.RawPath = ""
	if routed.URL.Path == "" {
		routed.URL.Path = "/"
	}
	if body != nil {
		routed.Body = io.NopCloser(bytes.NewReader(body))
	}

	route, params, err := v.router.FindRoute(routed)
	if err != nil {
		return fmt.Errorf("%s %s: %w", r.Method, routed.URL.Path, err)
	}
	input := &openapi3filter.RequestValidationInput{
		Request:    routed,
		PathParams: params,
		Route:      route,
		Options: &openapi3filter.Options{
			AuthenticationFunc: requireAPIKey,
		},
	}
	if err := openapi3filter.ValidateRequest(r.Context(), input); err != nil {
		return fmt.Errorf("%s %s: %w", r.Method, routed.URL.Path, err)
	}
	return nil
}

func requireAPIKey(_ context.Context, in *openapi3filter.AuthenticationInput) error {
	scheme := in.SecurityScheme
	if scheme == nil || scheme.Type != "apiKey" {
		return nil
	}
	if in.RequestValidationInput.Request.Header.Get(scheme.Name) == "" {
		return ErrMissingAPIKey
	}
	return nil
}

// Transport validates outgoing requests before handing them to Base
type Transport struct {
	Base      http.RoundTripper
	Validator *Validator
}

func (t *Transport) RoundTrip(r *http.Request) (*http.Response, error) {
	if err := t.Validator.Validate(r); err != nil {
		return nil, fmt.Errorf("request violates contract: %w", err)
	}
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(r)
}
