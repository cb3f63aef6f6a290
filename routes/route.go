package routes

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/marcelsud/salessuite-connector/trigger"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

/* Route is a production trigger declared in routes.yaml
 * RouteID is the trigger node id and the last segment of its callback URL
 */
type Route struct {
	RouteID string               `validate:"required,max=128,excludesall=/?#"`
	Event   trigger.Event        `validate:"required"`
	Filter  trigger.FilterParams `validate:"-"`
}

// Validate checks the route and builds its subscription filter once
func (r *Route) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("route %q: %w", r.RouteID, err)
	}
	if _, err := trigger.BuildFilter(r.Event, r.Filter); err != nil {
		return fmt.Errorf("route %s: %w", r.RouteID, err)
	}
	return nil
}

// Activation is the production lifeline of the route
func (r *Route) Activation(publicURL string) trigger.Activation {
	return trigger.Activation{
		NodeID: r.RouteID,
		Mode:   trigger.Production,
		URL:    trigger.CallbackURL(publicURL, trigger.Production, r.RouteID),
		Event:  r.Event,
		Filter: r.Filter,
	}
}
