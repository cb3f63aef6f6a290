package routes

import (
	"context"
	"errors"
	"fmt"

	"github.com/marcelsud/salessuite-connector/trigger"
)

// ActivateAll makes sure every loaded route has a live production
// subscription. A failing route does not stop the others, the failures
// are joined in the returned error.
func (l *Loader) ActivateAll(ctx context.Context, lc trigger.UseCase, publicURL string) (created []string, err error) {
	var errs []error
	for _, route := range l.List() {
		a := route.Activation(publicURL)

		exists, err := lc.CheckExists(ctx, a)
		if err != nil {
			errs = append(errs, fmt.Errorf("checking route %s: %w", route.RouteID, err))
			continue
		}
		if exists {
			continue
		}
		if err := lc.Create(ctx, a); err != nil {
			errs = append(errs, fmt.Errorf("activating route %s: %w", route.RouteID, err))
			continue
		}
		created = append(created, route.RouteID)
	}
	return created, errors.Join(errs...)
}
