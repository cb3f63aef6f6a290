package options

import (
	"context"
	"errors"
	"fmt"

	"github.com/marcelsud/salessuite-connector/trigger"
)

// ErrUnknownList is returned for a list name with no loader
var ErrUnknownList = errors.New("unknown option list")

// Load resolves a list by name. args carries the dependent parameters:
// pipelineId, search, callTypeId and event.
func (l *Loader) Load(ctx context.Context, name string, args map[string]string) ([]Option, error) {
	switch name {
	case "pipelines":
		return l.Pipelines(ctx)
	case "stages":
		return l.Stages(ctx, args["pipelineId"])
	case "contacts":
		return l.Contacts(ctx, args["search"])
	case "deals":
		return l.Deals(ctx)
	case "forms":
		return l.Forms(ctx)
	case "call-types":
		return l.CallTypes(ctx)
	case "call-results":
		return l.CallResults(ctx, args["callTypeId"])
	case "event-types":
		return EventTypes(), nil
	case "webhooks":
		return l.Webhooks(ctx)
	case "contact-properties":
		return l.ContactProperties(ctx)
	case "deal-properties":
		return l.DealProperties(ctx)
	case "webhook-properties":
		return l.WebhookProperties(ctx, trigger.Event(args["event"]))
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownList, name)
	}
}
