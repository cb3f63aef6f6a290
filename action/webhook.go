package action

import (
	"context"

	"github.com/marcelsud/salessuite-connector/salessuite"
	"github.com/marcelsud/salessuite-connector/trigger"
)

func filterParams(p Params) trigger.FilterParams {
	return trigger.FilterParams{
		PropertyIDs: p.Strings("properties"),
		PipelineID:  p.String("pipelineId"),
		PhaseID:     p.String("phaseId"),
		FormID:      p.String("formId"),
		CallTypeID:  p.String("callTypeId"),
		CallResult:  p.String("callResult"),
	}
}

func (r *Router) listWebhooks(ctx context.Context, _ Params) (any, error) {
	subs, err := r.CRM.ListSubscriptions(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]any{"webhooks": orEmptyList(subs)}, nil
}

func (r *Router) createWebhook(ctx context.Context, p Params) (any, error) {
	hookURL := p.Trimmed("url")
	if hookURL == "" {
		return nil, invalidf("createWebhook requires a url.")
	}
	event := trigger.Event(p.Trimmed("triggers"))
	if err := event.Validate(); err != nil {
		return nil, err
	}
	filter, err := trigger.BuildSubscriptionFilter(event, filterParams(p), false)
	if err != nil {
		return nil, err
	}

	return r.CRM.CreateSubscription(ctx, salessuite.SubscriptionInput{
		HookURL: hookURL,
		Type:    string(event),
		Filter:  filter,
	})
}

// updateWebhook merges the input with the existing subscription. Without a
// new type missing criteria keep the existing filter.
func (r *Router) updateWebhook(ctx context.Context, p Params) (any, error) {
	id := p.Trimmed("webhookId")
	if id == "" {
		return nil, invalidf("updateWebhook requires a webhookId.")
	}
	hookURL, eventType := p.Trimmed("url"), p.Trimmed("triggers")

	existing, err := r.CRM.GetSubscription(ctx, id)
	if err != nil {
		return nil, err
	}

	next := eventType
	if next == "" {
		next = existing.Type
	}
	if next == "" {
		return nil, invalidf("Webhook type is required to update a subscription.")
	}
	filter, err := trigger.BuildSubscriptionFilter(trigger.Event(next), filterParams(p), eventType == "")
	if err != nil {
		return nil, err
	}

	in := salessuite.SubscriptionInput{HookURL: hookURL, Type: next, Filter: filter}
	if hookURL == "" {
		in.HookURL = existing.HookURL
	}
	if len(filter) == 0 {
		in.Filter = existing.Filter
		if existing.Filter == nil {
			in.Filter = map[string]any{}
		}
	}
	return r.CRM.UpdateSubscription(ctx, id, in)
}

func (r *Router) deleteWebhook(ctx context.Context, p Params) (any, error) {
	id := p.Trimmed("webhookId")
	if id == "" {
		return nil, invalidf("deleteWebhook requires a webhookId.")
	}
	data, err := r.CRM.DeleteSubscription(ctx, id)
	if err != nil {
		return nil, err
	}
	return map[string]any{"deleted": data}, nil
}
