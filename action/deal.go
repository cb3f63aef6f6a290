package action

import (
	"context"
	"strings"

	"github.com/marcelsud/salessuite-connector/property"
	"github.com/marcelsud/salessuite-connector/salessuite"
)

// dealPayload normalizes the deal.* entries of the flat field form
func (r *Router) dealPayload(ctx context.Context, p Params) (map[string]any, error) {
	buckets := property.SplitPrefixedFields(p.Fields())

	set, err := r.CRM.DealFields(ctx)
	if err != nil {
		return nil, err
	}
	return property.NormalizeFields(property.Deal, buckets.Deal, property.BuildTypeMap(property.DealProperties(set.Properties)))
}

func hasName(body map[string]any) bool {
	name, ok := body["name"]
	if !ok || name == nil {
		return false
	}
	s, isString := name.(string)
	return !isString || strings.TrimSpace(s) != ""
}

func (r *Router) createDeal(ctx context.Context, p Params) (any, error) {
	body, err := r.dealPayload(ctx, p)
	if err != nil {
		return nil, err
	}
	if name := p.String("name"); name != "" {
		body["name"] = name
	}
	if !hasName(body) {
		return nil, invalidf("Create Deal requires a name.")
	}

	q := salessuite.DealQuery{
		PipelineID: p.String("pipelineId"),
		ContactID:  p.String("contactId"),
		PhaseID:    p.String("phaseId"),
	}
	result, err := r.CRM.CreateDeal(ctx, q, body)
	if err != nil {
		return nil, err
	}

	deal, _ := result["deal"].(map[string]any)
	dealID, _ := deal["id"].(string)
	noteID, err := r.initialNote(ctx, p, salessuite.NoteOnDeal, dealID)
	if err != nil {
		return nil, err
	}

	input := merge(body, map[string]any{"contactId": q.ContactID, "pipelineId": q.PipelineID, "phaseId": q.PhaseID})
	return merge(result, map[string]any{"inputData": input, "initialNoteId": noteID}), nil
}

func (r *Router) updateDeal(ctx context.Context, p Params) (any, error) {
	id := p.Trimmed("dealId")
	if id == "" {
		return nil, invalidf("updateDeal requires a dealId.")
	}

	body, err := r.dealPayload(ctx, p)
	if err != nil {
		return nil, err
	}
	if name := p.Trimmed("name"); name != "" {
		body["name"] = name
	}

	move := p.Bool("updatePipelineStage")
	if !move && len(body) == 0 {
		return nil, invalidf("No fields provided to update.")
	}

	q := salessuite.DealQuery{AppendMultiSelectValues: p.Bool("appendMultiSelectValues")}
	if move {
		q.PipelineID, q.PhaseID = p.Trimmed("pipelineId"), p.Trimmed("phaseId")
		if q.PipelineID == "" || q.PhaseID == "" {
			return nil, invalidf("To update pipeline/phase, both pipelineId and phaseId are required.")
		}
	}

	result, err := r.CRM.UpdateDeal(ctx, id, q, body)
	if err != nil {
		return nil, err
	}
	noteID, err := r.initialNote(ctx, p, salessuite.NoteOnDeal, id)
	if err != nil {
		return nil, err
	}
	return merge(result, map[string]any{"inputData": body, "initialNoteId": noteID}), nil
}

func (r *Router) getDeal(ctx context.Context, p Params) (any, error) {
	id := p.Trimmed("dealId")
	if id == "" {
		return nil, invalidf("getById requires a dealId.")
	}
	deal, err := r.CRM.GetDeal(ctx, id)
	if err != nil {
		return nil, err
	}
	if deal == nil {
		return map[string]any{}, nil
	}
	return deal, nil
}

func (r *Router) dealsByEmail(ctx context.Context, p Params) (any, error) {
	email := p.String("email")
	deals, err := r.CRM.DealsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return map[string]any{"email": email, "deals": orEmptyList(deals)}, nil
}

func (r *Router) listDeals(ctx context.Context, p Params) (any, error) {
	page, pageSize := p.Int("page", 0), p.Int("pageSize", 25)
	pipelineID := p.String("pipelineId")
	deals, err := r.CRM.ListDeals(ctx, page, pageSize, pipelineID)
	if err != nil {
		return nil, err
	}

	var pipeline any
	if pipelineID != "" {
		pipeline = pipelineID
	}
	return map[string]any{"page": page, "pageSize": pageSize, "pipelineId": pipeline, "deals": orEmptyList(deals)}, nil
}

func (r *Router) pipelines(ctx context.Context, _ Params) (any, error) {
	pipelines, err := r.CRM.ListPipelines(ctx)
	if err != nil {
		return nil, err
	}
	if pipelines == nil {
		return []salessuite.Pipeline{}, nil
	}
	return pipelines, nil
}
