package routes_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/marcelsud/salessuite-connector/routes"
	"github.com/marcelsud/salessuite-connector/trigger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRoutes(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "routes.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoader_Load(t *testing.T) {
	t.Run("success - valid routes file", func(t *testing.T) {
		path := writeRoutes(t, `
routes:
  - route_id: "won-deals"
    event: "deal.stageChanged"
    stage_scope: "specific"
    pipeline_id: "pl-1"
    phase_id: "ph-2"
  - route_id: "contact-tags"
    event: "contact.propertyChanged"
    property_ids: ["tags", "email"]
  - route_id: "closing-calls"
    event: "activity.created"
    call_type_id: "ct-2"
    call_result: '{"type":"closing","closingResult":"won"}'
`)

		loader := routes.NewLoader()
		require.NoError(t, loader.Load(path))

		list := loader.List()
		require.Len(t, list, 3)
		assert.Equal(t, []string{"closing-calls", "contact-tags", "won-deals"},
			[]string{list[0].RouteID, list[1].RouteID, list[2].RouteID})

		won, err := loader.Get("won-deals")
		require.NoError(t, err)
		assert.Equal(t, trigger.DealStageChanged, won.Event)
		assert.Equal(t, trigger.FilterParams{StageScope: "specific", PipelineID: "pl-1", PhaseID: "ph-2"}, won.Filter)

		tags, err := loader.Get("contact-tags")
		require.NoError(t, err)
		assert.Equal(t, []string{"tags", "email"}, tags.Filter.PropertyIDs)
	})

	t.Run("error - file not found", func(t *testing.T) {
		err := routes.NewLoader().Load("/nonexistent/routes.yaml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "reading routes file")
	})

	t.Run("error - invalid YAML", func(t *testing.T) {
		err := routes.NewLoader().Load(writeRoutes(t, "routes: [\n  - route_id: x\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parsing routes YAML")
	})

	t.Run("error - missing filter criteria", func(t *testing.T) {
		loader := routes.NewLoader()
		err := loader.Parse([]byte(`
routes:
  - route_id: "ok"
    event: "contact.created"
  - route_id: "forms"
    event: "form.submitted"
`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Please select a form.")
		assert.Empty(t, loader.List())
	})

	t.Run("error - unsupported event", func(t *testing.T) {
		err := routes.NewLoader().Parse([]byte("routes:\n  - route_id: a\n    event: deal.deleted\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Unsupported event: deal.deleted")
	})

	t.Run("error - duplicate route id", func(t *testing.T) {
		err := routes.NewLoader().Parse([]byte(`
routes:
  - route_id: a
    event: contact.created
  - route_id: a
    event: deal.created
`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate route_id a")
	})
}

func TestLoader_Get(t *testing.T) {
	loader := routes.NewLoader()
	require.NoError(t, loader.Parse([]byte("routes:\n  - route_id: a\n    event: contact.created\n")))

	t.Run("route exists", func(t *testing.T) {
		assert.True(t, loader.Exists("a"))
	})

	t.Run("route not found", func(t *testing.T) {
		_, err := loader.Get("b")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "route not found")
		assert.False(t, loader.Exists("b"))
	})
}

func TestRoute_Validate(t *testing.T) {
	t.Run("valid route", func(t *testing.T) {
		r := &routes.Route{RouteID: "deals", Event: trigger.DealCreated, Filter: trigger.FilterParams{PipelineID: "pl-1"}}
		assert.NoError(t, r.Validate())
	})

	t.Run("error - empty route_id", func(t *testing.T) {
		r := &routes.Route{Event: trigger.ContactCreated}
		err := r.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "RouteID")
	})

	t.Run("error - route_id with a slash", func(t *testing.T) {
		r := &routes.Route{RouteID: "a/b", Event: trigger.ContactCreated}
		assert.Error(t, r.Validate())
	})

	t.Run("error - empty event", func(t *testing.T) {
		r := &routes.Route{RouteID: "a"}
		err := r.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Event")
	})

	t.Run("activation", func(t *testing.T) {
		r := &routes.Route{RouteID: "deals", Event: trigger.DealCreated}
		a := r.Activation("https://flows.example.com/")
		assert.Equal(t, trigger.Activation{
			NodeID: "deals",
			Mode:   trigger.Production,
			URL:    "https://flows.example.com/webhook/deals",
			Event:  trigger.DealCreated,
		}, a)
	})
}
