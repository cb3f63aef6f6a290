package routes_test

import (
	"context"
	"errors"
	"testing"

	"github.com/marcelsud/salessuite-connector/routes"
	"github.com/marcelsud/salessuite-connector/trigger"
	"github.com/marcelsud/salessuite-connector/trigger/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const activateYAML = `
routes:
  - route_id: "new-contacts"
    event: "contact.created"
  - route_id: "contact-form"
    event: "form.submitted"
    form_id: "f-1"
`

func nodeActivation(nodeID string) interface{} {
	return mock.MatchedBy(func(a trigger.Activation) bool { return a.NodeID == nodeID })
}

func TestActivateAll(t *testing.T) {
	ctx := context.Background()
	loader := routes.NewLoader()
	require.NoError(t, loader.Parse([]byte(activateYAML)))

	t.Run("success - only missing subscriptions are created", func(t *testing.T) {
		lc := mocks.NewUseCase(t)
		lc.On("CheckExists", ctx, trigger.Activation{
			NodeID: "contact-form",
			Mode:   trigger.Production,
			URL:    "https://flows.example.com/webhook/contact-form",
			Event:  trigger.FormSubmitted,
			Filter: trigger.FilterParams{FormID: "f-1"},
		}).Return(true, nil)
		lc.On("CheckExists", ctx, nodeActivation("new-contacts")).Return(false, nil)
		lc.On("Create", ctx, nodeActivation("new-contacts")).Return(nil)

		created, err := loader.ActivateAll(ctx, lc, "https://flows.example.com")
		require.NoError(t, err)
		assert.Equal(t, []string{"new-contacts"}, created)
	})

	t.Run("failure - one route failing does not stop the others", func(t *testing.T) {
		lc := mocks.NewUseCase(t)
		lc.On("CheckExists", ctx, nodeActivation("contact-form")).Return(false, errors.New("unauthorized"))
		lc.On("CheckExists", ctx, nodeActivation("new-contacts")).Return(false, nil)
		lc.On("Create", ctx, nodeActivation("new-contacts")).Return(nil)

		created, err := loader.ActivateAll(ctx, lc, "https://flows.example.com")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "checking route contact-form: unauthorized")
		assert.Equal(t, []string{"new-contacts"}, created)
	})
}
