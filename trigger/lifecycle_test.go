package trigger_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/marcelsud/salessuite-connector/salessuite"
	"github.com/marcelsud/salessuite-connector/salessuite/crmtest"
	"github.com/marcelsud/salessuite-connector/trigger"
	"github.com/marcelsud/salessuite-connector/trigger/mocks"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const hookURL = "https://flows.example.com/webhook/node-1"

func newLifecycle(t *testing.T) (*trigger.Lifecycle, *crmtest.Server, *trigger.MemoryStore) {
	t.Helper()
	crm := crmtest.NewServer(t)
	store := trigger.NewMemoryStore()
	lc := trigger.NewLifecycle(crm.APIClient(), store, zerolog.Nop())
	lc.DeleteBackoff = time.Millisecond
	return lc, crm, store
}

func activation(mode trigger.Mode) trigger.Activation {
	return trigger.Activation{
		NodeID: "node-1",
		Mode:   mode,
		URL:    hookURL,
		Event:  trigger.ContactCreated,
	}
}

func TestCheckExists(t *testing.T) {
	ctx := context.Background()

	t.Run("manual mode never exists", func(t *testing.T) {
		lc, crm, _ := newLifecycle(t)
		crm.AddSubscription(hookURL, "contact.created")

		exists, err := lc.CheckExists(ctx, activation(trigger.Manual))

		require.NoError(t, err)
		assert.False(t, exists)
		assert.Empty(t, crm.Requests())
	})

	t.Run("success - stored id still live", func(t *testing.T) {
		lc, _, _ := newLifecycle(t)
		a := activation(trigger.Production)
		require.NoError(t, lc.Create(ctx, a))

		exists, err := lc.CheckExists(ctx, a)

		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("success - found by exact url and cached", func(t *testing.T) {
		lc, crm, store := newLifecycle(t)
		crm.AddSubscription("https://other.example.com", "contact.created")
		sub := crm.AddSubscription(hookURL, "contact.created")

		exists, err := lc.CheckExists(ctx, activation(trigger.Production))

		require.NoError(t, err)
		assert.True(t, exists)
		st, _ := store.Load(ctx, "node-1")
		assert.Equal(t, sub.ID, st.SubscriptionIDProd)
		assert.Equal(t, sub.ID, st.IDByURL[hookURL].ID)
	})

	t.Run("subscription removed remotely", func(t *testing.T) {
		lc, crm, _ := newLifecycle(t)
		a := activation(trigger.Production)
		require.NoError(t, lc.Create(ctx, a))
		_, err := crm.APIClient().DeleteSubscription(ctx, crm.Subscriptions()[0].ID)
		require.NoError(t, err)

		exists, err := lc.CheckExists(ctx, a)

		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("error - missing url", func(t *testing.T) {
		lc, _, _ := newLifecycle(t)
		a := activation(trigger.Production)
		a.URL = ""

		_, err := lc.CheckExists(ctx, a)

		assert.ErrorIs(t, err, trigger.ErrMissingURL)
	})
}

func TestCheckExistsURLCache(t *testing.T) {
	ctx := context.Background()
	cachedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	lc, crm, store := newLifecycle(t)
	first := crm.AddSubscription(hookURL, "contact.created")
	second := crm.AddSubscription(hookURL, "contact.created")

	seed := func(t *testing.T) {
		t.Helper()
		st := trigger.NewState()
		st.IDByURL[hookURL] = trigger.CachedID{ID: second.ID, CachedAt: cachedAt}
		require.NoError(t, store.Save(ctx, "node-1", st))
	}

	t.Run("success - cached id younger than the ttl wins", func(t *testing.T) {
		seed(t)
		lc.Now = func() time.Time { return cachedAt.Add(trigger.URLCacheTTL - time.Minute) }

		exists, err := lc.CheckExists(ctx, activation(trigger.Production))

		require.NoError(t, err)
		assert.True(t, exists)
		st, _ := store.Load(ctx, "node-1")
		assert.Equal(t, second.ID, st.SubscriptionIDProd)
		assert.Equal(t, trigger.CachedID{ID: second.ID, CachedAt: cachedAt}, st.IDByURL[hookURL])
	})

	t.Run("success - expired cache falls back to the exact url", func(t *testing.T) {
		seed(t)
		now := cachedAt.Add(trigger.URLCacheTTL)
		lc.Now = func() time.Time { return now }

		exists, err := lc.CheckExists(ctx, activation(trigger.Production))

		require.NoError(t, err)
		assert.True(t, exists)
		st, _ := store.Load(ctx, "node-1")
		assert.Equal(t, first.ID, st.SubscriptionIDProd)
		assert.Equal(t, trigger.CachedID{ID: first.ID, CachedAt: now}, st.IDByURL[hookURL])
	})
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("success - manual create twice keeps one subscription", func(t *testing.T) {
		lc, crm, store := newLifecycle(t)
		a := activation(trigger.Manual)

		require.NoError(t, lc.Create(ctx, a))
		require.NoError(t, lc.Create(ctx, a))

		subs := crm.Subscriptions()
		require.Len(t, subs, 1)
		st, _ := store.Load(ctx, "node-1")
		assert.Equal(t, subs[0].ID, st.SubscriptionIDTest)
		assert.Equal(t, hookURL, st.LastTestURL)
		assert.Empty(t, st.SubscriptionIDProd)
	})

	t.Run("success - production removes duplicates of the url", func(t *testing.T) {
		lc, crm, store := newLifecycle(t)
		crm.AddSubscription(hookURL, "contact.created")
		crm.AddSubscription(hookURL, "contact.created")
		other := crm.AddSubscription("https://other.example.com", "deal.created")

		require.NoError(t, lc.Create(ctx, activation(trigger.Production)))

		subs := crm.Subscriptions()
		require.Len(t, subs, 2)
		st, _ := store.Load(ctx, "node-1")
		assert.Equal(t, other.ID, subs[0].ID)
		assert.Equal(t, st.SubscriptionIDProd, subs[1].ID)
		assert.Equal(t, st.SubscriptionIDProd, st.IDByURL[hookURL].ID)
	})

	t.Run("success - filter is sent with the subscription", func(t *testing.T) {
		lc, crm, _ := newLifecycle(t)
		a := activation(trigger.Production)
		a.Event = trigger.DealStageChanged
		a.Filter = trigger.FilterParams{StageScope: trigger.SpecificStages, PipelineID: "pl-1", PhaseID: "ph-2"}

		require.NoError(t, lc.Create(ctx, a))

		reqs := crm.RequestsTo(http.MethodPost, "/webhooks/subscription")
		require.Len(t, reqs, 1)
		body := reqs[0].JSON(t)
		assert.Equal(t, "deal.stageChanged", body["type"])
		assert.Equal(t, map[string]any{"pipelineId": "pl-1", "phaseId": "ph-2"}, body["filter"])
	})

	t.Run("success - production create retries stale ids first", func(t *testing.T) {
		lc, crm, store := newLifecycle(t)
		stale := crm.AddSubscription("https://old.example.com", "contact.created")
		st := trigger.NewState()
		st.StaleProdIDs = []string{stale.ID}
		require.NoError(t, store.Save(ctx, "node-1", st))

		require.NoError(t, lc.Create(ctx, activation(trigger.Production)))

		st, _ = store.Load(ctx, "node-1")
		assert.Empty(t, st.StaleProdIDs)
		assert.Len(t, crm.Subscriptions(), 1)
	})

	t.Run("error - invalid filter fails before any call", func(t *testing.T) {
		lc, crm, _ := newLifecycle(t)
		a := activation(trigger.Production)
		a.Event = trigger.FormSubmitted

		err := lc.Create(ctx, a)

		var verr *trigger.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "Please select a form.", verr.Message)
		assert.Empty(t, crm.Requests())
	})

	t.Run("error - remote create fails", func(t *testing.T) {
		api := mocks.NewSubscriptionAPI(t)
		store := mocks.NewStateStore(t)
		lc := trigger.NewLifecycle(api, store, zerolog.Nop())
		a := activation(trigger.Manual)

		store.On("Load", ctx, "node-1").Return(trigger.NewState(), nil)
		api.On("ListSubscriptions", ctx).Return(nil, errors.New("down"))
		api.On("CreateSubscription", ctx, mock.Anything).Return(salessuite.Subscription{}, errors.New("boom"))
		store.On("Save", ctx, "node-1", mock.Anything).Return(nil)

		err := lc.Create(ctx, a)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "creating subscription")
	})

	t.Run("error - production create without id", func(t *testing.T) {
		api := mocks.NewSubscriptionAPI(t)
		store := mocks.NewStateStore(t)
		lc := trigger.NewLifecycle(api, store, zerolog.Nop())

		store.On("Load", ctx, "node-1").Return(trigger.NewState(), nil)
		api.On("CreateSubscription", ctx, salessuite.SubscriptionInput{
			HookURL: hookURL,
			Type:    "contact.created",
			Filter:  map[string]any{},
		}).Return(salessuite.Subscription{}, nil)
		store.On("Save", ctx, "node-1", mock.Anything).Return(nil)

		err := lc.Create(ctx, activation(trigger.Production))

		assert.ErrorIs(t, err, trigger.ErrMissingSubID)
	})

	t.Run("error - state cannot be loaded", func(t *testing.T) {
		api := mocks.NewSubscriptionAPI(t)
		store := mocks.NewStateStore(t)
		lc := trigger.NewLifecycle(api, store, zerolog.Nop())

		store.On("Load", ctx, "node-1").Return(trigger.State{}, errors.New("redis down"))

		err := lc.Create(ctx, activation(trigger.Production))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "loading trigger state")
	})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("success - nothing to delete", func(t *testing.T) {
		lc, crm, _ := newLifecycle(t)

		require.NoError(t, lc.Delete(ctx, activation(trigger.Production)))
		assert.Empty(t, crm.RequestsTo(http.MethodDelete, "/webhooks/subscription/"))
	})

	t.Run("success - production delete", func(t *testing.T) {
		lc, crm, store := newLifecycle(t)
		a := activation(trigger.Production)
		require.NoError(t, lc.Create(ctx, a))

		require.NoError(t, lc.Delete(ctx, a))

		assert.Empty(t, crm.Subscriptions())
		st, _ := store.Load(ctx, "node-1")
		assert.Empty(t, st.SubscriptionIDProd)
		assert.NotContains(t, st.IDByURL, hookURL)
	})

	t.Run("success - falls back to url lookup", func(t *testing.T) {
		lc, crm, _ := newLifecycle(t)
		crm.AddSubscription(hookURL, "contact.created")

		require.NoError(t, lc.Delete(ctx, activation(trigger.Production)))
		assert.Empty(t, crm.Subscriptions())
	})

	t.Run("error - production delete exhausts its attempts", func(t *testing.T) {
		lc, crm, store := newLifecycle(t)
		a := activation(trigger.Production)
		require.NoError(t, lc.Create(ctx, a))
		id := crm.Subscriptions()[0].ID
		crm.FailDeletes(true)

		err := lc.Delete(ctx, a)

		assert.ErrorIs(t, err, trigger.ErrDeleteFailed)
		assert.Equal(t, 3, crm.DeleteAttempts(id))
		st, _ := store.Load(ctx, "node-1")
		assert.Equal(t, []string{id}, st.StaleProdIDs)
		assert.Empty(t, st.SubscriptionIDProd)

		crm.FailDeletes(false)
		require.NoError(t, lc.Reconcile(ctx, "node-1"))
		st, _ = store.Load(ctx, "node-1")
		assert.Empty(t, st.StaleProdIDs)
		assert.Empty(t, crm.Subscriptions())
	})

	t.Run("success - manual delete never fails", func(t *testing.T) {
		lc, crm, store := newLifecycle(t)
		a := activation(trigger.Manual)
		require.NoError(t, lc.Create(ctx, a))
		id := crm.Subscriptions()[0].ID
		crm.FailDeletes(true)

		require.NoError(t, lc.Delete(ctx, a))

		assert.Equal(t, 1, crm.DeleteAttempts(id))
		st, _ := store.Load(ctx, "node-1")
		assert.Empty(t, st.SubscriptionIDTest)
		assert.Empty(t, st.StaleProdIDs)
	})
}

func TestHandleDelivery(t *testing.T) {
	ctx := context.Background()

	t.Run("success - manual listener removes its subscription", func(t *testing.T) {
		lc, crm, store := newLifecycle(t)
		a := activation(trigger.Manual)
		require.NoError(t, lc.Create(ctx, a))

		out := lc.HandleDelivery(ctx, a, map[string]any{"event": "contact.created"})

		assert.Equal(t, "manual", out.ExecutionMode)
		assert.Equal(t, map[string]any{"event": "contact.created"}, out.Body)
		assert.Empty(t, crm.Subscriptions())
		st, _ := store.Load(ctx, "node-1")
		assert.Empty(t, st.SubscriptionIDTest)
	})

	t.Run("success - failures are swallowed", func(t *testing.T) {
		lc, crm, _ := newLifecycle(t)
		a := activation(trigger.Manual)
		require.NoError(t, lc.Create(ctx, a))
		crm.FailDeletes(true)

		out := lc.HandleDelivery(ctx, a, nil)

		assert.Equal(t, map[string]any{}, out.Body)
		assert.Len(t, crm.Subscriptions(), 1)
	})

	t.Run("success - production keeps its subscription", func(t *testing.T) {
		lc, crm, _ := newLifecycle(t)
		a := activation(trigger.Production)
		require.NoError(t, lc.Create(ctx, a))

		out := lc.HandleDelivery(ctx, a, map[string]any{"id": 1})

		assert.Equal(t, "production", out.ExecutionMode)
		assert.Len(t, crm.Subscriptions(), 1)
	})
}
