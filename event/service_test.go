package event_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/marcelsud/salessuite-connector/event"
	"github.com/marcelsud/salessuite-connector/event/mocks"
	"github.com/marcelsud/salessuite-connector/trigger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReceive(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("success - production delivery", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		service := event.NewService(repo)
		service.Now = func() time.Time { return now }

		body := []byte(`{"type":"deal.created","deal":{"id":"d-1"}}`)

		repo.On("Store", ctx, event.MatchEvent(func(ev event.Event) bool {
			return ev.NodeID == "node-1" &&
				ev.Mode == trigger.Production &&
				ev.Status == event.Pending &&
				ev.Envelope.Type == "deal.created" &&
				string(ev.Envelope.Data) == string(body) &&
				ev.ReceivedAt.Equal(now) &&
				ev.ID != ""
		})).Return("ev-1", nil)

		id, err := service.Receive(ctx, "node-1", trigger.Production, body, map[string]string{"Content-Type": "application/json"})

		require.NoError(t, err)
		assert.Equal(t, "ev-1", id)
	})

	t.Run("success - body without type", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		service := event.NewService(repo)

		repo.On("Store", ctx, event.MatchEvent(func(ev event.Event) bool {
			return ev.Envelope.Type == event.UnknownType && string(ev.Envelope.Data) == "{}"
		})).Return("ev-2", nil)

		_, err := service.Receive(ctx, "node-1", trigger.Manual, []byte("not json"), nil)

		require.NoError(t, err)
	})

	t.Run("missing receive time", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		service := event.NewService(repo)
		service.Now = func() time.Time { return time.Time{} }

		_, err := service.Receive(ctx, "node-1", trigger.Production, []byte(`{"type":"deal.created"}`), nil)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "validating envelope: timestamp is required")
	})

	t.Run("invalid mode", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		service := event.NewService(repo)

		_, err := service.Receive(ctx, "node-1", trigger.Mode(99), []byte(`{}`), nil)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "validating mode")
	})

	t.Run("missing node", func(t *testing.T) {
		service := event.NewService(mocks.NewRepository(t))

		_, err := service.Receive(ctx, "", trigger.Manual, []byte(`{}`), nil)

		assert.ErrorIs(t, err, trigger.ErrMissingNodeID)
	})

	t.Run("store failure", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		service := event.NewService(repo)

		repo.On("Store", ctx, event.MatchEvent(func(event.Event) bool { return true })).Return("", errors.New("redis down"))

		_, err := service.Receive(ctx, "node-1", trigger.Manual, []byte(`{}`), nil)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "storing event")
	})
}

func TestNext(t *testing.T) {
	ctx := context.Background()
	dealEvent := event.Event{ID: "ev-1", Envelope: event.Envelope{Type: "deal.created"}}
	contactEvent := event.Event{ID: "ev-2", Envelope: event.Envelope{Type: "contact.created"}}

	t.Run("success - marks events consumed", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		service := event.NewService(repo)

		repo.On("Consume", ctx, "node-1", trigger.Production).Return([]event.Event{dealEvent}, nil)
		repo.On("UpdateStatus", ctx, "ev-1", event.Consumed).Return(nil)

		events, err := service.Next(ctx, "node-1", trigger.Production, nil)

		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, event.Consumed, events[0].Status)
	})

	t.Run("success - skips other types", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		service := event.NewService(repo)

		repo.On("Consume", ctx, "node-1", trigger.Production).Return([]event.Event{dealEvent, contactEvent}, nil)
		repo.On("UpdateStatus", ctx, "ev-1", event.Consumed).Return(nil)
		repo.On("Acknowledge", ctx, "node-1", trigger.Production, "ev-2").Return(nil)
		repo.On("UpdateStatus", ctx, "ev-2", event.Acknowledged).Return(nil)

		events, err := service.Next(ctx, "node-1", trigger.Production, []string{"deal.*"})

		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, "ev-1", events[0].ID)
	})

	t.Run("consume failure", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		service := event.NewService(repo)

		repo.On("Consume", ctx, "node-1", trigger.Manual).Return(nil, errors.New("timeout"))

		_, err := service.Next(ctx, "node-1", trigger.Manual, nil)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "consuming events")
	})
}

func TestAck(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		service := event.NewService(repo)

		repo.On("Acknowledge", ctx, "node-1", trigger.Manual, "ev-1").Return(nil)
		repo.On("UpdateStatus", ctx, "ev-1", event.Acknowledged).Return(nil)

		require.NoError(t, service.Ack(ctx, "node-1", trigger.Manual, "ev-1"))
	})

	t.Run("acknowledge failure", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		service := event.NewService(repo)

		repo.On("Acknowledge", ctx, "node-1", trigger.Manual, "ev-1").Return(errors.New("boom"))

		err := service.Ack(ctx, "node-1", trigger.Manual, "ev-1")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "acknowledging event")
	})
}
