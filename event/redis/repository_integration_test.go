//go:build integration

package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/marcelsud/salessuite-connector/event"
	"github.com/marcelsud/salessuite-connector/event/redis"
	"github.com/marcelsud/salessuite-connector/trigger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEvent(id, nodeID string, mode trigger.Mode, body string) event.Event {
	now := time.Now().Truncate(time.Millisecond)
	return event.Event{
		ID:         id,
		NodeID:     nodeID,
		Mode:       mode,
		Envelope:   event.NewEnvelope([]byte(body), now),
		Headers:    map[string]string{"Content-Type": "application/json"},
		Status:     event.Pending,
		ReceivedAt: now,
		UpdatedAt:  now,
	}
}

func TestRepository_Integration(t *testing.T) {
	ctx := context.Background()

	t.Run("store and retrieve", func(t *testing.T) {
		repo := SetupRepository(t, ctx)
		ev := newEvent("ev-1", "node-1", trigger.Production, `{"type":"deal.created"}`)

		id, err := repo.Store(ctx, ev)
		require.NoError(t, err)
		assert.Equal(t, "ev-1", id)

		got, err := repo.Get(ctx, "ev-1")
		require.NoError(t, err)
		assert.Equal(t, "node-1", got.NodeID)
		assert.Equal(t, trigger.Production, got.Mode)
		assert.Equal(t, "deal.created", got.Envelope.Type)
		assert.JSONEq(t, `{"type":"deal.created"}`, string(got.Envelope.Data))
		assert.Equal(t, ev.Headers, got.Headers)
		assert.Equal(t, event.Pending, got.Status)
		assert.True(t, ev.ReceivedAt.Equal(got.ReceivedAt))
	})

	t.Run("missing event", func(t *testing.T) {
		repo := SetupRepository(t, ctx)

		_, err := repo.Get(ctx, "nope")
		assert.ErrorContains(t, err, "event not found")
	})

	t.Run("consume in order and acknowledge", func(t *testing.T) {
		repo := SetupRepository(t, ctx)
		for _, id := range []string{"ev-1", "ev-2"} {
			_, err := repo.Store(ctx, newEvent(id, "node-1", trigger.Manual, `{}`))
			require.NoError(t, err)
		}

		first, err := repo.Consume(ctx, "node-1", trigger.Manual)
		require.NoError(t, err)
		require.Len(t, first, 1)
		assert.Equal(t, "ev-1", first[0].ID)
		require.NoError(t, repo.Acknowledge(ctx, "node-1", trigger.Manual, "ev-1"))

		second, err := repo.Consume(ctx, "node-1", trigger.Manual)
		require.NoError(t, err)
		require.Len(t, second, 1)
		assert.Equal(t, "ev-2", second[0].ID)

		pending, err := repo.GetClient().XPending(ctx, redis.StreamKey("node-1", trigger.Manual), "event-consumers-node-1").Result()
		require.NoError(t, err)
		assert.Equal(t, int64(1), pending.Count)
	})

	t.Run("modes use separate streams", func(t *testing.T) {
		repo := SetupRepository(t, ctx)
		_, err := repo.Store(ctx, newEvent("ev-1", "node-1", trigger.Production, `{}`))
		require.NoError(t, err)

		events, err := repo.Consume(ctx, "node-1", trigger.Manual)
		require.NoError(t, err)
		assert.Empty(t, events)
	})

	t.Run("acknowledge twice", func(t *testing.T) {
		repo := SetupRepository(t, ctx)
		_, err := repo.Store(ctx, newEvent("ev-1", "node-1", trigger.Manual, `{}`))
		require.NoError(t, err)
		_, err = repo.Consume(ctx, "node-1", trigger.Manual)
		require.NoError(t, err)

		require.NoError(t, repo.Acknowledge(ctx, "node-1", trigger.Manual, "ev-1"))
		assert.NoError(t, repo.Acknowledge(ctx, "node-1", trigger.Manual, "ev-1"))
	})

	t.Run("update status", func(t *testing.T) {
		repo := SetupRepository(t, ctx)
		_, err := repo.Store(ctx, newEvent("ev-1", "node-1", trigger.Manual, `{}`))
		require.NoError(t, err)

		require.NoError(t, repo.UpdateStatus(ctx, "ev-1", event.Acknowledged))

		got, err := repo.Get(ctx, "ev-1")
		require.NoError(t, err)
		assert.Equal(t, event.Acknowledged, got.Status)
	})
}
