//go:build integration

package redis_test

import (
	"context"
	"strings"
	"testing"

	"github.com/marcelsud/salessuite-connector/event/redis"
	"github.com/stretchr/testify/require"
	testcontainersredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

// SetupRepository starts a Redis testcontainer and connects a repository to it
func SetupRepository(t *testing.T, ctx context.Context) *redis.Repository {
	t.Helper()

	container, err := testcontainersredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err, "failed to start Redis container")
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate Redis container: %v", err)
		}
	})

	addr, err := container.ConnectionString(ctx)
	require.NoError(t, err, "failed to get Redis connection string")

	repo, err := redis.NewRepository(strings.TrimPrefix(addr, "redis://"), "", 0)
	require.NoError(t, err, "failed to create Redis repository")
	t.Cleanup(func() { repo.Close(ctx) })
	return repo
}
