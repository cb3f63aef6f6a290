package metrics

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/marcelsud/salessuite-connector/event"
	eventredis "github.com/marcelsud/salessuite-connector/event/redis"
	triggerredis "github.com/marcelsud/salessuite-connector/trigger/redis"
	"github.com/redis/go-redis/v9"
)

// RedisCollector implements the Collector interface for Redis-backed metrics
type RedisCollector struct {
	client *redis.Client
	states *triggerredis.StateStore
	now    func() time.Time
}

// NewRedisCollector creates a new Redis metrics collector
func NewRedisCollector(client *redis.Client) *RedisCollector {
	return &RedisCollector{
		client: client,
		states: triggerredis.NewStateStore(client),
		now:    time.Now,
	}
}

// Collect gathers all metrics from Redis
func (c *RedisCollector) Collect(ctx context.Context) (Metrics, error) {
	inboxes, err := c.GetInboxLengths(ctx)
	if err != nil {
		return Metrics{}, fmt.Errorf("getting inbox lengths: %w", err)
	}

	statusCounts, err := c.GetStatusCounts(ctx)
	if err != nil {
		return Metrics{}, fmt.Errorf("getting status counts: %w", err)
	}

	throughput, err := c.GetThroughput(ctx)
	if err != nil {
		return Metrics{}, fmt.Errorf("getting throughput: %w", err)
	}

	stale, err := c.GetStaleSubscriptions(ctx)
	if err != nil {
		return Metrics{}, fmt.Errorf("getting stale subscriptions: %w", err)
	}

	return Metrics{
		Inboxes:            inboxes,
		StatusCounts:       statusCounts,
		Throughput:         throughput,
		StaleSubscriptions: stale,
		Timestamp:          c.now(),
	}, nil
}

// scan calls fn for every key matching pattern
func (c *RedisCollector) scan(ctx context.Context, pattern string, fn func(key string)) error {
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, 1000).Result()
		if err != nil {
			return fmt.Errorf("scanning %s: %w", pattern, err)
		}
		for _, key := range keys {
			fn(key)
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

// GetInboxLengths returns the length and pending count of each event stream
func (c *RedisCollector) GetInboxLengths(ctx context.Context) ([]InboxLength, error) {
	var keys []string
	if err := c.scan(ctx, eventredis.StreamPrefix+":*", func(key string) { keys = append(keys, key) }); err != nil {
		return nil, err
	}

	inboxes := make([]InboxLength, 0, len(keys))
	for _, key := range keys {
		parts := strings.SplitN(key, ":", 3)
		if len(parts) != 3 {
			continue
		}
		length, err := c.client.XLen(ctx, key).Result()
		if err != nil {
			// Continue even if one stream fails
			continue
		}

		inbox := InboxLength{Mode: parts[1], NodeID: parts[2], Length: length}
		if groups, err := c.client.XInfoGroups(ctx, key).Result(); err == nil {
			for _, g := range groups {
				inbox.Pending += g.Pending
			}
		}
		inboxes = append(inboxes, inbox)
	}
	return inboxes, nil
}

func eventHashKeys(keys []string) []string {
	out := keys[:0]
	for _, key := range keys {
		if strings.HasSuffix(key, ":msgid") {
			continue
		}
		out = append(out, key)
	}
	return out
}

// GetStatusCounts returns counts of events grouped by status
func (c *RedisCollector) GetStatusCounts(ctx context.Context) (map[string]int64, error) {
	statusCounts := map[string]int64{
		event.Pending.String():      0,
		event.Consumed.String():     0,
		event.Acknowledged.String(): 0,
	}

	var keys []string
	if err := c.scan(ctx, "event:*", func(key string) { keys = append(keys, key) }); err != nil {
		return nil, err
	}
	keys = eventHashKeys(keys)
	if len(keys) == 0 {
		return statusCounts, nil
	}

	pipe := c.client.Pipeline()
	cmds := make([]*redis.StringCmd, len(keys))
	for i, key := range keys {
		cmds[i] = pipe.HGet(ctx, key, "status")
	}
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, fmt.Errorf("executing pipeline: %w", err)
	}

	for _, cmd := range cmds {
		status, err := cmd.Result()
		if err != nil {
			continue
		}
		if _, exists := statusCounts[status]; exists {
			statusCounts[status]++
		}
	}
	return statusCounts, nil
}

// GetThroughput counts events received over different time windows
func (c *RedisCollector) GetThroughput(ctx context.Context) (ThroughputMetrics, error) {
	now := c.now()
	oneMinuteAgo := now.Add(-1 * time.Minute).UnixMilli()
	fiveMinutesAgo := now.Add(-5 * time.Minute).UnixMilli()
	fifteenMinutesAgo := now.Add(-15 * time.Minute).UnixMilli()

	var keys []string
	if err := c.scan(ctx, "event:*", func(key string) { keys = append(keys, key) }); err != nil {
		return ThroughputMetrics{}, err
	}

	var tp ThroughputMetrics
	for _, key := range eventHashKeys(keys) {
		raw, err := c.client.HGet(ctx, key, "received_at").Result()
		if err != nil {
			continue
		}
		receivedAt, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			continue
		}

		if receivedAt >= fifteenMinutesAgo {
			tp.LastFifteenMinutes++
			if receivedAt >= fiveMinutesAgo {
				tp.LastFiveMinutes++
				if receivedAt >= oneMinuteAgo {
					tp.LastMinute++
				}
			}
		}
	}
	return tp, nil
}

// GetStaleSubscriptions counts production subscriptions awaiting deletion
func (c *RedisCollector) GetStaleSubscriptions(ctx context.Context) (map[string]int64, error) {
	nodes, err := c.states.NodeIDs(ctx)
	if err != nil {
		return nil, err
	}

	stale := make(map[string]int64, len(nodes))
	for _, nodeID := range nodes {
		st, err := c.states.Load(ctx, nodeID)
		if err != nil {
			continue
		}
		stale[nodeID] = int64(len(st.StaleProdIDs))
	}
	return stale, nil
}

