package metrics

import (
	"context"
	"time"
)

// Metrics represents the current state of the trigger inboxes and subscriptions.
type Metrics struct {
	// Inboxes lists every recorded event stream
	Inboxes []InboxLength `json:"inboxes"`

	// StatusCounts maps event status name to count of events in that status
	StatusCounts map[string]int64 `json:"status_counts"`

	// Throughput represents events received per time window
	Throughput ThroughputMetrics `json:"throughput"`

	// StaleSubscriptions maps node_id to production subscriptions whose delete failed
	StaleSubscriptions map[string]int64 `json:"stale_subscriptions"`

	// Timestamp when metrics were collected
	Timestamp time.Time `json:"timestamp"`
}

// InboxLength is the size of one node's event stream
type InboxLength struct {
	NodeID  string `json:"node_id"`
	Mode    string `json:"mode"`
	Length  int64  `json:"length"`
	Pending int64  `json:"pending"`
}

// ThroughputMetrics represents events received over different time windows.
type ThroughputMetrics struct {
	LastMinute         int64 `json:"last_minute"`
	LastFiveMinutes    int64 `json:"last_five_minutes"`
	LastFifteenMinutes int64 `json:"last_fifteen_minutes"`
}

// Collector defines the interface for collecting metrics from the connector.
type Collector interface {
	// Collect gathers current metrics from the system
	Collect(ctx context.Context) (Metrics, error)

	// GetInboxLengths returns the size of every event stream
	GetInboxLengths(ctx context.Context) ([]InboxLength, error)

	// GetStatusCounts returns the count of events by status
	GetStatusCounts(ctx context.Context) (map[string]int64, error)

	// GetThroughput returns events received over time windows
	GetThroughput(ctx context.Context) (ThroughputMetrics, error)

	// GetStaleSubscriptions returns stale production subscription ids per node
	GetStaleSubscriptions(ctx context.Context) (map[string]int64, error)
}
