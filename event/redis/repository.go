package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/marcelsud/salessuite-connector/event"
	"github.com/marcelsud/salessuite-connector/trigger"
	"github.com/redis/go-redis/v9"
)

/* Redis Streams implementation of event.Repository
 * One stream per trigger node and mode, read through a consumer group
 * Event metadata lives in a hash next to the stream entry
 */

const (
	StreamPrefix        = "events"          // events:{mode}:{node_id}
	hashPrefix          = "event"           // event:{event_id}
	consumerGroupPrefix = "event-consumers" // event-consumers-{node_id}
	consumerName        = "connector"
	messageIDTTL        = 24 * time.Hour
)

type Repository struct {
	client *redis.Client
}

// NewRepository creates a new Redis repository
func NewRepository(addr, password string, db int) (*Repository, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to Redis: %w", err)
	}

	return &Repository{client: client}, nil
}

// NewRepositoryFromClient wraps an existing client
func NewRepositoryFromClient(client *redis.Client) *Repository {
	return &Repository{client: client}
}

// Store records the event metadata and appends it to the node's stream
func (r *Repository) Store(ctx context.Context, ev event.Event) (string, error) {
	headersJSON, err := json.Marshal(ev.Headers)
	if err != nil {
		return "", fmt.Errorf("marshaling headers: %w", err)
	}

	err = r.client.HSet(ctx, hashKey(ev.ID), map[string]interface{}{
		"id":          ev.ID,
		"node_id":     ev.NodeID,
		"mode":        ev.Mode.String(),
		"type":        ev.Envelope.Type,
		"data":        string(ev.Envelope.Data),
		"headers":     string(headersJSON),
		"status":      ev.Status.String(),
		"received_at": ev.ReceivedAt.UnixMilli(),
		"updated_at":  ev.UpdatedAt.UnixMilli(),
	}).Err()
	if err != nil {
		return "", fmt.Errorf("storing event metadata: %w", err)
	}

	streamKey := StreamKey(ev.NodeID, ev.Mode)
	if err := r.ensureGroup(ctx, streamKey, ev.NodeID); err != nil {
		return "", err
	}

	_, err = r.client.XAdd(ctx, &redis.XAddArgs{
		Stream: streamKey,
		Values: map[string]interface{}{
			"event_id": ev.ID,
			"type":     ev.Envelope.Type,
		},
	}).Result()
	if err != nil {
		return "", fmt.Errorf("adding to stream: %w", err)
	}

	return ev.ID, nil
}

// Get retrieves an event by ID
func (r *Repository) Get(ctx context.Context, id string) (event.Event, error) {
	data, err := r.client.HGetAll(ctx, hashKey(id)).Result()
	if err != nil {
		return event.Event{}, fmt.Errorf("getting event: %w", err)
	}
	if len(data) == 0 {
		return event.Event{}, fmt.Errorf("event not found: %s", id)
	}

	headers := make(map[string]string)
	if raw := data["headers"]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &headers); err != nil {
			return event.Event{}, fmt.Errorf("unmarshaling headers: %w", err)
		}
	}

	receivedAt := time.UnixMilli(parseInt64(data["received_at"])).UTC()
	return event.Event{
		ID:     data["id"],
		NodeID: data["node_id"],
		Mode:   trigger.NewMode(data["mode"]),
		Envelope: event.Envelope{
			Type:      data["type"],
			Timestamp: receivedAt,
			Data:      json.RawMessage(data["data"]),
		},
		Headers:    headers,
		Status:     event.NewStatus(data["status"]),
		ReceivedAt: receivedAt,
		UpdatedAt:  time.UnixMilli(parseInt64(data["updated_at"])).UTC(),
	}, nil
}

// UpdateStatus updates the status of an event
func (r *Repository) UpdateStatus(ctx context.Context, id string, status event.Status) error {
	err := r.client.HSet(ctx, hashKey(id), map[string]interface{}{
		"status":     status.String(),
		"updated_at": time.Now().UnixMilli(),
	}).Err()
	if err != nil {
		return fmt.Errorf("updating status: %w", err)
	}
	return nil
}

// Consume reads the next event of a node
func (r *Repository) Consume(ctx context.Context, nodeID string, mode trigger.Mode) ([]event.Event, error) {
	streamKey := StreamKey(nodeID, mode)
	if err := r.ensureGroup(ctx, streamKey, nodeID); err != nil {
		return nil, err
	}

	streams, err := r.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    groupName(nodeID),
		Consumer: consumerName,
		Streams:  []string{streamKey, ">"},
		Count:    1,
		Block:    1 * time.Second,
	}).Result()
	if err == redis.Nil {
		return []event.Event{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading from stream: %w", err)
	}
	if len(streams) == 0 || len(streams[0].Messages) == 0 {
		return []event.Event{}, nil
	}

	events := []event.Event{}
	for _, msg := range streams[0].Messages {
		eventID, ok := msg.Values["event_id"].(string)
		if !ok {
			continue
		}
		ev, err := r.Get(ctx, eventID)
		if err != nil {
			continue
		}
		if err := r.client.Set(ctx, messageIDKey(eventID), msg.ID, messageIDTTL).Err(); err != nil {
			return nil, fmt.Errorf("storing message ID: %w", err)
		}
		events = append(events, ev)
	}
	return events, nil
}

// Acknowledge removes a consumed event from the pending list
func (r *Repository) Acknowledge(ctx context.Context, nodeID string, mode trigger.Mode, eventID string) error {
	msgID, err := r.client.Get(ctx, messageIDKey(eventID)).Result()
	if err == redis.Nil {
		// already acknowledged or expired
		return nil
	}
	if err != nil {
		return fmt.Errorf("getting message ID: %w", err)
	}

	if err := r.client.XAck(ctx, StreamKey(nodeID, mode), groupName(nodeID), msgID).Err(); err != nil {
		return fmt.Errorf("acknowledging message: %w", err)
	}
	r.client.Del(ctx, messageIDKey(eventID))
	return nil
}

// Close closes the Redis connection
func (r *Repository) Close(ctx context.Context) error {
	return r.client.Close()
}

// GetClient returns the underlying Redis client for advanced operations
func (r *Repository) GetClient() *redis.Client {
	return r.client
}

func (r *Repository) ensureGroup(ctx context.Context, streamKey, nodeID string) error {
	err := r.client.XGroupCreateMkStream(ctx, streamKey, groupName(nodeID), "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("creating consumer group: %w", err)
	}
	return nil
}

// StreamKey is the stream of a node's deliveries in the given mode
func StreamKey(nodeID string, mode trigger.Mode) string {
	return fmt.Sprintf("%s:%s:%s", StreamPrefix, mode.String(), nodeID)
}

func hashKey(id string) string {
	return fmt.Sprintf("%s:%s", hashPrefix, id)
}

func messageIDKey(id string) string {
	return fmt.Sprintf("%s:%s:msgid", hashPrefix, id)
}

func groupName(nodeID string) string {
	return fmt.Sprintf("%s-%s", consumerGroupPrefix, nodeID)
}

func parseInt64(s string) int64 {
	var result int64
	fmt.Sscanf(s, "%d", &result)
	return result
}
