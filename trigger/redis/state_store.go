package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/marcelsud/salessuite-connector/trigger"
	"github.com/redis/go-redis/v9"
)

/* Redis implementation of trigger.StateStore
 * Each node's state is one JSON value under trigger:state:{node_id}
 */

const statePrefix = "trigger:state"

type StateStore struct {
	client *redis.Client
}

// NewStateStore creates a state store on an existing connection
func NewStateStore(client *redis.Client) *StateStore {
	return &StateStore{client: client}
}

// Load returns the node's state, or a fresh one when none was saved
func (s *StateStore) Load(ctx context.Context, nodeID string) (trigger.State, error) {
	data, err := s.client.Get(ctx, stateKey(nodeID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return trigger.NewState(), nil
	}
	if err != nil {
		return trigger.State{}, fmt.Errorf("getting trigger state: %w", err)
	}

	var st trigger.State
	if err := json.Unmarshal(data, &st); err != nil {
		return trigger.State{}, fmt.Errorf("unmarshaling trigger state: %w", err)
	}
	if st.Version > trigger.StateVersion {
		return trigger.State{}, fmt.Errorf("trigger state version %d is newer than %d", st.Version, trigger.StateVersion)
	}
	st.Version = trigger.StateVersion
	return st, nil
}

func (s *StateStore) Save(ctx context.Context, nodeID string, state trigger.State) error {
	state.Version = trigger.StateVersion
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshaling trigger state: %w", err)
	}
	if err := s.client.Set(ctx, stateKey(nodeID), data, 0).Err(); err != nil {
		return fmt.Errorf("saving trigger state: %w", err)
	}
	return nil
}

// NodeIDs lists every node with saved state
func (s *StateStore) NodeIDs(ctx context.Context) ([]string, error) {
	var ids []string
	var cursor uint64
	for {
		keys, next, err := s.client.Scan(ctx, cursor, statePrefix+":*", 100).Result()
		if err != nil {
			return nil, fmt.Errorf("scanning trigger states: %w", err)
		}
		for _, key := range keys {
			ids = append(ids, key[len(statePrefix)+1:])
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return ids, nil
}

func stateKey(nodeID string) string {
	return fmt.Sprintf("%s:%s", statePrefix, nodeID)
}
