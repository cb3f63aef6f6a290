package trigger

import (
	"context"
	"slices"
	"sync"
	"time"
)

const (
	// StateVersion is bumped when the persisted layout changes
	StateVersion = 1
	URLCacheTTL  = 10 * time.Minute
)

// CachedID remembers which subscription serves a callback URL
type CachedID struct {
	ID       string    `json:"id"`
	CachedAt time.Time `json:"ts"`
}

/* State is the persisted record of one trigger node
 * It is owned by that node's lifecycle callbacks and never shared
 */
type State struct {
	Version            int                 `json:"version"`
	SubscriptionIDTest string              `json:"subscriptionIdTest,omitempty"`
	SubscriptionIDProd string              `json:"subscriptionIdProd,omitempty"`
	IDByURL            map[string]CachedID `json:"idByUrl,omitempty"`
	StaleProdIDs       []string            `json:"staleProdIds,omitempty"`
	LastTestURL        string              `json:"lastTestUrl,omitempty"`
}

// NewState returns an empty state of the current version
func NewState() State {
	return State{Version: StateVersion, IDByURL: map[string]CachedID{}}
}

// SubscriptionID returns the stored id of a lifeline
func (s *State) SubscriptionID(mode Mode) string {
	if mode == Manual {
		return s.SubscriptionIDTest
	}
	return s.SubscriptionIDProd
}

func (s *State) setSubscriptionID(mode Mode, id string) {
	if mode == Manual {
		s.SubscriptionIDTest = id
		return
	}
	s.SubscriptionIDProd = id
}

// clearSubscriptionID forgets the lifeline id when it is still id
func (s *State) clearSubscriptionID(mode Mode, id string) {
	if s.SubscriptionID(mode) == id {
		s.setSubscriptionID(mode, "")
	}
}

func (s *State) cache(url, id string, now time.Time) {
	if s.IDByURL == nil {
		s.IDByURL = map[string]CachedID{}
	}
	s.IDByURL[url] = CachedID{ID: id, CachedAt: now}
}

// cached returns the cached id of url when it is younger than the TTL
func (s *State) cached(url string, now time.Time) (string, bool) {
	c, ok := s.IDByURL[url]
	if !ok || now.Sub(c.CachedAt) >= URLCacheTTL {
		return "", false
	}
	return c.ID, true
}

func (s *State) forget(url string) {
	delete(s.IDByURL, url)
}

func (s *State) markStale(id string) {
	if !slices.Contains(s.StaleProdIDs, id) {
		s.StaleProdIDs = append(s.StaleProdIDs, id)
	}
}

// StateStore persists trigger state per node
type StateStore interface {
	Load(ctx context.Context, nodeID string) (State, error)
	Save(ctx context.Context, nodeID string, state State) error
}

// MemoryStore keeps state in process, for tests and single instance runs
type MemoryStore struct {
	mu     sync.Mutex
	states map[string]State
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: map[string]State{}}
}

func (m *MemoryStore) Load(_ context.Context, nodeID string) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.states[nodeID]
	if !ok {
		return NewState(), nil
	}
	return st.clone(), nil
}

func (m *MemoryStore) Save(_ context.Context, nodeID string, state State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[nodeID] = state.clone()
	return nil
}

func (s State) clone() State {
	out := s
	out.IDByURL = make(map[string]CachedID, len(s.IDByURL))
	for k, v := range s.IDByURL {
		out.IDByURL[k] = v
	}
	out.StaleProdIDs = slices.Clone(s.StaleProdIDs)
	return out
}
