package trigger

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/marcelsud/salessuite-connector/salessuite"
	"github.com/rs/zerolog"
)

/* Lifecycle keeps one remote subscription per trigger node and lifeline
 * in sync with the node's callback URL
 * Uses pointer semantics as it's an API, not data
 */

const (
	DefaultDeleteAttempts = 3
	DefaultDeleteBackoff  = 500 * time.Millisecond
)

var (
	ErrMissingURL    = errors.New("webhook URL could not be determined")
	ErrMissingNodeID = errors.New("trigger node id is required")
	ErrDeleteFailed  = errors.New("delete production webhook failed")
	ErrMissingSubID  = errors.New("could not read subscription id from create response")
)

// UseCase defines the lifecycle callbacks of a trigger node
type UseCase interface {
	CheckExists(ctx context.Context, a Activation) (bool, error)
	Create(ctx context.Context, a Activation) error
	Delete(ctx context.Context, a Activation) error
	HandleDelivery(ctx context.Context, a Activation, body map[string]any) Output
	Reconcile(ctx context.Context, nodeID string) error
}

// SubscriptionAPI is the part of the SalesSuite API the lifecycle needs
type SubscriptionAPI interface {
	ListSubscriptions(ctx context.Context) ([]salessuite.Subscription, error)
	CreateSubscription(ctx context.Context, in salessuite.SubscriptionInput) (salessuite.Subscription, error)
	DeleteSubscription(ctx context.Context, id string) (any, error)
}

// Recorder receives lifecycle outcomes, typically metrics
type Recorder interface {
	RecordOperation(ctx context.Context, op, mode string, err error)
	RecordDelivery(ctx context.Context, mode string)
}

type nopRecorder struct{}

func (nopRecorder) RecordOperation(context.Context, string, string, error) {}
func (nopRecorder) RecordDelivery(context.Context, string)                 {}

// Activation identifies a trigger node, its lifeline and callback URL
type Activation struct {
	NodeID string
	Mode   Mode
	URL    string
	Event  Event
	Filter FilterParams
}

func (a Activation) Validate() error {
	if a.NodeID == "" {
		return ErrMissingNodeID
	}
	if err := a.Mode.Validate(); err != nil {
		return err
	}
	if a.URL == "" {
		return ErrMissingURL
	}
	return nil
}

// Output is what a delivery hands to the workflow
type Output struct {
	Body          map[string]any `json:"body"`
	ExecutionMode string         `json:"executionMode"`
}

type Lifecycle struct {
	API      SubscriptionAPI
	Store    StateStore
	Logger   zerolog.Logger
	Recorder Recorder

	// DeleteAttempts and DeleteBackoff drive production deletes
	DeleteAttempts int
	DeleteBackoff  time.Duration
	Now            func() time.Time
}

// NewLifecycle creates a lifecycle with the default delete policy
func NewLifecycle(api SubscriptionAPI, store StateStore, logger zerolog.Logger) *Lifecycle {
	return &Lifecycle{
		API:            api,
		Store:          store,
		Logger:         logger,
		Recorder:       nopRecorder{},
		DeleteAttempts: DefaultDeleteAttempts,
		DeleteBackoff:  DefaultDeleteBackoff,
		Now:            time.Now,
	}
}

// CheckExists reports whether the production subscription of the node is
// live. Manual runs always recreate their subscription.
func (l *Lifecycle) CheckExists(ctx context.Context, a Activation) (bool, error) {
	if a.Mode == Manual {
		return false, nil
	}
	if err := a.Validate(); err != nil {
		return false, err
	}

	st, err := l.Store.Load(ctx, a.NodeID)
	if err != nil {
		return false, fmt.Errorf("loading trigger state: %w", err)
	}

	subs := l.list(ctx)
	if id := st.SubscriptionID(a.Mode); id != "" && hasSubscription(subs, id, a.URL) {
		return true, nil
	}

	hit, found := l.findByURL(&st, subs, a.URL)
	if found {
		st.setSubscriptionID(a.Mode, hit.ID)
	}
	if err := l.Store.Save(ctx, a.NodeID, st); err != nil {
		return false, fmt.Errorf("saving trigger state: %w", err)
	}
	return found, nil
}

// Create subscribes the node's callback URL to its event
func (l *Lifecycle) Create(ctx context.Context, a Activation) (err error) {
	defer func() { l.Recorder.RecordOperation(ctx, "create", a.Mode.String(), err) }()

	if err := a.Validate(); err != nil {
		return err
	}
	filter, err := BuildFilter(a.Event, a.Filter)
	if err != nil {
		return err
	}

	st, err := l.Store.Load(ctx, a.NodeID)
	if err != nil {
		return fmt.Errorf("loading trigger state: %w", err)
	}
	log := l.Logger.With().Str("node_id", a.NodeID).Str("mode", a.Mode.String()).Logger()

	deleted := map[string]bool{}
	if a.Mode == Production {
		l.reconcile(ctx, &st, log)
	} else {
		for _, sub := range l.list(ctx) {
			if sub.HookURL == a.URL {
				l.deleteBestEffort(ctx, sub.ID, log)
				deleted[sub.ID] = true
			}
		}
	}

	created, err := l.API.CreateSubscription(ctx, salessuite.SubscriptionInput{
		HookURL: a.URL,
		Type:    string(a.Event),
		Filter:  filter,
	})
	if err != nil {
		if saveErr := l.Store.Save(ctx, a.NodeID, st); saveErr != nil {
			log.Warn().Err(saveErr).Msg("saving trigger state after failed create")
		}
		return fmt.Errorf("creating subscription: %w", err)
	}

	if old := st.SubscriptionID(a.Mode); old != "" && old != created.ID && !deleted[old] {
		l.deleteBestEffort(ctx, old, log)
	}
	if created.ID != "" {
		st.cache(a.URL, created.ID, l.Now())
	}

	if a.Mode == Manual {
		st.SubscriptionIDTest = created.ID
		st.LastTestURL = a.URL
	} else {
		if created.ID == "" {
			if saveErr := l.Store.Save(ctx, a.NodeID, st); saveErr != nil {
				log.Warn().Err(saveErr).Msg("saving trigger state after failed create")
			}
			return ErrMissingSubID
		}
		st.SubscriptionIDProd = created.ID
		for _, sub := range l.list(ctx) {
			if sub.HookURL == a.URL && sub.ID != created.ID {
				l.deleteBestEffort(ctx, sub.ID, log)
			}
		}
	}

	if err := l.Store.Save(ctx, a.NodeID, st); err != nil {
		return fmt.Errorf("saving trigger state: %w", err)
	}
	log.Info().Str("subscription_id", created.ID).Str("event", string(a.Event)).Msg("subscription created")
	return nil
}

// Delete removes the node's subscription. Manual deletes never fail,
// production deletes retry and record the id as stale when they give up.
func (l *Lifecycle) Delete(ctx context.Context, a Activation) (err error) {
	defer func() { l.Recorder.RecordOperation(ctx, "delete", a.Mode.String(), err) }()

	if err := a.Validate(); err != nil {
		return err
	}
	st, err := l.Store.Load(ctx, a.NodeID)
	if err != nil {
		return fmt.Errorf("loading trigger state: %w", err)
	}
	log := l.Logger.With().Str("node_id", a.NodeID).Str("mode", a.Mode.String()).Logger()

	id := st.SubscriptionID(a.Mode)
	if id == "" {
		if hit, ok := l.findByURL(&st, l.list(ctx), a.URL); ok {
			id = hit.ID
		}
	}
	if id == "" {
		return l.save(ctx, a.NodeID, st)
	}

	if a.Mode == Manual {
		l.deleteBestEffort(ctx, id, log)
		st.forget(a.URL)
		st.clearSubscriptionID(Manual, id)
		return l.save(ctx, a.NodeID, st)
	}

	deleteErr := l.deleteWithRetry(ctx, id)
	st.forget(a.URL)
	st.clearSubscriptionID(Production, id)
	if deleteErr != nil {
		st.markStale(id)
		log.Error().Err(deleteErr).Str("subscription_id", id).Msg("production subscription marked stale")
	}
	if err := l.save(ctx, a.NodeID, st); err != nil {
		return err
	}
	if deleteErr != nil {
		return fmt.Errorf("%w: %w", ErrDeleteFailed, deleteErr)
	}
	return nil
}

// HandleDelivery turns an inbound event into workflow output. A manual
// listener removes its own subscription after the first delivery. It never
// fails, the sender always gets its acknowledgment.
func (l *Lifecycle) HandleDelivery(ctx context.Context, a Activation, body map[string]any) Output {
	if body == nil {
		body = map[string]any{}
	}
	if a.Mode == Manual {
		if err := l.removeTestSubscription(ctx, a); err != nil {
			l.Logger.Warn().Err(err).Str("node_id", a.NodeID).Msg("auto-delete of test webhook failed (ignored)")
		}
	}
	l.Recorder.RecordDelivery(ctx, a.Mode.String())
	return Output{Body: body, ExecutionMode: a.Mode.String()}
}

func (l *Lifecycle) removeTestSubscription(ctx context.Context, a Activation) error {
	if a.URL == "" {
		return nil
	}
	st, err := l.Store.Load(ctx, a.NodeID)
	if err != nil {
		return fmt.Errorf("loading trigger state: %w", err)
	}
	id := st.SubscriptionIDTest
	if id == "" {
		if hit, ok := l.findByURL(&st, l.list(ctx), a.URL); ok {
			id = hit.ID
		}
	}
	if id == "" {
		return nil
	}
	if _, err := l.API.DeleteSubscription(ctx, id); err != nil && !isGone(err) {
		l.Logger.Warn().Err(err).Str("subscription_id", id).Msg("deleting test subscription")
	}
	st.forget(a.URL)
	st.clearSubscriptionID(Manual, id)
	return l.save(ctx, a.NodeID, st)
}

// Reconcile retries the deletion of stale production subscriptions
func (l *Lifecycle) Reconcile(ctx context.Context, nodeID string) error {
	st, err := l.Store.Load(ctx, nodeID)
	if err != nil {
		return fmt.Errorf("loading trigger state: %w", err)
	}
	if len(st.StaleProdIDs) == 0 {
		return nil
	}
	l.reconcile(ctx, &st, l.Logger.With().Str("node_id", nodeID).Logger())
	return l.save(ctx, nodeID, st)
}

func (l *Lifecycle) reconcile(ctx context.Context, st *State, log zerolog.Logger) {
	var remaining []string
	for _, id := range st.StaleProdIDs {
		if _, err := l.API.DeleteSubscription(ctx, id); err != nil && !isGone(err) {
			log.Warn().Err(err).Str("subscription_id", id).Msg("stale subscription still not deleted")
			remaining = append(remaining, id)
			continue
		}
		log.Info().Str("subscription_id", id).Msg("stale subscription deleted")
	}
	st.StaleProdIDs = remaining
}

func (l *Lifecycle) save(ctx context.Context, nodeID string, st State) error {
	if err := l.Store.Save(ctx, nodeID, st); err != nil {
		return fmt.Errorf("saving trigger state: %w", err)
	}
	return nil
}

// list treats a failed listing as no subscriptions
func (l *Lifecycle) list(ctx context.Context) []salessuite.Subscription {
	subs, err := l.API.ListSubscriptions(ctx)
	if err != nil {
		l.Logger.Warn().Err(err).Msg("listing subscriptions")
		return nil
	}
	return subs
}

// findByURL prefers the cached id of url, then any subscription with the
// exact URL, which is cached on success
func (l *Lifecycle) findByURL(st *State, subs []salessuite.Subscription, url string) (salessuite.Subscription, bool) {
	now := l.Now()
	if id, ok := st.cached(url, now); ok {
		for _, sub := range subs {
			if sub.ID == id && sub.HookURL == url {
				return sub, true
			}
		}
	}
	for _, sub := range subs {
		if sub.HookURL == url && sub.ID != "" {
			st.cache(url, sub.ID, now)
			return sub, true
		}
	}
	return salessuite.Subscription{}, false
}

func hasSubscription(subs []salessuite.Subscription, id, url string) bool {
	for _, sub := range subs {
		if sub.ID == id && sub.HookURL == url {
			return true
		}
	}
	return false
}

func (l *Lifecycle) deleteBestEffort(ctx context.Context, id string, log zerolog.Logger) {
	if _, err := l.API.DeleteSubscription(ctx, id); err != nil && !isGone(err) {
		log.Warn().Err(err).Str("subscription_id", id).Msg("best-effort subscription delete failed")
	}
}

// deleteWithRetry makes DeleteAttempts attempts with a constant backoff.
// A subscription that no longer exists counts as deleted.
func (l *Lifecycle) deleteWithRetry(ctx context.Context, id string) error {
	attempts := l.DeleteAttempts
	if attempts < 1 {
		attempts = 1
	}
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(l.DeleteBackoff), uint64(attempts-1)),
		ctx,
	)
	return backoff.Retry(func() error {
		_, err := l.API.DeleteSubscription(ctx, id)
		if err != nil && isGone(err) {
			return nil
		}
		return err
	}, policy)
}

func isGone(err error) bool {
	var apiErr *salessuite.APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}
