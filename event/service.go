package event

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/marcelsud/salessuite-connector/trigger"
)

/* Service records trigger deliveries and hands them to consumers
 * Uses pointer semantics as it's an API, not data
 */

// UseCase defines the inbox operations
type UseCase interface {
	Receive(ctx context.Context, nodeID string, mode trigger.Mode, body []byte, headers map[string]string) (string, error)
	Next(ctx context.Context, nodeID string, mode trigger.Mode, types []string) ([]Event, error)
	Ack(ctx context.Context, nodeID string, mode trigger.Mode, eventID string) error
}

type Service struct {
	Repo Repository
	Now  func() time.Time
}

// NewService creates a new inbox service
func NewService(repo Repository) *Service {
	return &Service{
		Repo: repo,
		Now:  time.Now,
	}
}

// Receive records a delivery body for the node
func (s *Service) Receive(ctx context.Context, nodeID string, mode trigger.Mode, body []byte, headers map[string]string) (string, error) {
	if err := mode.Validate(); err != nil {
		return "", fmt.Errorf("validating mode: %w", err)
	}
	if nodeID == "" {
		return "", trigger.ErrMissingNodeID
	}

	now := s.Now()
	ev := Event{
		ID:         uuid.New().String(),
		NodeID:     nodeID,
		Mode:       mode,
		Envelope:   NewEnvelope(body, now),
		Headers:    headers,
		Status:     Pending,
		ReceivedAt: now,
		UpdatedAt:  now,
	}
	if err := ev.Envelope.Validate(); err != nil {
		return "", fmt.Errorf("validating envelope: %w", err)
	}

	id, err := s.Repo.Store(ctx, ev)
	if err != nil {
		return "", fmt.Errorf("storing event: %w", err)
	}
	return id, nil
}

// Next consumes the next events of the node. Events whose type does not
// match are acknowledged and skipped.
func (s *Service) Next(ctx context.Context, nodeID string, mode trigger.Mode, types []string) ([]Event, error) {
	if err := mode.Validate(); err != nil {
		return nil, fmt.Errorf("validating mode: %w", err)
	}
	events, err := s.Repo.Consume(ctx, nodeID, mode)
	if err != nil {
		return nil, fmt.Errorf("consuming events: %w", err)
	}

	out := make([]Event, 0, len(events))
	for _, ev := range events {
		if !ev.Envelope.MatchesType(types) {
			if err := s.Ack(ctx, nodeID, mode, ev.ID); err != nil {
				return nil, err
			}
			continue
		}
		if err := s.Repo.UpdateStatus(ctx, ev.ID, Consumed); err != nil {
			return nil, fmt.Errorf("updating event status: %w", err)
		}
		ev.Status = Consumed
		out = append(out, ev)
	}
	return out, nil
}

// Ack acknowledges a consumed event
func (s *Service) Ack(ctx context.Context, nodeID string, mode trigger.Mode, eventID string) error {
	if err := s.Repo.Acknowledge(ctx, nodeID, mode, eventID); err != nil {
		return fmt.Errorf("acknowledging event: %w", err)
	}
	if err := s.Repo.UpdateStatus(ctx, eventID, Acknowledged); err != nil {
		return fmt.Errorf("updating event status: %w", err)
	}
	return nil
}
