// Package events distributes lead lifecycle notifications to the admin
// realtime feed, the message bus and product analytics.
package events

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Kind identifies what happened to a lead
type Kind string

const (
	KindLeadCreated       Kind = "lead.created"
	KindLeadStatusChanged Kind = "lead.status_changed"
	KindLeadStale         Kind = "lead.stale"
)

// Event is a single lead notification
type Event struct {
	Kind       Kind      `json:"kind"`
	LeadID     uuid.UUID `json:"leadId"`
	FromStatus string    `json:"fromStatus,omitempty"`
	ToStatus   string    `json:"toStatus,omitempty"`
	Services   []string  `json:"services,omitempty"`
	ActorID    string    `json:"actorId,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Publisher delivers events to a sink
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Multi fans an event out to every sink. A failing sink is logged and does
// not stop delivery to the others.
type Multi struct {
	sinks  []Publisher
	logger *zap.Logger
}

// NewMulti creates a fan-out publisher. Nil sinks are skipped.
func NewMulti(logger *zap.Logger, sinks ...Publisher) *Multi {
	m := &Multi{logger: logger}
	for _, s := range sinks {
		if s != nil {
			m.sinks = append(m.sinks, s)
		}
	}
	return m
}

// Publish delivers to all sinks and joins their errors
func (m *Multi) Publish(ctx context.Context, event Event) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	var errs []error
	for _, s := range m.sinks {
		if err := s.Publish(ctx, event); err != nil {
			m.logger.Warn("event sink failed",
				zap.String("kind", string(event.Kind)),
				zap.String("lead_id", event.LeadID.String()),
				zap.Error(err))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Len returns the number of sinks
func (m *Multi) Len() int {
	return len(m.sinks)
}

// Nop discards every event
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
