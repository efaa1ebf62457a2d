package events_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/cleanclear-sd/lead-api/internal/events"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingSink struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (s *recordingSink) Publish(_ context.Context, e events.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return s.err
}

func (s *recordingSink) received() []events.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]events.Event(nil), s.events...)
}

func TestMulti_DeliversToEverySink(t *testing.T) {
	a, b := &recordingSink{}, &recordingSink{}
	m := events.NewMulti(zap.NewNop(), a, nil, b)
	assert.Equal(t, 2, m.Len())

	id := uuid.New()
	require.NoError(t, m.Publish(context.Background(), events.Event{Kind: events.KindLeadCreated, LeadID: id}))

	require.Len(t, a.received(), 1)
	require.Len(t, b.received(), 1)
	assert.Equal(t, id, a.received()[0].LeadID)
	assert.False(t, a.received()[0].OccurredAt.IsZero(), "timestamp is filled in")
}

func TestMulti_FailingSinkDoesNotStopOthers(t *testing.T) {
	boom := errors.New("boom")
	failing := &recordingSink{err: boom}
	ok := &recordingSink{}
	m := events.NewMulti(zap.NewNop(), failing, ok)

	err := m.Publish(context.Background(), events.Event{Kind: events.KindLeadStatusChanged, LeadID: uuid.New()})
	assert.ErrorIs(t, err, boom)
	assert.Len(t, ok.received(), 1)
}

func TestNop(t *testing.T) {
	assert.NoError(t, events.Nop{}.Publish(context.Background(), events.Event{}))
}
