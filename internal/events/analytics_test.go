package events

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/posthog/posthog-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEnqueuer struct {
	messages []posthog.Message
	closed   bool
}

func (f *fakeEnqueuer) Enqueue(msg posthog.Message) error {
	f.messages = append(f.messages, msg)
	return nil
}

func (f *fakeEnqueuer) Close() error {
	f.closed = true
	return nil
}

func TestAnalyticsPublisher_LeadCreated(t *testing.T) {
	enq := &fakeEnqueuer{}
	a := newAnalyticsPublisherWithEnqueuer(enq, "test")

	id := uuid.New()
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, a.Publish(context.Background(), Event{
		Kind:       KindLeadCreated,
		LeadID:     id,
		Services:   []string{"Window Cleaning", "Solar Panel Cleaning"},
		OccurredAt: at,
	}))

	require.Len(t, enq.messages, 1)
	capture, ok := enq.messages[0].(posthog.Capture)
	require.True(t, ok)
	assert.Equal(t, AnalyticsLeadSubmitted, capture.Event)
	assert.Equal(t, id.String(), capture.DistinctId)
	assert.Equal(t, at, capture.Timestamp)
	assert.Equal(t, 2, capture.Properties["service_count"])
	assert.Equal(t, "test", capture.Properties["environment"])
	assert.Equal(t, false, capture.Properties["$process_person_profile"])
}

func TestAnalyticsPublisher_StatusChanged(t *testing.T) {
	enq := &fakeEnqueuer{}
	a := newAnalyticsPublisherWithEnqueuer(enq, "test")

	require.NoError(t, a.Publish(context.Background(), Event{
		Kind:       KindLeadStatusChanged,
		LeadID:     uuid.New(),
		FromStatus: "quoted",
		ToStatus:   "won",
	}))

	require.Len(t, enq.messages, 1)
	capture := enq.messages[0].(posthog.Capture)
	assert.Equal(t, AnalyticsLeadStatusChanged, capture.Event)
	assert.Equal(t, "quoted", capture.Properties["from_status"])
	assert.Equal(t, "won", capture.Properties["to_status"])
}

func TestAnalyticsPublisher_IgnoresOtherKinds(t *testing.T) {
	enq := &fakeEnqueuer{}
	a := newAnalyticsPublisherWithEnqueuer(enq, "test")

	require.NoError(t, a.Publish(context.Background(), Event{Kind: KindLeadStale, LeadID: uuid.New()}))
	assert.Empty(t, enq.messages)

	require.NoError(t, a.Close())
	assert.True(t, enq.closed)
}
