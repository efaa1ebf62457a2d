package events

import (
	"context"
	"io"
	"time"

	"github.com/posthog/posthog-go"
	"go.uber.org/zap"
)

// Analytics event names
const (
	AnalyticsLeadSubmitted     = "lead_submitted"
	AnalyticsLeadStatusChanged = "lead_status_changed"
)

// enqueuer is the subset of the PostHog client used here
type enqueuer interface {
	io.Closer
	Enqueue(msg posthog.Message) error
}

// AnalyticsPublisher records lead funnel events in PostHog. Contact details
// are never sent; the lead id is the distinct id.
type AnalyticsPublisher struct {
	client      enqueuer
	environment string
}

// AnalyticsConfig holds what NewAnalyticsPublisher needs
type AnalyticsConfig struct {
	APIKey      string
	Endpoint    string
	Environment string
}

// NewAnalyticsPublisher creates a PostHog-backed publisher
func NewAnalyticsPublisher(cfg AnalyticsConfig, logger *zap.Logger) (*AnalyticsPublisher, error) {
	phConfig := posthog.Config{
		BatchSize: 50,
		Interval:  5 * time.Second,
		Logger:    zapPostHogLogger{logger: logger.Named("posthog")},
	}
	if cfg.Endpoint != "" {
		phConfig.Endpoint = cfg.Endpoint
	}

	client, err := posthog.NewWithConfig(cfg.APIKey, phConfig)
	if err != nil {
		return nil, err
	}
	return &AnalyticsPublisher{client: client, environment: cfg.Environment}, nil
}

func newAnalyticsPublisherWithEnqueuer(enq enqueuer, environment string) *AnalyticsPublisher {
	return &AnalyticsPublisher{client: enq, environment: environment}
}

// Publish enqueues the event; delivery happens in the background
func (a *AnalyticsPublisher) Publish(_ context.Context, event Event) error {
	var name string
	switch event.Kind {
	case KindLeadCreated:
		name = AnalyticsLeadSubmitted
	case KindLeadStatusChanged:
		name = AnalyticsLeadStatusChanged
	default:
		return nil
	}

	props := posthog.NewProperties().
		Set("environment", a.environment).
		Set("$process_person_profile", false)
	if len(event.Services) > 0 {
		props.Set("services", event.Services)
		props.Set("service_count", len(event.Services))
	}
	if event.FromStatus != "" {
		props.Set("from_status", event.FromStatus)
	}
	if event.ToStatus != "" {
		props.Set("to_status", event.ToStatus)
	}

	return a.client.Enqueue(posthog.Capture{
		DistinctId: event.LeadID.String(),
		Event:      name,
		Timestamp:  event.OccurredAt,
		Properties: props,
	})
}

// Close flushes pending events
func (a *AnalyticsPublisher) Close() error {
	return a.client.Close()
}

type zapPostHogLogger struct {
	logger *zap.Logger
}

func (l zapPostHogLogger) Debugf(format string, args ...interface{}) {
	l.logger.Sugar().Debugf(format, args...)
}

func (l zapPostHogLogger) Logf(format string, args ...interface{}) {
	l.logger.Sugar().Infof(format, args...)
}

func (l zapPostHogLogger) Warnf(format string, args ...interface{}) {
	l.logger.Sugar().Warnf(format, args...)
}

func (l zapPostHogLogger) Errorf(format string, args ...interface{}) {
	l.logger.Sugar().Errorf(format, args...)
}
