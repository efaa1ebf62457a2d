package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// Broadcaster receives raw change payloads
type Broadcaster interface {
	Broadcast(frameType string, payload json.RawMessage) error
}

// PGListener subscribes to a Postgres NOTIFY channel and forwards every
// payload to the realtime hub, so writes from any process reach admin views.
type PGListener struct {
	connURL    string
	channel    string
	target     Broadcaster
	logger     *zap.Logger
	backoff    time.Duration
	maxBackoff time.Duration
}

// NewPGListener creates a listener for channel on the database at connURL
func NewPGListener(connURL, channel string, target Broadcaster, logger *zap.Logger) *PGListener {
	return &PGListener{
		connURL:    connURL,
		channel:    channel,
		target:     target,
		logger:     logger,
		backoff:    time.Second,
		maxBackoff: 30 * time.Second,
	}
}

// Run listens until ctx is cancelled, reconnecting with backoff after errors
func (l *PGListener) Run(ctx context.Context) error {
	wait := l.backoff
	for {
		err := l.listen(ctx)
		if ctx.Err() != nil {
			return nil
		}
		l.logger.Warn("lead change listener stopped, reconnecting",
			zap.String("channel", l.channel),
			zap.Duration("retry_in", wait),
			zap.Error(err))

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(wait):
		}
		wait *= 2
		if wait > l.maxBackoff {
			wait = l.maxBackoff
		}
	}
}

func (l *PGListener) listen(ctx context.Context) error {
	conn, err := pgx.Connect(ctx, l.connURL)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = conn.Close(closeCtx)
	}()

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{l.channel}.Sanitize()); err != nil {
		return fmt.Errorf("failed to listen on %s: %w", l.channel, err)
	}
	l.logger.Info("listening for lead changes", zap.String("channel", l.channel))

	for {
		n, err := conn.WaitForNotification(ctx)
		if err != nil {
			return err
		}
		l.forward(n.Payload)
	}
}

func (l *PGListener) forward(payload string) {
	if !json.Valid([]byte(payload)) {
		l.logger.Warn("ignoring non-JSON lead change payload", zap.String("payload", payload))
		return
	}
	if err := l.target.Broadcast(FrameLeadChanged, json.RawMessage(payload)); err != nil {
		l.logger.Warn("failed to broadcast lead change", zap.Error(err))
	}
}
