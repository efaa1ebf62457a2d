package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// DefaultSubjectPrefix is used when no prefix is configured
const DefaultSubjectPrefix = "leads"

// NATSPublisher publishes lead events as JSON on <prefix>.<suffix> subjects,
// for example leads.created and leads.status_changed.
type NATSPublisher struct {
	conn   *nats.Conn
	prefix string
	logger *zap.Logger
}

// NewNATSPublisher wraps an established connection
func NewNATSPublisher(conn *nats.Conn, prefix string, logger *zap.Logger) *NATSPublisher {
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	return &NATSPublisher{
		conn:   conn,
		prefix: strings.TrimSuffix(prefix, "."),
		logger: logger,
	}
}

// Subject returns the subject an event kind is published on
func (p *NATSPublisher) Subject(kind Kind) string {
	suffix := strings.TrimPrefix(string(kind), "lead.")
	return p.prefix + "." + suffix
}

// Publish sends the event. Flush is bounded by the context deadline when set.
func (p *NATSPublisher) Publish(ctx context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	subject := p.Subject(event.Kind)
	if err := p.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish %s: %w", subject, err)
	}
	if _, ok := ctx.Deadline(); ok {
		if err := p.conn.FlushWithContext(ctx); err != nil {
			return fmt.Errorf("failed to flush %s: %w", subject, err)
		}
	}
	p.logger.Debug("published lead event", zap.String("subject", subject))
	return nil
}

// Connect dials the configured NATS URL. When url is empty an embedded
// in-process server is started instead and returned for shutdown.
func Connect(url string, logger *zap.Logger) (*nats.Conn, *server.Server, error) {
	if url != "" {
		conn, err := nats.Connect(url,
			nats.Name("lead-api"),
			nats.MaxReconnects(-1),
			nats.ReconnectWait(2*time.Second),
			nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
				if err != nil {
					logger.Warn("nats disconnected", zap.Error(err))
				}
			}),
			nats.ReconnectHandler(func(c *nats.Conn) {
				logger.Info("nats reconnected", zap.String("url", c.ConnectedUrl()))
			}),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to nats: %w", err)
		}
		return conn, nil, nil
	}

	ns, err := StartEmbeddedServer()
	if err != nil {
		return nil, nil, err
	}
	conn, err := nats.Connect("", nats.InProcessServer(ns))
	if err != nil {
		ns.Shutdown()
		return nil, nil, fmt.Errorf("failed to connect to embedded nats: %w", err)
	}
	logger.Info("using embedded nats server")
	return conn, ns, nil
}

// StartEmbeddedServer starts an in-process NATS server without network ports
func StartEmbeddedServer() (*server.Server, error) {
	ns, err := server.NewServer(&server.Options{
		DontListen: true,
		NoSigs:     true,
		NoLog:      true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create nats server: %w", err)
	}

	go ns.Start()

	if !ns.ReadyForConnections(4 * time.Second) {
		ns.Shutdown()
		return nil, errors.New("nats server failed to start within timeout")
	}
	return ns, nil
}

// Shutdown drains the connection and stops the embedded server if any
func Shutdown(conn *nats.Conn, ns *server.Server) {
	if conn != nil {
		done := make(chan error, 1)
		go func() { done <- conn.Drain() }()
		select {
		case err := <-done:
			if err != nil {
				conn.Close()
			}
		case <-time.After(2 * time.Second):
			conn.Close()
		}
	}
	if ns != nil {
		ns.Shutdown()
		ns.WaitForShutdown()
	}
}
