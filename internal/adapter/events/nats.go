package events

import (
	"context"
	"fmt"

	"blended-settlement/config"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// Publisher implements ports.EventPublisher on a NATS connection. Subjects
// are namespaced with the configured prefix.
type Publisher struct {
	nc     *nats.Conn
	prefix string
}

// Connect dials NATS and wraps the connection in a Publisher.
func Connect(cfg config.NATSConfig, log zerolog.Logger) (*Publisher, error) {
	nc, err := nats.Connect(cfg.URL, nats.Name("blended-settlement"))
	if err != nil {
		return nil, fmt.Errorf("connecting to nats: %w", err)
	}

	log.Info().Str("url", cfg.URL).Msg("NATS connection established")

	return NewPublisher(nc, cfg.SubjectPrefix), nil
}

// NewPublisher wraps an existing connection.
func NewPublisher(nc *nats.Conn, prefix string) *Publisher {
	return &Publisher{nc: nc, prefix: prefix}
}

// Publish emits payload on the prefixed subject. NATS publishes are fire and
// forget, so the context is only honored up front.
func (p *Publisher) Publish(ctx context.Context, subject string, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return p.nc.Publish(p.prefix+"."+subject, payload)
}

// Close drains the underlying connection.
func (p *Publisher) Close() {
	if p.nc != nil {
		p.nc.Drain() //nolint:errcheck
	}
}

// NopPublisher discards all events. It stands in when NATS is not configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, []byte) error { return nil }
