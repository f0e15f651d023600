package events

import (
	"fmt"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// NatsPublisher pushes event payloads to NATS for out-of-process consumers
// (push delivery, analytics). Delivery here is advisory: callers log and
// move on when a publish fails.
type NatsPublisher struct {
	conn   *nats.Conn
	logger *zap.Logger
}

func NewNatsPublisher(natsURL string, logger *zap.Logger) (*NatsPublisher, error) {
	nc, err := nats.Connect(natsURL)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}

	return &NatsPublisher{conn: nc, logger: logger}, nil
}

// Publish sends a raw JSON payload to the subject
func (p *NatsPublisher) Publish(subject string, payload []byte) error {
	if err := p.conn.Publish(subject, payload); err != nil {
		return fmt.Errorf("publish to nats: %w", err)
	}

	p.logger.Debug("Published event to NATS", zap.String("subject", subject))
	return nil
}

// Close drains and closes the connection
func (p *NatsPublisher) Close() {
	if p.conn != nil {
		p.conn.Close()
	}
}
