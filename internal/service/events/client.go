package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/sandevgo/tunebot/internal/config"
	"github.com/sandevgo/tunebot/internal/core"
	"github.com/sandevgo/tunebot/pkg/log"
)

// Client wraps the NATS connection used for play events. Delivery is
// at-least-once; consumers must tolerate duplicates.
type Client struct {
	conn    *nats.Conn
	subject string
}

func NewClient(ctx context.Context, cfg *config.EventsConfig) (*Client, error) {
	logger := log.FromCtx(ctx)

	opts := []nats.Option{
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn().Err(err).Msg("nats disconnected")
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logger.Info().Msg("nats reconnected")
		}),
	}
	if cfg.Token != "" {
		opts = append(opts, nats.Token(cfg.Token))
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}

	logger.Info().Str("url", cfg.URL).Str("subject", cfg.Subject).Msg("connected to events bus")
	return &Client{conn: nc, subject: cfg.Subject}, nil
}

// PublishPlay emits one listening event on the configured subject.
func (c *Client) PublishPlay(event core.PlayEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode play event: %w", err)
	}
	if err := c.conn.Publish(c.subject, payload); err != nil {
		return fmt.Errorf("failed to publish play event: %w", err)
	}
	return nil
}

func (c *Client) Close() {
	if c.conn != nil {
		c.conn.Close()
	}
}
