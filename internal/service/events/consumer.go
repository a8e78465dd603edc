package events

import (
	"context"
	"encoding/json"
	"sync/atomic"

	"github.com/nats-io/nats.go"

	"github.com/sandevgo/tunebot/internal/core"
	"github.com/sandevgo/tunebot/pkg/log"
)

// Consumer subscribes to play events and keeps running counters. It exists
// so an operator can see the event stream flowing without a full pipeline
// behind it.
type Consumer struct {
	client *Client
	sub    *nats.Subscription

	received atomic.Int64
	skipped  atomic.Int64
}

func NewConsumer(client *Client) *Consumer {
	return &Consumer{client: client}
}

func (c *Consumer) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx)

	sub, err := c.client.conn.Subscribe(c.client.subject, func(msg *nats.Msg) {
		var event core.PlayEvent
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			logger.Warn().Err(err).Msg("failed to decode play event")
			return
		}

		total := c.received.Add(1)
		if event.Skipped {
			c.skipped.Add(1)
		}

		logger.Debug().
			Str("track", event.TrackName).
			Str("artist", event.ArtistName).
			Int64("ms_played", event.MsPlayed).
			Bool("skipped", event.Skipped).
			Int64("total", total).
			Msg("play event received")
	})
	if err != nil {
		return err
	}

	c.sub = sub
	logger.Info().Str("subject", c.client.subject).Msg("play event consumer started")
	return nil
}

// Received returns the number of events seen since startup.
func (c *Consumer) Received() int64 {
	return c.received.Load()
}

// SkippedRatio returns the share of received events flagged as skips.
func (c *Consumer) SkippedRatio() float64 {
	total := c.received.Load()
	if total == 0 {
		return 0
	}
	return float64(c.skipped.Load()) / float64(total)
}

func (c *Consumer) Shutdown(ctx context.Context) error {
	if c.sub != nil {
		return c.sub.Unsubscribe()
	}
	return nil
}
