package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/tunebot/pkg/log"
)

type EventsConfig struct {
	Enabled bool   `env:"ENABLE_EVENTS" envDefault:"false"`
	URL     string `env:"NATS_URL" envDefault:"nats://127.0.0.1:4222"`
	Token   string `env:"NATS_TOKEN"`
	Subject string `env:"NATS_SUBJECT" envDefault:"tunebot.plays"`
}

func NewEventsConfig(ctx context.Context) *EventsConfig {
	c := &EventsConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Events config")
	}
	return c
}
