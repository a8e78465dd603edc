package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/tunebot/pkg/log"
)

type WarehouseConfig struct {
	DatabaseURL string `env:"WAREHOUSE_URL,required,notEmpty"`
	MaxConns    int32  `env:"WAREHOUSE_MAX_CONNS" envDefault:"3"`
}

func NewWarehouseConfig(ctx context.Context) *WarehouseConfig {
	c := &WarehouseConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Warehouse config")
	}
	return c
}
