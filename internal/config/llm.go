package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/tunebot/pkg/log"
)

type LLMConfig struct {
	APIKey         string        `env:"OPENAI_API_KEY,required,notEmpty"`
	BaseURL        string        `env:"OPENAI_BASE_URL" envDefault:"https://api.openai.com"`
	Model          string        `env:"OPENAI_MODEL" envDefault:"gpt-3.5-turbo"`
	EmbeddingModel string        `env:"OPENAI_EMBEDDING_MODEL" envDefault:"text-embedding-ada-002"`
	Timeout        time.Duration `env:"OPENAI_TIMEOUT" envDefault:"30s"`
}

func NewLLMConfig(ctx context.Context) *LLMConfig {
	c := &LLMConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse LLM config")
	}
	return c
}
