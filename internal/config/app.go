package config

import (
	"context"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/tunebot/pkg/log"
)

type AppConfig struct {
	RuntimePath string `env:"TUNE_RUNTIME_PATH" envDefault:".tunebot"`

	// Transport flags
	EnableCLI  bool `env:"ENABLE_CLI" envDefault:"true"`
	EnableHTTP bool `env:"ENABLE_HTTP" envDefault:"false"`
	HTTPPort   int  `env:"HTTP_PORT" envDefault:"8087"`

	// Document retrieval
	DocsPath   string `env:"TUNE_DOCS_PATH" envDefault:"docs"`
	TopK       int    `env:"TUNE_RETRIEVAL_TOP_K" envDefault:"5"`
	WatchDocs  bool   `env:"TUNE_WATCH_DOCS" envDefault:"false"`

	// Conversation retention
	ThreadCap     int `env:"TUNE_THREAD_CAP" envDefault:"50"`
	RetentionDays int `env:"TUNE_RETENTION_DAYS" envDefault:"30"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	if !filepath.IsAbs(c.RuntimePath) {
		c.RuntimePath = GetRuntimePath()
	}
	return c
}

func (c AppConfig) GetDatabasePath() string {
	return filepath.Join(c.RuntimePath, "tunebot.db")
}

func (c AppConfig) GetEmbeddingsPath() string {
	return filepath.Join(c.RuntimePath, "embeddings")
}
