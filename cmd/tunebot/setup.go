package main

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/sandevgo/tunebot/internal/config"
	"github.com/sandevgo/tunebot/internal/core"
	"github.com/sandevgo/tunebot/internal/providers/llm"
	"github.com/sandevgo/tunebot/internal/service/classifier"
	"github.com/sandevgo/tunebot/internal/service/command"
	"github.com/sandevgo/tunebot/internal/service/docanswer"
	"github.com/sandevgo/tunebot/internal/service/events"
	"github.com/sandevgo/tunebot/internal/service/ingest"
	"github.com/sandevgo/tunebot/internal/service/retention"
	"github.com/sandevgo/tunebot/internal/service/router"
	"github.com/sandevgo/tunebot/internal/service/sqlanswer"
	"github.com/sandevgo/tunebot/internal/storage/docstore"
	"github.com/sandevgo/tunebot/internal/storage/sqlite"
	"github.com/sandevgo/tunebot/internal/transport/cli"
	"github.com/sandevgo/tunebot/internal/transport/httpapi"
	"github.com/sandevgo/tunebot/internal/warehouse"
	"github.com/sandevgo/tunebot/pkg/log"
	"github.com/sandevgo/tunebot/pkg/srv"
)

func NewServices(ctx context.Context) []srv.Service {
	logger := log.FromCtx(ctx)
	services := make([]srv.Service, 0)

	// init env
	err := initEnv(ctx, config.GetRuntimePath())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}

	// 1. Configuration
	appCfg := config.NewAppConfig(ctx)
	llmCfg := config.NewLLMConfig(ctx)
	whCfg := config.NewWarehouseConfig(ctx)
	eventsCfg := config.NewEventsConfig(ctx)

	// 2. Storage
	db, conversations, err := initStorage(ctx, appCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}
	services = append(services, srv.NewCleanup(db.Close))

	// Embedded document store, loaded from ingestion artifacts
	store := docstore.New(appCfg.GetEmbeddingsPath())
	if err := store.Load(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to load document store")
	}

	// 3. AI Provider
	provider := llm.NewOpenAI(llmCfg)

	// 4. Warehouse connection pool
	pool, err := warehouse.New(ctx, whCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize warehouse pool")
	}
	services = append(services, srv.NewCleanup(pool.Close))

	// 5. Question pipeline
	r := router.New(
		classifier.New(provider),
		docanswer.New(provider, provider, store, appCfg.TopK),
		sqlanswer.New(provider, pool),
		conversations,
	)

	// Session commands
	commands := command.New(command.NewCommands(conversations))

	// 6. Background workers
	services = append(services, retention.NewSweeper(conversations, appCfg.RetentionDays))

	if appCfg.WatchDocs {
		ingester := ingest.NewIngester(provider, appCfg.DocsPath, appCfg.GetEmbeddingsPath())
		services = append(services, ingest.NewWatcher(ingester, store, appCfg.DocsPath))
	}

	if eventsCfg.Enabled {
		client, err := events.NewClient(ctx, eventsCfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to events bus")
		}
		services = append(services, events.NewConsumer(client))
		services = append(services, srv.NewCleanup(func() error {
			client.Close()
			return nil
		}))
	}

	// 7. Transports
	transports, err := initTransports(r, commands, appCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize transports")
	}
	services = append(services, transports...)

	return services
}

func initStorage(ctx context.Context, cfg *config.AppConfig) (*sql.DB, *sqlite.Conversations, error) {
	db, err := sqlite.NewDB(ctx, cfg.GetDatabasePath())
	if err != nil {
		return nil, nil, err
	}
	return db, sqlite.NewConversations(db, cfg.ThreadCap), nil
}

func initTransports(r *router.Router, commands core.CmdRouter, cfg *config.AppConfig) ([]srv.Service, error) {
	var services []srv.Service

	if cfg.EnableCLI {
		rl, err := cli.NewReadLine(r, commands, cfg)
		if err != nil {
			return nil, err
		}
		services = append(services, rl)
	}

	if cfg.EnableHTTP {
		services = append(services, httpapi.NewServer(r, cfg.HTTPPort))
	}

	return services, nil
}

func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)
	envFile := filepath.Join(runtimePath, ".env")

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}
