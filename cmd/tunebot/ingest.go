package main

import (
	"github.com/spf13/cobra"

	"github.com/sandevgo/tunebot/internal/config"
	"github.com/sandevgo/tunebot/internal/providers/llm"
	"github.com/sandevgo/tunebot/internal/service/ingest"
	"github.com/sandevgo/tunebot/pkg/log"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Index documentation into the embedded chunk store",
	Long:  `Parses every supported document under the docs directory, embeds its chunks and writes the retrieval artifacts used to answer documentation questions.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		logger := log.FromCtx(ctx)

		if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
			logger.Fatal().Err(err).Msg("failed to init env")
		}

		appCfg := config.NewAppConfig(ctx)
		llmCfg := config.NewLLMConfig(ctx)

		ingester := ingest.NewIngester(
			llm.NewOpenAI(llmCfg),
			appCfg.DocsPath,
			appCfg.GetEmbeddingsPath(),
		)

		return ingester.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}
