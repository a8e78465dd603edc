package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/sandevgo/tunebot/internal/config"
	"github.com/sandevgo/tunebot/internal/core"
	"github.com/sandevgo/tunebot/internal/service/events"
	"github.com/sandevgo/tunebot/pkg/log"
)

var (
	playTrack   string
	playArtist  string
	playMs      int64
	playSkipped bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Publish a listening event on the events bus",
	Long:  `Emits one play event on the configured subject. Useful for exercising the consumer pipeline without a real ingestion feed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		logger := log.FromCtx(ctx)

		if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
			logger.Fatal().Err(err).Msg("failed to init env")
		}

		client, err := events.NewClient(ctx, config.NewEventsConfig(ctx))
		if err != nil {
			return err
		}
		defer client.Close()

		event := core.PlayEvent{
			TrackName:  playTrack,
			ArtistName: playArtist,
			PlayedAt:   time.Now().UTC(),
			MsPlayed:   playMs,
			Skipped:    playSkipped,
		}
		if err := client.PublishPlay(event); err != nil {
			return err
		}

		logger.Info().Str("track", event.TrackName).Msg("play event published")
		return nil
	},
}

func init() {
	playCmd.Flags().StringVar(&playTrack, "track", "Unknown Track", "track name")
	playCmd.Flags().StringVar(&playArtist, "artist", "Unknown Artist", "artist name")
	playCmd.Flags().Int64Var(&playMs, "ms", 30000, "milliseconds played")
	playCmd.Flags().BoolVar(&playSkipped, "skipped", false, "mark the play as skipped")

	rootCmd.AddCommand(playCmd)
}
