package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/uuid"

	"github.com/sandevgo/tunebot/internal/config"
	"github.com/sandevgo/tunebot/internal/core"
	"github.com/sandevgo/tunebot/internal/service/router"
	"github.com/sandevgo/tunebot/internal/service/ui"
	"github.com/sandevgo/tunebot/pkg/log"
)

const welcomeBanner = "🎵 Music Analytics Assistant\nAsk about your listening data or the documentation.\nType 'help' for commands, 'exit' to quit."

// ReadLine is the interactive chat transport. Each session gets a fresh
// thread id, so history commands operate on the current sitting only.
type ReadLine struct {
	cfg      *config.AppConfig
	router   *router.Router
	commands core.CmdRouter
	threadID string
	rl       *readline.Instance
}

func NewReadLine(r *router.Router, commands core.CmdRouter, cfg *config.AppConfig) (*ReadLine, error) {
	// Ensure runtime directory exists
	if err := os.MkdirAll(cfg.RuntimePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create runtime directory: %w", err)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          ">>> ",
		HistoryFile:     filepath.Join(cfg.RuntimePath, "input_history"),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, err
	}

	return &ReadLine{
		cfg:      cfg,
		router:   r,
		commands: commands,
		threadID: uuid.NewString(),
		rl:       rl,
	}, nil
}

func (r *ReadLine) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx)
	logger.Info().Str("thread_id", r.threadID).Msg("chat session started")

	fmt.Fprintln(r.rl.Stdout(), ui.BannerStyle.Render(welcomeBanner))

	for {
		// Check context before blocking read
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := r.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				if len(line) == 0 {
					return nil // Exit on Ctrl+C
				}
				continue
			} else if err == io.EOF {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			fmt.Fprintln(r.rl.Stdout(), "👋 Goodbye!")
			return nil
		}

		if answer, handled := r.commands.Execute(ctx, r.threadID, line); handled {
			fmt.Fprintf(r.rl.Stdout(), "%s\n", answer)
			continue
		}

		fmt.Fprintf(r.rl.Stdout(), "%s\n", r.router.Route(ctx, r.threadID, line))
	}
}

func (r *ReadLine) Shutdown(ctx context.Context) error {
	if r.rl != nil {
		return r.rl.Close()
	}
	return nil
}
