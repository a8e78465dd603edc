package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/sandevgo/tunebot/internal/storage/docstore"
	"github.com/sandevgo/tunebot/pkg/log"
)

// debounceDelay coalesces bursts of filesystem events for the same save.
const debounceDelay = 2 * time.Second

// Watcher re-ingests documents when the docs directory changes and reloads
// the chunk store so the retrieval backend picks up new content without a
// restart.
type Watcher struct {
	ingester *Ingester
	store    *docstore.Store
	docsDir  string
	watcher  *fsnotify.Watcher
	done     chan struct{}
}

func NewWatcher(ingester *Ingester, store *docstore.Store, docsDir string) *Watcher {
	return &Watcher{
		ingester: ingester,
		store:    store,
		docsDir:  docsDir,
		done:     make(chan struct{}),
	}
}

func (w *Watcher) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx)

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create docs watcher: %w", err)
	}
	w.watcher = fw

	if err := fw.Add(w.docsDir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.docsDir, err)
	}

	logger.Info().Str("dir", w.docsDir).Msg("watching docs directory")

	var timer *time.Timer
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-w.done:
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
				continue
			}
			if !SupportedDocument(event.Name) {
				continue
			}

			// Editors fire several events per save; re-ingest once after
			// the burst settles.
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounceDelay, func() {
				w.reingest(ctx)
			})
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Error().Err(err).Msg("docs watcher error")
		}
	}
}

func (w *Watcher) reingest(ctx context.Context) {
	logger := log.FromCtx(ctx)
	logger.Info().Msg("docs changed, re-ingesting")

	if err := w.ingester.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("re-ingestion failed")
		return
	}
	if err := w.store.Load(ctx); err != nil {
		logger.Error().Err(err).Msg("failed to reload document store")
	}
}

func (w *Watcher) Shutdown(ctx context.Context) error {
	close(w.done)
	if w.watcher != nil {
		return w.watcher.Close()
	}
	return nil
}
