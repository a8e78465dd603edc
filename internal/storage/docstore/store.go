package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sandevgo/tunebot/internal/core"
	"github.com/sandevgo/tunebot/pkg/log"
)

// Document is one ingestion artifact: all chunks of a single source file.
type Document struct {
	Source string               `json:"source"`
	Chunks []core.RetrievedChunk `json:"chunks"`
}

// Store holds the embedded chunks produced by ingestion. It is read-only
// from the router's perspective; Reload is called by the ingestion watcher.
type Store struct {
	mu     sync.RWMutex
	dir    string
	chunks []core.RetrievedChunk
}

func New(dir string) *Store {
	return &Store{dir: dir}
}

// Load reads every *.json artifact under the store directory. A missing
// directory is not an error: it simply means ingestion has not run yet.
func (s *Store) Load(ctx context.Context) error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read embeddings dir: %w", err)
	}

	logger := log.FromCtx(ctx)
	var chunks []core.RetrievedChunk

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			logger.Warn().Err(err).Str("file", entry.Name()).Msg("failed to read embedding artifact")
			continue
		}

		var doc Document
		if err := json.Unmarshal(data, &doc); err != nil {
			logger.Warn().Err(err).Str("file", entry.Name()).Msg("failed to parse embedding artifact")
			continue
		}

		for i := range doc.Chunks {
			if doc.Chunks[i].Source == "" {
				doc.Chunks[i].Source = doc.Source
			}
		}
		chunks = append(chunks, doc.Chunks...)
	}

	s.mu.Lock()
	s.chunks = chunks
	s.mu.Unlock()

	logger.Info().Int("chunks", len(chunks)).Str("dir", s.dir).Msg("loaded embedded document store")
	return nil
}

// All returns the loaded chunks in ingestion order.
func (s *Store) All() []core.RetrievedChunk {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]core.RetrievedChunk, len(s.chunks))
	copy(out, s.chunks)
	return out
}
