package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/sandevgo/tunebot/internal/core"
	"github.com/sandevgo/tunebot/internal/storage/docstore"
	"github.com/sandevgo/tunebot/pkg/log"
	"github.com/sandevgo/tunebot/pkg/retry"
)

// Ingester turns source documents into embedded chunk artifacts that the
// retrieval backend loads at startup.
type Ingester struct {
	embedder core.Embedder
	docsDir  string
	outDir   string
	chunker  ChunkerConfig
	retrier  *retry.Retrier
}

func NewIngester(embedder core.Embedder, docsDir, outDir string) *Ingester {
	return &Ingester{
		embedder: embedder,
		docsDir:  docsDir,
		outDir:   outDir,
		chunker:  DefaultChunkerConfig(),
		retrier:  retry.NewDefaultRetrier(),
	}
}

// Run processes every supported file under the docs directory and writes
// one JSON artifact per source. Individual document failures are logged
// and skipped; Run fails only when nothing could be processed at all.
func (in *Ingester) Run(ctx context.Context) error {
	logger := log.FromCtx(ctx)

	if err := os.MkdirAll(in.outDir, 0755); err != nil {
		return fmt.Errorf("failed to create embeddings dir: %w", err)
	}

	entries, err := os.ReadDir(in.docsDir)
	if err != nil {
		return fmt.Errorf("failed to read docs dir %s: %w", in.docsDir, err)
	}

	var processed, failed int
	for _, entry := range entries {
		if entry.IsDir() || !SupportedDocument(entry.Name()) {
			continue
		}

		path := filepath.Join(in.docsDir, entry.Name())
		if err := in.ingestFile(ctx, path); err != nil {
			logger.Error().Err(err).Str("file", entry.Name()).Msg("failed to ingest document")
			failed++
			continue
		}
		processed++
	}

	logger.Info().
		Int("processed", processed).
		Int("failed", failed).
		Str("dir", in.docsDir).
		Msg("ingestion finished")

	if processed == 0 && failed > 0 {
		return fmt.Errorf("ingestion failed for all %d documents", failed)
	}
	return nil
}

// IngestFile processes a single document, replacing any previous artifact
// for the same source.
func (in *Ingester) IngestFile(ctx context.Context, path string) error {
	if err := os.MkdirAll(in.outDir, 0755); err != nil {
		return fmt.Errorf("failed to create embeddings dir: %w", err)
	}
	return in.ingestFile(ctx, path)
}

func (in *Ingester) ingestFile(ctx context.Context, path string) error {
	logger := log.FromCtx(ctx)
	source := filepath.Base(path)

	text, err := ExtractText(path)
	if err != nil {
		return err
	}

	chunks := ChunkText(text, in.chunker)
	if len(chunks) == 0 {
		return fmt.Errorf("document %s produced no chunks", source)
	}

	doc := docstore.Document{
		Source: source,
		Chunks: make([]core.RetrievedChunk, 0, len(chunks)),
	}

	for _, chunk := range chunks {
		var embedding []float64

		err := in.retrier.Do(ctx, func() error {
			var embErr error
			embedding, embErr = in.embedder.Embed(ctx, chunk.Text)
			return embErr
		})
		if err != nil {
			return fmt.Errorf("failed to embed chunk %d of %s: %w", chunk.Index, source, err)
		}

		doc.Chunks = append(doc.Chunks, core.RetrievedChunk{
			ID:         uuid.NewString(),
			ChunkIndex: chunk.Index,
			Text:       chunk.Text,
			Embedding:  embedding,
			Source:     source,
		})
	}

	if err := in.writeArtifact(doc); err != nil {
		return err
	}

	logger.Info().
		Str("source", source).
		Int("chunks", len(doc.Chunks)).
		Msg("document ingested")
	return nil
}

func (in *Ingester) writeArtifact(doc docstore.Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode artifact for %s: %w", doc.Source, err)
	}

	name := artifactName(doc.Source)
	if err := os.WriteFile(filepath.Join(in.outDir, name), data, 0644); err != nil {
		return fmt.Errorf("failed to write artifact %s: %w", name, err)
	}
	return nil
}

func artifactName(source string) string {
	ext := filepath.Ext(source)
	return source[:len(source)-len(ext)] + ".json"
}
