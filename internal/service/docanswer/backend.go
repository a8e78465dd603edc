package docanswer

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandevgo/tunebot/internal/core"
	"github.com/sandevgo/tunebot/pkg/log"
)

const (
	// MsgNoRelevant is returned when the question could not be matched
	// against the store (including embedding failures).
	MsgNoRelevant = "❌ No relevant documents found."

	// MsgRunIngestion is returned when the store holds no chunks at all.
	MsgRunIngestion = "📚 No documents have been ingested yet. Run 'tunebot ingest' to index your documentation."

	rawFallbackPrefix = "📄 Unprocessed document content:\n\n"
)

const faithfulPrompt = `You are a document assistant. A user asked: %q

Here is the EXACT content from the documentation:
%s

IMPORTANT INSTRUCTIONS:
1. Answer based ONLY on what is written in the document above
2. Do NOT correct or add information from your general knowledge
3. If the document contains jokes, humor, or incorrect information, present it as written
4. Quote directly from the document when possible
5. If the document doesn't contain relevant information for the question, say so

Question: %q
Answer based only on the document content:`

// Backend answers documentation questions from the locally embedded store:
// embed the question, rank chunks by cosine similarity, then ask the
// reasoning service to answer strictly from the top chunks.
type Backend struct {
	embedder core.Embedder
	reasoner core.Reasoner
	chunks   core.ChunkRepository
	topK     int
}

func New(embedder core.Embedder, reasoner core.Reasoner, chunks core.ChunkRepository, topK int) *Backend {
	if topK <= 0 {
		topK = 5
	}
	return &Backend{embedder: embedder, reasoner: reasoner, chunks: chunks, topK: topK}
}

// Answer never fails; every failure mode degrades to a fixed message or to
// the raw text of the best-matching chunk.
func (b *Backend) Answer(ctx context.Context, question string) string {
	logger := log.FromCtx(ctx)

	all := b.chunks.All()
	if len(all) == 0 {
		return MsgRunIngestion
	}

	query, err := b.embedder.Embed(ctx, question)
	if err != nil || len(query) == 0 {
		logger.Warn().Err(err).Msg("failed to embed question")
		return MsgNoRelevant
	}

	top := TopK(query, all, b.topK)
	for i, chunk := range top {
		logger.Debug().Int("rank", i+1).Float64("similarity", chunk.Similarity).Str("source", chunk.Source).
			Msg("retrieved chunk")
	}

	answer, err := b.reasoner.Complete(ctx, buildPrompt(question, top), core.CompleteOptions{
		Temperature: 0.1,
		MaxTokens:   500,
	})
	if err != nil {
		logger.Error().Err(err).Msg("faithful answer call failed, returning raw chunk")
		return rawFallbackPrefix + top[0].Text
	}

	return answer
}

func buildPrompt(question string, chunks []core.RetrievedChunk) string {
	blocks := make([]string, len(chunks))
	for i, chunk := range chunks {
		blocks[i] = fmt.Sprintf("Document Chunk %d:\n%s", i+1, chunk.Text)
	}
	return fmt.Sprintf(faithfulPrompt, question, strings.Join(blocks, "\n\n"), question)
}
