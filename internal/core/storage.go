package core

import "context"

// ConversationRepository is the per-thread message log. SaveTurn appends a
// user question and its assistant answer atomically (both entries or none)
// and evicts the oldest entries beyond the thread cap; Load returns messages
// in chronological order, empty for an unknown thread.
type ConversationRepository interface {
	SaveTurn(ctx context.Context, threadID, question, answer string) error
	Load(ctx context.Context, threadID string) ([]Message, error)
	Clear(ctx context.Context, threadID string) error
}

// ChunkRepository serves the embedded document store produced by ingestion.
type ChunkRepository interface {
	All() []RetrievedChunk
}

// Warehouse executes a generated SQL statement and returns named-column rows.
type Warehouse interface {
	Query(ctx context.Context, sql string) (QueryResult, error)
}
