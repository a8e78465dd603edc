package core

import "time"

const (
	TuneName       = "TuneBot"
	TuneUserAgent  = "TuneBot-Assistant/0.1"
	TuneRepository = "https://github.com/sandevgo/tunebot"
	TuneVersion    = "0.1.0"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Label is the classified intent of a question.
type Label string

const (
	LabelDoc  Label = "doc"
	LabelSQL  Label = "sql"
	LabelBoth Label = "both"
)

// DefaultLabel is used whenever classification fails or returns a token
// outside the allowed set. Most questions in this domain are data questions.
const DefaultLabel = LabelSQL

// Message is one turn in a conversation thread.
type Message struct {
	Timestamp time.Time `json:"timestamp"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
}

// QueryResult holds the rows returned by a generated warehouse query.
// Columns preserves the select order; every row maps column name to value.
type QueryResult struct {
	Columns        []string
	Rows           []map[string]any
	GeneratedQuery string
}

// RetrievedChunk is a scored passage from the embedded document store.
type RetrievedChunk struct {
	ID         string    `json:"id"`
	ChunkIndex int       `json:"chunk_index"`
	Text       string    `json:"text"`
	Embedding  []float64 `json:"embedding"`
	Source     string    `json:"source"`
	Similarity float64   `json:"-"`
}

// PlayEvent is a single listening event published on the events bus.
type PlayEvent struct {
	TrackID    string    `json:"track_id"`
	TrackName  string    `json:"track_name"`
	ArtistName string    `json:"artist_name"`
	PlayedAt   time.Time `json:"played_at"`
	MsPlayed   int64     `json:"ms_played"`
	Skipped    bool      `json:"skipped"`
}
