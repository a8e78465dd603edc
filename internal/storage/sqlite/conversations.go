package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sandevgo/tunebot/internal/core"
	"github.com/sandevgo/tunebot/pkg/log"
)

// Conversations is the per-thread message log. Each thread keeps at most
// `cap` messages; the oldest are evicted on overflow.
type Conversations struct {
	db  *sql.DB
	cap int
}

func NewConversations(db *sql.DB, threadCap int) *Conversations {
	if threadCap <= 0 {
		threadCap = 50
	}
	return &Conversations{db: db, cap: threadCap}
}

// SaveTurn appends a question/answer pair in one transaction, so history
// never holds a question without its answer or the other way around.
func (c *Conversations) SaveTurn(ctx context.Context, threadID, question, answer string) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := insertMessage(ctx, tx, threadID, core.RoleUser, question); err != nil {
		return err
	}
	if err := insertMessage(ctx, tx, threadID, core.RoleAssistant, answer); err != nil {
		return err
	}

	// Ring-buffer semantics: drop everything older than the newest `cap` rows.
	evict := `DELETE FROM conversations
	          WHERE thread_id = ?
	            AND id NOT IN (
	                SELECT id FROM conversations WHERE thread_id = ? ORDER BY id DESC LIMIT ?
	            )`
	if _, err := tx.ExecContext(ctx, evict, threadID, threadID, c.cap); err != nil {
		return fmt.Errorf("failed to evict old messages: %w", err)
	}

	return tx.Commit()
}

func insertMessage(ctx context.Context, tx *sql.Tx, threadID, role, content string) error {
	query := `INSERT INTO conversations (thread_id, role, content, created_at) VALUES (?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, query, threadID, role, content, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	return nil
}

func (c *Conversations) Load(ctx context.Context, threadID string) ([]core.Message, error) {
	query := `SELECT role, content, created_at FROM conversations WHERE thread_id = ? ORDER BY id ASC`

	rows, err := c.db.QueryContext(ctx, query, threadID)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	messages := make([]core.Message, 0)
	for rows.Next() {
		var msg core.Message
		if err := rows.Scan(&msg.Role, &msg.Content, &msg.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	log.FromCtx(ctx).Debug().Int("count", len(messages)).Msg("loaded thread messages")
	return messages, nil
}

func (c *Conversations) Clear(ctx context.Context, threadID string) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM conversations WHERE thread_id = ?`, threadID); err != nil {
		return fmt.Errorf("failed to clear thread: %w", err)
	}
	return nil
}

// Sweep deletes every thread whose newest message is older than maxAge.
// Returns the number of threads removed.
func (c *Conversations) Sweep(ctx context.Context, maxAge time.Duration) (int, error) {
	cutoff := time.Now().UTC().Add(-maxAge)

	res, err := c.db.ExecContext(ctx, `
		DELETE FROM conversations WHERE thread_id IN (
			SELECT thread_id FROM conversations
			GROUP BY thread_id
			HAVING MAX(created_at) < ?
		)`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep threads: %w", err)
	}

	n, _ := res.RowsAffected()
	return int(n), nil
}
