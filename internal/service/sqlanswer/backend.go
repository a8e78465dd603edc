package sqlanswer

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandevgo/tunebot/internal/core"
	"github.com/sandevgo/tunebot/pkg/log"
)

const errorMarker = "ERROR_MESSAGE"

// Backend answers data questions in two phases: translate the question to
// SQL against the mart schema, then execute and format the rows.
type Backend struct {
	reasoner  core.Reasoner
	warehouse core.Warehouse
}

func New(reasoner core.Reasoner, warehouse core.Warehouse) *Backend {
	return &Backend{reasoner: reasoner, warehouse: warehouse}
}

// Answer returns the formatted result, or a *core.DataAccessError when the
// warehouse rejects the generated query. Generation failures never error:
// they short-circuit to a clearly marked error string.
func (b *Backend) Answer(ctx context.Context, question string) (string, error) {
	logger := log.FromCtx(ctx)

	query := b.translate(ctx, question)
	if strings.Contains(strings.ToUpper(query), errorMarker) {
		// Sentinel produced by a failed generation call; nothing to execute.
		return query, nil
	}

	logger.Info().Str("query", query).Msg("generated SQL")

	result, err := b.warehouse.Query(ctx, query)
	if err != nil {
		logger.Error().Err(err).Str("query", query).Msg("warehouse query failed")
		return "", err
	}
	result.GeneratedQuery = query

	return Format(ctx, result), nil
}

// translate asks the reasoning service for a single SQL statement. A failed
// call yields a sentinel error string instead of an error so the caller can
// inspect it before execution.
func (b *Backend) translate(ctx context.Context, question string) string {
	prompt := fmt.Sprintf(translatePrompt, schemaContext, question)

	raw, err := b.reasoner.Complete(ctx, prompt, core.CompleteOptions{
		Temperature: 0.1,
		MaxTokens:   500,
	})
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("SQL generation failed")
		return fmt.Sprintf("SELECT 'Error generating SQL query: %v' AS ERROR_MESSAGE", err)
	}

	return stripFences(raw)
}

// stripFences removes markdown code-fence wrapping from a generated query.
func stripFences(query string) string {
	query = strings.ReplaceAll(query, "```sql", "")
	query = strings.ReplaceAll(query, "```", "")
	return strings.TrimSpace(query)
}
