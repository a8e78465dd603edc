package classifier

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandevgo/tunebot/internal/core"
	"github.com/sandevgo/tunebot/pkg/log"
)

const prompt = `You are a smart assistant for a music streaming analytics system. Classify this question:
%q

Does it require:
- 'doc' -> if the answer is in documentation (manuals about music or the streaming platform, general concepts)
- 'sql' -> if the answer needs data from the analytics warehouse (artists, tracks, listening history, popularity, genres, play counts)
- 'both' -> if it needs both sources

Examples:
- "What are my top 5 most played artists?" -> sql
- "How many tracks are in the database?" -> sql
- "What genres are most popular?" -> sql
- "Who founded the platform?" -> doc
- "How is track popularity calculated?" -> doc
- "Compare the documented popularity formula with my actual data" -> both

Only return one word: doc, sql, or both.`

// Classifier labels a question with the data source(s) it needs.
// It never fails: any reasoning error or unexpected token falls back to the
// default label so the user always gets an answer from somewhere.
type Classifier struct {
	reasoner core.Reasoner
}

func New(reasoner core.Reasoner) *Classifier {
	return &Classifier{reasoner: reasoner}
}

func (c *Classifier) Classify(ctx context.Context, question string) core.Label {
	logger := log.FromCtx(ctx)

	raw, err := c.reasoner.Complete(ctx, fmt.Sprintf(prompt, question), core.CompleteOptions{
		Temperature: 0,
		MaxTokens:   5,
	})
	if err != nil {
		logger.Warn().Err(err).Msg("classification call failed, using default label")
		return core.DefaultLabel
	}

	token := core.Label(strings.ToLower(strings.TrimSpace(raw)))
	switch token {
	case core.LabelDoc, core.LabelSQL, core.LabelBoth:
		return token
	}

	logger.Warn().Str("token", raw).Msg("classifier returned unknown token, using default label")
	return core.DefaultLabel
}
