package router

import (
	"context"
	"fmt"
	"sync"

	"github.com/sandevgo/tunebot/internal/core"
	"github.com/sandevgo/tunebot/pkg/log"
)

const (
	docHeading = "📘 From Documentation:"
	sqlHeading = "📊 From Streaming Data:"
)

type Classifier interface {
	Classify(ctx context.Context, question string) core.Label
}

type DocBackend interface {
	Answer(ctx context.Context, question string) string
}

type SQLBackend interface {
	Answer(ctx context.Context, question string) (string, error)
}

// Router classifies a question, dispatches it to the matching backend(s),
// merges the sections, and records the turn. It upholds the always-answer
// contract: no error and no panic crosses Route.
type Router struct {
	classifier Classifier
	docs       DocBackend
	data       SQLBackend
	store      core.ConversationRepository
}

func New(classifier Classifier, docs DocBackend, data SQLBackend, store core.ConversationRepository) *Router {
	return &Router{
		classifier: classifier,
		docs:       docs,
		data:       data,
		store:      store,
	}
}

// Route answers one question on one thread. The user question and the final
// answer are persisted best-effort: a store failure is logged and never
// changes what the caller gets back.
func (r *Router) Route(ctx context.Context, threadID, question string) string {
	answer := r.dispatch(ctx, question)
	r.remember(ctx, threadID, question, answer)
	return answer
}

func (r *Router) dispatch(ctx context.Context, question string) (answer string) {
	defer func() {
		if rec := recover(); rec != nil {
			log.FromCtx(ctx).Error().Interface("panic", rec).Msg("routing pipeline panicked")
			answer = fmt.Sprintf("❌ I encountered an error: %v", rec)
		}
	}()

	label := r.classifier.Classify(ctx, question)
	log.FromCtx(ctx).Info().Str("label", string(label)).Msg("classified question")

	switch label {
	case core.LabelDoc:
		return docHeading + "\n" + r.docs.Answer(ctx, question)

	case core.LabelSQL:
		return r.dataSection(ctx, question)

	case core.LabelBoth:
		// The two backends read disjoint sources; only the merge needs both.
		// Each goroutine carries its own recover: a panic on a spawned
		// goroutine would bypass the recover above and kill the process.
		var docSection, dataSection string
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			defer recoverSection(ctx, &docSection)
			docSection = docHeading + "\n" + r.docs.Answer(ctx, question)
		}()
		go func() {
			defer wg.Done()
			defer recoverSection(ctx, &dataSection)
			dataSection = r.dataSection(ctx, question)
		}()
		wg.Wait()
		return docSection + "\n\n" + dataSection

	default:
		// Visible to operators so classifier drift doesn't hide behind a fallback.
		return fmt.Sprintf("❓ Unable to categorize question. Classifier returned: '%s'", label)
	}
}

func recoverSection(ctx context.Context, section *string) {
	if rec := recover(); rec != nil {
		log.FromCtx(ctx).Error().Interface("panic", rec).Msg("backend panicked")
		*section = fmt.Sprintf("❌ I encountered an error: %v", rec)
	}
}

func (r *Router) dataSection(ctx context.Context, question string) string {
	answer, err := r.data.Answer(ctx, question)
	if err != nil {
		return fmt.Sprintf("📊 Database Error: %v", err)
	}
	return sqlHeading + "\n" + answer
}

// remember appends the user question and the assistant answer to the thread
// as one atomic turn: either both entries land or none. Persistence is
// best-effort; a store failure is logged and never changes the answer.
func (r *Router) remember(ctx context.Context, threadID, question, answer string) {
	if err := r.store.SaveTurn(ctx, threadID, question, answer); err != nil {
		log.FromCtx(ctx).Error().Err(err).Str("thread", threadID).Msg("failed to persist turn")
	}
}
