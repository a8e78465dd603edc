package router

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sandevgo/tunebot/internal/core"
)

type fakeClassifier struct {
	label core.Label
}

func (f *fakeClassifier) Classify(ctx context.Context, question string) core.Label {
	return f.label
}

type fakeDocs struct {
	answer string
	panics bool
	calls  int
}

func (f *fakeDocs) Answer(ctx context.Context, question string) string {
	f.calls++
	if f.panics {
		panic("docs backend blew up")
	}
	return f.answer
}

type fakeData struct {
	answer string
	err    error
	calls  int
}

func (f *fakeData) Answer(ctx context.Context, question string) (string, error) {
	f.calls++
	return f.answer, f.err
}

type savedTurn struct {
	question string
	answer   string
}

type fakeStore struct {
	saveErr error
	turns   map[string][]savedTurn
}

func newFakeStore() *fakeStore {
	return &fakeStore{turns: map[string][]savedTurn{}}
}

func (f *fakeStore) SaveTurn(ctx context.Context, threadID, question, answer string) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.turns[threadID] = append(f.turns[threadID], savedTurn{question: question, answer: answer})
	return nil
}

func (f *fakeStore) Load(ctx context.Context, threadID string) ([]core.Message, error) {
	return nil, nil
}

func (f *fakeStore) Clear(ctx context.Context, threadID string) error {
	return nil
}

func TestRouteDocQuestion(t *testing.T) {
	docs := &fakeDocs{answer: "Popularity is a 0-100 score."}
	data := &fakeData{}
	store := newFakeStore()
	r := New(&fakeClassifier{label: core.LabelDoc}, docs, data, store)

	got := r.Route(context.Background(), "t1", "How is popularity calculated?")

	if !strings.HasPrefix(got, docHeading) {
		t.Errorf("missing doc heading: %q", got)
	}
	if !strings.Contains(got, "Popularity is a 0-100 score.") {
		t.Errorf("missing doc answer: %q", got)
	}
	if data.calls != 0 {
		t.Error("data backend must not run for a doc question")
	}
}

func TestRouteSQLQuestion(t *testing.T) {
	docs := &fakeDocs{}
	data := &fakeData{answer: "📊 **Answer**: 42"}
	store := newFakeStore()
	r := New(&fakeClassifier{label: core.LabelSQL}, docs, data, store)

	got := r.Route(context.Background(), "t1", "How many tracks do I have?")

	if !strings.HasPrefix(got, sqlHeading) {
		t.Errorf("missing data heading: %q", got)
	}
	if docs.calls != 0 {
		t.Error("doc backend must not run for a data question")
	}
}

func TestRouteBothMergesDocFirst(t *testing.T) {
	docs := &fakeDocs{answer: "The formula weighs recency."}
	data := &fakeData{answer: "Your top track scores 79."}
	store := newFakeStore()
	r := New(&fakeClassifier{label: core.LabelBoth}, docs, data, store)

	got := r.Route(context.Background(), "t1", "Compare the formula with my data")

	docIdx := strings.Index(got, docHeading)
	sqlIdx := strings.Index(got, sqlHeading)
	if docIdx < 0 || sqlIdx < 0 {
		t.Fatalf("missing section headings: %q", got)
	}
	if docIdx > sqlIdx {
		t.Errorf("doc section must come before the data section: %q", got)
	}
	if docs.calls != 1 || data.calls != 1 {
		t.Errorf("both backends must run exactly once, got docs=%d data=%d", docs.calls, data.calls)
	}
}

func TestRouteDataErrorBecomesSection(t *testing.T) {
	data := &fakeData{err: &core.DataAccessError{Query: "SELECT x", Err: errors.New("column does not exist")}}
	store := newFakeStore()
	r := New(&fakeClassifier{label: core.LabelSQL}, &fakeDocs{}, data, store)

	got := r.Route(context.Background(), "t1", "broken question")

	if !strings.HasPrefix(got, "📊 Database Error:") {
		t.Errorf("expected database error section, got %q", got)
	}
}

func TestRouteUnknownLabelDiagnostic(t *testing.T) {
	r := New(&fakeClassifier{label: core.Label("vibes")}, &fakeDocs{}, &fakeData{}, newFakeStore())

	got := r.Route(context.Background(), "t1", "anything")

	if !strings.Contains(got, "Unable to categorize question") || !strings.Contains(got, "vibes") {
		t.Errorf("expected diagnostic with the raw label, got %q", got)
	}
}

func TestRoutePanicInBackendReturnsErrorText(t *testing.T) {
	r := New(&fakeClassifier{label: core.LabelDoc}, &fakeDocs{panics: true}, &fakeData{}, newFakeStore())

	got := r.Route(context.Background(), "t1", "anything")

	if !strings.HasPrefix(got, "❌ I encountered an error:") {
		t.Errorf("panic must degrade to an error answer, got %q", got)
	}
}

func TestRoutePersistsTheTurn(t *testing.T) {
	store := newFakeStore()
	r := New(&fakeClassifier{label: core.LabelDoc}, &fakeDocs{answer: "ok"}, &fakeData{}, store)

	answer := r.Route(context.Background(), "t1", "How does it work?")

	turns := store.turns["t1"]
	if len(turns) != 1 {
		t.Fatalf("expected 1 persisted turn, got %d", len(turns))
	}
	if turns[0].question != "How does it work?" {
		t.Errorf("persisted question = %q", turns[0].question)
	}
	if turns[0].answer != answer {
		t.Errorf("persisted answer = %q, want %q", turns[0].answer, answer)
	}
}

func TestRouteStoreFailureStillAnswers(t *testing.T) {
	store := newFakeStore()
	store.saveErr = errors.New("disk full")
	r := New(&fakeClassifier{label: core.LabelDoc}, &fakeDocs{answer: "ok"}, &fakeData{}, store)

	got := r.Route(context.Background(), "t1", "anything")

	if !strings.Contains(got, "ok") {
		t.Errorf("store failure must not change the answer, got %q", got)
	}
	if len(store.turns["t1"]) != 0 {
		t.Errorf("no partial turns should persist, got %d", len(store.turns["t1"]))
	}
}

func TestRouteBothPanicInBackendStillAnswers(t *testing.T) {
	docs := &fakeDocs{panics: true}
	data := &fakeData{answer: "Your top track scores 79."}
	r := New(&fakeClassifier{label: core.LabelBoth}, docs, data, newFakeStore())

	got := r.Route(context.Background(), "t1", "Compare the formula with my data")

	if !strings.Contains(got, "❌ I encountered an error:") {
		t.Errorf("panicking section must degrade to error text, got %q", got)
	}
	if !strings.Contains(got, sqlHeading) || !strings.Contains(got, "Your top track scores 79.") {
		t.Errorf("healthy section must still be answered, got %q", got)
	}
}
