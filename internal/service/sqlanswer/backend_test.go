package sqlanswer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sandevgo/tunebot/internal/core"
)

type fakeReasoner struct {
	response string
	err      error
}

func (f *fakeReasoner) Complete(ctx context.Context, prompt string, opts core.CompleteOptions) (string, error) {
	return f.response, f.err
}

type fakeWarehouse struct {
	result  core.QueryResult
	err     error
	queries []string
}

func (f *fakeWarehouse) Query(ctx context.Context, sql string) (core.QueryResult, error) {
	f.queries = append(f.queries, sql)
	return f.result, f.err
}

func TestAnswerExecutesGeneratedQuery(t *testing.T) {
	wh := &fakeWarehouse{result: core.QueryResult{
		Columns: []string{"TRACK_COUNT"},
		Rows:    []map[string]any{{"TRACK_COUNT": int64(42)}},
	}}
	b := New(&fakeReasoner{response: "SELECT COUNT(*) AS TRACK_COUNT FROM MARTS.MART_TOP_TRACKS"}, wh)

	got, err := b.Answer(context.Background(), "How many tracks are there?")
	if err != nil {
		t.Fatalf("Answer() error = %v", err)
	}
	if got != "📊 **Answer**: 42" {
		t.Errorf("Answer() = %q", got)
	}
	if len(wh.queries) != 1 {
		t.Fatalf("expected 1 query, got %d", len(wh.queries))
	}
}

func TestAnswerStripsCodeFences(t *testing.T) {
	wh := &fakeWarehouse{result: core.QueryResult{
		Columns: []string{"N"},
		Rows:    []map[string]any{{"N": int64(1)}},
	}}
	b := New(&fakeReasoner{response: "```sql\nSELECT 1 AS N\n```"}, wh)

	if _, err := b.Answer(context.Background(), "anything"); err != nil {
		t.Fatalf("Answer() error = %v", err)
	}
	if wh.queries[0] != "SELECT 1 AS N" {
		t.Errorf("fences not stripped: %q", wh.queries[0])
	}
}

func TestAnswerGenerationFailureShortCircuits(t *testing.T) {
	wh := &fakeWarehouse{}
	b := New(&fakeReasoner{err: errors.New("model unavailable")}, wh)

	got, err := b.Answer(context.Background(), "How many tracks?")
	if err != nil {
		t.Fatalf("generation failure must not error, got %v", err)
	}
	if !strings.Contains(got, "Error generating SQL query") {
		t.Errorf("Answer() = %q, want generation error text", got)
	}
	if len(wh.queries) != 0 {
		t.Error("warehouse must not be queried when generation fails")
	}
}

func TestAnswerSentinelInGeneratedQueryShortCircuits(t *testing.T) {
	wh := &fakeWarehouse{}
	b := New(&fakeReasoner{response: "SELECT 'cannot answer' AS error_message"}, wh)

	got, err := b.Answer(context.Background(), "nonsense question")
	if err != nil {
		t.Fatalf("Answer() error = %v", err)
	}
	if !strings.Contains(strings.ToUpper(got), "ERROR_MESSAGE") {
		t.Errorf("Answer() = %q, want sentinel text", got)
	}
	if len(wh.queries) != 0 {
		t.Error("warehouse must not be queried for a sentinel statement")
	}
}

func TestAnswerWarehouseErrorPropagates(t *testing.T) {
	whErr := &core.DataAccessError{Query: "SELECT 1", Err: errors.New("relation does not exist")}
	b := New(&fakeReasoner{response: "SELECT 1"}, &fakeWarehouse{err: whErr})

	_, err := b.Answer(context.Background(), "broken question")
	if err == nil {
		t.Fatal("expected error from warehouse")
	}

	var dae *core.DataAccessError
	if !errors.As(err, &dae) {
		t.Errorf("expected *core.DataAccessError, got %T", err)
	}
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"SELECT 1", "SELECT 1"},
		{"```sql\nSELECT 1\n```", "SELECT 1"},
		{"```\nSELECT 1\n```", "SELECT 1"},
		{"  SELECT 1  \n", "SELECT 1"},
	}

	for _, tt := range tests {
		if got := stripFences(tt.in); got != tt.want {
			t.Errorf("stripFences(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
