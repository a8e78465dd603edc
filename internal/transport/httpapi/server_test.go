package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sandevgo/tunebot/internal/core"
	"github.com/sandevgo/tunebot/internal/service/router"
)

type stubClassifier struct{}

func (stubClassifier) Classify(ctx context.Context, question string) core.Label {
	return core.LabelDoc
}

type stubDocs struct{}

func (stubDocs) Answer(ctx context.Context, question string) string {
	return "Popularity is a 0-100 score."
}

type stubData struct{}

func (stubData) Answer(ctx context.Context, question string) (string, error) {
	return "", nil
}

type stubStore struct{}

func (stubStore) SaveTurn(ctx context.Context, threadID, question, answer string) error { return nil }
func (stubStore) Load(ctx context.Context, threadID string) ([]core.Message, error) {
	return nil, nil
}
func (stubStore) Clear(ctx context.Context, threadID string) error { return nil }

func newTestServer() *Server {
	r := router.New(stubClassifier{}, stubDocs{}, stubData{}, stubStore{})
	return NewServer(r, 0)
}

func TestHealth(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %q", body["status"])
	}
}

func TestAsk(t *testing.T) {
	s := newTestServer()

	payload, _ := json.Marshal(AskRequest{ThreadID: "t1", Question: "How is popularity calculated?"})
	req := httptest.NewRequest(http.MethodPost, "/v1/ask", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp AskResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.ThreadID != "t1" {
		t.Errorf("thread_id = %q, want t1", resp.ThreadID)
	}
	if resp.Answer == "" {
		t.Error("empty answer")
	}
}

func TestAskGeneratesThreadID(t *testing.T) {
	s := newTestServer()

	payload, _ := json.Marshal(AskRequest{Question: "anything"})
	req := httptest.NewRequest(http.MethodPost, "/v1/ask", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)

	var resp AskResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.ThreadID == "" {
		t.Error("server should assign a thread id when the client omits one")
	}
}

func TestAskRejectsMissingQuestion(t *testing.T) {
	s := newTestServer()

	payload, _ := json.Marshal(AskRequest{ThreadID: "t1"})
	req := httptest.NewRequest(http.MethodPost, "/v1/ask", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestAskRejectsInvalidBody(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/v1/ask", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}
