package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/sandevgo/tunebot/internal/service/router"
	"github.com/sandevgo/tunebot/pkg/log"
)

type AskRequest struct {
	ThreadID string `json:"thread_id"`
	Question string `json:"question"`
}

type AskResponse struct {
	ThreadID string `json:"thread_id"`
	Answer   string `json:"answer"`
}

// Server exposes the question pipeline over HTTP. The CLI stays the primary
// surface; this transport exists for programmatic callers.
type Server struct {
	router *router.Router
	mux    *chi.Mux
	srv    *http.Server
	port   int
}

func NewServer(r *router.Router, port int) *Server {
	mux := chi.NewRouter()
	mux.Use(middleware.RequestID)
	mux.Use(middleware.Recoverer)

	s := &Server{
		router: r,
		mux:    mux,
		port:   port,
	}

	mux.Get("/health", s.health)
	mux.Post("/v1/ask", s.ask)

	return s
}

func (s *Server) Start(ctx context.Context) error {
	s.srv = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.mux,
		ReadHeaderTimeout: 5 * time.Second,
		// Request contexts inherit the app context so handlers keep the logger
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	log.FromCtx(ctx).Info().Int("port", s.port).Msg("http api started")

	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.srv.Shutdown(shutdownCtx)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) ask(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Question == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "question is required"})
		return
	}
	if req.ThreadID == "" {
		req.ThreadID = uuid.NewString()
	}

	answer := s.router.Route(r.Context(), req.ThreadID, req.Question)

	writeJSON(w, http.StatusOK, AskResponse{
		ThreadID: req.ThreadID,
		Answer:   answer,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
