// Package gateway exposes Zenith over HTTP: a WebSocket chat endpoint
// plus small JSON read APIs for sessions, tasks, habits, and memories.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/zenithlabs/zenith/internal/events"
	"github.com/zenithlabs/zenith/internal/gateway/ws"
	"github.com/zenithlabs/zenith/internal/habits"
	"github.com/zenithlabs/zenith/internal/memory"
	"github.com/zenithlabs/zenith/internal/sessions"
	"github.com/zenithlabs/zenith/internal/tasks"
)

// Stores aggregates the read models the gateway serves.
type Stores struct {
	Sessions sessions.Store
	Tasks    tasks.Store
	Habits   habits.Store
	Memories memory.Store
}

// Server is the Zenith gateway HTTP server.
type Server struct {
	httpServer *http.Server
	hub        *ws.Hub
	bus        *events.Bus
	stores     Stores
}

// NewServer creates a gateway server. factory builds a chat engine per
// WebSocket session.
func NewServer(bus *events.Bus, stores Stores, factory ws.EngineFactory, host string, port int, authToken string) *Server {
	hub := ws.NewHub(bus, stores.Sessions, factory, authToken)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	s := &Server{
		hub:    hub,
		bus:    bus,
		stores: stores,
	}

	r.Get("/api/health", s.handleHealth)
	r.Get("/api/ws", hub.ServeWS)
	r.Get("/api/events", s.handleEvents)
	r.Get("/api/sessions", s.handleSessions)
	r.Get("/api/tasks", s.handleTasks)
	r.Get("/api/habits", s.handleHabits)
	r.Get("/api/memories", s.handleMemories)

	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", host, port),
		Handler: r,
	}

	return s
}

// Start begins listening. It blocks until the server is stopped.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	slog.Info("Zenith gateway listening", "addr", ln.Addr().String())
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Close()
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		fmt.Sscanf(limitStr, "%d", &limit)
	}

	history := s.bus.History(limit)

	type eventJSON struct {
		ID        string             `json:"id"`
		SessionID string             `json:"session_id,omitempty"`
		Type      string             `json:"type"`
		Timestamp string             `json:"timestamp"`
		Source    events.EventSource `json:"source"`
		Payload   map[string]any     `json:"payload"`
	}

	result := make([]eventJSON, len(history))
	for i, e := range history {
		result[i] = eventJSON{
			ID:        e.ID,
			SessionID: e.SessionID,
			Type:      string(e.Type),
			Timestamp: e.Timestamp.Format(time.RFC3339Nano),
			Source:    e.Source,
			Payload:   e.Payload,
		}
	}
	writeJSON(w, result)
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	list, err := s.stores.Sessions.List()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, list)
}

func (s *Server) handleTasks(w http.ResponseWriter, r *http.Request) {
	var (
		list []*tasks.Task
		err  error
	)
	if r.URL.Query().Get("open") == "true" {
		list, err = s.stores.Tasks.ListOpen()
	} else {
		list, err = s.stores.Tasks.List()
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, list)
}

func (s *Server) handleHabits(w http.ResponseWriter, r *http.Request) {
	list, err := s.stores.Habits.List()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	type habitJSON struct {
		*habits.Habit
		Stats habits.Stats `json:"stats"`
	}

	now := time.Now()
	result := make([]habitJSON, len(list))
	for i, h := range list {
		checks, err := s.stores.Habits.Checks(h.ID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		result[i] = habitJSON{Habit: h, Stats: habits.ComputeStats(checks, now)}
	}
	writeJSON(w, result)
}

func (s *Server) handleMemories(w http.ResponseWriter, r *http.Request) {
	var (
		list []*memory.Entry
		err  error
	)
	if category := r.URL.Query().Get("category"); category != "" {
		list, err = s.stores.Memories.ByCategory(memory.Category(category), 100)
	} else {
		list, err = s.stores.Memories.List()
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, list)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
