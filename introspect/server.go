package introspect

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime/debug"
	"sync"

	"golang.org/x/net/websocket"

	"github.com/lguibr/actorkit/registry"
	"github.com/lguibr/actorkit/task"
)

// Snapshot is the JSON payload served by HandleListTasks and pushed over
// HandleSubscribe's WebSocket feed.
type Snapshot struct {
	Tasks []TaskSnapshot `json:"tasks"`
}

// TaskSnapshot is one task's actor roster with live status.
type TaskSnapshot struct {
	Name   string             `json:"name"`
	Actors []task.ActorStatus `json:"actors"`
}

// Server exposes read-only introspection over a task.Manager and the
// registry.Registry backing it, tracking its own set of subscribed
// WebSocket connections the way the teacher's server.Server tracks game
// connections.
type Server struct {
	Manager  *task.Manager
	Registry *registry.Registry
	Logger   *slog.Logger

	mu      sync.RWMutex
	clients map[*websocket.Conn]bool
}

// NewServer builds a Server over mgr/reg. A nil logger falls back to
// slog.Default().
func NewServer(mgr *task.Manager, reg *registry.Registry, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		Manager:  mgr,
		Registry: reg,
		Logger:   logger,
		clients:  make(map[*websocket.Conn]bool),
	}
}

func (s *Server) snapshot() Snapshot {
	names := s.Manager.ListTasks()
	out := make([]TaskSnapshot, 0, len(names))
	for _, name := range names {
		statuses, ok := s.Manager.TaskStatuses(name)
		if !ok {
			continue
		}
		out = append(out, TaskSnapshot{Name: name, Actors: statuses})
	}
	return Snapshot{Tasks: out}
}

// HandleHealthCheck reports process liveness; it does not touch the
// manager or registry at all.
func (s *Server) HandleHealthCheck() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}
}

// HandleListTasks serves a Snapshot of every task and its actors.
func (s *Server) HandleListTasks() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.Logger.Error("panic in list-tasks handler", "recovered", rec, "stack", string(debug.Stack()))
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()
		if r.Method != http.MethodGet {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}

		data, err := json.Marshal(s.snapshot())
		if err != nil {
			s.Logger.Error("failed to marshal snapshot", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}

// HandleTaskDetail serves one task's actor roster, read from the "name"
// query parameter. Unknown task names yield 404.
func (s *Server) HandleTaskDetail() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.Logger.Error("panic in task-detail handler", "recovered", rec, "stack", string(debug.Stack()))
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()
		if r.Method != http.MethodGet {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}

		name := r.URL.Query().Get("name")
		statuses, ok := s.Manager.TaskStatuses(name)
		if !ok {
			http.Error(w, "task not found", http.StatusNotFound)
			return
		}

		data, err := json.Marshal(TaskSnapshot{Name: name, Actors: statuses})
		if err != nil {
			s.Logger.Error("failed to marshal task detail", "task", name, "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}

// HandleSubscribe registers ws as a live push target for Broadcaster and
// blocks until the client disconnects, mirroring the teacher's
// HandleSubscribe holding the HTTP handler open for the connection's
// lifetime. The write side belongs entirely to Broadcaster; this handler
// only tracks membership and notices disconnects.
func (s *Server) HandleSubscribe() func(ws *websocket.Conn) {
	return func(ws *websocket.Conn) {
		addr := ws.RemoteAddr().String()
		s.Logger.Info("introspect client connected", "addr", addr)

		s.mu.Lock()
		s.clients[ws] = true
		s.mu.Unlock()

		defer func() {
			s.mu.Lock()
			delete(s.clients, ws)
			s.mu.Unlock()
			_ = ws.Close()
			s.Logger.Info("introspect client disconnected", "addr", addr)
		}()

		buf := make([]byte, 1)
		for {
			if _, err := ws.Read(buf); err != nil {
				return
			}
		}
	}
}
