package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/aretw0/bitty"
	"github.com/aretw0/bitty/pkg/adapters/memory"
	"github.com/aretw0/bitty/pkg/domain"
	"github.com/aretw0/bitty/pkg/ports"
	"github.com/go-chi/chi/v5"
)

// Engine defines the part of the bitty engine the HTTP surface drives.
type Engine interface {
	Components() []*bitty.Component
	Component(id string) (*bitty.Component, bool)
	Tap(fn func(context.Context, *domain.DispatchEvent)) func()
}

// Server exposes a mounted page over HTTP.
// Every access to the engine and the document goes through Document.Do.
type Server struct {
	Engine   Engine
	Document *memory.Document
	Traces   ports.TraceStore
	// Stream is the trace stream listed by GET /traces when none is requested.
	Stream  string
	Streams *StreamManager
	Logger  *slog.Logger
}

// EventRequest is the body of POST /events.
type EventRequest struct {
	Type   string `json:"type"`
	Target string `json:"target"`
	Value  string `json:"value,omitempty"`
}

// ForwardRequest is the body of POST /components/{id}/forward.
type ForwardRequest struct {
	Signal string `json:"signal"`
}

// DispatchResponse lists the dispatch records produced by one request.
type DispatchResponse struct {
	EventID    string                 `json:"event_id,omitempty"`
	Dispatches []domain.DispatchEvent `json:"dispatches"`
}

// ComponentInfo describes one mounted component.
type ComponentInfo struct {
	ID         string   `json:"id"`
	Descriptor string   `json:"descriptor,omitempty"`
	Connected  bool     `json:"connected"`
	Error      string   `json:"error,omitempty"`
	Listeners  []string `json:"listeners,omitempty"`
	Receivers  []string `json:"receivers,omitempty"`
}

// NewHandler creates the HTTP handler for srv.
func NewHandler(srv *Server) http.Handler {
	if srv.Streams == nil {
		srv.Streams = NewStreamManager()
	}
	if srv.Logger == nil {
		srv.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	// Live dispatch records for SSE subscribers.
	srv.Engine.Tap(func(_ context.Context, rec *domain.DispatchEvent) {
		if data, err := json.Marshal(rec); err == nil {
			srv.Streams.Broadcast(string(data))
		}
	})

	r := chi.NewRouter()
	r.Get("/health", srv.GetHealth)
	r.Get("/info", srv.GetInfo)
	r.Get("/components", srv.ListComponents)
	r.Post("/components/{id}/forward", srv.Forward)
	r.Get("/tree", srv.GetTree)
	r.Post("/events", srv.PostEvent)
	r.Get("/traces", srv.ListTraces)
	r.Get("/stream", srv.SubscribeDispatches)

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Logger, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Logger, http.StatusOK, map[string]string{
		"app":     "bitty-http",
		"version": strings.TrimSpace(bitty.Version),
	})
}

// ListComponents handles the GET /components request.
func (s *Server) ListComponents(w http.ResponseWriter, r *http.Request) {
	var infos []ComponentInfo
	s.Document.Do(func() {
		for _, c := range s.Engine.Components() {
			info := ComponentInfo{
				ID:         c.ID(),
				Descriptor: c.Descriptor().String(),
				Connected:  c.Connected(),
				Listeners:  c.Listeners(),
			}
			if err := c.Err(); err != nil {
				info.Error = err.Error()
			}
			for _, rcv := range c.Receivers() {
				info.Receivers = append(info.Receivers, rcv.Signal+"@"+domain.Identity(rcv.Node))
			}
			infos = append(infos, info)
		}
	})
	if infos == nil {
		infos = []ComponentInfo{}
	}
	writeJSON(w, s.Logger, http.StatusOK, infos)
}

// GetTree handles the GET /tree request.
func (s *Server) GetTree(w http.ResponseWriter, r *http.Request) {
	var tree string
	s.Document.Do(func() { tree = s.Document.Root().String() })
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, tree)
}

// PostEvent handles the POST /events request: it fires an interaction on the
// element with the given id and reports the resulting dispatches.
func (s *Server) PostEvent(w http.ResponseWriter, r *http.Request) {
	var body EventRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Type == "" || body.Target == "" {
		http.Error(w, "Invalid request body: type and target are required", http.StatusBadRequest)
		s.Logger.Warn("PostEvent: Invalid request body", "err", err)
		return
	}

	var resp *DispatchResponse
	found := true
	s.Document.Do(func() {
		target := s.Document.GetElementByID(body.Target)
		if target == nil {
			found = false
			return
		}
		resp = s.collect(func() string {
			return s.Document.Fire(body.Type, target, body.Value).ID
		})
	})
	if !found {
		http.Error(w, fmt.Sprintf("%v: element %q", domain.ErrUnknownTarget, body.Target), http.StatusNotFound)
		return
	}
	writeJSON(w, s.Logger, http.StatusOK, resp)
}

// Forward handles the POST /components/{id}/forward request.
func (s *Server) Forward(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var body ForwardRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || strings.TrimSpace(body.Signal) == "" {
		http.Error(w, "Invalid request body: signal is required", http.StatusBadRequest)
		s.Logger.Warn("Forward: Invalid request body", "err", err)
		return
	}

	var resp *DispatchResponse
	found := true
	s.Document.Do(func() {
		c, ok := s.Engine.Component(id)
		if !ok {
			found = false
			return
		}
		resp = s.collect(func() string {
			c.Forward(context.WithoutCancel(r.Context()), body.Signal)
			return ""
		})
	})
	if !found {
		http.Error(w, fmt.Sprintf("%v: component %q", domain.ErrUnknownTarget, id), http.StatusNotFound)
		return
	}
	writeJSON(w, s.Logger, http.StatusOK, resp)
}

// collect runs fire and gathers the dispatch records it produced.
// Callers hold the document lock, so no other request dispatches meanwhile.
func (s *Server) collect(fire func() string) *DispatchResponse {
	resp := &DispatchResponse{Dispatches: []domain.DispatchEvent{}}
	untap := s.Engine.Tap(func(_ context.Context, rec *domain.DispatchEvent) {
		resp.Dispatches = append(resp.Dispatches, *rec)
	})
	defer untap()
	resp.EventID = fire()
	return resp
}

// ListTraces handles the GET /traces request. With ?stream= it returns that
// stream's records; "all" lists the stream names.
func (s *Server) ListTraces(w http.ResponseWriter, r *http.Request) {
	if s.Traces == nil {
		http.Error(w, "Trace store not configured", http.StatusNotFound)
		return
	}

	stream := r.URL.Query().Get("stream")
	if stream == "all" {
		streams, err := s.Traces.Streams(r.Context())
		if err != nil {
			http.Error(w, fmt.Sprintf("Trace store error: %v", err), http.StatusInternalServerError)
			s.Logger.Error("ListTraces failed", "err", err)
			return
		}
		writeJSON(w, s.Logger, http.StatusOK, streams)
		return
	}
	if stream == "" {
		stream = s.Stream
	}

	recs, err := s.Traces.List(r.Context(), stream)
	if err != nil {
		http.Error(w, fmt.Sprintf("Trace store error: %v", err), http.StatusInternalServerError)
		s.Logger.Error("ListTraces failed", "err", err, "stream", stream)
		return
	}
	writeJSON(w, s.Logger, http.StatusOK, recs)
}

// SubscribeDispatches handles the GET /stream request (SSE).
func (s *Server) SubscribeDispatches(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Streams.Subscribe()
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.Logger.Debug("SSE Client Disconnected")
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: dispatch\ndata: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

// StreamManager fans dispatch records out to SSE subscribers.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[chan string]struct{}
}

func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[chan string]struct{}),
	}
}

func (sm *StreamManager) Subscribe() (<-chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 16)
	sm.subscribers[ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if _, ok := sm.subscribers[ch]; ok {
			delete(sm.subscribers, ch)
			close(ch)
		}
	}
}

func (sm *StreamManager) Broadcast(msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers {
		select {
		case ch <- msg:
		default:
			// Drop message if channel is full (slow client)
		}
	}
}

// Subscribers returns the number of connected subscribers.
func (sm *StreamManager) Subscribers() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers)
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("response encode failed", "err", err)
	}
}
