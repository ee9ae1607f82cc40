package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/google/uuid"

	"github.com/jpalmerr/pingme/internal/stats"
	"github.com/jpalmerr/pingme/internal/store"
)

const (
	// sseWriteTimeout is the maximum time allowed for a single SSE write operation.
	// This prevents goroutine leaks when clients are slow or disconnected.
	// Must be <= shutdown timeout to ensure clean shutdown.
	sseWriteTimeout = 5 * time.Second

	shutdownTimeout = 5 * time.Second

	// maxBodyBytes bounds POST /api/endpoints payloads.
	maxBodyBytes = 64 << 10
)

// Source is the state the server renders. It is satisfied by *pingme.Monitor.
type Source interface {
	View() stats.View
	Subscribe() <-chan stats.View
	Unsubscribe(ch <-chan stats.View)
	AddEndpoint(url string) (store.Endpoint, error)
}

// Server exposes the monitor's views over HTTP.
//
// Routes:
//   - GET /healthz: liveness probe
//   - GET /api/view: the full current view
//   - GET /api/stats: per-endpoint stats
//   - GET /api/endpoints/{id}/chart: hourly uptime series
//   - GET /api/endpoints/{id}/blocks: block timeline
//   - POST /api/endpoints: register a URL
//   - GET /api/sse: Server-Sent Events stream of views
//
// The server is designed for graceful shutdown via context cancellation.
type Server struct {
	src    Source
	addr   string
	logger *slog.Logger

	mu         sync.Mutex
	httpServer *http.Server
	listener   net.Listener
}

// NewServer creates a new HTTP [Server] listening on addr (e.g. ":8080").
//
// The server is not started until [Server.Start] is called.
func NewServer(src Source, addr string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		src:    src,
		addr:   addr,
		logger: logger,
	}
}

// Handler returns the router with all API routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.AllowAll().Handler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/view", s.handleView)
		r.Get("/stats", s.handleStats)
		r.Post("/endpoints", s.handleAddEndpoint)
		r.Get("/endpoints/{id}/chart", s.handleChart)
		r.Get("/endpoints/{id}/blocks", s.handleBlocks)
		r.Get("/sse", s.handleSSE)
	})

	return r
}

// Start begins serving HTTP requests in a background goroutine.
//
// Start is non-blocking and returns immediately after confirming the server
// is listening. The server will continue running until the context is
// cancelled, at which point it initiates a graceful shutdown with a 5-second
// timeout.
//
// Returns an error if the server fails to bind to the configured address.
func (s *Server) Start(ctx context.Context) error {
	// create listener first to verify address availability synchronously
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to bind to %s: %w", s.addr, err)
	}

	httpServer := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		// BaseContext derives all request contexts from the server context.
		// When ctx is cancelled, all request contexts are also cancelled,
		// enabling graceful shutdown of long-running handlers like SSE.
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	s.mu.Lock()
	s.httpServer = httpServer
	s.listener = ln
	s.mu.Unlock()

	s.logger.Info("http server listening", "addr", ln.Addr().String())

	go func() {
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server error", "error", err)
		}
	}()

	// shutdown on context cancellation
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("http server shutdown error", "error", err)
		}
	}()

	return nil
}

// Addr returns the bound address, or nil before [Server.Start].
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.src.View())
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	st := s.src.View().Stats
	if st == nil {
		st = []store.EndpointStats{}
	}
	s.writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	v, id, ok := s.endpointView(w, r)
	if !ok {
		return
	}
	points := v.Charts[id]
	if points == nil {
		points = []stats.ChartPoint{}
	}
	s.writeJSON(w, http.StatusOK, points)
}

func (s *Server) handleBlocks(w http.ResponseWriter, r *http.Request) {
	v, id, ok := s.endpointView(w, r)
	if !ok {
		return
	}
	blocks := v.Blocks[id]
	if blocks == nil {
		blocks = []stats.UptimeBlock{}
	}
	s.writeJSON(w, http.StatusOK, blocks)
}

// endpointView resolves the {id} path parameter against the current view,
// writing a 400 or 404 response when it cannot.
func (s *Server) endpointView(w http.ResponseWriter, r *http.Request) (stats.View, uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid endpoint id", http.StatusBadRequest)
		return stats.View{}, uuid.Nil, false
	}

	v := s.src.View()
	if _, ok := v.Endpoint(id); !ok {
		http.Error(w, "endpoint not found", http.StatusNotFound)
		return stats.View{}, uuid.Nil, false
	}
	return v, id, true
}

type addEndpointRequest struct {
	URL string `json:"url"`
}

func (s *Server) handleAddEndpoint(w http.ResponseWriter, r *http.Request) {
	var req addEndpointRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil || strings.TrimSpace(req.URL) == "" {
		http.Error(w, "bad payload", http.StatusBadRequest)
		return
	}

	ep, err := s.src.AddEndpoint(req.URL)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.logger.Info("endpoint added via api", "id", ep.ID.String(), "url", ep.URL)
	s.writeJSON(w, http.StatusCreated, ep)
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

// handleSSE streams views via Server-Sent Events.
//
// The handler uses write deadlines to prevent goroutine leaks when clients are
// slow or disconnected. Without deadlines, a blocked Fprintf call would prevent
// the handler from detecting context cancellation or channel closure.
func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	if _, ok := w.(http.Flusher); !ok {
		http.Error(w, "SSE not supported", http.StatusInternalServerError)
		return
	}

	rc := http.NewResponseController(w)

	// track if write deadlines are supported (may not be for some ResponseWriter impls)
	deadlinesSupported := true

	writeAndFlush := func(data []byte) error {
		if deadlinesSupported {
			if err := rc.SetWriteDeadline(time.Now().Add(sseWriteTimeout)); err != nil {
				s.logger.Warn("sse write deadlines not supported", "error", err)
				deadlinesSupported = false
			}
		}

		if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
			return err
		}

		// ResponseController.Flush respects the write deadline
		return rc.Flush()
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := s.src.Subscribe()
	defer s.src.Unsubscribe(ch)

	send := func(v stats.View) error {
		data, err := json.Marshal(v)
		if err != nil {
			s.logger.Error("failed to encode view", "error", err)
			return nil
		}
		return writeAndFlush(data)
	}

	if err := send(s.src.View()); err != nil {
		return
	}

	for {
		select {
		case v, ok := <-ch:
			if !ok {
				return
			}
			if err := send(v); err != nil {
				return
			}

		case <-r.Context().Done():
			// request context is derived from server context via BaseContext,
			// so this fires on both client disconnect AND server shutdown
			return
		}
	}
}
