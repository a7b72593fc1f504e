// Package server exposes the docgraph pipeline over HTTP and WebSocket.
//
// # Endpoints
//
//	POST /v1/graph?format=auto|json|xml         document in, graph JSON out
//	POST /v1/render?output=svg|dot|png|mermaid|json
//	GET  /v1/live?format=...&session=<id>       WebSocket, one snapshot per message
//	GET  /v1/sessions/{id}                      last state of a live session
//	GET  /healthz                               build information
//
// Invalid documents answer 422 with {"code", "message", "graph"} where graph
// is the empty graph, so clients can always draw the response.
//
// Every request gets an X-Request-ID (a fresh UUID unless the client sent
// one) that appears in the structured request log.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/matzehuels/docgraph/pkg/pipeline"
	"github.com/matzehuels/docgraph/pkg/session"
)

// Config tunes the server. Zero values get defaults in New.
type Config struct {
	Addr string

	// Defaults seeds the build options of every request.
	Defaults pipeline.Options

	SessionTTL      time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	// CleanupInterval is how often expired sessions are purged.
	CleanupInterval time.Duration

	Logger *log.Logger
}

// Server serves the docgraph API.
type Server struct {
	runner   *pipeline.Runner
	store    session.Store
	cfg      Config
	logger   *log.Logger
	upgrader websocket.Upgrader
	router   chi.Router
}

// New creates a server around a runner and a session store.
func New(runner *pipeline.Runner, store session.Store, cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = session.DefaultTTL
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = 30 * time.Second
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 60 * time.Second
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = 10 * time.Minute
	}
	logger := cfg.Logger
	if logger == nil {
		logger = runner.Logger
	}

	s := &Server{
		runner: runner,
		store:  store,
		cfg:    cfg,
		logger: logger,
		upgrader: websocket.Upgrader{
			HandshakeTimeout: 10 * time.Second,
			ReadBufferSize:   4096,
			WriteBufferSize:  4096,
			CheckOrigin:      func(*http.Request) bool { return true },
		},
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/graph", s.handleGraph)
		r.Post("/render", s.handleRender)
		r.Get("/live", s.handleLive)
		r.Get("/sessions/{id}", s.handleSession)
	})
	return r
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves on cfg.Addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	go s.cleanupLoop(ctx)

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	s.logger.Info("listening", "addr", ln.Addr().String())

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return ctx.Err()
}

// cleanupLoop purges expired sessions until ctx is done.
func (s *Server) cleanupLoop(ctx context.Context) {
	t := time.NewTicker(s.cfg.CleanupInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := s.store.Cleanup(ctx); err != nil {
				s.logger.Warn("session cleanup failed", "err", err)
			}
		}
	}
}
