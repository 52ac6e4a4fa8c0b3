// Package server exposes the sheet proxy and the quoting session API over HTTP.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rgehrsitz/lensquote/internal/auth"
	"github.com/rgehrsitz/lensquote/internal/datasource"
	"github.com/rgehrsitz/lensquote/internal/logging"
	"github.com/rgehrsitz/lensquote/internal/session"
)

// Server wires the HTTP handlers to sessions, the auth gate and the sheet source
type Server struct {
	Sessions *session.Store
	Registry *session.Registry
	Gate     *auth.Gate

	// Upstream serves /api/sheets; nil means the sheet ID or API key is missing
	Upstream datasource.Source

	// Loader fills new sessions with tables
	Loader session.TableLoader

	Logger logging.Logger
}

// New creates a server with a fresh session store and the default command registry
func New(gate *auth.Gate, upstream datasource.Source, loader session.TableLoader, logger logging.Logger) *Server {
	logger = logging.OrNop(logger)
	return &Server{
		Sessions: session.NewStore(nil, logger),
		Registry: session.NewRegistry(),
		Gate:     gate,
		Upstream: upstream,
		Loader:   loader,
		Logger:   logger,
	}
}

// Routes builds the router
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.HandleFunc("/api/sheets", s.handleSheets)

	r.Route("/api/sessions", func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Post("/", s.handleCreateSession)
		r.Get("/{id}", s.handleGetSession)
		r.Delete("/{id}", s.handleDeleteSession)
		r.Post("/{id}/commands", s.handleCommands)
		r.Get("/{id}/catalog", s.handleCatalog)
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log().Infof("listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log().Infof("%s %s %d %s", r.Method, r.URL.Path, ww.Status(), time.Since(start).Round(time.Millisecond))
	})
}

func (s *Server) log() logging.Logger {
	return logging.OrNop(s.Logger)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}
