// Package server exposes the bot's HTTP surface: health and info
// endpoints, the Slack Events API endpoint and the browser websocket.
package server

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/nathfavour/statussage/pkg/catalog"
	"github.com/nathfavour/statussage/pkg/logging"
)

const shutdownTimeout = 5 * time.Second

// Config holds the dependencies for Routes. SlackEvents and Browser are
// optional; their routes are only mounted when set.
type Config struct {
	Provider    string
	Catalog     *catalog.Catalog
	SlackEvents http.Handler
	Browser     http.Handler
	Logger      logging.Logger
}

type Server struct {
	cfg Config
	log logging.Logger
}

func New(cfg Config) (*Server, error) {
	if cfg.Catalog == nil {
		return nil, errors.New("server: catalog required")
	}
	log := cfg.Logger
	if log == nil {
		log = logging.Nop()
	}
	return &Server{cfg: cfg, log: log}, nil
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /{$}", s.handleIndex)
	if s.cfg.SlackEvents != nil {
		mux.Handle("POST /slack/events", s.cfg.SlackEvents)
	}
	if s.cfg.Browser != nil {
		mux.Handle("GET /ws", s.cfg.Browser)
	}
	return s.logMiddleware(mux)
}

// ListenAndServe serves Routes on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.log.Info("http server shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}

type healthResponse struct {
	Status      string `json:"status"`
	LLMProvider string `json:"llm_provider"`
}

type indexResponse struct {
	Message     string   `json:"message"`
	LLMProvider string   `json:"llm_provider"`
	StatusTypes []string `json:"status_types"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, healthResponse{Status: "healthy", LLMProvider: s.cfg.Provider})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	types := s.cfg.Catalog.Types()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	writeJSON(w, indexResponse{
		Message:     "StatusSage Bot is running!",
		LLMProvider: s.cfg.Provider,
		StatusTypes: names,
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// Hijack is required by the websocket upgrade on /ws.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("server: response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}
