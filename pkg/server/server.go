package server

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// apiPrefixes are the paths that never fall through to the static client.
var apiPrefixes = []string{"/api/", "/uploads/", "/health", "/ready"}

// Server represents an HTTP server that hands API paths to a handler and
// everything else to the static client build.
type Server struct {
	addr            string
	handler         http.Handler
	server          *http.Server
	tlsConfig       *tls.Config
	staticHandler   http.Handler
	shutdownTimeout time.Duration
	logger          *slog.Logger

	mu       sync.RWMutex
	started  bool
	listener net.Listener
}

// Config holds server configuration.
type Config struct {
	Addr            string
	Handler         http.Handler
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	// TLS enables HTTPS when set.
	TLS *TLSConfig
	// StaticDir holds the built client; non-API GETs that miss a file get
	// its index.html.
	StaticDir string
	Logger    *slog.Logger
}

// New creates a new HTTP server with the given configuration.
func New(cfg Config) (*Server, error) {
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 30 * time.Second
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 30 * time.Second
	}
	if cfg.IdleTimeout == 0 {
		cfg.IdleTimeout = 120 * time.Second
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	s := &Server{
		addr:            cfg.Addr,
		handler:         cfg.Handler,
		shutdownTimeout: cfg.ShutdownTimeout,
		logger:          cfg.Logger,
	}
	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(cfg.Logger.Handler(), slog.LevelWarn),
	}

	if cfg.TLS != nil {
		certs, err := cfg.TLS.LoadCertificates()
		if err != nil {
			return nil, err
		}
		s.tlsConfig = ServerTLSConfig(certs)
		s.server.TLSConfig = s.tlsConfig
	}
	if cfg.StaticDir != "" {
		h := NewStaticFileHandler(cfg.StaticDir)
		h.SetFallback("index.html")
		s.staticHandler = h
	}
	return s, nil
}

// isAPIPath reports whether path belongs to the API rather than the client.
func isAPIPath(path string) bool {
	for _, p := range apiPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// ServeHTTP implements http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if s.staticHandler != nil && !isAPIPath(r.URL.Path) &&
		(r.Method == http.MethodGet || r.Method == http.MethodHead) {
		s.staticHandler.ServeHTTP(w, r)
		return
	}
	if s.handler != nil {
		s.handler.ServeHTTP(w, r)
		return
	}
	http.NotFound(w, r)
}

// Serve listens on the configured address and serves until ctx is
// cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener serves on ln until ctx is cancelled.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		ln.Close()
		return fmt.Errorf("server already started")
	}
	s.started = true
	s.listener = ln
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", ln.Addr().String(), "tls", s.tlsConfig != nil)
		if s.tlsConfig != nil {
			errCh <- s.server.ServeTLS(ln, "", "")
		} else {
			errCh <- s.server.Serve(ln)
		}
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		// The http.Server was not shut down, so it may be served again.
		s.mu.Lock()
		s.started = false
		s.listener = nil
		s.mu.Unlock()
		return err
	case <-ctx.Done():
	}

	s.logger.Info("http server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("http: graceful shutdown failed", "error", err)
		s.server.Close()
	}
	<-errCh
	return ctx.Err()
}

// Addr returns the bound address once serving, or the configured one.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// Started returns whether the server has been started.
func (s *Server) Started() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}

// String names the service in supervisor logs.
func (s *Server) String() string {
	return "http-server"
}

func writeStatus(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(v)
}

// HealthHandler returns a handler for liveness checks.
func HealthHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, map[string]string{"status": "healthy"})
	})
}

// ReadyHandler reports readiness and whether storage answers. The desktop
// runs without a database, so a failing check does not make it unready.
func ReadyHandler(storage func(context.Context) error) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		state := "available"
		if storage == nil {
			state = "unavailable"
		} else if err := storage(r.Context()); err != nil {
			state = "unavailable"
		}
		writeStatus(w, map[string]string{"status": "ready", "storage": state})
	})
}
