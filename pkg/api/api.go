// Package api implements the retrodesk REST endpoints: desktop items,
// image uploads, kind messages and the health checks.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"retrodesk/pkg/mail"
	"retrodesk/pkg/router"
	"retrodesk/pkg/server"
	"retrodesk/pkg/store"
)

// maxJSONBody bounds JSON request bodies.
const maxJSONBody = 1 << 20

// Config wires the API to its backends.
type Config struct {
	Store *store.Store
	// Mailer may be nil; email requests then answer 503.
	Mailer     *mail.Mailer
	UploadsDir string
	CORSOrigin string
	Logger     *slog.Logger
}

// API serves the REST endpoints.
type API struct {
	store      *store.Store
	mailer     *mail.Mailer
	uploadsDir string
	logger     *slog.Logger
	router     *router.Router
}

// New builds the API and its routes. A nil store behaves like an
// unavailable one.
func New(cfg Config) (*API, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Store == nil {
		cfg.Store = &store.Store{}
	}
	if cfg.UploadsDir == "" {
		cfg.UploadsDir = "uploads"
	}
	if err := os.MkdirAll(cfg.UploadsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory: %w", err)
	}

	a := &API{
		store:      cfg.Store,
		mailer:     cfg.Mailer,
		uploadsDir: cfg.UploadsDir,
		logger:     cfg.Logger,
		router:     router.New(),
	}

	r := a.router
	r.Use(
		router.RecoveryMiddleware(cfg.Logger),
		router.RequestIDMiddleware(),
		router.LoggingMiddleware(cfg.Logger),
		router.CORSMiddleware(cfg.CORSOrigin),
	)

	r.GET("/api/desktop/items", http.HandlerFunc(a.listItems))
	r.POST("/api/desktop/items", http.HandlerFunc(a.createItem))
	r.PUT("/api/desktop/items/:id", http.HandlerFunc(a.moveItem))
	r.DELETE("/api/desktop/items/:id", http.HandlerFunc(a.deleteItem))

	r.GET("/api/images", http.HandlerFunc(a.listImages))
	r.POST("/api/images/upload", http.HandlerFunc(a.uploadImage))
	r.DELETE("/api/images/:id", http.HandlerFunc(a.deleteImage))

	r.POST("/api/email/send", http.HandlerFunc(a.sendEmail))

	r.GET("/uploads/*", http.StripPrefix("/uploads", server.FileServer(cfg.UploadsDir)))
	r.GET("/health", server.HealthHandler())
	r.GET("/ready", server.ReadyHandler(cfg.Store.Ping))

	return a, nil
}

// ServeHTTP implements http.Handler.
func (a *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

// decodeJSON reads a bounded JSON body into v.
func decodeJSON(r *http.Request, v any) error {
	err := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody)).Decode(v)
	if errors.Is(err, io.EOF) {
		return errors.New("request body is empty")
	}
	return err
}

// storeError maps store errors onto status codes.
func (a *API) storeError(w http.ResponseWriter, err error, op string) {
	var ve *store.ValidationError
	switch {
	case errors.Is(err, store.ErrUnavailable):
		router.WriteError(w, http.StatusServiceUnavailable, "Storage unavailable")
	case errors.Is(err, store.ErrNotFound):
		router.WriteError(w, http.StatusNotFound, op+": not found")
	case errors.As(err, &ve):
		router.WriteError(w, http.StatusBadRequest, ve.Error())
	default:
		a.logger.Error("api: "+op+" failed", "error", err)
		router.WriteError(w, http.StatusInternalServerError, "Failed to "+op)
	}
}
