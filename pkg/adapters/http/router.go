package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// DefaultEndpoint is the route accepting evaluation requests.
const DefaultEndpoint = "/js"

type routerConfig struct {
	endpoint string
	app      http.Handler
	metrics  http.Handler
	logger   *slog.Logger
	version  string
}

// RouterOption configures NewRouter.
type RouterOption func(*routerConfig)

// WithEndpoint sets the evaluation route. Defaults to DefaultEndpoint.
func WithEndpoint(path string) RouterOption {
	return func(c *routerConfig) {
		c.endpoint = path
	}
}

// WithApp mounts the host application at "/", next to the bridge routes.
func WithApp(app http.Handler) RouterOption {
	return func(c *routerConfig) {
		c.app = app
	}
}

// WithMetrics exposes h on GET /metrics.
func WithMetrics(h http.Handler) RouterOption {
	return func(c *routerConfig) {
		c.metrics = h
	}
}

// WithRouterLogger sets the logger used by the access log and panic recovery.
func WithRouterLogger(logger *slog.Logger) RouterOption {
	return func(c *routerConfig) {
		c.logger = logger
	}
}

// WithVersion sets the version reported by GET /info.
func WithVersion(v string) RouterOption {
	return func(c *routerConfig) {
		c.version = v
	}
}

// NewRouter builds the HTTP surface around an evaluation handler.
func NewRouter(handler http.Handler, opts ...RouterOption) (http.Handler, error) {
	cfg := routerConfig{endpoint: DefaultEndpoint, version: "dev"}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	doc, err := LoadSpec(context.Background(), cfg.endpoint)
	if err != nil {
		return nil, err
	}
	apiVersion := "unknown"
	if doc.Info != nil {
		apiVersion = doc.Info.Version
	}
	docJSON, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware(cfg.logger))
	r.Use(loggingMiddleware(cfg.logger))

	r.Post(cfg.endpoint, handler.ServeHTTP)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(r.Context(), cfg.logger, w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/info", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(r.Context(), cfg.logger, w, http.StatusOK, map[string]string{
			"app":         "actionbridge",
			"version":     strings.TrimSpace(cfg.version),
			"api_version": apiVersion,
		})
	})
	r.Get("/openapi.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write(docJSON); err != nil {
			cfg.logger.ErrorContext(r.Context(), "openapi write failed", "error", err)
		}
	})
	if cfg.metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.metrics)
	}
	if cfg.app != nil {
		r.Mount("/", cfg.app)
	}

	return r, nil
}
