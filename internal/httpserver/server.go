// internal/httpserver/server.go
package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrSnakeDoc/swaply-web/internal/config"
	"github.com/MrSnakeDoc/swaply-web/internal/httpserver/deps"
	"github.com/MrSnakeDoc/swaply-web/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/swaply-web/internal/httpserver/mw"
	"github.com/MrSnakeDoc/swaply-web/internal/httpserver/routes"
	"github.com/MrSnakeDoc/swaply-web/internal/logger"
)

// Server wraps the HTTP server and its dependencies.
type Server struct {
	http    *http.Server
	logger  logger.Logger
	started time.Time
}

// New builds the HTTP server (router, middlewares, route registration).
func New(cfg *config.Config, loggerClient logger.Logger, d deps.Deps) *Server {
	d.APIMiddleware = APIMiddleware(cfg)

	s := &http.Server{
		Addr:              cfg.ListenPort,
		Handler:           NewRouter(loggerClient, d),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	return &Server{
		http:    s,
		logger:  loggerClient,
		started: d.StartTime,
	}
}

// NewRouter mounts every registered route on a fresh chi router.
func NewRouter(loggerClient logger.Logger, d deps.Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.GetHead)
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Second))
	r.Use(mw.Log(loggerClient, d.TrustProxy))

	routes.RegisterAll(r, d)
	r.NotFound(handlers.NotFound(d))

	return r
}

// APIMiddleware is shared by every /api route: CORS for the app webviews and
// one per-IP limiter.
func APIMiddleware(cfg *config.Config) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		cors.Handler(cors.Options{
			AllowedOrigins: cfg.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"},
			MaxAge:         300,
		}),
		mw.RateLimit(mw.RateLimitConfig{
			Burst:             cfg.RateBurst,
			RefillPerIPPerMin: cfg.RatePerMinute,
			MaxEntries:        10000,
			TrustProxy:        cfg.TrustProxy,
		}),
	}
}

// Start runs the HTTP server (blocks until error or shutdown).
func (s *Server) Start() error {
	s.logger.Infof("HTTP server listening on %s", s.http.Addr)
	err := s.http.ListenAndServe()
	// http.ErrServerClosed is expected on graceful shutdown.
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Stop gracefully shuts down the server with the provided context deadline.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("HTTP server shutting down...",
		logger.Duration("uptime", time.Since(s.started)))
	return s.http.Shutdown(ctx)
}
