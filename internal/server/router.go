// Package server assembles the syncd HTTP API: routing, middleware chain and
// the listener lifecycle.
package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/iudanet/screensync/internal/server/handlers"
	"github.com/iudanet/screensync/internal/server/jwt"
	"github.com/iudanet/screensync/internal/server/middleware"
	"github.com/iudanet/screensync/internal/server/storage"
)

const healthPath = "/api/v1/health"

// RouterConfig holds the dependencies of the HTTP API
type RouterConfig struct {
	Logger      *slog.Logger
	Store       storage.Storage
	Tokens      *jwt.Service
	Limiter     *middleware.RateLimiter // Limiter nil отключает ограничение частоты
	Hub         *handlers.Hub
	Version     string
	Parallelism int
}

// NewRouter builds the chi router of the API.
//
//	GET    /api/v1/health                     без аутентификации
//	GET    /api/v1/entities                   read
//	GET    /api/v1/entities/{id}              read
//	GET    /api/v1/entities/{id}/events       read (Server-Sent Events)
//	GET    /api/v1/changes                    read
//	GET    /api/v1/sync/pending               read
//	PUT    /api/v1/entities/{id}              write
//	DELETE /api/v1/entities/{id}              write
//	POST   /api/v1/sync/batch                 write
//	POST   /api/v1/conflicts/resolve          write
func NewRouter(cfg RouterConfig) http.Handler {
	hub := cfg.Hub
	if hub == nil {
		hub = handlers.NewHub(cfg.Logger)
	}

	health := handlers.NewHealthHandler(cfg.Logger, cfg.Store, cfg.Version)
	entities := handlers.NewEntityHandler(cfg.Logger, cfg.Store, hub)
	sync := handlers.NewSyncHandler(cfg.Logger, cfg.Store, hub, cfg.Parallelism)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.RecoveryMiddleware(cfg.Logger))
	r.Use(middleware.LoggingWithSkip(cfg.Logger, []string{healthPath}))

	r.Get(healthPath, health.Health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(cfg.Logger, cfg.Tokens))
		if cfg.Limiter != nil {
			r.Use(cfg.Limiter.Middleware)
		}

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireScope(cfg.Logger, jwt.ScopeRead))
			r.Get("/entities", entities.List)
			r.Get("/entities/{id}", entities.Get)
			r.Get("/entities/{id}/events", entities.Events)
			r.Get("/changes", entities.Changes)
			r.Get("/sync/pending", sync.Pending)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireScope(cfg.Logger, jwt.ScopeWrite))
			r.Put("/entities/{id}", entities.Put)
			r.Delete("/entities/{id}", entities.Delete)
			r.Post("/sync/batch", sync.Batch)
			r.Post("/conflicts/resolve", sync.Resolve)
		})
	})

	return r
}
