// Package rest wires the HTTP API together.
package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"pebblevault/infrastructure/di"
	"pebblevault/interfaces/http/rest/handlers"
	"pebblevault/interfaces/http/rest/middleware"
	"pebblevault/pkg/auth"
	pkgerrors "pebblevault/pkg/errors"
)

// Router creates and configures the HTTP router
type Router struct {
	container *di.Container
	validator *auth.JWTValidator
	logger    *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(container *di.Container, validator *auth.JWTValidator) *Router {
	return &Router{
		container: container,
		validator: validator,
		logger:    container.Logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(pkgerrors.Recoverer(rt.logger))
	router.Use(middleware.Logger(rt.logger))

	if rt.container.Config.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000", "https://*.pebblevault.app"},
			AllowedMethods:   []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	pebbleHandler := handlers.NewPebbleHandler(
		rt.container.CommandBus,
		rt.container.QueryBus,
		rt.container.CreatePebbleHandler,
		rt.container.UpdatePebbleHandler,
		rt.logger,
	)
	folderHandler := handlers.NewFolderHandler(
		rt.container.CommandBus,
		rt.container.QueryBus,
		rt.container.CreateFolderHandler,
		rt.container.UpdateFolderHandler,
		rt.logger,
	)
	archiveHandler := handlers.NewArchiveHandler(
		rt.container.QueryBus,
		rt.container.GenerationService,
		rt.logger,
	)

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Authenticate(rt.validator, rt.logger))

		r.Route("/pebbles", func(r chi.Router) {
			r.Post("/", pebbleHandler.Create)
			r.Get("/", pebbleHandler.List)
			r.Get("/{pebbleID}", pebbleHandler.Get)
			r.Patch("/{pebbleID}", pebbleHandler.Update)
			r.Post("/move", pebbleHandler.Move)
			r.Post("/delete", pebbleHandler.Delete)
			r.Post("/restore", pebbleHandler.Restore)
		})

		r.Route("/folders", func(r chi.Router) {
			r.Post("/", folderHandler.Create)
			r.Get("/", folderHandler.List)
			r.Patch("/{folderID}", folderHandler.Update)
			r.Post("/{folderID}/ungroup", folderHandler.Ungroup)
		})

		r.Get("/archive", archiveHandler.GetArchive)
		r.Post("/generate", archiveHandler.Generate)
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
