// Package rest wires the HTTP surface: routing, global middleware and the
// endpoint handlers.
package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	commandbus "gironomall-backend/application/commands/bus"
	querybus "gironomall-backend/application/queries/bus"
	"gironomall-backend/application/services"
	"gironomall-backend/interfaces/http/rest/handlers"
	"gironomall-backend/interfaces/http/rest/middleware"
	"gironomall-backend/pkg/auth"
)

// Router creates and configures the HTTP router.
type Router struct {
	commandBus *commandbus.CommandBus
	queryBus   *querybus.QueryBus
	generation *services.GenerationService
	validator  *auth.JWTValidator
	enableCORS bool
	logger     *zap.Logger
}

// NewRouter creates a new router instance. A nil validator disables
// authentication.
func NewRouter(
	commandBus *commandbus.CommandBus,
	queryBus *querybus.QueryBus,
	generation *services.GenerationService,
	validator *auth.JWTValidator,
	enableCORS bool,
	logger *zap.Logger,
) *Router {
	return &Router{
		commandBus: commandBus,
		queryBus:   queryBus,
		generation: generation,
		validator:  validator,
		enableCORS: enableCORS,
		logger:     logger,
	}
}

// Setup configures all routes and middleware.
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	if rt.enableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:5173"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID", "Content-Disposition"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Health checks
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	workspaceHandler := handlers.NewWorkspaceHandler(rt.commandBus, rt.queryBus, rt.logger)
	nodeHandler := handlers.NewNodeHandler(rt.commandBus, rt.logger)
	transferHandler := handlers.NewTransferHandler(rt.commandBus, rt.queryBus, rt.logger)
	generationHandler := handlers.NewGenerationHandler(rt.generation, rt.logger)

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Authenticate(rt.validator, rt.logger))

		r.Route("/workspaces", func(r chi.Router) {
			r.Post("/", workspaceHandler.CreateWorkspace)
			r.Get("/", workspaceHandler.ListWorkspaces)
			r.Post("/import", transferHandler.ImportWorkspace)

			r.Route("/{workspaceID}", func(r chi.Router) {
				r.Get("/", workspaceHandler.GetWorkspace)
				r.Put("/", workspaceHandler.UpdateWorkspace)
				r.Delete("/", workspaceHandler.DeleteWorkspace)

				r.Get("/tree", workspaceHandler.GetTree)
				r.Get("/markdown", workspaceHandler.GetMarkdown)
				r.Post("/reorder", workspaceHandler.ReorderSiblings)
				r.Get("/export", transferHandler.ExportWorkspace)

				r.Post("/nodes", nodeHandler.CreateNode)

				r.Post("/generate-initial", generationHandler.GenerateInitialTree)
				r.Post("/followups", generationHandler.GenerateFollowups)
			})
		})

		r.Route("/nodes/{nodeID}", func(r chi.Router) {
			r.Put("/", nodeHandler.UpdateNode)
			r.Delete("/", nodeHandler.DeleteNode)
			r.Post("/reconstruct", generationHandler.ReconstructAnswer)
		})
	})

	return router
}

// healthCheck handles health check requests.
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests.
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
