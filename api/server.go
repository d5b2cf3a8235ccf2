/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/paychecks/*   Paycheck processing and queries
  /api/employees/*   Employee lookups, removal, and dependent creation
  /api/dependents/*  Dependent updates and removal
  /api/benefits/*    Benefit catalog
  /api/seed          Demo data loading (dev only)

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Paycheck routes
		r.Route("/paychecks", func(r chi.Router) {
			r.Get("/", h.GetPaychecks)
			r.Delete("/", h.DeletePaychecks)
			r.Post("/process", h.ProcessPaychecks)
			r.Get("/years", h.GetPaycheckYears)
			r.Post("/{id}/send", h.SendPaycheck)
		})

		// Employee and roster routes
		r.Route("/employees", func(r chi.Router) {
			r.Get("/{id}", h.GetEmployee)
			r.Delete("/{id}", h.DeleteEmployee)
			r.Get("/{id}/dependents", h.GetDependents)
			r.Post("/{id}/dependents", h.CreateDependent)
		})
		r.Route("/dependents", func(r chi.Router) {
			r.Put("/{id}", h.UpdateDependent)
			r.Delete("/{id}", h.DeleteDependent)
		})

		// Benefit catalog routes
		r.Route("/benefits", func(r chi.Router) {
			r.Get("/employee", h.ListEmployeeBenefits)
			r.Get("/dependent", h.ListDependentBenefits)
		})

		// Admin routes
		r.Post("/seed", h.LoadSeedData)
	})

	return r
}
