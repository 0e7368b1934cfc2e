/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. Logger:     Request logging
  3. Recoverer:  Panic recovery (500 instead of crash)
  4. CORS:       Cross-origin requests for back-office frontends

ROUTE GROUPS:
  /api/schedules/*       Ad-hoc schedule computation
  /api/investments/*     Investment records and their schedules
  /api/parties/*         Investors, advisors and offices
  /api/reports/*         Aggregated commission reports
  /api/payment-dates/*   Payment calendar
  /api/rates             Active rate table
  /api/reset             Database reset (dev only)
  /health                Liveness probe

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/schedules", h.ComputeSchedule)

		r.Route("/investments", func(r chi.Router) {
			r.Get("/", h.ListInvestments)
			r.Post("/", h.CreateInvestment)
			r.Get("/{id}", h.GetInvestment)
			r.Delete("/{id}", h.DeleteInvestment)
			r.Get("/{id}/schedule", h.GetInvestmentSchedule)
		})

		r.Route("/parties", func(r chi.Router) {
			r.Get("/", h.ListParties)
			r.Post("/", h.CreateParty)
			r.Get("/{id}", h.GetParty)
		})

		r.Get("/reports/commissions", h.GetCommissionReport)
		r.Get("/payment-dates/next", h.GetNextPaymentDate)
		r.Get("/rates", h.GetRates)
		r.Post("/reset", h.ResetDatabase)
	})

	return r
}
