package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/stpi-ops/portal/internal/domain"
	"github.com/stpi-ops/portal/internal/httpserver/deps"
	"github.com/stpi-ops/portal/internal/httpserver/handlers"
)

func init() { Register(registerIncubation) }

// Incubation tenants live in the customers collection with a fixed
// "incubation" section, so incubation and datacom lists never overlap.
func registerIncubation(r chi.Router, d deps.Deps) {
	res := handlers.NewCustomerResource(d, domain.SectionIncubation)
	r.Route("/api/incubation", func(r chi.Router) {
		r.Get("/", res.List())
		r.Post("/", res.Create())
		r.Put("/{id}", res.Update())
		r.Delete("/{id}", res.Delete())
	})
}
