package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/stpi-ops/portal/internal/httpserver/deps"
	"github.com/stpi-ops/portal/internal/httpserver/handlers"
)

func init() { Register(registerProjects) }

// Co-location customers keep their historical /api/projects surface,
// including the POST /add create sub-route and the single-record GET.
func registerProjects(r chi.Router, d deps.Deps) {
	res := handlers.NewCoLocationResource(d)
	r.Route("/api/projects", func(r chi.Router) {
		r.Get("/", res.List())
		r.Post("/add", res.Create())
		r.Get("/{id}", res.Get())
		r.Put("/{id}", res.Update())
		r.Delete("/{id}", res.Delete())
	})
}
