package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/stpi-ops/portal/internal/domain"
	"github.com/stpi-ops/portal/internal/httpserver/deps"
	"github.com/stpi-ops/portal/internal/httpserver/handlers"
)

func init() { Register(registerDatacom) }

// Datacom exposes the rf and lan customer lists. The section segment of the
// path fixes the discriminator for every operation underneath it.
func registerDatacom(r chi.Router, d deps.Deps) {
	r.Route("/api/datacom", func(r chi.Router) {
		for _, section := range []domain.Section{domain.SectionRF, domain.SectionLAN} {
			res := handlers.NewCustomerResource(d, section)
			r.Route("/"+string(section), func(r chi.Router) {
				r.Get("/", res.List())
				r.Post("/", res.Create())
				r.Put("/{id}", res.Update())
				r.Delete("/{id}", res.Delete())
			})
		}
	})
}
