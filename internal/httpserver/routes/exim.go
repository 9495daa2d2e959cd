package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/stpi-ops/portal/internal/domain"
	"github.com/stpi-ops/portal/internal/httpserver/deps"
	"github.com/stpi-ops/portal/internal/httpserver/handlers"
)

func init() { Register(registerExim) }

func registerExim(r chi.Router, d deps.Deps) {
	r.Route("/api/exim", func(r chi.Router) {
		for _, unitType := range []domain.UnitType{domain.UnitSTPI, domain.UnitNonSTPI} {
			res := handlers.NewUnitResource(d, unitType)
			r.Route("/"+string(unitType), func(r chi.Router) {
				r.Get("/", res.List())
				r.Post("/", res.Create())
				r.Put("/{id}", res.Update())
				r.Delete("/{id}", res.Delete())
			})
		}
	})
}
