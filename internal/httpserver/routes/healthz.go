package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/bang/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bang/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/bang/internal/httpserver/mw"
)

func init() { Register(registerHealthz) }

func registerHealthz(r chi.Router, d deps.Deps) {
	guarded := r.With(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger))
	guarded.Get("/healthz", handlers.Healthz(d))
	guarded.Get("/infra", handlers.Infra(d))
}
