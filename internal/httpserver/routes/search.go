package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/bang/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bang/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/bang/internal/httpserver/mw"
)

func init() { Register(registerSearch) }

func registerSearch(r chi.Router, d deps.Deps) {
	r.With(
		mw.EnforceHost(d.AllowedHosts, d.Logger),
		mw.Session(d.Secretary, d.CookieName, d.SessionTTL, d.Logger),
	).Get("/search", handlers.Search(d))
}
