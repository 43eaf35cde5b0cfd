package routes

import (
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/bang/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bang/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/bang/internal/httpserver/mw"
)

func init() { Register(registerVerify) }

func registerVerify(r chi.Router, d deps.Deps) {
	// Tight per-IP budget: this endpoint takes password guesses.
	limit := mw.RateLimit(mw.RateLimitConfig{
		Burst:             5,
		RefillPerIPPerMin: 5,
		MaxEntries:        10_000,
		IdleTTL:           15 * time.Minute,
		TrustProxy:        d.TrustProxy,
	})

	r.With(
		mw.EnforceHost(d.AllowedHosts, d.Logger),
		mw.Session(d.Secretary, d.CookieName, d.SessionTTL, d.Logger),
		limit,
	).Post("/verify-hidden", handlers.VerifyHidden(d))
}
