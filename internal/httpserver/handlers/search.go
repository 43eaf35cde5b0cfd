package handlers

import (
	"errors"
	"net/http"

	"github.com/MrSnakeDoc/bang/internal/domain"
	"github.com/MrSnakeDoc/bang/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bang/internal/httpserver/mw"
	"github.com/MrSnakeDoc/bang/internal/logger"
	"github.com/MrSnakeDoc/bang/internal/resolve"
	storage "github.com/MrSnakeDoc/bang/internal/store/redis"
)

// Search is the single entry point of the whole engine: every query
// typed in the browser's search bar lands here as ?q=.
func Search(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		q := domain.ParseQuery(r.URL.Query().Get("q"))
		if q.Raw == "" {
			http.Redirect(w, r, d.StartURL, http.StatusFound)
			return
		}

		id := mw.IdentityFrom(ctx)
		caller := &domain.Caller{
			UserID:    id.UserID,
			SessionID: id.SessionID,
			Anonymous: id.Anonymous,
		}

		if !id.Anonymous {
			prefs, err := d.Store.GetPreferences(ctx, id.UserID)
			switch {
			case err == nil:
				caller.Prefs = prefs
			case !errors.Is(err, storage.ErrNotFound):
				d.Logger.Warn("preferences lookup failed, using defaults",
					logger.String("user_id", id.UserID),
					logger.Error(err))
			}
		}

		session, err := d.Store.GetSession(ctx, sessionKey(id))
		if err != nil {
			d.Logger.Warn("session lookup failed, starting fresh",
				logger.Error(err))
			session = &domain.SessionState{}
		}

		out, err := d.Router.Resolve(ctx, &resolve.Request{
			Query:   q,
			Caller:  caller,
			Session: session,
		})
		if err != nil {
			if errors.Is(err, resolve.ErrUnauthorized) {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			d.Logger.Error("resolve failed", logger.Error(err))
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		if id.Anonymous {
			// Persist the bumped counters first, then serve the
			// accumulated slowdown before responding.
			if err := d.Store.SaveSession(ctx, sessionKey(id), session); err != nil {
				d.Logger.Warn("session save failed", logger.Error(err))
			}
			d.Limiter.Wait(ctx, session)
		}

		WriteOutcome(w, r, out)
	}
}

// sessionKey picks the per-browser state key: the anonymous session ID,
// or the user ID once authenticated (hidden-item verification state
// lives there too).
func sessionKey(id mw.Identity) string {
	if id.Anonymous {
		return id.SessionID
	}
	return id.UserID
}
