package handlers

import (
	"net/http"
	"net/url"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/MrSnakeDoc/bang/internal/domain"
	"github.com/MrSnakeDoc/bang/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bang/internal/httpserver/mw"
	"github.com/MrSnakeDoc/bang/internal/logger"
)

// VerifyHidden checks the hidden-items password and, on success, opens
// the verification window for the caller's session before re-running
// the original query.
func VerifyHidden(d deps.Deps) http.HandlerFunc {
	now := d.TimeNow
	if now == nil {
		now = time.Now
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id := mw.IdentityFrom(ctx)
		if id.Anonymous || id.UserID == "" {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		password := r.PostFormValue("password")
		returnTo := r.PostFormValue("return_to")

		prefs, err := d.Store.GetPreferences(ctx, id.UserID)
		if err != nil || prefs.HiddenPasswordHash == "" {
			http.Error(w, "no hidden-items password configured", http.StatusConflict)
			return
		}

		if bcrypt.CompareHashAndPassword([]byte(prefs.HiddenPasswordHash), []byte(password)) != nil {
			d.Logger.Debug("hidden password mismatch",
				logger.String("user_id", id.UserID))
			WriteOutcome(w, r, domain.PasswordPrompt(returnTo))
			return
		}

		session, err := d.Store.GetSession(ctx, sessionKey(id))
		if err != nil {
			session = &domain.SessionState{}
		}
		session.HiddenVerifiedAt = now()
		if err := d.Store.SaveSession(ctx, sessionKey(id), session); err != nil {
			d.Logger.Warn("session save failed", logger.Error(err))
		}

		http.Redirect(w, r, "/search?q="+url.QueryEscape(returnTo), http.StatusSeeOther)
	}
}
