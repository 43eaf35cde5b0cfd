package mw

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/bang/internal/logger"
	"github.com/MrSnakeDoc/bang/internal/secretary"
)

// Identity is what the session cookie proves: either an authenticated
// user ID or an anonymous browser session ID.
type Identity struct {
	UserID    string
	SessionID string
	Anonymous bool
}

type identityKey struct{}

// IdentityFrom returns the identity the session middleware attached.
// The zero value (anonymous, empty session) means the middleware did
// not run, which only happens in tests that skip it.
func IdentityFrom(ctx context.Context) Identity {
	id, _ := ctx.Value(identityKey{}).(Identity)
	return id
}

// WithIdentity injects an identity directly; handler tests use this
// instead of minting cookies.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// Cookie payloads: "u:<userID>" for authenticated users, "a:<sessionID>"
// for anonymous browsers. Both are sealed before leaving the server.
const (
	userPrefix = "u:"
	anonPrefix = "a:"
)

// Session resolves the caller identity from the sealed cookie, minting
// a fresh anonymous session when the cookie is missing or tampered.
func Session(sec *secretary.Secretary, cookieName string, ttl time.Duration, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := identityFromCookie(sec, cookieName, r, log)
			if !ok {
				id = Identity{SessionID: uuid.New().String(), Anonymous: true}
				http.SetCookie(w, &http.Cookie{
					Name:     cookieName,
					Value:    sec.Seal(anonPrefix + id.SessionID),
					Path:     "/",
					MaxAge:   int(ttl.Seconds()),
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

func identityFromCookie(sec *secretary.Secretary, cookieName string, r *http.Request, log logger.Logger) (Identity, bool) {
	cookie, err := r.Cookie(cookieName)
	if err != nil {
		return Identity{}, false
	}
	payload, err := sec.Open(cookie.Value)
	if err != nil {
		log.Debug("rejecting unreadable session cookie", logger.Error(err))
		return Identity{}, false
	}
	switch {
	case strings.HasPrefix(payload, userPrefix):
		return Identity{UserID: strings.TrimPrefix(payload, userPrefix)}, true
	case strings.HasPrefix(payload, anonPrefix):
		return Identity{SessionID: strings.TrimPrefix(payload, anonPrefix), Anonymous: true}, true
	default:
		return Identity{}, false
	}
}
