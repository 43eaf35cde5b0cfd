package handlers

import (
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/MrSnakeDoc/bang/internal/domain"
)

// writeCacheHeaders translates an outcome's cache policy into headers.
// Redirects for per-user data are private; anything involving an
// unmatched bang or a mutation is never cached.
func writeCacheHeaders(w http.ResponseWriter, cache domain.CachePolicy) {
	h := w.Header()
	switch cache.Scope {
	case domain.CachePublic:
		h.Set("Cache-Control", "public, max-age="+strconv.Itoa(int(cache.MaxAge.Seconds())))
		h.Set("Expires", time.Now().Add(cache.MaxAge).UTC().Format(http.TimeFormat))
	case domain.CachePrivate:
		h.Set("Cache-Control", "private, max-age="+strconv.Itoa(int(cache.MaxAge.Seconds())))
	default:
		h.Set("Cache-Control", "no-store")
	}
	if cache.VaryCookie {
		h.Add("Vary", "Cookie")
	}
}

// WriteOutcome renders exactly one outcome. Plain redirects use a real
// 302; everything that needs user interaction (alerts, history
// navigation, password entry) is a tiny inline-script page, since the
// search bar is the only UI this flow has.
func WriteOutcome(w http.ResponseWriter, r *http.Request, out *domain.Outcome) {
	writeCacheHeaders(w, out.Cache)

	switch out.Kind {
	case domain.OutcomeRedirect:
		http.Redirect(w, r, out.Location, http.StatusFound)

	case domain.OutcomeAlertRedirect:
		writeScript(w, fmt.Sprintf(`alert(%q);window.location.replace(%q);`,
			out.Message, out.Location))

	case domain.OutcomeValidationAlert:
		writeScript(w, fmt.Sprintf(`alert(%q);history.back();`, out.Message))

	case domain.OutcomeGoBack:
		writeScript(w, `history.back();`)

	case domain.OutcomePasswordPrompt:
		writePasswordForm(w, out.ReturnTo)

	case domain.OutcomeRetryPrompt:
		writeScript(w, fmt.Sprintf(
			`var v=prompt(%q,%q);if(v){window.location.replace("/search?q="+encodeURIComponent(v));}else{history.back();}`,
			out.Message, out.URL))

	default:
		http.Redirect(w, r, out.Location, http.StatusFound)
	}
}

func writeScript(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, "<!DOCTYPE html><html><head><script>%s</script></head><body></body></html>", body)
}

var passwordFormTmpl = template.Must(template.New("password").Parse(`<!DOCTYPE html>
<html><head><title>Hidden item</title></head><body>
<form method="post" action="/verify-hidden">
<input type="hidden" name="return_to" value="{{.ReturnTo}}">
<label>Password: <input type="password" name="password" autofocus></label>
<button type="submit">Unlock</button>
</form>
</body></html>
`))

func writePasswordForm(w http.ResponseWriter, returnTo string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = passwordFormTmpl.Execute(w, struct{ ReturnTo string }{ReturnTo: returnTo})
}
