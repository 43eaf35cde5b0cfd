package handlers

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/MrSnakeDoc/bang/internal/domain"
)

func record(out *domain.Outcome) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/search?q=test", nil)
	WriteOutcome(w, r, out)
	return w
}

func TestWriteOutcomeRedirect(t *testing.T) {
	w := record(domain.Redirect("https://example.com", domain.CachePublicStd))

	assert.Equal(t, 302, w.Code)
	assert.Equal(t, "https://example.com", w.Header().Get("Location"))
	assert.Equal(t, "public, max-age=3600", w.Header().Get("Cache-Control"))
	assert.NotEmpty(t, w.Header().Get("Expires"))
}

func TestWriteOutcomePrivateVary(t *testing.T) {
	w := record(domain.Redirect("/tabs/t1/launch", domain.CachePrivateVary))

	assert.Equal(t, "private, max-age=3600", w.Header().Get("Cache-Control"))
	assert.Equal(t, "Cookie", w.Header().Get("Vary"))
}

func TestWriteOutcomeNoStore(t *testing.T) {
	w := record(domain.Redirect("https://foo.example/?q=x", domain.CacheNone))

	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	assert.Empty(t, w.Header().Get("Expires"))
}

func TestWriteOutcomeAlertRedirect(t *testing.T) {
	w := record(domain.AlertRedirect("slow down", "https://example.com", domain.CacheNone))

	assert.Equal(t, 200, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "alert(")
	assert.Contains(t, body, "slow down")
	assert.Contains(t, body, "window.location.replace")
	assert.Contains(t, body, "https://example.com")
}

func TestWriteOutcomeValidationAlert(t *testing.T) {
	w := record(domain.ValidationAlert(`URL is required for "bookmark"`))

	body := w.Body.String()
	assert.Contains(t, body, "alert(")
	assert.Contains(t, body, "history.back()")
	// Quotes in the message must not break out of the script string.
	assert.NotContains(t, body, `alert("URL is required for "bookmark"`)
}

func TestWriteOutcomeGoBack(t *testing.T) {
	w := record(domain.GoBack())

	assert.Contains(t, w.Body.String(), "history.back()")
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}

func TestWriteOutcomePasswordPrompt(t *testing.T) {
	w := record(domain.PasswordPrompt("!secret stuff"))

	body := w.Body.String()
	assert.Contains(t, body, `action="/verify-hidden"`)
	assert.Contains(t, body, `name="password"`)
	assert.Contains(t, body, "!secret stuff")
}

func TestWriteOutcomePasswordPromptEscapesReturnTo(t *testing.T) {
	w := record(domain.PasswordPrompt(`"><script>alert(1)</script>`))

	assert.NotContains(t, w.Body.String(), "<script>alert(1)</script>")
}

func TestWriteOutcomeRetryPrompt(t *testing.T) {
	w := record(domain.RetryPrompt("trigger already in use", "https://custom.example"))

	body := w.Body.String()
	assert.Contains(t, body, "prompt(")
	assert.Contains(t, body, "https://custom.example")
	assert.Contains(t, body, "/search?q=")
}

func TestCustomCacheDuration(t *testing.T) {
	w := record(domain.Redirect("https://example.com", domain.CachePolicy{
		Scope:  domain.CachePublic,
		MaxAge: 2 * time.Minute,
	}))

	assert.Equal(t, "public, max-age=120", w.Header().Get("Cache-Control"))
}
