package domain

import "time"

// OutcomeKind tags the response shape a resolved query produces.
type OutcomeKind string

const (
	// OutcomeRedirect is a plain HTTP redirect.
	OutcomeRedirect OutcomeKind = "redirect"
	// OutcomeAlertRedirect shows a message, then navigates.
	OutcomeAlertRedirect OutcomeKind = "alert_redirect"
	// OutcomeValidationAlert shows a message, then goes back (no write happened).
	OutcomeValidationAlert OutcomeKind = "validation_alert"
	// OutcomeGoBack silently returns to the previous page (success acknowledgment).
	OutcomeGoBack OutcomeKind = "go_back"
	// OutcomePasswordPrompt auto-submits a form to the hidden-item verification endpoint.
	OutcomePasswordPrompt OutcomeKind = "password_prompt"
	// OutcomeRetryPrompt asks the user to retype a trigger, keeping the URL.
	OutcomeRetryPrompt OutcomeKind = "retry_prompt"
)

// CacheScope is the Cache-Control scope of a redirect.
type CacheScope string

const (
	CachePublic  CacheScope = "public"
	CachePrivate CacheScope = "private"
	CacheNoStore CacheScope = "no-store"
)

// DefaultCacheDuration is the standard max-age for cacheable redirects.
const DefaultCacheDuration = time.Hour

// CachePolicy fixes the caching behavior of a redirect response.
type CachePolicy struct {
	Scope      CacheScope
	MaxAge     time.Duration
	VaryCookie bool // add Vary: Cookie so shared caches key on the session
}

// Common cache policies used by the resolver chain.
var (
	CacheNone        = CachePolicy{Scope: CacheNoStore}
	CachePublicStd   = CachePolicy{Scope: CachePublic, MaxAge: DefaultCacheDuration}
	CachePrivateStd  = CachePolicy{Scope: CachePrivate, MaxAge: DefaultCacheDuration}
	CachePrivateVary = CachePolicy{Scope: CachePrivate, MaxAge: DefaultCacheDuration, VaryCookie: true}
)

// Outcome is the single result of resolving one query. Exactly one is
// produced per request; the HTTP layer translates it into a redirect
// with cache headers or one of the inline-script response documents.
type Outcome struct {
	Kind     OutcomeKind
	Location string      // redirect target (Redirect, AlertRedirect)
	Message  string      // user-visible message (alerts, prompts, warnings)
	Cache    CachePolicy // only meaningful for Kind == OutcomeRedirect
	URL      string      // retry prompt: URL to carry into the retyped command
	ReturnTo string      // password prompt: query to re-run after verification
}

func Redirect(location string, cache CachePolicy) *Outcome {
	return &Outcome{Kind: OutcomeRedirect, Location: location, Cache: cache}
}

func AlertRedirect(message, location string, cache CachePolicy) *Outcome {
	return &Outcome{Kind: OutcomeAlertRedirect, Message: message, Location: location, Cache: cache}
}

func ValidationAlert(message string) *Outcome {
	return &Outcome{Kind: OutcomeValidationAlert, Message: message}
}

func GoBack() *Outcome {
	return &Outcome{Kind: OutcomeGoBack}
}

func PasswordPrompt(returnTo string) *Outcome {
	return &Outcome{Kind: OutcomePasswordPrompt, ReturnTo: returnTo}
}

func RetryPrompt(message, url string) *Outcome {
	return &Outcome{Kind: OutcomeRetryPrompt, Message: message, URL: url}
}
