package resolve

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/MrSnakeDoc/bang/internal/command"
	"github.com/MrSnakeDoc/bang/internal/directory"
	"github.com/MrSnakeDoc/bang/internal/domain"
	"github.com/MrSnakeDoc/bang/internal/ratelimit"
	storage "github.com/MrSnakeDoc/bang/internal/store/redis"
	"github.com/MrSnakeDoc/bang/internal/tasks"
)

// ─────────────────────────────────────────────────────────────────
// 1. Anonymous caller: only the curated directory and the default
// provider. No mutation commands, no user data. The rate limiter
// counts the search here; the HTTP layer applies the accumulated delay.
// ─────────────────────────────────────────────────────────────────

type anonymousResolver struct {
	dir       *directory.Directory
	limiter   *ratelimit.Limiter
	searchURL string
}

func (a *anonymousResolver) Name() string { return "anonymous" }

func (a *anonymousResolver) Try(_ context.Context, req *Request) (*domain.Outcome, error) {
	if !req.Caller.Anonymous {
		return nil, nil
	}

	a.limiter.Track(req.Session)
	warning := a.limiter.WarningFor(req.Session.SearchCount)

	q := req.Query
	var out *domain.Outcome
	if q.Type == domain.CommandBang {
		if entry, ok := a.dir.Lookup(q.TriggerBody); ok {
			if q.SearchTerm != "" {
				out = domain.Redirect(entry.SearchURL(q.SearchTerm), domain.CachePrivateVary)
			} else {
				out = domain.Redirect(entry.HomeURL(), domain.CachePublicStd)
			}
		}
	}
	if out == nil {
		term := q.SearchTerm
		if term == "" {
			term = q.Raw
		}
		cache := domain.CachePrivateStd
		if q.Type == domain.CommandBang && q.SearchTerm == "" {
			// An unmatched bang must never be cached: the trigger may
			// become valid later.
			cache = domain.CacheNone
		}
		out = domain.Redirect(domain.ExpandTemplate(a.searchURL, term), cache)
	}

	if warning != "" {
		return domain.AlertRedirect(warning, out.Location, out.Cache), nil
	}
	return out, nil
}

// ─────────────────────────────────────────────────────────────────
// 2. Direct @commands: in-app navigation shortcuts.
// ─────────────────────────────────────────────────────────────────

// directPaths maps @triggers to their static in-app pages.
var directPaths = map[string]string{
	"notes":     "/notes",
	"bookmarks": "/bookmarks",
	"reminders": "/reminders",
	"tabs":      "/tabs",
	"bangs":     "/bangs",
	"settings":  "/settings",
	"u":         "/users",
	"user":      "/users",
	"users":     "/users",
}

type directResolver struct{}

func (d *directResolver) Name() string { return "direct" }

func (d *directResolver) Try(_ context.Context, req *Request) (*domain.Outcome, error) {
	q := req.Query
	if q.Type != domain.CommandDirect {
		return nil, nil
	}

	body := strings.ToLower(q.TriggerBody)
	path, ok := directPaths[body]
	if !ok {
		return nil, nil
	}
	if path == "/users" && (req.Caller.Prefs == nil || !req.Caller.Prefs.Admin) {
		return nil, ErrUnauthorized
	}

	if q.SearchTerm != "" {
		path += "?search=" + url.QueryEscape(q.SearchTerm)
	}
	return domain.Redirect(path, domain.CachePrivateStd), nil
}

// ─────────────────────────────────────────────────────────────────
// 3. Reserved system bangs: the mutation command language. Takes
// precedence even over an identically named user bang.
// ─────────────────────────────────────────────────────────────────

type systemBangResolver struct {
	commands *command.Handler
}

func (s *systemBangResolver) Name() string { return "system-bang" }

func (s *systemBangResolver) Try(ctx context.Context, req *Request) (*domain.Outcome, error) {
	q := req.Query
	if q.Type != domain.CommandBang || !command.Reserved(q.TriggerBody) {
		return nil, nil
	}
	return s.commands.Dispatch(ctx, req.Caller, q)
}

// ─────────────────────────────────────────────────────────────────
// 4. User-owned custom bangs.
// ─────────────────────────────────────────────────────────────────

type userBangResolver struct {
	store Store
	tasks *tasks.Runner
	now   func() time.Time
}

func (u *userBangResolver) Name() string { return "user-bang" }

func (u *userBangResolver) Try(ctx context.Context, req *Request) (*domain.Outcome, error) {
	q := req.Query
	if q.Type != domain.CommandBang {
		return nil, nil
	}

	bang, err := u.store.FindBang(ctx, req.Caller.UserID, q.Trigger)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	switch bang.Action {
	case domain.ActionSearch:
		u.bumpUsage(req.Caller.UserID, bang.Trigger)
		// The substitution is request-specific; never cache it.
		return domain.Redirect(domain.ExpandTemplate(bang.URL, q.SearchTerm), domain.CacheNone), nil

	case domain.ActionBookmark:
		u.bumpUsage(req.Caller.UserID, bang.Trigger)
		return domain.Redirect("/bookmarks#bm-"+bang.ID, domain.CachePrivateStd), nil

	default: // redirect
		// A password prompt is not a use; count only real navigation.
		if bang.Hidden && !req.Session.HiddenVerified(u.now()) {
			return domain.PasswordPrompt(q.Raw), nil
		}
		u.bumpUsage(req.Caller.UserID, bang.Trigger)
		return domain.Redirect(bang.URL, domain.CachePrivateStd), nil
	}
}

// bumpUsage records a bang hit off the response path.
func (u *userBangResolver) bumpUsage(userID, trigger string) {
	u.tasks.Go("bang-usage-bump", func(taskCtx context.Context) error {
		return u.store.BumpBangUsage(taskCtx, userID, trigger)
	})
}

// ─────────────────────────────────────────────────────────────────
// 5. Tabs: exact trigger match, no search term support.
// ─────────────────────────────────────────────────────────────────

type tabResolver struct {
	store Store
}

func (t *tabResolver) Name() string { return "tab" }

func (t *tabResolver) Try(ctx context.Context, req *Request) (*domain.Outcome, error) {
	q := req.Query
	if q.Type != domain.CommandBang {
		return nil, nil
	}

	tab, err := t.store.FindTab(ctx, req.Caller.UserID, q.Trigger)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return domain.Redirect("/tabs/"+tab.ID+"/launch", domain.CachePrivateVary), nil
}

// ─────────────────────────────────────────────────────────────────
// 6. Curated system bang directory.
// ─────────────────────────────────────────────────────────────────

type directoryResolver struct {
	dir *directory.Directory
}

func (d *directoryResolver) Name() string { return "directory" }

func (d *directoryResolver) Try(_ context.Context, req *Request) (*domain.Outcome, error) {
	q := req.Query
	if q.Type != domain.CommandBang {
		return nil, nil
	}

	entry, ok := d.dir.Lookup(q.TriggerBody)
	if !ok {
		return nil, nil
	}

	if q.SearchTerm != "" {
		return domain.Redirect(entry.SearchURL(q.SearchTerm), domain.CachePrivateVary), nil
	}
	return domain.Redirect(entry.HomeURL(), domain.CachePublicStd), nil
}

// ─────────────────────────────────────────────────────────────────
// 7. Fallback: the caller's preferred provider.
// ─────────────────────────────────────────────────────────────────

type fallbackResolver struct {
	searchURL string
}

func (f *fallbackResolver) Name() string { return "fallback" }

func (f *fallbackResolver) Try(_ context.Context, req *Request) (*domain.Outcome, error) {
	q := req.Query

	provider := f.searchURL
	if req.Caller.Prefs != nil && req.Caller.Prefs.SearchURL != "" {
		provider = req.Caller.Prefs.SearchURL
	}
	if provider == "" {
		provider = defaultProvider
	}

	term := q.SearchTerm
	if term == "" {
		term = q.Raw
	}

	cache := domain.CachePrivateStd
	if q.Type == domain.CommandBang && q.SearchTerm == "" {
		// A bang that matched nothing anywhere: the trigger may become
		// valid later, so the response must never be cached.
		cache = domain.CacheNone
	}
	return domain.Redirect(domain.ExpandTemplate(provider, term), cache), nil
}
