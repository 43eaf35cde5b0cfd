// Package resolve implements the fixed-priority resolver chain that
// decides which namespace owns a query: anonymous handling, direct
// @commands, reserved system bangs, user bangs, tabs, the curated
// directory, and the provider fallback. The chain is evaluated in that
// exact order and the first match wins.
package resolve

import (
	"context"
	"errors"
	"time"

	"github.com/MrSnakeDoc/bang/internal/command"
	"github.com/MrSnakeDoc/bang/internal/directory"
	"github.com/MrSnakeDoc/bang/internal/domain"
	"github.com/MrSnakeDoc/bang/internal/logger"
	"github.com/MrSnakeDoc/bang/internal/ratelimit"
	"github.com/MrSnakeDoc/bang/internal/tasks"
)

// ErrUnauthorized aborts resolution and is surfaced by the HTTP layer;
// it is the one resolver error that does not degrade to "no match".
var ErrUnauthorized = errors.New("unauthorized")

// Store is the lookup surface the resolvers need. The Redis store
// implements it; tests use an in-memory fake.
type Store interface {
	FindBang(ctx context.Context, userID, trigger string) (*domain.UserBang, error)
	FindTab(ctx context.Context, userID, trigger string) (*domain.Tab, error)
	BumpBangUsage(ctx context.Context, userID, trigger string) error
}

// Request carries one query plus its caller identity through the chain.
type Request struct {
	Query   *domain.ParsedQuery
	Caller  *domain.Caller
	Session *domain.SessionState
}

// Resolver is one strategy in the chain. Returning (nil, nil) declines;
// a non-nil Outcome wins and short-circuits the rest.
type Resolver interface {
	Name() string
	Try(ctx context.Context, req *Request) (*domain.Outcome, error)
}

// Config bundles the router's collaborators.
type Config struct {
	Store            Store
	Directory        *directory.Directory
	Commands         *command.Handler
	Limiter          *ratelimit.Limiter
	Tasks            *tasks.Runner
	Logger           logger.Logger
	DefaultSearchURL string           // anonymous / fallback provider template
	Now              func() time.Time // defaults to time.Now
}

// Router walks the resolver chain in fixed order.
type Router struct {
	chain []Resolver
	log   logger.Logger
}

// NewRouter builds the chain in its priority order.
func NewRouter(cfg Config) *Router {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Router{
		log: cfg.Logger,
		chain: []Resolver{
			&anonymousResolver{dir: cfg.Directory, limiter: cfg.Limiter, searchURL: cfg.DefaultSearchURL},
			&directResolver{},
			&systemBangResolver{commands: cfg.Commands},
			&userBangResolver{store: cfg.Store, tasks: cfg.Tasks, now: now},
			&tabResolver{store: cfg.Store},
			&directoryResolver{dir: cfg.Directory},
			&fallbackResolver{searchURL: cfg.DefaultSearchURL},
		},
	}
}

// Resolve returns exactly one Outcome for the request. Resolver errors
// are logged and treated as "no match at this step" so the chain
// degrades gracefully; only ErrUnauthorized aborts.
func (r *Router) Resolve(ctx context.Context, req *Request) (*domain.Outcome, error) {
	for _, res := range r.chain {
		out, err := res.Try(ctx, req)
		if err != nil {
			if errors.Is(err, ErrUnauthorized) {
				return nil, err
			}
			r.log.Warn("resolver failed, continuing",
				logger.String("resolver", res.Name()),
				logger.Error(err))
			continue
		}
		if out != nil {
			r.log.Debug("query resolved",
				logger.String("resolver", res.Name()),
				logger.String("kind", string(out.Kind)))
			return out, nil
		}
	}

	// The fallback always matches; this is only reachable if it errored.
	term := req.Query.SearchTerm
	if term == "" {
		term = req.Query.Raw
	}
	return domain.Redirect(domain.ExpandTemplate(defaultProvider, term), domain.CachePrivateStd), nil
}

// defaultProvider is the last-resort search template when no provider
// is configured at all.
const defaultProvider = "https://duckduckgo.com/?q={query}"
