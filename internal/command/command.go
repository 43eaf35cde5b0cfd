// Package command implements the reserved system bangs: the embedded
// mutation language invoked inline from the search bar (!bm, !add,
// !del, !edit, !note, !remind, !find, !tabs).
//
// Every handler validates synchronously before performing any write,
// and returns exactly one Outcome. Work that does not need to complete
// before responding (title fetches, usage bumps) is detached.
package command

import (
	"context"
	"strings"
	"time"

	"github.com/MrSnakeDoc/bang/internal/domain"
	"github.com/MrSnakeDoc/bang/internal/logger"
	"github.com/MrSnakeDoc/bang/internal/tasks"
)

// Repository is the persistence surface the command handlers need.
// The Redis store implements it; tests use an in-memory fake.
type Repository interface {
	FindBang(ctx context.Context, userID, trigger string) (*domain.UserBang, error)
	SaveBang(ctx context.Context, bang *domain.UserBang) error
	DeleteBang(ctx context.Context, userID, trigger string) error
	RenameBang(ctx context.Context, bang *domain.UserBang, newTrigger string) error
	FindTab(ctx context.Context, userID, trigger string) (*domain.Tab, error)
	RenameTab(ctx context.Context, tab *domain.Tab, newTrigger string) error
	DeleteTab(ctx context.Context, userID, trigger string) error
	FindBookmarkByURL(ctx context.Context, userID, url string) (*domain.Bookmark, error)
	SaveBookmark(ctx context.Context, bookmark *domain.Bookmark) error
	SaveNote(ctx context.Context, note *domain.Note) error
	SaveReminder(ctx context.Context, reminder *domain.Reminder) error
}

// TitleFetcher retrieves a page title for a URL. Only called from
// detached tasks.
type TitleFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// reserved is the set of system bang names. These are permanently
// reserved and can never be registered as custom triggers.
var reserved = map[string]bool{
	"bm":     true,
	"add":    true,
	"del":    true,
	"edit":   true,
	"note":   true,
	"remind": true,
	"find":   true,
	"tabs":   true,
}

// Reserved reports whether a trigger (with or without its "!" prefix)
// names a system bang.
func Reserved(trigger string) bool {
	return reserved[strings.ToLower(strings.TrimPrefix(trigger, "!"))]
}

// Deps bundles what the handler needs.
type Deps struct {
	Repo    Repository
	Fetcher TitleFetcher
	Tasks   *tasks.Runner
	Logger  logger.Logger
	Now     func() time.Time // defaults to time.Now
}

// Handler dispatches reserved system bangs to their implementations.
type Handler struct {
	repo    Repository
	fetcher TitleFetcher
	tasks   *tasks.Runner
	log     logger.Logger
	now     func() time.Time
}

// New creates a command handler.
func New(d Deps) *Handler {
	now := d.Now
	if now == nil {
		now = time.Now
	}
	return &Handler{
		repo:    d.Repo,
		fetcher: d.Fetcher,
		tasks:   d.Tasks,
		log:     d.Logger,
		now:     now,
	}
}

// Dispatch runs the system bang named by the query's trigger and
// returns its Outcome. The caller must already be resolved as
// authenticated; the router never routes anonymous queries here.
func (h *Handler) Dispatch(ctx context.Context, caller *domain.Caller, q *domain.ParsedQuery) (*domain.Outcome, error) {
	switch strings.ToLower(q.TriggerBody) {
	case "bm":
		return h.bookmark(ctx, caller, q)
	case "add":
		return h.addBang(ctx, caller, q)
	case "del":
		return h.deleteTrigger(ctx, caller, q)
	case "edit":
		return h.editTrigger(ctx, caller, q)
	case "note":
		return h.note(ctx, caller, q)
	case "remind":
		return h.remind(ctx, caller, q)
	case "find":
		return h.find(q)
	case "tabs":
		return h.tabsPage()
	}
	return nil, nil
}

// requireHiddenPassword is the shared precondition for any --hide flag:
// the acting user must already have a global hidden-items password set.
func requireHiddenPassword(caller *domain.Caller) *domain.Outcome {
	if caller.Prefs == nil || caller.Prefs.HiddenPasswordHash == "" {
		return domain.ValidationAlert("Set a hidden items password in settings before hiding items.")
	}
	return nil
}
