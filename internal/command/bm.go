package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/bang/internal/domain"
	storage "github.com/MrSnakeDoc/bang/internal/store/redis"
)

// bookmark implements `!bm <url> [title] [--hide]`.
//
// All checks run before any write. The insert itself is detached: the
// response is an immediate no-store redirect to the bookmarked URL.
func (h *Handler) bookmark(ctx context.Context, caller *domain.Caller, q *domain.ParsedQuery) (*domain.Outcome, error) {
	title, hide := stripHideFlag(q.SearchTerm)

	if q.URL == "" || !domain.ValidHTTPURL(q.URL) {
		return domain.ValidationAlert("!bm needs a valid URL: !bm <url> [title]"), nil
	}
	if hide {
		if alert := requireHiddenPassword(caller); alert != nil {
			return alert, nil
		}
	}
	if len(title) > domain.MaxTitleLength {
		return domain.ValidationAlert(fmt.Sprintf("Bookmark titles are limited to %d characters.", domain.MaxTitleLength)), nil
	}

	existing, err := h.repo.FindBookmarkByURL(ctx, caller.UserID, q.URL)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("bookmark duplicate check: %w", err)
	}
	if existing != nil {
		return domain.ValidationAlert(fmt.Sprintf("Already bookmarked as %q.", existing.Title)), nil
	}

	bm := &domain.Bookmark{
		ID:        uuid.NewString(),
		UserID:    caller.UserID,
		Title:     title,
		URL:       q.URL,
		Hidden:    hide,
		CreatedAt: h.now(),
	}
	if bm.Title == "" {
		bm.Title = domain.PlaceholderTitle
	}

	h.tasks.Go("bookmark-insert", func(taskCtx context.Context) error {
		if err := h.repo.SaveBookmark(taskCtx, bm); err != nil {
			return err
		}
		if bm.Title != domain.PlaceholderTitle {
			return nil
		}
		title, err := h.fetcher.Fetch(taskCtx, bm.URL)
		if err != nil {
			return err
		}
		bm.Title = title
		return h.repo.SaveBookmark(taskCtx, bm)
	})

	return domain.Redirect(q.URL, domain.CacheNone), nil
}
