package command

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MrSnakeDoc/bang/internal/domain"
	storage "github.com/MrSnakeDoc/bang/internal/store/redis"
)

// editTrigger implements `!edit !oldTrigger [!newTrigger] [url]`:
// rename only, URL change only, or both. Partial updates apply to
// whichever of the user's bang/tab rows match the old trigger.
func (h *Handler) editTrigger(ctx context.Context, caller *domain.Caller, q *domain.ParsedQuery) (*domain.Outcome, error) {
	tokens := strings.Fields(q.SearchTerm)
	if len(tokens) == 0 {
		return domain.ValidationAlert("Usage: !edit !trigger [!newtrigger] [url]"), nil
	}

	oldTrigger := normalizeTrigger(tokens[0])
	var newTrigger string
	if len(tokens) > 1 {
		newTrigger = normalizeTrigger(tokens[1])
	}
	newURL := q.URL

	if newTrigger == "" && newURL == "" {
		return domain.ValidationAlert("Nothing to change: give a new trigger, a new URL, or both."), nil
	}

	if newTrigger != "" && newTrigger != oldTrigger {
		if !validTriggerBody(newTrigger) {
			return domain.ValidationAlert("Triggers must be alphanumeric."), nil
		}
		if Reserved(newTrigger) {
			return domain.ValidationAlert(fmt.Sprintf("%s is a reserved command and cannot be used.", newTrigger)), nil
		}
		taken, err := h.triggerTaken(ctx, caller.UserID, newTrigger)
		if err != nil {
			return nil, fmt.Errorf("trigger collision check: %w", err)
		}
		if taken {
			return domain.ValidationAlert(fmt.Sprintf("%s is already in use.", newTrigger)), nil
		}
	}

	bang, err := h.repo.FindBang(ctx, caller.UserID, oldTrigger)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("find bang: %w", err)
	}
	tab, err := h.repo.FindTab(ctx, caller.UserID, oldTrigger)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("find tab: %w", err)
	}

	if bang == nil && tab == nil {
		return domain.ValidationAlert(fmt.Sprintf("No custom bang or tab named %s.", oldTrigger)), nil
	}
	if newURL != "" && bang == nil {
		// Only a tab matched: tabs hold a list of URLs, not one.
		return domain.ValidationAlert(fmt.Sprintf("%s is a tab and has no single URL to change.", oldTrigger)), nil
	}

	if bang != nil {
		refetch := false
		if newURL != "" {
			if !domain.ValidHTTPURL(newURL) {
				return domain.ValidationAlert("That is not a valid URL."), nil
			}
			bang.URL = newURL
			bang.Action = actionForURL(newURL)
			bang.Name = domain.PlaceholderTitle
			refetch = true
		}
		bang.UpdatedAt = h.now()

		if newTrigger != "" && newTrigger != oldTrigger {
			if err := h.repo.RenameBang(ctx, bang, newTrigger); err != nil {
				return nil, fmt.Errorf("rename bang: %w", err)
			}
		} else if err := h.repo.SaveBang(ctx, bang); err != nil {
			return nil, fmt.Errorf("save bang: %w", err)
		}
		if refetch {
			h.fillBangTitle(bang)
		}
	}

	if tab != nil && newTrigger != "" && newTrigger != oldTrigger {
		if err := h.repo.RenameTab(ctx, tab, newTrigger); err != nil {
			return nil, fmt.Errorf("rename tab: %w", err)
		}
	}

	return domain.GoBack(), nil
}
