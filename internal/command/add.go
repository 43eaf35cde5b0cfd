package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/bang/internal/domain"
	storage "github.com/MrSnakeDoc/bang/internal/store/redis"
)

// addBang implements `!add [!]trigger url [--hide]`.
//
// The trigger namespace is shared across system bangs, the user's
// custom bangs and the user's tabs; any collision rejects the command
// before a write happens. A trigger collision keeps the typed URL and
// asks only for a new trigger.
func (h *Handler) addBang(ctx context.Context, caller *domain.Caller, q *domain.ParsedQuery) (*domain.Outcome, error) {
	term, hide := stripHideFlag(q.SearchTerm)
	rawTrigger := firstField(term)

	if rawTrigger == "" || q.URL == "" {
		return domain.ValidationAlert("Usage: !add !trigger <url>"), nil
	}

	trigger := normalizeTrigger(rawTrigger)
	if !validTriggerBody(trigger) {
		return domain.ValidationAlert("Triggers must be alphanumeric."), nil
	}
	if Reserved(trigger) {
		return domain.ValidationAlert(fmt.Sprintf("%s is a reserved command and cannot be registered.", trigger)), nil
	}
	if hide {
		if alert := requireHiddenPassword(caller); alert != nil {
			return alert, nil
		}
	}

	taken, err := h.triggerTaken(ctx, caller.UserID, trigger)
	if err != nil {
		return nil, fmt.Errorf("trigger collision check: %w", err)
	}
	if taken {
		return domain.RetryPrompt(
			fmt.Sprintf("%s is already in use. Enter a different trigger:", trigger),
			q.URL,
		), nil
	}

	action := actionForURL(q.URL)

	now := h.now()
	bang := &domain.UserBang{
		ID:        uuid.NewString(),
		UserID:    caller.UserID,
		Trigger:   trigger,
		Name:      domain.PlaceholderTitle,
		URL:       q.URL,
		Action:    action,
		Hidden:    hide,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// Placeholder row first; the real title arrives asynchronously.
	if err := h.repo.SaveBang(ctx, bang); err != nil {
		return nil, fmt.Errorf("save bang: %w", err)
	}
	h.fillBangTitle(bang)

	return domain.GoBack(), nil
}

// triggerTaken reports whether the trigger is already owned by one of
// this user's bangs or tabs.
func (h *Handler) triggerTaken(ctx context.Context, userID, trigger string) (bool, error) {
	if _, err := h.repo.FindBang(ctx, userID, trigger); err == nil {
		return true, nil
	} else if !errors.Is(err, storage.ErrNotFound) {
		return false, err
	}
	if _, err := h.repo.FindTab(ctx, userID, trigger); err == nil {
		return true, nil
	} else if !errors.Is(err, storage.ErrNotFound) {
		return false, err
	}
	return false, nil
}

// fillBangTitle fetches the real page title for a placeholder row.
func (h *Handler) fillBangTitle(bang *domain.UserBang) {
	h.tasks.Go("bang-title-fetch", func(taskCtx context.Context) error {
		title, err := h.fetcher.Fetch(taskCtx, bang.URL)
		if err != nil {
			return err
		}
		bang.Name = title
		bang.UpdatedAt = h.now()
		return h.repo.SaveBang(taskCtx, bang)
	})
}
