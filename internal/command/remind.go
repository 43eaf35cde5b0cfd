package command

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/bang/internal/domain"
)

// remind implements `!remind [when] description [| content]`.
//
// The content parser splits the raw body; timing resolution supports
// the fixed small grammar (daily/weekly/monthly and explicit dates).
// When the description defaulted to "Untitled" and the content is a
// URL, the real page title is fetched asynchronously.
func (h *Handler) remind(ctx context.Context, caller *domain.Caller, q *domain.ParsedQuery) (*domain.Outcome, error) {
	parts := domain.ParseReminderContent(q.SearchTerm)
	if parts.Content == "" && q.URL != "" {
		parts.Content = q.URL
	}
	if parts.Description == "Untitled" && parts.Content == "" {
		return domain.ValidationAlert("Usage: !remind [when] description"), nil
	}

	// Preferences may not exist yet for this user.
	when := parts.When
	defaultTime, timezone := "", ""
	if prefs := caller.Prefs; prefs != nil {
		if when == "" {
			when = prefs.DefaultTiming
		}
		defaultTime = prefs.DefaultTime
		timezone = prefs.Timezone
	}
	if when == "" {
		when = "daily"
	}

	timing := domain.ParseTiming(h.now(), when, defaultTime, timezone)
	if !timing.Valid {
		return domain.ValidationAlert(fmt.Sprintf("Could not understand the reminder timing %q.", when)), nil
	}

	reminder := &domain.Reminder{
		ID:          uuid.NewString(),
		UserID:      caller.UserID,
		Description: parts.Description,
		Content:     parts.Content,
		Type:        timing.Type,
		Frequency:   timing.Frequency,
		DueAt:       timing.DueAt,
		CreatedAt:   h.now(),
	}
	if err := h.repo.SaveReminder(ctx, reminder); err != nil {
		return nil, fmt.Errorf("save reminder: %w", err)
	}

	// Only a defaulted description with a URL content earns a fetch.
	if contentURL, ok := domain.NormalizeURL(reminder.Content); ok && reminder.Description == "Untitled" {
		h.tasks.Go("reminder-title-fetch", func(taskCtx context.Context) error {
			title, err := h.fetcher.Fetch(taskCtx, contentURL)
			if err != nil {
				return err
			}
			reminder.Description = title
			return h.repo.SaveReminder(taskCtx, reminder)
		})
	}

	return domain.GoBack(), nil
}
