package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/bang/internal/domain"
)

// note implements `!note [title |] content [--hide]`. A missing title
// defaults to "Untitled".
func (h *Handler) note(ctx context.Context, caller *domain.Caller, q *domain.ParsedQuery) (*domain.Outcome, error) {
	raw, hide := stripHideFlag(q.SearchTerm)

	title := "Untitled"
	content := raw
	if before, after, found := strings.Cut(raw, "|"); found {
		content = strings.TrimSpace(after)
		if t := strings.TrimSpace(before); t != "" {
			title = t
		}
	}

	if content == "" {
		return domain.ValidationAlert("Usage: !note [title |] content"), nil
	}
	if hide {
		if alert := requireHiddenPassword(caller); alert != nil {
			return alert, nil
		}
	}
	if len(title) > domain.MaxTitleLength {
		return domain.ValidationAlert(fmt.Sprintf("Note titles are limited to %d characters.", domain.MaxTitleLength)), nil
	}

	note := &domain.Note{
		ID:        uuid.NewString(),
		UserID:    caller.UserID,
		Title:     title,
		Content:   content,
		Hidden:    hide,
		CreatedAt: h.now(),
	}
	if err := h.repo.SaveNote(ctx, note); err != nil {
		return nil, fmt.Errorf("save note: %w", err)
	}

	return domain.GoBack(), nil
}
