package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrSnakeDoc/bang/internal/domain"
	storage "github.com/MrSnakeDoc/bang/internal/store/redis"
)

// deleteTrigger implements `!del !trigger`.
//
// Bangs and tabs share the trigger namespace, so both tables are
// cleared for the trigger; it is an error only if neither existed.
func (h *Handler) deleteTrigger(ctx context.Context, caller *domain.Caller, q *domain.ParsedQuery) (*domain.Outcome, error) {
	rawTrigger := firstField(q.SearchTerm)
	if rawTrigger == "" {
		return domain.ValidationAlert("Usage: !del !trigger"), nil
	}
	trigger := normalizeTrigger(rawTrigger)

	deleted := 0

	err := h.repo.DeleteBang(ctx, caller.UserID, trigger)
	switch {
	case err == nil:
		deleted++
	case !errors.Is(err, storage.ErrNotFound):
		return nil, fmt.Errorf("delete bang: %w", err)
	}

	err = h.repo.DeleteTab(ctx, caller.UserID, trigger)
	switch {
	case err == nil:
		deleted++
	case !errors.Is(err, storage.ErrNotFound):
		return nil, fmt.Errorf("delete tab: %w", err)
	}

	if deleted == 0 {
		return domain.ValidationAlert(fmt.Sprintf("No custom bang or tab named %s.", trigger)), nil
	}

	return domain.GoBack(), nil
}
