package command

import (
	"net/url"

	"github.com/MrSnakeDoc/bang/internal/domain"
)

// find implements `!find <term>`: the aggregate search page across all
// of the user's content.
func (h *Handler) find(q *domain.ParsedQuery) (*domain.Outcome, error) {
	if q.SearchTerm == "" {
		return domain.ValidationAlert("Usage: !find <term>"), nil
	}
	target := "/search?q=" + url.QueryEscape(q.SearchTerm) + "&type=global"
	return domain.Redirect(target, domain.CachePrivateStd), nil
}

// tabsPage implements `!tabs`: the tab launcher page.
func (h *Handler) tabsPage() (*domain.Outcome, error) {
	return domain.Redirect("/tabs", domain.CachePrivateStd), nil
}
