// Package fetch retrieves page titles for freshly created entries.
// It is only ever called from detached tasks, never from the
// response-gating path.
package fetch

import (
	"context"
	"fmt"
	"html"
	"regexp"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/MrSnakeDoc/bang/internal/domain"
)

// DefaultTimeout bounds one outbound title fetch.
const DefaultTimeout = 5 * time.Second

var titleRe = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)

// TitleFetcher retrieves page titles over HTTP with a bounded timeout.
type TitleFetcher struct {
	client *resty.Client
}

// NewTitleFetcher creates a fetcher with the given per-request timeout.
func NewTitleFetcher(timeout time.Duration) *TitleFetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	client := resty.New().
		SetTimeout(timeout).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(5)).
		SetHeader("User-Agent", "bang-titlefetcher/1.0")

	return &TitleFetcher{client: client}
}

// Fetch retrieves the page title of url. The result is unescaped,
// whitespace-normalized and capped at the title length limit.
func (f *TitleFetcher) Fetch(ctx context.Context, url string) (string, error) {
	resp, err := f.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("failed to fetch %s: status %d", url, resp.StatusCode())
	}

	m := titleRe.FindSubmatch(resp.Body())
	if m == nil {
		return "", fmt.Errorf("no title found at %s", url)
	}

	title := html.UnescapeString(strings.Join(strings.Fields(string(m[1])), " "))
	if len(title) > domain.MaxTitleLength {
		title = title[:domain.MaxTitleLength]
	}
	if title == "" {
		return "", fmt.Errorf("empty title at %s", url)
	}

	return title, nil
}
