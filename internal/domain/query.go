package domain

import (
	"net/url"
	"regexp"
	"strings"
)

// CommandType classifies which namespace a query belongs to.
type CommandType string

const (
	// CommandNone is a plain search with no trigger.
	CommandNone CommandType = ""
	// CommandBang is a `!trigger` query (shortcut or mutation command).
	CommandBang CommandType = "bang"
	// CommandDirect is an `@trigger` in-app navigation query.
	CommandDirect CommandType = "direct"
)

// ParsedQuery represents one resolved search-bar line.
//
// Invariant: Type == CommandNone iff Trigger == "". URL may be non-empty
// only when Type == CommandBang.
type ParsedQuery struct {
	Raw         string      // Original input, trimmed
	Type        CommandType // bang | direct | none
	Trigger     string      // Leading trigger including its prefix ("!g", "@notes")
	TriggerBody string      // Trigger without the ! or @ prefix
	URL         string      // First embedded URL (bang queries only)
	SearchTerm  string      // Whitespace-normalized remainder
}

var (
	triggerRe = regexp.MustCompile(`^([!@]\S+)`)
	domainRe  = regexp.MustCompile(`^[a-zA-Z0-9][\w.-]*\.[a-zA-Z]{2,}`)
)

// ParseQuery parses a raw search-bar line into a structured query.
// Examples:
//   - "python tutorial" -> plain search
//   - "!g python"       -> bang trigger + search term
//   - "@notes foo"      -> direct command + search term
//   - "!bm title https://example.com" -> bang + embedded URL + search term
func ParseQuery(input string) *ParsedQuery {
	input = strings.TrimSpace(input)
	q := &ParsedQuery{Raw: input}
	if input == "" {
		return q
	}

	m := triggerRe.FindString(input)
	if m == "" {
		q.SearchTerm = normalizeSpace(input)
		return q
	}

	q.Trigger = m
	q.TriggerBody = m[1:]
	rest := strings.TrimSpace(input[len(m):])

	if strings.HasPrefix(m, "@") {
		q.Type = CommandDirect
		q.SearchTerm = normalizeSpace(rest)
		return q
	}

	q.Type = CommandBang
	q.URL, q.SearchTerm = extractURL(rest)
	return q
}

// extractURL scans a bang query remainder for an embedded URL and
// returns the URL (empty if none) plus the remainder with the URL
// removed and whitespace normalized.
func extractURL(rest string) (string, string) {
	if rest == "" {
		return "", ""
	}

	// Explicit scheme takes priority: earliest http(s):// occurrence,
	// up to the next space.
	idx := strings.Index(rest, "http://")
	if hidx := strings.Index(rest, "https://"); hidx != -1 && (idx == -1 || hidx < idx) {
		idx = hidx
	}
	if idx != -1 {
		raw := rest[idx:]
		if sp := strings.IndexAny(raw, " \t"); sp != -1 {
			raw = raw[:sp]
		}
		if validURL(raw) {
			return raw, normalizeSpace(strings.Replace(rest, raw, " ", 1))
		}
	}

	// Otherwise look for a bare domain-like token and validate it as https.
	for _, token := range strings.Fields(rest) {
		if !domainRe.MatchString(token) {
			continue
		}
		candidate := "https://" + token
		if validURL(candidate) {
			return candidate, normalizeSpace(strings.Replace(rest, token, " ", 1))
		}
	}

	return "", normalizeSpace(rest)
}

// validURL reports whether s parses as an absolute http(s) URL with a host.
func validURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// ValidHTTPURL is the exported form used by command validation.
func ValidHTTPURL(s string) bool { return validURL(s) }

// NormalizeURL validates a URL or bare domain token and returns its
// absolute https form. Bare domains get an https:// prefix.
func NormalizeURL(token string) (string, bool) {
	if strings.HasPrefix(token, "http://") || strings.HasPrefix(token, "https://") {
		if validURL(token) {
			return token, true
		}
		return "", false
	}
	if domainRe.MatchString(token) {
		candidate := "https://" + token
		if validURL(candidate) {
			return candidate, true
		}
	}
	return "", false
}

// normalizeSpace collapses all runs of whitespace into single spaces.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ExpandTemplate substitutes a search term into a URL template.
// Both `{query}` and `{{{s}}}` placeholder styles are supported; the
// term is query-escaped. Templates without a placeholder are returned
// unchanged.
func ExpandTemplate(template, term string) string {
	escaped := url.QueryEscape(term)
	out := strings.ReplaceAll(template, "{{{s}}}", escaped)
	out = strings.ReplaceAll(out, "{query}", escaped)
	return out
}
