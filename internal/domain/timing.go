package domain

import (
	"strconv"
	"strings"
	"time"
)

// TimingResult is the validated output of parsing a reminder timing.
type TimingResult struct {
	Valid     bool
	Type      ReminderType
	Frequency string    // daily|weekly|monthly when recurring
	DueAt     time.Time // always UTC
}

// ReminderParts is one reminder input split into its three fields.
type ReminderParts struct {
	When        string // timing keyword or date token, "" = use the caller's default
	Description string // defaults to "Untitled" when only a URL was given
	Content     string // free text or URL
}

// dateLayouts are the explicit date formats the timing grammar accepts.
// The month-day layout assumes the current year (or next, if passed).
var dateLayouts = []string{"2006-01-02", "01/02/2006", "Jan-02"}

// timing keywords for recurring reminders
var frequencies = map[string]bool{"daily": true, "weekly": true, "monthly": true}

// ParseTiming resolves a timing keyword or date string into a UTC due
// instant, evaluated at now. defaultTime is "HH:MM" in the caller's
// timezone; an unknown timezone falls back to UTC.
//
// The grammar is deliberately small: daily/weekly/monthly plus a few
// explicit date formats. Anything else yields Valid=false.
func ParseTiming(now time.Time, when, defaultTime, timezone string) TimingResult {
	loc, err := time.LoadLocation(timezone)
	if err != nil || timezone == "" {
		loc = time.UTC
	}
	local := now.In(loc)
	hour, minute := parseClock(defaultTime)

	at := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, hour, minute, 0, 0, loc)
	}

	when = strings.ToLower(strings.TrimSpace(when))
	switch when {
	case "daily":
		next := local.AddDate(0, 0, 1)
		return recurring("daily", at(next.Year(), next.Month(), next.Day()))

	case "weekly":
		// Always anchored to Saturday. If today is Saturday and the
		// default time has not passed yet, use today.
		days := (int(time.Saturday) - int(local.Weekday()) + 7) % 7
		candidate := at(local.Year(), local.Month(), local.Day()).AddDate(0, 0, days)
		if !candidate.After(local) {
			candidate = candidate.AddDate(0, 0, 7)
		}
		return recurring("weekly", candidate)

	case "monthly":
		// Always anchored to the 1st. Same same-day exception as weekly.
		candidate := at(local.Year(), local.Month(), 1)
		if !candidate.After(local) {
			candidate = at(local.Year(), local.Month(), 1).AddDate(0, 1, 0)
		}
		return recurring("monthly", candidate)
	}

	if due, ok := parseDate(when, local, hour, minute, loc); ok {
		return TimingResult{Valid: true, Type: ReminderOnce, DueAt: due.UTC()}
	}

	return TimingResult{}
}

func recurring(freq string, due time.Time) TimingResult {
	return TimingResult{Valid: true, Type: ReminderRecurring, Frequency: freq, DueAt: due.UTC()}
}

// parseDate tries the explicit date layouts at the default time in loc.
func parseDate(s string, local time.Time, hour, minute int, loc *time.Location) (time.Time, bool) {
	for _, layout := range dateLayouts {
		parsed, err := time.Parse(layout, normalizeDateToken(s, layout))
		if err != nil {
			continue
		}
		year := parsed.Year()
		due := time.Date(year, parsed.Month(), parsed.Day(), hour, minute, 0, 0, loc)
		if layout == "Jan-02" {
			// Bare month-day: current year, rolling to next year if passed.
			due = time.Date(local.Year(), parsed.Month(), parsed.Day(), hour, minute, 0, 0, loc)
			if !due.After(local) {
				due = due.AddDate(1, 0, 0)
			}
		}
		return due, true
	}
	return time.Time{}, false
}

// normalizeDateToken title-cases month abbreviations so "dec-25" parses.
func normalizeDateToken(s, layout string) string {
	if layout != "Jan-02" || s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

// parseClock parses "HH:MM", falling back to 09:00.
func parseClock(s string) (int, int) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 9, 0
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return 9, 0
	}
	return h, m
}

// ParseReminderContent splits a raw reminder body into when,
// description and content. The split happens either on the first `|`
// or by detecting a leading timing keyword / date token, plus a scan
// for an embedded URL or domain-like token to use as content.
func ParseReminderContent(raw string) ReminderParts {
	raw = strings.TrimSpace(raw)
	var parts ReminderParts

	rest := raw
	if before, after, found := strings.Cut(raw, "|"); found {
		rest = strings.TrimSpace(before)
		parts.Content = strings.TrimSpace(after)
	}

	tokens := strings.Fields(rest)
	if len(tokens) > 0 && isTimingToken(tokens[0]) {
		parts.When = strings.ToLower(tokens[0])
		tokens = tokens[1:]
	}

	// No explicit content yet: pull out an embedded URL if one exists.
	if parts.Content == "" {
		for i, token := range tokens {
			if isURLToken(token) {
				parts.Content = token
				tokens = append(tokens[:i], tokens[i+1:]...)
				break
			}
		}
	}

	parts.Description = strings.Join(tokens, " ")
	if parts.Description == "" {
		parts.Description = "Untitled"
	}
	return parts
}

// isTimingToken reports whether the token is a recognized timing
// keyword or explicit date.
func isTimingToken(token string) bool {
	lower := strings.ToLower(token)
	if frequencies[lower] {
		return true
	}
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, normalizeDateToken(lower, layout)); err == nil {
			return true
		}
	}
	return false
}

// isURLToken reports whether the token looks like a URL or bare domain.
func isURLToken(token string) bool {
	_, ok := NormalizeURL(token)
	return ok
}
