package domain

import "time"

// BangAction defines what a user-owned bang does when triggered.
type BangAction string

const (
	// ActionSearch substitutes the search term into the URL template.
	ActionSearch BangAction = "search"
	// ActionRedirect navigates straight to the stored URL.
	ActionRedirect BangAction = "redirect"
	// ActionBookmark jumps to the bang's anchor on the bookmarks page.
	ActionBookmark BangAction = "bookmark"
)

// PlaceholderTitle is stored on freshly created entries until the
// detached title fetch fills in the real page title.
const PlaceholderTitle = "Fetching title..."

// MaxTitleLength caps user-supplied titles and descriptions.
const MaxTitleLength = 255

// UserBang is a user-owned shortcut trigger.
//
// A UserBang is uniquely identified by (UserID, Trigger). The trigger
// namespace is shared with the user's tabs and with the reserved system
// bangs; no two of these may hold the same trigger at once.
type UserBang struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	Trigger    string     `json:"trigger"` // includes the leading "!"
	Name       string     `json:"name"`
	URL        string     `json:"url"`
	Action     BangAction `json:"action"`
	Hidden     bool       `json:"hidden"`
	UsageCount int64      `json:"usage_count"`
	LastReadAt time.Time  `json:"last_read_at"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// TabItem is one URL inside a tab group.
type TabItem struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Tab is a user-owned named group of URLs launched together.
// Tabs share the trigger namespace with the user's bangs.
type Tab struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Trigger   string    `json:"trigger"` // includes the leading "!"
	Title     string    `json:"title"`
	Items     []TabItem `json:"items"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Bookmark is a saved external URL.
type Bookmark struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	Hidden    bool      `json:"hidden"`
	CreatedAt time.Time `json:"created_at"`
}

// Note is a short piece of user text.
type Note struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Hidden    bool      `json:"hidden"`
	CreatedAt time.Time `json:"created_at"`
}

// ReminderType distinguishes one-time from recurring reminders.
type ReminderType string

const (
	ReminderOnce      ReminderType = "once"
	ReminderRecurring ReminderType = "recurring"
)

// Reminder is a dated user note with a UTC due instant.
type Reminder struct {
	ID          string       `json:"id"`
	UserID      string       `json:"user_id"`
	Description string       `json:"description"`
	Content     string       `json:"content"`
	Type        ReminderType `json:"type"`
	Frequency   string       `json:"frequency,omitempty"` // daily|weekly|monthly when recurring
	DueAt       time.Time    `json:"due_at"`              // always UTC
	CreatedAt   time.Time    `json:"created_at"`
}

// Preferences holds per-user settings the engine consults.
type Preferences struct {
	UserID             string `json:"user_id"`
	SearchURL          string `json:"search_url"`            // provider template, e.g. "https://duckduckgo.com/?q={query}"
	DefaultTiming      string `json:"default_timing"`        // fallback reminder timing keyword
	DefaultTime        string `json:"default_time"`          // "HH:MM" local reminder time
	Timezone           string `json:"timezone"`              // IANA name
	HiddenPasswordHash string `json:"hidden_password_hash"`  // bcrypt; empty = no hidden items password set
	Admin              bool   `json:"admin"`
}

// Caller is the identity attached to one incoming query.
type Caller struct {
	UserID    string
	SessionID string
	Anonymous bool
	Prefs     *Preferences // nil for anonymous callers
}

// SessionState is the per-session throttling and verification state.
// It is scoped to one caller's session and never contended across callers.
type SessionState struct {
	SearchCount      int           `json:"search_count"`
	CumulativeDelay  time.Duration `json:"cumulative_delay_ms"`
	HiddenVerifiedAt time.Time     `json:"hidden_verified_at,omitempty"`
}

// HiddenVerifyWindow is how long a hidden-item password verification
// stays valid within a session.
const HiddenVerifyWindow = 30 * time.Minute

// HiddenVerified reports whether the session holds a verification
// timestamp younger than the allowed window.
func (s *SessionState) HiddenVerified(now time.Time) bool {
	if s == nil || s.HiddenVerifiedAt.IsZero() {
		return false
	}
	return now.Sub(s.HiddenVerifiedAt) < HiddenVerifyWindow
}
