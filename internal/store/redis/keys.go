package redis

import "strings"

const (
	// KeyPrefix namespaces every key this service writes.
	KeyPrefix = "bang:"
)

// normTrigger keys triggers consistently, with the "!" prefix stripped.
func normTrigger(trigger string) string {
	return strings.ToLower(strings.TrimPrefix(trigger, "!"))
}

// BangKey returns the key for one user bang.
func BangKey(userID, trigger string) string {
	return KeyPrefix + "user:" + userID + ":bang:" + normTrigger(trigger)
}

// UserBangsKey returns the key for the set of a user's bang triggers.
func UserBangsKey(userID string) string {
	return KeyPrefix + "user:" + userID + ":bangs"
}

// TabKey returns the key for one user tab.
func TabKey(userID, trigger string) string {
	return KeyPrefix + "user:" + userID + ":tab:" + normTrigger(trigger)
}

// UserTabsKey returns the key for the set of a user's tab triggers.
func UserTabsKey(userID string) string {
	return KeyPrefix + "user:" + userID + ":tabs"
}

// BookmarkKey returns the key for one bookmark by ID.
func BookmarkKey(userID, id string) string {
	return KeyPrefix + "user:" + userID + ":bookmark:" + id
}

// BookmarkURLIndexKey returns the key of the per-user url -> bookmark ID hash.
func BookmarkURLIndexKey(userID string) string {
	return KeyPrefix + "user:" + userID + ":bookmark_urls"
}

// NoteKey returns the key for one note by ID.
func NoteKey(userID, id string) string {
	return KeyPrefix + "user:" + userID + ":note:" + id
}

// UserNotesKey returns the key for the set of a user's note IDs.
func UserNotesKey(userID string) string {
	return KeyPrefix + "user:" + userID + ":notes"
}

// ReminderKey returns the key for one reminder by ID.
func ReminderKey(userID, id string) string {
	return KeyPrefix + "user:" + userID + ":reminder:" + id
}

// UserRemindersKey returns the key for the set of a user's reminder IDs.
func UserRemindersKey(userID string) string {
	return KeyPrefix + "user:" + userID + ":reminders"
}

// PrefsKey returns the key for a user's preferences.
func PrefsKey(userID string) string {
	return KeyPrefix + "prefs:" + userID
}

// SessionKey returns the key for one session's state.
func SessionKey(sessionID string) string {
	return KeyPrefix + "session:" + sessionID
}
