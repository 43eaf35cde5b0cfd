package redis

import (
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// DefaultSessionTTL is how long anonymous session state survives
	// without activity.
	DefaultSessionTTL = 24 * time.Hour
)

// ErrNotFound is returned when a lookup misses. Resolver-chain callers
// treat it as "no match at this step" rather than a hard failure.
var ErrNotFound = errors.New("not found")

// Store handles all Redis persistence: user bangs, tabs, bookmarks,
// notes, reminders, preferences and session state.
type Store struct {
	client *redis.Client
}

// NewStore creates a new Redis store.
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
	}
}
