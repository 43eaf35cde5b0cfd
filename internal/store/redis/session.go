package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MrSnakeDoc/bang/internal/domain"
	"github.com/redis/go-redis/v9"
)

// GetSession retrieves one session's state. A missing session is not an
// error: a fresh zero state is returned so callers can start counting.
func (s *Store) GetSession(ctx context.Context, sessionID string) (*domain.SessionState, error) {
	data, err := s.client.Get(ctx, SessionKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return &domain.SessionState{}, nil
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var state domain.SessionState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &state, nil
}

// SaveSession stores one session's state with a sliding TTL.
func (s *Store) SaveSession(ctx context.Context, sessionID string, state *domain.SessionState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := s.client.Set(ctx, SessionKey(sessionID), data, DefaultSessionTTL).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

// GetPreferences retrieves one user's preferences. Returns ErrNotFound
// when the user has never saved any.
func (s *Store) GetPreferences(ctx context.Context, userID string) (*domain.Preferences, error) {
	data, err := s.client.Get(ctx, PrefsKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get preferences: %w", err)
	}

	var prefs domain.Preferences
	if err := json.Unmarshal(data, &prefs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal preferences: %w", err)
	}

	return &prefs, nil
}

// SavePreferences stores one user's preferences.
func (s *Store) SavePreferences(ctx context.Context, prefs *domain.Preferences) error {
	data, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}

	if err := s.client.Set(ctx, PrefsKey(prefs.UserID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}

	return nil
}
