package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MrSnakeDoc/bang/internal/domain"
	"github.com/redis/go-redis/v9"
)

// FindBookmarkByURL looks up the user's bookmark holding exactly this
// URL, used for duplicate detection. Returns ErrNotFound on miss.
func (s *Store) FindBookmarkByURL(ctx context.Context, userID, url string) (*domain.Bookmark, error) {
	id, err := s.client.HGet(ctx, BookmarkURLIndexKey(userID), url).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to look up bookmark url: %w", err)
	}

	data, err := s.client.Get(ctx, BookmarkKey(userID, id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get bookmark: %w", err)
	}

	var bookmark domain.Bookmark
	if err := json.Unmarshal(data, &bookmark); err != nil {
		return nil, fmt.Errorf("failed to unmarshal bookmark: %w", err)
	}

	return &bookmark, nil
}

// SaveBookmark stores a bookmark and indexes its URL.
func (s *Store) SaveBookmark(ctx context.Context, bookmark *domain.Bookmark) error {
	data, err := json.Marshal(bookmark)
	if err != nil {
		return fmt.Errorf("failed to marshal bookmark: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, BookmarkKey(bookmark.UserID, bookmark.ID), data, 0)
	pipe.HSet(ctx, BookmarkURLIndexKey(bookmark.UserID), bookmark.URL, bookmark.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save bookmark: %w", err)
	}

	return nil
}

// SaveNote stores a note and registers its ID in the user's set.
func (s *Store) SaveNote(ctx context.Context, note *domain.Note) error {
	data, err := json.Marshal(note)
	if err != nil {
		return fmt.Errorf("failed to marshal note: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, NoteKey(note.UserID, note.ID), data, 0)
	pipe.SAdd(ctx, UserNotesKey(note.UserID), note.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save note: %w", err)
	}

	return nil
}

// SaveReminder stores a reminder and registers its ID in the user's set.
// Also used by detached title fills, which re-save the same ID.
func (s *Store) SaveReminder(ctx context.Context, reminder *domain.Reminder) error {
	data, err := json.Marshal(reminder)
	if err != nil {
		return fmt.Errorf("failed to marshal reminder: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, ReminderKey(reminder.UserID, reminder.ID), data, 0)
	pipe.SAdd(ctx, UserRemindersKey(reminder.UserID), reminder.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save reminder: %w", err)
	}

	return nil
}
