package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/bang/internal/domain"
	"github.com/redis/go-redis/v9"
)

// FindTab retrieves one tab by trigger. Returns ErrNotFound on miss.
func (s *Store) FindTab(ctx context.Context, userID, trigger string) (*domain.Tab, error) {
	data, err := s.client.Get(ctx, TabKey(userID, trigger)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get tab: %w", err)
	}

	var tab domain.Tab
	if err := json.Unmarshal(data, &tab); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tab: %w", err)
	}

	return &tab, nil
}

// SaveTab stores a tab and registers its trigger in the user's set.
func (s *Store) SaveTab(ctx context.Context, tab *domain.Tab) error {
	data, err := json.Marshal(tab)
	if err != nil {
		return fmt.Errorf("failed to marshal tab: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, TabKey(tab.UserID, tab.Trigger), data, 0)
	pipe.SAdd(ctx, UserTabsKey(tab.UserID), normTrigger(tab.Trigger))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save tab: %w", err)
	}

	return nil
}

// DeleteTab removes one tab. Returns ErrNotFound if it did not exist.
func (s *Store) DeleteTab(ctx context.Context, userID, trigger string) error {
	deleted, err := s.client.Del(ctx, TabKey(userID, trigger)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete tab: %w", err)
	}
	if deleted == 0 {
		return ErrNotFound
	}

	if err := s.client.SRem(ctx, UserTabsKey(userID), normTrigger(trigger)).Err(); err != nil {
		return fmt.Errorf("failed to remove tab from set: %w", err)
	}

	return nil
}

// RenameTab moves a tab to a new trigger.
func (s *Store) RenameTab(ctx context.Context, tab *domain.Tab, newTrigger string) error {
	old := tab.Trigger
	tab.Trigger = newTrigger
	tab.UpdatedAt = time.Now()

	if err := s.SaveTab(ctx, tab); err != nil {
		tab.Trigger = old
		return err
	}
	if normTrigger(old) == normTrigger(newTrigger) {
		return nil
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, TabKey(tab.UserID, old))
	pipe.SRem(ctx, UserTabsKey(tab.UserID), normTrigger(old))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to drop old tab trigger: %w", err)
	}

	return nil
}
