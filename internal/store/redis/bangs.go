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

// FindBang retrieves one user bang by trigger. Returns ErrNotFound on miss.
func (s *Store) FindBang(ctx context.Context, userID, trigger string) (*domain.UserBang, error) {
	data, err := s.client.Get(ctx, BangKey(userID, trigger)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get bang: %w", err)
	}

	var bang domain.UserBang
	if err := json.Unmarshal(data, &bang); err != nil {
		return nil, fmt.Errorf("failed to unmarshal bang: %w", err)
	}

	return &bang, nil
}

// SaveBang stores a user bang and registers its trigger in the user's set.
func (s *Store) SaveBang(ctx context.Context, bang *domain.UserBang) error {
	data, err := json.Marshal(bang)
	if err != nil {
		return fmt.Errorf("failed to marshal bang: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, BangKey(bang.UserID, bang.Trigger), data, 0)
	pipe.SAdd(ctx, UserBangsKey(bang.UserID), normTrigger(bang.Trigger))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save bang: %w", err)
	}

	return nil
}

// DeleteBang removes one user bang. Returns ErrNotFound if it did not exist.
func (s *Store) DeleteBang(ctx context.Context, userID, trigger string) error {
	deleted, err := s.client.Del(ctx, BangKey(userID, trigger)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete bang: %w", err)
	}
	if deleted == 0 {
		return ErrNotFound
	}

	if err := s.client.SRem(ctx, UserBangsKey(userID), normTrigger(trigger)).Err(); err != nil {
		return fmt.Errorf("failed to remove bang from set: %w", err)
	}

	return nil
}

// RenameBang moves a bang to a new trigger atomically enough for a
// single-user namespace: write under the new key, then drop the old.
func (s *Store) RenameBang(ctx context.Context, bang *domain.UserBang, newTrigger string) error {
	old := bang.Trigger
	bang.Trigger = newTrigger
	bang.UpdatedAt = time.Now()

	if err := s.SaveBang(ctx, bang); err != nil {
		bang.Trigger = old
		return err
	}
	if normTrigger(old) == normTrigger(newTrigger) {
		return nil
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, BangKey(bang.UserID, old))
	pipe.SRem(ctx, UserBangsKey(bang.UserID), normTrigger(old))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to drop old bang trigger: %w", err)
	}

	return nil
}

// BumpBangUsage increments the usage counter and refreshes LastReadAt.
// Called from detached tasks only; never gates a response.
func (s *Store) BumpBangUsage(ctx context.Context, userID, trigger string) error {
	bang, err := s.FindBang(ctx, userID, trigger)
	if err != nil {
		return err
	}

	bang.UsageCount++
	bang.LastReadAt = time.Now()

	return s.SaveBang(ctx, bang)
}
