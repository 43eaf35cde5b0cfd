// Package ratelimit implements the anonymous-caller throttle: past a
// free search allowance, every further search adds a fixed delay to the
// session, capped at a maximum. This is a deliberate slow-down, not a
// rejection.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/bang/internal/domain"
)

// Config defines the anonymous throttle behavior.
type Config struct {
	FreeSearches   int           // searches before delays start
	DelayIncrement time.Duration // added per search past the allowance
	MaxDelay       time.Duration // cumulative delay cap
	WarnEvery      int           // emit a warning every Nth search
}

// DefaultConfig returns the production throttle settings.
func DefaultConfig() Config {
	return Config{
		FreeSearches:   60,
		DelayIncrement: 5 * time.Second,
		MaxDelay:       60 * time.Second,
		WarnEvery:      10,
	}
}

// Limiter tracks per-session search counts. All state lives in the
// caller's SessionState, so sessions are never contended across callers.
type Limiter struct {
	cfg Config
}

// New creates a limiter, normalizing non-positive config values.
func New(cfg Config) *Limiter {
	if cfg.FreeSearches < 1 {
		cfg.FreeSearches = DefaultConfig().FreeSearches
	}
	if cfg.DelayIncrement <= 0 {
		cfg.DelayIncrement = DefaultConfig().DelayIncrement
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = DefaultConfig().MaxDelay
	}
	if cfg.WarnEvery < 1 {
		cfg.WarnEvery = DefaultConfig().WarnEvery
	}
	return &Limiter{cfg: cfg}
}

// Track records one search against the session: the count always
// increments, and past the free allowance the cumulative delay grows by
// the fixed increment up to the cap.
func (l *Limiter) Track(state *domain.SessionState) {
	state.SearchCount++
	if state.SearchCount <= l.cfg.FreeSearches {
		return
	}

	state.CumulativeDelay += l.cfg.DelayIncrement
	if state.CumulativeDelay > l.cfg.MaxDelay {
		state.CumulativeDelay = l.cfg.MaxDelay
	}
}

// WarningFor returns a warning message on every Nth search, empty
// otherwise. The message changes once the free allowance is exhausted.
func (l *Limiter) WarningFor(searchCount int) string {
	if searchCount == 0 || searchCount%l.cfg.WarnEvery != 0 {
		return ""
	}
	if searchCount > l.cfg.FreeSearches {
		return fmt.Sprintf("You have made %d searches this session. Responses are now delayed; sign in to remove the limit.", searchCount)
	}
	return fmt.Sprintf("You have made %d of %d free searches this session. Sign in for unlimited searches.", searchCount, l.cfg.FreeSearches)
}

// Wait blocks for the session's accumulated delay, or until the request
// context is canceled. It is the only deliberate sleep in the request
// path and applies to unauthenticated callers only.
func (l *Limiter) Wait(ctx context.Context, state *domain.SessionState) {
	if state.CumulativeDelay <= 0 {
		return
	}

	timer := time.NewTimer(state.CumulativeDelay)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
