package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/fotoclick/gallerygate/internal/model"
)

// Counter is the shared window-counter store. Implementations must make
// Increment atomic; concurrent increments on one key may overshoot the
// caller's limit by at most one.
type Counter interface {
	// Increment bumps the counter for key inside its current fixed window
	// and returns the new count plus when that window opened.
	Increment(ctx context.Context, key string, window time.Duration) (count int64, windowStart time.Time, err error)
}

// Config is one scope's throttle policy.
type Config struct {
	Requests int
	Window   time.Duration
}

// Result reports a limiter decision. RetryAfter is set only when the
// request was rejected.
type Result struct {
	Allowed    bool
	Remaining  int64
	RetryAfter time.Duration
}

// Limiter throttles resolution calls per (token, ip) key. Public share
// links get a tighter policy than private family links; family links are
// keyed by token alone since one family shares an IP-diverse audience.
type Limiter struct {
	counter  Counter
	byScope  map[model.TokenScope]Config
	fallback Config
}

func New(counter Counter, fallback Config) *Limiter {
	return &Limiter{
		counter:  counter,
		byScope:  make(map[model.TokenScope]Config),
		fallback: fallback,
	}
}

// SetScopeConfig overrides the policy for one token scope.
func (l *Limiter) SetScopeConfig(scope model.TokenScope, cfg Config) {
	l.byScope[scope] = cfg
}

func (l *Limiter) configFor(scope model.TokenScope) Config {
	cfg, ok := l.byScope[scope]
	if ok {
		return cfg
	}
	return l.fallback
}

// Allow records one request and decides whether it fits the window.
func (l *Limiter) Allow(ctx context.Context, scope model.TokenScope, tokenID, ip string) (*Result, error) {
	cfg := l.configFor(scope)

	key := keyFor(scope, tokenID, ip)
	count, windowStart, err := l.counter.Increment(ctx, key, cfg.Window)
	if err != nil {
		return nil, fmt.Errorf("failed to increment rate counter: %w", err)
	}

	if count > int64(cfg.Requests) {
		retryAfter := time.Until(windowStart.Add(cfg.Window))
		if retryAfter < 0 {
			retryAfter = 0
		}
		return &Result{Allowed: false, Remaining: 0, RetryAfter: retryAfter}, nil
	}

	return &Result{Allowed: true, Remaining: int64(cfg.Requests) - count}, nil
}

func keyFor(scope model.TokenScope, tokenID, ip string) string {
	// Family galleries are private links; throttling per token keeps one
	// misbehaving household from being split across NAT addresses.
	if scope == model.ScopeFamily {
		return "rl:" + tokenID
	}
	return "rl:" + tokenID + ":" + ip
}
