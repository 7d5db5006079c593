// Package ratelimit limits request rates per client key.
package ratelimit

import (
	"context"
	"time"
)

// Limiter decides whether one more request for key fits in the limit.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// Config is a request budget per window.
type Config struct {
	Requests int
	Window   time.Duration
}

func (c Config) normalized() Config {
	if c.Requests <= 0 {
		c.Requests = 60
	}
	if c.Window <= 0 {
		c.Window = time.Minute
	}
	return c
}
