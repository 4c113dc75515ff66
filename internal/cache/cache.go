package cache

import (
	"context"
	"time"
)

type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (hit bool, err error)
	SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// Counter is a fixed-window counter keyed by string.
type Counter interface {
	// Incr bumps key and returns the new count. The window starts at the first hit.
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

const (
	jobKeyPrefix  = "job:"
	JobFiltersKey = "jobs:filters"
	JobTTL        = 10 * time.Minute
	JobFiltersTTL = 5 * time.Minute
)

func JobKey(id string) string { return jobKeyPrefix + id }

// Nop never hits. Used when Redis is not configured.
type Nop struct{}

func (Nop) GetJSON(context.Context, string, any) (bool, error)        { return false, nil }
func (Nop) SetJSON(context.Context, string, any, time.Duration) error { return nil }
func (Nop) Del(context.Context, ...string) error                      { return nil }
