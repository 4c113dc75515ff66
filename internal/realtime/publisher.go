package realtime

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/yoockh/hirex/internal/models"
)

// Publisher fans application events out to whoever watches the job.
type Publisher interface {
	Publish(ctx context.Context, ev models.ApplicationEvent) error
}

// Channel is the Redis pub/sub channel for one job's application feed.
func Channel(jobID string) string { return "job:" + jobID + ":applications" }

type RedisPublisher struct {
	rdb *redis.Client
}

func NewRedisPublisher(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{rdb: rdb}
}

func (p *RedisPublisher) Publish(ctx context.Context, ev models.ApplicationEvent) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.rdb.Publish(ctx, Channel(ev.JobID), b).Err()
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, models.ApplicationEvent) error { return nil }
