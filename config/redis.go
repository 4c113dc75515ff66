package config

import (
	"context"
	"errors"
	"strings"

	"github.com/redis/go-redis/v9"
)

var RedisClient *redis.Client

// InitRedis accepts either host:port or a redis:// / rediss:// URL.
func InitRedis(addr string) error {
	if addr == "" {
		return errors.New("REDIS_ADDR (or REDIS_URI/REDIS_URL) is not set")
	}

	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		opt, err := redis.ParseURL(addr)
		if err != nil {
			return err
		}
		RedisClient = redis.NewClient(opt)
	} else {
		RedisClient = redis.NewClient(&redis.Options{Addr: addr})
	}

	_, err := RedisClient.Ping(context.Background()).Result()
	return err
}
