package whitelist

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// Redis key holding the shared bypass set.
const whitelistKey = "steamgate:whitelist"

// Redis is a Store backed by a shared Redis set, for deployments where
// several game servers consult one steamgate whitelist.
type Redis struct {
	client *redis.Client
}

// NewRedis wraps a connected Redis client.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (s *Redis) Contains(ctx context.Context, steamID string) (bool, error) {
	return s.client.SIsMember(ctx, whitelistKey, steamID).Result()
}

func (s *Redis) Add(ctx context.Context, steamID string) error {
	return s.client.SAdd(ctx, whitelistKey, steamID).Err()
}

func (s *Redis) Remove(ctx context.Context, steamID string) error {
	return s.client.SRem(ctx, whitelistKey, steamID).Err()
}
