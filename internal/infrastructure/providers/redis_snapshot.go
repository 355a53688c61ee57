package providers

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisSnapshotStore keeps the most recent feed snapshot in a Redis set so a
// restarted instance can serve membership checks before its first fetch.
type RedisSnapshotStore struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

func NewRedisSnapshotStore(client *redis.Client, key string, ttl time.Duration) *RedisSnapshotStore {
	return &RedisSnapshotStore{client: client, key: key, ttl: ttl}
}

func (s *RedisSnapshotStore) Load(ctx context.Context) ([]string, error) {
	return s.client.SMembers(ctx, s.key).Result()
}

func (s *RedisSnapshotStore) Store(ctx context.Context, domains []string) error {
	if len(domains) == 0 {
		return nil
	}
	members := make([]interface{}, len(domains))
	for i, domain := range domains {
		members[i] = domain
	}
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.key)
	pipe.SAdd(ctx, s.key, members...)
	pipe.Expire(ctx, s.key, s.ttl)
	_, err := pipe.Exec(ctx)
	return err
}
