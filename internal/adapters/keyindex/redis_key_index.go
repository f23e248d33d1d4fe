package keyindex

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"fleet-allocation-service/internal/platform/obs"
)

// Redis-backed implementation of the KeyIndex port: one set per date,
// SADD on append, SMEMBERS on lookup. Shared across service instances so
// repeated daily runs skip the log scan.
type RedisKeyIndex struct {
	Client *redis.Client
	// Prefix namespaces the per-date sets, e.g. "alloc:keys:".
	Prefix string
}

func NewRedisKeyIndex(client *redis.Client, prefix string) *RedisKeyIndex {
	if prefix == "" {
		prefix = "alloc:keys:"
	}
	return &RedisKeyIndex{Client: client, Prefix: prefix}
}

func (r *RedisKeyIndex) key(date string) string { return r.Prefix + date }

func (r *RedisKeyIndex) Members(ctx context.Context, date string) (_ map[string]struct{}, err error) {
	defer obs.Time(ctx, "keyindex.redis.Members")(&err)

	if r.Client == nil {
		return nil, errors.New("redis key index: client is nil")
	}

	members, err := r.Client.SMembers(ctx, r.key(date)).Result()
	if err != nil {
		return nil, fmt.Errorf("key index members for %s: %w", date, err)
	}

	out := make(map[string]struct{}, len(members))
	for _, m := range members {
		out[m] = struct{}{}
	}
	return out, nil
}

func (r *RedisKeyIndex) Add(ctx context.Context, date string, keys []string) error {
	if r.Client == nil {
		return errors.New("redis key index: client is nil")
	}
	if len(keys) == 0 {
		return nil
	}

	args := make([]interface{}, 0, len(keys))
	for _, k := range keys {
		args = append(args, k)
	}

	if err := r.Client.SAdd(ctx, r.key(date), args...).Err(); err != nil {
		return fmt.Errorf("key index add %d key(s) for %s: %w", len(keys), date, err)
	}
	return nil
}
