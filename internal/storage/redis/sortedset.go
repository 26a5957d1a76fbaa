package redis

import (
	"context"
	"fmt"
	"math"
	"strconv"

	goredis "github.com/redis/go-redis/v9"
)

// SortedSet stores history partitions as Redis sorted sets.
type SortedSet struct {
	client *goredis.Client
	prefix string
}

func NewClient(ctx context.Context, url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := goredis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}

func NewSortedSet(client *goredis.Client, prefix string) *SortedSet {
	return &SortedSet{client: client, prefix: prefix}
}

func (s *SortedSet) Add(ctx context.Context, key string, score float64, member string) error {
	if err := s.client.ZAdd(ctx, s.key(key), goredis.Z{Score: score, Member: member}).Err(); err != nil {
		return fmt.Errorf("zadd %s: %w", key, err)
	}
	return nil
}

func (s *SortedSet) RangeByScore(ctx context.Context, key string, min, max float64) ([]string, error) {
	members, err := s.client.ZRangeByScore(ctx, s.key(key), &goredis.ZRangeBy{
		Min: formatScore(min),
		Max: formatScore(max),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("zrangebyscore %s: %w", key, err)
	}
	return members, nil
}

func (s *SortedSet) Exists(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(key)).Result()
	if err != nil {
		return false, fmt.Errorf("exists %s: %w", key, err)
	}
	return n > 0, nil
}

func (s *SortedSet) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}

func (s *SortedSet) key(k string) string {
	if s.prefix == "" {
		return k
	}
	return s.prefix + ":" + k
}

func formatScore(f float64) string {
	switch {
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsInf(f, 1):
		return "+inf"
	default:
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
}
