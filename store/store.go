package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrUnavailable is returned (wrapped) for any network, timeout, or protocol
// failure against the key-value store. It is never returned for a missing key.
var ErrUnavailable = errors.New("kv store unavailable")

// Store is a thin client over Redis. It is safe for concurrent use; all state
// lives in the underlying redis client.
type Store struct {
	redis redis.UniversalClient
}

// New creates a Store backed by the given Redis client.
func New(client redis.UniversalClient) *Store {
	return &Store{redis: client}
}

// Set JSON-serializes value and writes it under key with the given TTL.
// A zero TTL persists the key without expiry.
func (s *Store) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode value for %q: %w", key, err)
	}

	if err := s.redis.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return nil
}

// Get reads key and JSON-deserializes it into dest. The first return value
// reports whether the key existed; a missing key is (false, nil).
func (s *Store) Get(ctx context.Context, key string, dest any) (bool, error) {
	data, err := s.redis.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("decode value for %q: %w", key, err)
	}

	return true, nil
}

// Exists reports whether key is present without reading its value.
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	n, err := s.redis.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return n > 0, nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.redis.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// ZAdd inserts or updates member in the ordered set index with the given
// score.
func (s *Store) ZAdd(ctx context.Context, index string, score float64, member string) error {
	if err := s.redis.ZAdd(ctx, index, redis.Z{Score: score, Member: member}).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// ZRevRank returns the 1-based descending-score rank of member in index.
// Redis reports ranks zero-based; the +1 here guarantees a rank is never
// surfaced as 0. A member absent from the index is (0, false, nil).
func (s *Store) ZRevRank(ctx context.Context, index, member string) (int64, bool, error) {
	rank, err := s.redis.ZRevRank(ctx, index, member).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return rank + 1, true, nil
}

// ZRevRange returns members of index in descending score order for the
// zero-based offset window [start, stop]. Both bounds are inclusive, matching
// the underlying ZREVRANGE primitive.
func (s *Store) ZRevRange(ctx context.Context, index string, start, stop int64) ([]string, error) {
	members, err := s.redis.ZRevRange(ctx, index, start, stop).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return members, nil
}

// Ping returns a point-in-time availability check.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.redis.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}
