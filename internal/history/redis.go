package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// Redis key layout.
	raceKeyPrefix = "racecoord:race:"
	indexKey      = "racecoord:races"
	outcomesKey   = "racecoord:outcomes"

	// DefaultTTL bounds how long a race record is kept.
	DefaultTTL = 7 * 24 * time.Hour
	// DefaultMaxEntries bounds the index of recent races.
	DefaultMaxEntries = 1000
)

// RedisStore implements Store on Redis. Each record is a JSON string with a
// TTL; a capped list indexes the most recent race IDs and a hash tallies the
// outcomes.
type RedisStore struct {
	client     *redis.Client
	ttl        time.Duration
	maxEntries int64
}

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithTTL sets the record lifetime.
func WithTTL(ttl time.Duration) RedisOption {
	return func(s *RedisStore) { s.ttl = ttl }
}

// WithMaxEntries caps the index of recent races.
func WithMaxEntries(n int) RedisOption {
	return func(s *RedisStore) { s.maxEntries = int64(n) }
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client, opts ...RedisOption) *RedisStore {
	s := &RedisStore{client: client, ttl: DefaultTTL, maxEntries: DefaultMaxEntries}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dial connects to the Redis server at addr and checks it answers.
func Dial(ctx context.Context, addr string, opts ...RedisOption) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", addr, err)
	}
	return NewRedisStore(client, opts...), nil
}

// Save persists rec atomically with its index and outcome tally.
func (s *RedisStore) Save(ctx context.Context, rec Record) error {
	if rec.RaceID == "" {
		return errors.New("record has no race ID")
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, raceKeyPrefix+rec.RaceID, data, s.ttl)
		pipe.LPush(ctx, indexKey, rec.RaceID)
		pipe.LTrim(ctx, indexKey, 0, s.maxEntries-1)
		pipe.HIncrBy(ctx, outcomesKey, rec.Outcome, 1)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save race %s: %w", rec.RaceID, err)
	}
	return nil
}

// Get returns the record of one race.
func (s *RedisStore) Get(ctx context.Context, raceID string) (Record, error) {
	data, err := s.client.Get(ctx, raceKeyPrefix+raceID).Bytes()
	if errors.Is(err, redis.Nil) {
		return Record{}, fmt.Errorf("race not found: %s", raceID)
	}
	if err != nil {
		return Record{}, fmt.Errorf("failed to get race %s: %w", raceID, err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("failed to unmarshal race %s: %w", raceID, err)
	}
	return rec, nil
}

// Recent returns up to limit records, newest first. Indexed races whose
// record has expired are skipped.
func (s *RedisStore) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		return nil, nil
	}
	ids, err := s.client.LRange(ctx, indexKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list races: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = raceKeyPrefix + id
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load races: %w", err)
	}

	records := make([]Record, 0, len(values))
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var rec Record
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// Counts returns the number of recorded races per outcome kind.
func (s *RedisStore) Counts(ctx context.Context) (map[string]int64, error) {
	raw, err := s.client.HGetAll(ctx, outcomesKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read outcome counts: %w", err)
	}
	counts := make(map[string]int64, len(raw))
	for kind, v := range raw {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid count for %s: %w", kind, err)
		}
		counts[kind] = n
	}
	return counts, nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

var _ Store = (*RedisStore)(nil)
