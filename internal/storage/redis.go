package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/san-kum/sirsim/internal/export"
)

const (
	runKeyPrefix    = "sirsim:run:"
	seriesKeyPrefix = "sirsim:series:"
	runIndexKey     = "sirsim:runs"
)

// RedisStore keeps runs in Redis so several hosts can share one catalog.
// Metadata and series are stored as JSON under separate keys and indexed by
// timestamp in a sorted set. A zero TTL keeps runs forever.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	mu     sync.RWMutex
}

// NewRedisStore connects to addr and verifies the connection with a ping.
func NewRedisStore(addr, password string, db int, ttl time.Duration) (*RedisStore, error) {
	if addr == "" {
		return nil, errors.New("redis address cannot be empty")
	}
	if db < 0 {
		return nil, errors.New("redis database number must be >= 0")
	}
	if ttl < 0 {
		return nil, errors.New("redis ttl must be >= 0")
	}

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	return &RedisStore{
		client: client,
		ttl:    ttl,
	}, nil
}

func (r *RedisStore) Save(ctx context.Context, run Run) (string, error) {
	id := run.Metadata.ID
	if err := validateID(id); err != nil {
		return "", err
	}

	meta, err := json.Marshal(run.Metadata)
	if err != nil {
		return "", fmt.Errorf("failed to marshal run metadata: %w", err)
	}
	series, err := json.Marshal(run.Series)
	if err != nil {
		return "", fmt.Errorf("failed to marshal run series: %w", err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, runKeyPrefix+id, meta, r.ttl)
		pipe.Set(ctx, seriesKeyPrefix+id, series, r.ttl)
		pipe.ZAdd(ctx, runIndexKey, redis.Z{
			Score:  float64(run.Metadata.Timestamp.UnixNano()),
			Member: id,
		})
		return nil
	})
	if err != nil {
		return "", &export.SinkError{Path: runKeyPrefix + id, Op: "write", Err: err}
	}
	return id, nil
}

func (r *RedisStore) Load(ctx context.Context, id string) (*RunMetadata, error) {
	var meta RunMetadata
	if err := r.get(ctx, runKeyPrefix, id, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (r *RedisStore) LoadSeries(ctx context.Context, id string) (*export.Series, error) {
	var series export.Series
	if err := r.get(ctx, seriesKeyPrefix, id, &series); err != nil {
		return nil, err
	}
	return &series, nil
}

func (r *RedisStore) get(ctx context.Context, prefix, id string, v any) error {
	if err := validateID(id); err != nil {
		return err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	data, err := r.client.Get(ctx, prefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return fmt.Errorf("failed to get %s from redis: %w", prefix+id, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", prefix+id, err)
	}
	return nil
}

// List returns runs newest first. Index entries whose metadata has expired
// are dropped from the index.
func (r *RedisStore) List(ctx context.Context) ([]RunMetadata, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids, err := r.client.ZRevRange(ctx, runIndexKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list runs from redis: %w", err)
	}

	runs := make([]RunMetadata, 0, len(ids))
	if len(ids) == 0 {
		return runs, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = runKeyPrefix + id
	}
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load runs from redis: %w", err)
	}

	var stale []any
	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			stale = append(stale, ids[i])
			continue
		}
		var meta RunMetadata
		if err := json.Unmarshal([]byte(s), &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}

	if len(stale) > 0 {
		if err := r.client.ZRem(ctx, runIndexKey, stale...).Err(); err != nil {
			return nil, fmt.Errorf("failed to prune run index: %w", err)
		}
	}
	return runs, nil
}

// Close closes the Redis client connection. It is safe to call more than
// once.
func (r *RedisStore) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.client == nil {
		return nil
	}

	err := r.client.Close()
	r.client = nil
	if err != nil && errors.Is(err, redis.ErrClosed) {
		return nil
	}

	return err
}

// Ping checks the Redis connection health.
func (r *RedisStore) Ping(ctx context.Context) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.client.Ping(ctx).Err()
}
