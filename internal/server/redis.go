package server

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"
)

// RedisRegistry persists answer logs in Redis so API sessions survive
// process restarts and can be shared between replicas.
type RedisRegistry struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

// RedisOption configures a RedisRegistry.
type RedisOption func(*RedisRegistry)

// WithRedisTTL sets the idle expiration for sessions.
func WithRedisTTL(ttl time.Duration) RedisOption {
	return func(r *RedisRegistry) {
		r.ttl = ttl
	}
}

// WithRedisPrefix sets the key prefix for sessions.
func WithRedisPrefix(prefix string) RedisOption {
	return func(r *RedisRegistry) {
		r.prefix = prefix
	}
}

// NewRedisRegistry creates a registry against the given address.
func NewRedisRegistry(addr string, opts ...RedisOption) *RedisRegistry {
	client := backend.NewClient(&backend.Options{Addr: addr})
	return NewRedisRegistryFromClient(client, opts...)
}

// NewRedisRegistryFromClient wraps an existing client.
func NewRedisRegistryFromClient(client *backend.Client, opts ...RedisOption) *RedisRegistry {
	r := &RedisRegistry{
		client: client,
		prefix: "riskscan:session:",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *RedisRegistry) key(id string) string {
	return r.prefix + id
}

func (r *RedisRegistry) save(ctx context.Context, id string, records []AnswerRecord) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshal session %s: %w", id, err)
	}
	if err := r.client.Set(ctx, r.key(id), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("save session %s: %w", id, err)
	}
	return nil
}

func (r *RedisRegistry) Create(ctx context.Context, id string) error {
	return r.save(ctx, id, []AnswerRecord{})
}

func (r *RedisRegistry) Append(ctx context.Context, id string, rec AnswerRecord) error {
	records, err := r.Records(ctx, id)
	if err != nil {
		return err
	}
	return r.save(ctx, id, append(records, rec))
}

func (r *RedisRegistry) Records(ctx context.Context, id string) ([]AnswerRecord, error) {
	val, err := r.client.Get(ctx, r.key(id)).Result()
	if err != nil {
		if err == backend.Nil {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}

	var records []AnswerRecord
	if err := json.Unmarshal([]byte(val), &records); err != nil {
		return nil, fmt.Errorf("unmarshal session %s: %w", id, err)
	}
	return records, nil
}

func (r *RedisRegistry) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, r.key(id)).Err(); err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	return nil
}
