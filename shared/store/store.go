// Package store is the persistence client for list and hash shaped data. It knows
// nothing about what the stored values mean; callers hand it opaque strings.
//
// Every method maps to a single Redis primitive and is atomic on its own. Sequences
// of primitives are only atomic when run through Watch.
package store

import (
	"context"
	"errors"
	"fmt"
	"taskly/infras/otel"
	"taskly/shared/constant"

	"github.com/redis/go-redis/v9"
)

const (
	otelStoreKeyAttribute   = "store.key"
	otelStoreFieldAttribute = "store.field"
	otelStoreIndexAttribute = "store.index"
	otelStoreCountAttribute = "store.count"
)

var (
	// ErrNotFound is returned by HashGet when the field does not exist.
	ErrNotFound = errors.New("store: not found")
	// ErrConflict is returned by Watch when the watched key changed before commit.
	ErrConflict = errors.New("store: watched key modified concurrently")
)

type Store interface {
	// Append pushes values onto the tail of the list at key, creating it if absent.
	Append(ctx context.Context, key string, values ...string) error
	// Range returns every element of the list at key. An absent key is an empty list.
	Range(ctx context.Context, key string) ([]string, error)
	// ReplaceAt overwrites the element at index.
	ReplaceAt(ctx context.Context, key string, index int64, value string) error
	// DeleteKey removes key entirely.
	DeleteKey(ctx context.Context, key string) error
	HashGet(ctx context.Context, key, field string) (string, error)
	// HashSetIfAbsent writes field only if it does not exist yet and reports whether it wrote.
	HashSetIfAbsent(ctx context.Context, key, field, value string) (bool, error)
	// Watch runs fn against key under optimistic locking. Writes queued on the Tx are
	// committed together, and only if key was not modified since Watch began.
	Watch(ctx context.Context, key string, fn func(tx Tx) error) error
	Ping(ctx context.Context) error
}

// Tx is the view of a watched key. Range reads immediately; writes are queued.
type Tx interface {
	Range(ctx context.Context, key string) ([]string, error)
	ReplaceAt(key string, index int64, value string)
	DeleteKey(key string)
	Append(key string, values ...string)
}

type redisStore struct {
	client *redis.Client
	otel   otel.Otel
}

func New(client *redis.Client, otel otel.Otel) Store {
	return &redisStore{
		client: client,
		otel:   otel,
	}
}

func (s *redisStore) Append(ctx context.Context, key string, values ...string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelStoreScopeName, constant.OtelStoreScopeName+".Append")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttributes(map[string]any{
		otelStoreKeyAttribute:   key,
		otelStoreCountAttribute: len(values),
	})

	if len(values) == 0 {
		return nil
	}

	if err = s.client.RPush(ctx, key, toAny(values)...).Err(); err != nil {
		return fmt.Errorf("failed to append to %s: %w", key, err)
	}

	return nil
}

func (s *redisStore) Range(ctx context.Context, key string) (values []string, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelStoreScopeName, constant.OtelStoreScopeName+".Range")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute(otelStoreKeyAttribute, key)

	values, err = s.client.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read range of %s: %w", key, err)
	}

	scope.SetAttribute(otelStoreCountAttribute, len(values))

	return values, nil
}

func (s *redisStore) ReplaceAt(ctx context.Context, key string, index int64, value string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelStoreScopeName, constant.OtelStoreScopeName+".ReplaceAt")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttributes(map[string]any{
		otelStoreKeyAttribute:   key,
		otelStoreIndexAttribute: index,
	})

	if err = s.client.LSet(ctx, key, index, value).Err(); err != nil {
		return fmt.Errorf("failed to replace %s[%d]: %w", key, index, err)
	}

	return nil
}

func (s *redisStore) DeleteKey(ctx context.Context, key string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelStoreScopeName, constant.OtelStoreScopeName+".DeleteKey")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute(otelStoreKeyAttribute, key)

	if err = s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}

	return nil
}

func (s *redisStore) HashGet(ctx context.Context, key, field string) (value string, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelStoreScopeName, constant.OtelStoreScopeName+".HashGet")
	defer scope.End()

	scope.SetAttributes(map[string]any{
		otelStoreKeyAttribute:   key,
		otelStoreFieldAttribute: field,
	})

	value, err = s.client.HGet(ctx, key, field).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}

	if err != nil {
		scope.TraceError(err)

		return "", fmt.Errorf("failed to get %s[%s]: %w", key, field, err)
	}

	return value, nil
}

func (s *redisStore) HashSetIfAbsent(ctx context.Context, key, field, value string) (written bool, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelStoreScopeName, constant.OtelStoreScopeName+".HashSetIfAbsent")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttributes(map[string]any{
		otelStoreKeyAttribute:   key,
		otelStoreFieldAttribute: field,
	})

	written, err = s.client.HSetNX(ctx, key, field, value).Result()
	if err != nil {
		return false, fmt.Errorf("failed to set %s[%s]: %w", key, field, err)
	}

	return written, nil
}

func (s *redisStore) Watch(ctx context.Context, key string, fn func(tx Tx) error) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelStoreScopeName, constant.OtelStoreScopeName+".Watch")
	defer scope.End()

	scope.SetAttribute(otelStoreKeyAttribute, key)

	err = s.client.Watch(ctx, func(rtx *redis.Tx) error {
		tx := &redisTx{tx: rtx}

		if err := fn(tx); err != nil {
			return err
		}

		if len(tx.ops) == 0 {
			return nil
		}

		_, err := rtx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			for _, op := range tx.ops {
				op(ctx, pipe)
			}

			return nil
		})

		return err //nolint:wrapcheck
	}, key)

	if errors.Is(err, redis.TxFailedErr) {
		scope.AddEvent("watched key modified")

		return ErrConflict
	}

	if err != nil {
		scope.TraceError(err)

		return fmt.Errorf("failed to run transaction on %s: %w", key, err)
	}

	return nil
}

func (s *redisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping store: %w", err)
	}

	return nil
}

type redisTx struct {
	tx  *redis.Tx
	ops []func(ctx context.Context, pipe redis.Pipeliner)
}

func (t *redisTx) Range(ctx context.Context, key string) ([]string, error) {
	values, err := t.tx.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read range of %s: %w", key, err)
	}

	return values, nil
}

func (t *redisTx) ReplaceAt(key string, index int64, value string) {
	t.ops = append(t.ops, func(ctx context.Context, pipe redis.Pipeliner) {
		pipe.LSet(ctx, key, index, value)
	})
}

func (t *redisTx) DeleteKey(key string) {
	t.ops = append(t.ops, func(ctx context.Context, pipe redis.Pipeliner) {
		pipe.Del(ctx, key)
	})
}

func (t *redisTx) Append(key string, values ...string) {
	if len(values) == 0 {
		return
	}

	t.ops = append(t.ops, func(ctx context.Context, pipe redis.Pipeliner) {
		pipe.RPush(ctx, key, toAny(values)...)
	})
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, value := range values {
		out[i] = value
	}

	return out
}
