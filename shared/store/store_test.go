package store_test

import (
	"context"
	"errors"
	"taskly/infras/otel/mocks"
	"taskly/shared/store"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) (store.Store, *redis.Client, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	other := redis.NewClient(&redis.Options{Addr: server.Addr()})

	t.Cleanup(func() {
		_ = client.Close()
		_ = other.Close()
	})

	return store.New(client, mocks.NewOtel()), other, server
}

func TestStore_ListPrimitives(t *testing.T) {
	s, _, server := newStore(t)
	ctx := context.Background()

	values, err := s.Range(ctx, "todos:alice")
	require.NoError(t, err)
	assert.Empty(t, values)

	require.NoError(t, s.Append(ctx, "todos:alice", "a", "b"))
	require.NoError(t, s.Append(ctx, "todos:alice", "c"))
	require.NoError(t, s.Append(ctx, "todos:alice"))

	values, err = s.Range(ctx, "todos:alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, values)

	require.NoError(t, s.ReplaceAt(ctx, "todos:alice", 1, "B"))

	values, err = s.Range(ctx, "todos:alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "B", "c"}, values)

	assert.Error(t, s.ReplaceAt(ctx, "todos:alice", 9, "x"))

	require.NoError(t, s.DeleteKey(ctx, "todos:alice"))
	assert.False(t, server.Exists("todos:alice"))
}

func TestStore_HashPrimitives(t *testing.T) {
	s, _, _ := newStore(t)
	ctx := context.Background()

	_, err := s.HashGet(ctx, "users", "alice")
	assert.ErrorIs(t, err, store.ErrNotFound)

	written, err := s.HashSetIfAbsent(ctx, "users", "alice", `{"username":"alice"}`)
	require.NoError(t, err)
	assert.True(t, written)

	written, err = s.HashSetIfAbsent(ctx, "users", "alice", `{"username":"mallory"}`)
	require.NoError(t, err)
	assert.False(t, written)

	value, err := s.HashGet(ctx, "users", "alice")
	require.NoError(t, err)
	assert.Equal(t, `{"username":"alice"}`, value)
}

func TestStore_WatchCommits(t *testing.T) {
	s, _, server := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, "todos:alice", "a", "b", "c"))

	err := s.Watch(ctx, "todos:alice", func(tx store.Tx) error {
		values, err := tx.Range(ctx, "todos:alice")
		if err != nil {
			return err
		}

		tx.DeleteKey("todos:alice")
		tx.Append("todos:alice", values[0], values[2])

		return nil
	})
	require.NoError(t, err)

	list, err := server.List("todos:alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, list)
}

func TestStore_WatchDetectsConflict(t *testing.T) {
	s, other, server := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, "todos:alice", "a", "b"))

	err := s.Watch(ctx, "todos:alice", func(tx store.Tx) error {
		if _, err := tx.Range(ctx, "todos:alice"); err != nil {
			return err
		}

		// A concurrent writer lands between the read and the commit.
		require.NoError(t, other.RPush(ctx, "todos:alice", "late").Err())

		tx.DeleteKey("todos:alice")
		tx.Append("todos:alice", "a")

		return nil
	})
	assert.ErrorIs(t, err, store.ErrConflict)

	list, err := server.List("todos:alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "late"}, list)
}

func TestStore_WatchPropagatesCallbackError(t *testing.T) {
	s, _, _ := newStore(t)
	sentinel := errors.New("not found")

	err := s.Watch(context.Background(), "todos:alice", func(store.Tx) error {
		return sentinel
	})

	assert.ErrorIs(t, err, sentinel)
}

func TestStore_Unavailable(t *testing.T) {
	s, _, server := newStore(t)
	server.Close()

	ctx := context.Background()

	_, err := s.Range(ctx, "todos:alice")
	assert.Error(t, err)

	_, err = s.HashGet(ctx, "users", "alice")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, store.ErrNotFound)

	assert.Error(t, s.Ping(ctx))
}
