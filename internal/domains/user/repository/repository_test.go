package repository_test

import (
	"context"
	"testing"
	"time"

	"taskly/infras/otel/mocks"
	"taskly/internal/domains/user/model"
	"taskly/internal/domains/user/repository"
	"taskly/shared/store"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepository(t *testing.T) (repository.User, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})

	t.Cleanup(func() { _ = client.Close() })

	return repository.New(store.New(client, mocks.NewOtel()), mocks.NewOtel()), server
}

func TestUserRepository_InsertGet(t *testing.T) {
	repo, server := newRepository(t)
	ctx := context.Background()

	user := model.User{
		Username:  "alice",
		Password:  "$2a$10$hash",
		CreatedAt: time.Date(2024, time.March, 1, 9, 30, 0, 0, time.UTC),
	}

	require.NoError(t, repo.Insert(ctx, user))

	got, err := repo.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, user, got)

	raw := server.HGet(model.HashKey, "alice")
	assert.JSONEq(t, `{"username":"alice","password":"$2a$10$hash","createdAt":"2024-03-01T09:30:00Z"}`, raw)
}

func TestUserRepository_InsertDuplicate(t *testing.T) {
	repo, _ := newRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, model.User{Username: "alice", Password: "first"}))

	err := repo.Insert(ctx, model.User{Username: "alice", Password: "second"})
	assert.ErrorIs(t, err, repository.ErrAlreadyExists)

	got, err := repo.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "first", got.Password)
}

func TestUserRepository_GetMissing(t *testing.T) {
	repo, _ := newRepository(t)

	_, err := repo.Get(context.Background(), "nobody")

	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserRepository_GetCorrupt(t *testing.T) {
	repo, server := newRepository(t)

	server.HSet(model.HashKey, "alice", "{broken")

	_, err := repo.Get(context.Background(), "alice")

	require.Error(t, err)
	assert.NotErrorIs(t, err, repository.ErrNotFound)
}

func TestUserRepository_StoreUnavailable(t *testing.T) {
	repo, server := newRepository(t)
	server.Close()

	_, err := repo.Get(context.Background(), "alice")
	require.Error(t, err)
	assert.NotErrorIs(t, err, repository.ErrNotFound)

	assert.Error(t, repo.Insert(context.Background(), model.User{Username: "alice"}))
}
