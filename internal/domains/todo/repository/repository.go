package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"taskly/config"
	"taskly/infras/otel"
	"taskly/internal/domains/todo/model"
	"taskly/shared/constant"
	"taskly/shared/store"

	"github.com/rs/zerolog/log"
)

const (
	otelUsernameAttribute = "todo.username"
	otelIDAttribute       = "todo.id"
	otelAttemptAttribute  = "todo.attempts"
)

var (
	ErrNotFound         = errors.New("todo not found")
	ErrConcurrentUpdate = errors.New("todo list modified concurrently")
)

// Todo keeps each user's todos as an ordered list of JSON documents. Items are
// addressed by id, so every lookup is a linear scan of the user's list.
type Todo interface {
	List(ctx context.Context, username string) ([]model.Todo, error)
	Get(ctx context.Context, id, username string) (model.Todo, error)
	Add(ctx context.Context, todo model.Todo) (model.Todo, error)
	Update(ctx context.Context, id string, updates model.TodoUpdate, username string) (model.Todo, error)
	Delete(ctx context.Context, id, username string) (bool, error)
}

type repositoryImpl struct {
	store store.Store
	cfg   *config.Config
	otel  otel.Otel
}

func New(store store.Store, cfg *config.Config, otel otel.Otel) Todo {
	return &repositoryImpl{
		store: store,
		cfg:   cfg,
		otel:  otel,
	}
}

func (r *repositoryImpl) List(ctx context.Context, username string) (todos []model.Todo, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".List")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute(otelUsernameAttribute, username)

	key := model.Key(username)

	raw, err := r.store.Range(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}

	todos = make([]model.Todo, 0, len(raw))

	for i, entry := range raw {
		todo, ok := decode(key, i, entry)
		if !ok {
			continue
		}

		todos = append(todos, todo)
	}

	return todos, nil
}

func (r *repositoryImpl) Get(ctx context.Context, id, username string) (todo model.Todo, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".Get")
	defer scope.End()
	defer func() {
		if !errors.Is(err, ErrNotFound) {
			scope.TraceIfError(err)
		}
	}()

	scope.SetAttributes(map[string]any{
		otelUsernameAttribute: username,
		otelIDAttribute:       id,
	})

	key := model.Key(username)

	raw, err := r.store.Range(ctx, key)
	if err != nil {
		return todo, fmt.Errorf("failed to get todo: %w", err)
	}

	_, todo, found := find(key, raw, id)
	if !found {
		return todo, ErrNotFound
	}

	return todo, nil
}

func (r *repositoryImpl) Add(ctx context.Context, todo model.Todo) (_ model.Todo, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".Add")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttributes(map[string]any{
		otelUsernameAttribute: todo.Username,
		otelIDAttribute:       todo.ID,
	})

	payload, err := json.Marshal(todo)
	if err != nil {
		return todo, fmt.Errorf("failed to encode todo: %w", err)
	}

	if err = r.store.Append(ctx, model.Key(todo.Username), string(payload)); err != nil {
		return todo, fmt.Errorf("failed to add todo: %w", err)
	}

	return todo, nil
}

// Update merges the present fields into the first item with the given id and
// rewrites only that position of the list.
func (r *repositoryImpl) Update(
	ctx context.Context,
	id string,
	updates model.TodoUpdate,
	username string,
) (merged model.Todo, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".Update")
	defer scope.End()
	defer func() {
		if !errors.Is(err, ErrNotFound) {
			scope.TraceIfError(err)
		}
	}()

	scope.SetAttributes(map[string]any{
		otelUsernameAttribute: username,
		otelIDAttribute:       id,
	})

	key := model.Key(username)

	err = r.retryOnConflict(ctx, scope, key, func(tx store.Tx) error {
		raw, err := tx.Range(ctx, key)
		if err != nil {
			return err //nolint:wrapcheck
		}

		index, current, found := find(key, raw, id)
		if !found {
			return ErrNotFound
		}

		merged = updates.Apply(current)

		payload, err := json.Marshal(merged)
		if err != nil {
			return fmt.Errorf("failed to encode todo: %w", err)
		}

		tx.ReplaceAt(key, int64(index), string(payload))

		return nil
	})
	if err != nil {
		return model.Todo{}, err
	}

	return merged, nil
}

// Delete removes the first item with the given id. The list is rewritten with
// every other entry in its original order, including entries that fail to
// decode. An emptied list leaves the key absent.
func (r *repositoryImpl) Delete(ctx context.Context, id, username string) (deleted bool, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttributes(map[string]any{
		otelUsernameAttribute: username,
		otelIDAttribute:       id,
	})

	key := model.Key(username)

	err = r.retryOnConflict(ctx, scope, key, func(tx store.Tx) error {
		deleted = false

		raw, err := tx.Range(ctx, key)
		if err != nil {
			return err //nolint:wrapcheck
		}

		index, _, found := find(key, raw, id)
		if !found {
			return nil
		}

		remaining := make([]string, 0, len(raw)-1)
		remaining = append(remaining, raw[:index]...)
		remaining = append(remaining, raw[index+1:]...)

		tx.DeleteKey(key)
		tx.Append(key, remaining...)

		deleted = true

		return nil
	})
	if err != nil {
		return false, err
	}

	return deleted, nil
}

// retryOnConflict runs fn in a watched transaction on key, re-running it from a
// fresh read when another writer touched the list first.
func (r *repositoryImpl) retryOnConflict(
	ctx context.Context,
	scope otel.Scope,
	key string,
	fn func(tx store.Tx) error,
) error {
	attempts := max(r.cfg.Store.MaxConflictRetries, 0) + 1

	for attempt := 1; attempt <= attempts; attempt++ {
		err := r.store.Watch(ctx, key, fn)

		switch {
		case err == nil:
			scope.SetAttribute(otelAttemptAttribute, attempt)

			return nil
		case errors.Is(err, ErrNotFound):
			return ErrNotFound
		case errors.Is(err, store.ErrConflict):
			log.Warn().Str("key", key).Int("attempt", attempt).Msg("todo list changed during write, retrying")

			continue
		default:
			return fmt.Errorf("failed to write todo list: %w", err)
		}
	}

	scope.SetAttribute(otelAttemptAttribute, attempts)

	return ErrConcurrentUpdate
}

// find returns the position and value of the first decodable entry whose id
// equals id exactly.
func find(key string, raw []string, id string) (int, model.Todo, bool) {
	for i, entry := range raw {
		todo, ok := decode(key, i, entry)
		if !ok {
			continue
		}

		if todo.ID == id {
			return i, todo, true
		}
	}

	return -1, model.Todo{}, false
}

func decode(key string, index int, entry string) (model.Todo, bool) {
	var todo model.Todo

	if err := json.Unmarshal([]byte(entry), &todo); err != nil {
		log.Warn().Err(err).Str("key", key).Int("index", index).Msg("skipping corrupt todo entry")

		return todo, false
	}

	return todo, true
}
