package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"taskly/infras/otel"
	"taskly/internal/domains/user/model"
	"taskly/shared/constant"
	"taskly/shared/store"
)

const otelUsernameAttribute = "user.username"

var (
	ErrNotFound      = errors.New("user not found")
	ErrAlreadyExists = errors.New("user already exists")
)

type User interface {
	Get(ctx context.Context, username string) (model.User, error)
	// Insert stores user only if the username is free.
	Insert(ctx context.Context, user model.User) error
}

type repositoryImpl struct {
	store store.Store
	otel  otel.Otel
}

func New(store store.Store, otel otel.Otel) User {
	return &repositoryImpl{
		store: store,
		otel:  otel,
	}
}

func (r *repositoryImpl) Get(ctx context.Context, username string) (user model.User, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".GetUser")
	defer scope.End()

	scope.SetAttribute(otelUsernameAttribute, username)

	raw, err := r.store.HashGet(ctx, model.HashKey, username)
	if errors.Is(err, store.ErrNotFound) {
		return user, ErrNotFound
	}

	if err != nil {
		scope.TraceError(err)

		return user, fmt.Errorf("failed to get user: %w", err)
	}

	if err = json.Unmarshal([]byte(raw), &user); err != nil {
		scope.TraceError(err)

		return user, fmt.Errorf("failed to decode user %s: %w", username, err)
	}

	return user, nil
}

func (r *repositoryImpl) Insert(ctx context.Context, user model.User) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".InsertUser")
	defer scope.End()

	scope.SetAttribute(otelUsernameAttribute, user.Username)

	payload, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}

	written, err := r.store.HashSetIfAbsent(ctx, model.HashKey, user.Username, string(payload))
	if err != nil {
		scope.TraceError(err)

		return fmt.Errorf("failed to insert user: %w", err)
	}

	if !written {
		return ErrAlreadyExists
	}

	return nil
}
