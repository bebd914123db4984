package service

import (
	"context"
	"errors"
	"fmt"
	"taskly/config"
	"taskly/infras/otel"
	"taskly/internal/domains/todo/event"
	"taskly/internal/domains/todo/model"
	"taskly/internal/domains/todo/model/dto"
	"taskly/internal/domains/todo/repository"
	"taskly/shared/constant"
	"taskly/shared/failure"
	"taskly/shared/timezone"

	"github.com/rs/zerolog/log"
)

// Todo serves the todos of the principal stored in the request context.
type Todo interface {
	GetAll(ctx context.Context) ([]dto.TodoResponse, error)
	Get(ctx context.Context, id string) (dto.TodoResponse, error)
	Create(ctx context.Context, req dto.CreateTodoRequest) (dto.TodoResponse, error)
	Update(ctx context.Context, req dto.UpdateTodoRequest, id string) (dto.TodoResponse, error)
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo      repository.Todo
	publisher event.Publisher
	cfg       *config.Config
	otel      otel.Otel
}

func New(repo repository.Todo, publisher event.Publisher, cfg *config.Config, otel otel.Otel) Todo {
	return &serviceImpl{
		repo:      repo,
		publisher: publisher,
		cfg:       cfg,
		otel:      otel,
	}
}

func (s *serviceImpl) GetAll(ctx context.Context) (res []dto.TodoResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	username, err := principal(ctx)
	if err != nil {
		return nil, err
	}

	todos, err := s.repo.List(ctx, username)
	if err != nil {
		log.Error().Err(err).Str("username", username).Msg("failed to list todos")

		return nil, fmt.Errorf("failed to list todos: %w", err)
	}

	return dto.FromModels(todos), nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.TodoResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()

	username, err := principal(ctx)
	if err != nil {
		return res, err
	}

	todo, err := s.repo.Get(ctx, id, username)
	if err != nil {
		return res, s.translate(scope, err, "failed to get todo")
	}

	res.FromModel(todo)

	return res, nil
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateTodoRequest) (res dto.TodoResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	username, err := principal(ctx)
	if err != nil {
		return res, err
	}

	todo, err := s.repo.Add(ctx, req.ToModel(username))
	if err != nil {
		log.Error().Err(err).Str("username", username).Msg("failed to create todo")

		return res, fmt.Errorf("failed to create todo: %w", err)
	}

	s.publish(ctx, model.EventCreated, todo.ID, &todo)

	res.FromModel(todo)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateTodoRequest, id string) (res dto.TodoResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()

	username, err := principal(ctx)
	if err != nil {
		return res, err
	}

	todo, err := s.repo.Update(ctx, id, req.ToModel(), username)
	if err != nil {
		return res, s.translate(scope, err, "failed to update todo")
	}

	s.publish(ctx, model.EventUpdated, todo.ID, &todo)

	res.FromModel(todo)

	return res, nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()

	username, err := principal(ctx)
	if err != nil {
		return err
	}

	deleted, err := s.repo.Delete(ctx, id, username)
	if err != nil {
		return s.translate(scope, err, "failed to delete todo")
	}

	if !deleted {
		return failure.NotFound(constant.ResponseErrorTodoNotFound) // nolint:wrapcheck
	}

	s.publish(ctx, model.EventDeleted, id, nil)

	return nil
}

// translate maps repository errors onto the failures the transport renders.
func (s *serviceImpl) translate(scope otel.Scope, err error, msg string) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return failure.NotFound(constant.ResponseErrorTodoNotFound) // nolint:wrapcheck
	case errors.Is(err, repository.ErrConcurrentUpdate):
		log.Warn().Err(err).Msg(msg)

		return failure.Conflict(constant.ResponseErrorConcurrentUpdate) // nolint:wrapcheck
	default:
		scope.TraceError(err)
		log.Error().Err(err).Msg(msg)

		return fmt.Errorf("%s: %w", msg, err)
	}
}

// publish never fails the request; the mutation is already committed.
func (s *serviceImpl) publish(ctx context.Context, eventType, id string, todo *model.Todo) {
	username, _ := ctx.Value(constant.ContextKeyUsername).(string)

	evt := model.Event{
		Type:       eventType,
		Username:   username,
		TodoID:     id,
		Todo:       todo,
		OccurredAt: timezone.Now(),
	}

	if err := s.publisher.Publish(ctx, evt); err != nil {
		log.Warn().Err(err).Str("type", eventType).Str("todo_id", id).Msg("failed to publish todo event")
	}
}

func principal(ctx context.Context) (string, error) {
	username, _ := ctx.Value(constant.ContextKeyUsername).(string)
	if username == "" {
		return "", failure.AuthenticationRequired
	}

	return username, nil
}
