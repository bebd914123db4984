package event

//go:generate go run go.uber.org/mock/mockgen -source=./event.go -destination=../mocks/event_mock.go -package=mocks

import (
	"context"
	"fmt"
	"taskly/config"
	"taskly/infras/kafka"
	"taskly/infras/otel"
	"taskly/internal/domains/todo/model"
	"taskly/shared/constant"
	"taskly/shared/timezone"
)

const otelEventTypeAttribute = "event.type"

// Publisher announces changes to a user's todos.
type Publisher interface {
	Publish(ctx context.Context, evt model.Event) error
}

type kafkaPublisher struct {
	client kafka.Client
	topic  string
	otel   otel.Otel
}

// New returns a Kafka backed publisher, or one that drops every event when
// Kafka is disabled.
func New(cfg *config.Config, client kafka.Client, otel otel.Otel) Publisher {
	if !cfg.Kafka.Enable {
		return noopPublisher{}
	}

	return &kafkaPublisher{
		client: client,
		topic:  cfg.Kafka.Topic.Todo,
		otel:   otel,
	}
}

func (p *kafkaPublisher) Publish(ctx context.Context, evt model.Event) (err error) {
	ctx, scope := p.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".Publish")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute(otelEventTypeAttribute, evt.Type)

	if evt.OccurredAt.IsZero() {
		evt.OccurredAt = timezone.Now()
	}

	err = p.client.SendMessages(ctx, p.topic, kafka.Message{
		Key:   evt.Username,
		Value: evt,
	})
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", evt.Type, err)
	}

	return nil
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, model.Event) error {
	return nil
}
