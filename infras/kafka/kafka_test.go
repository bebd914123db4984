package kafka_test

import (
	"encoding/json"
	"math"
	"taskly/infras/kafka"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessage_ToKafkaMessage(t *testing.T) {
	msg := kafka.Message{
		Key:   "alice",
		Value: map[string]string{"type": "todo.created"},
	}

	out, err := msg.ToKafkaMessage("todo-events")
	require.NoError(t, err)

	assert.Equal(t, "todo-events", out.Topic)
	assert.Equal(t, []byte("alice"), out.Key)

	var value map[string]string
	require.NoError(t, json.Unmarshal(out.Value, &value))
	assert.Equal(t, "todo.created", value["type"])
}

func TestMessage_ToKafkaMessageInvalidValue(t *testing.T) {
	msg := kafka.Message{Key: "alice", Value: math.Inf(1)}

	_, err := msg.ToKafkaMessage("todo-events")

	assert.Error(t, err)
}
