package model

import "time"

const (
	EntityName = "todo"

	// KeyPrefix namespaces the per-user list holding that user's todos.
	KeyPrefix = "todos:"
)

const (
	EventCreated = "todo.created"
	EventUpdated = "todo.updated"
	EventDeleted = "todo.deleted"
)

type Todo struct {
	ID        string    `json:"id"`
	Task      string    `json:"task"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
	Username  string    `json:"username"`
}

// TodoUpdate is a partial update. Nil fields are left untouched.
type TodoUpdate struct {
	Task      *string
	Completed *bool
}

// Apply merges the present fields of u into todo.
func (u TodoUpdate) Apply(todo Todo) Todo {
	if u.Task != nil {
		todo.Task = *u.Task
	}

	if u.Completed != nil {
		todo.Completed = *u.Completed
	}

	return todo
}

func Key(username string) string {
	return KeyPrefix + username
}

type Event struct {
	Type       string    `json:"type"`
	Username   string    `json:"username"`
	TodoID     string    `json:"todo_id"`
	Todo       *Todo     `json:"todo,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
