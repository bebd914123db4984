package dto

import (
	"taskly/internal/domains/todo/model"
	"taskly/shared/timezone"
	"time"

	"github.com/google/uuid"
)

type CreateTodoRequest struct {
	Task string `json:"task" validate:"required,notblank"`
}

func (c *CreateTodoRequest) ToModel(username string) model.Todo {
	return model.Todo{
		ID:        uuid.NewString(),
		Task:      c.Task,
		Completed: false,
		CreatedAt: timezone.Now(),
		Username:  username,
	}
}

type UpdateTodoRequest struct {
	Task      *string `json:"task" validate:"omitempty,notblank"`
	Completed *bool   `json:"completed"`
}

func (u *UpdateTodoRequest) ToModel() model.TodoUpdate {
	return model.TodoUpdate{
		Task:      u.Task,
		Completed: u.Completed,
	}
}

type TodoResponse struct {
	ID        string    `json:"id"`
	Task      string    `json:"task"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
	Username  string    `json:"username"`
}

func (r *TodoResponse) FromModel(model model.Todo) {
	r.ID = model.ID
	r.Task = model.Task
	r.Completed = model.Completed
	r.CreatedAt = model.CreatedAt
	r.Username = model.Username
}

// FromModels always returns a non-nil slice so an empty list encodes as [].
func FromModels(models []model.Todo) []TodoResponse {
	res := make([]TodoResponse, len(models))
	for i, mod := range models {
		res[i].FromModel(mod)
	}

	return res
}

type DeleteTodoResponse struct {
	Message string `json:"message"`
}
