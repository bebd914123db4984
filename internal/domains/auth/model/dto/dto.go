package dto

import (
	userModel "taskly/internal/domains/user/model"
	"taskly/shared/timezone"
	"time"
)

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=6"`
}

func (r *RegisterRequest) ToUserModel(hashedPassword string) userModel.User {
	return userModel.User{
		Username:  r.Username,
		Password:  hashedPassword,
		CreatedAt: timezone.Now(),
	}
}

type RegisterResponse struct {
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

func (r *RegisterResponse) FromModel(user userModel.User) {
	r.Username = user.Username
	r.CreatedAt = user.CreatedAt
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
}
