package home

import (
	"net/http"
	"taskly/shared/constant"
	"taskly/transport/http/response"

	"github.com/go-chi/chi/v5"
)

type Handler struct{}

func New() Handler {
	return Handler{}
}

func (h *Handler) Router(r chi.Router) {
	r.Get("/", h.Hello)
}

// Hello answers the root path so clients can check they reached the API.
// @Summary Greeting
// @Tags Home
// @Produce json
// @Success 200 {object} response.Message
// @Router / [get]
func (h *Handler) Hello(w http.ResponseWriter, _ *http.Request) {
	response.WithMessage(w, http.StatusOK, constant.ResponseMessageHello)
}
