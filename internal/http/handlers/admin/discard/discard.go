// Package discard содержит административный HTTP-обработчик отклонения
// заявки на пополнение.
package discard

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/example/sixnumber/internal/domain"
	"github.com/example/sixnumber/internal/http/response"
	"github.com/example/sixnumber/internal/lib/sl"
)

// Request — входные данные для отклонения заявки
type Request struct {
	UserUID   string `json:"user_uid" validate:"required,uuid"`
	RequestID string `json:"request_id" validate:"required,uuid"`
}

// Service описывает операцию отклонения заявки администратором.
type Service interface {
	Discard(ctx context.Context, userUID, requestID string) error
}

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP обрабатывает POST /admin/charges/discard.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.discard"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	if err := h.service.Discard(r.Context(), req.UserUID, req.RequestID); err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
		case errors.Is(err, domain.ErrNoData):
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("charge request not found"))
		default:
			log.Error("failed to discard charge", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to discard charge"))
		}
		return
	}

	render.JSON(w, r, response.OK())
}
