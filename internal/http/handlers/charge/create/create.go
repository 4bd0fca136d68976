// Package create содержит HTTP-обработчик подачи заявки на пополнение.
package create

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
	"github.com/example/sixnumber/internal/http/middlewarectx"
	"github.com/example/sixnumber/internal/http/response"
	"github.com/example/sixnumber/internal/lib/sl"
	"github.com/example/sixnumber/internal/models"
)

// Request — входные данные для заявки на пополнение
type Request struct {
	Msg  string `json:"msg" validate:"required,min=1,max=255"`
	Cash int    `json:"cash" validate:"required,gt=0"`
}

// Service описывает операцию подачи заявки на пополнение.
type Service interface {
	Submit(ctx context.Context, userUID, msg string, cash int) (*models.ChargeRequest, error)
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

// ServeHTTP обрабатывает POST /charges.
// Превышение дневного лимита отвечает 429, дубль полезной нагрузки 409.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.charge.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("missing user uid in context")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

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

	charge, err := h.service.Submit(r.Context(), userUID, req.Msg, req.Cash)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRateLimited):
			render.Status(r, http.StatusTooManyRequests)
			render.JSON(w, r, response.Error("daily charge limit reached"))
		case errors.Is(err, domain.ErrDuplicateCharge):
			render.Status(r, http.StatusConflict)
			render.JSON(w, r, response.Error("duplicate charge request"))
		case errors.Is(err, domain.ErrUserNotFound):
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
		default:
			log.Error("failed to submit charge", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to submit charge"))
		}
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OKWithData(charge))
}
