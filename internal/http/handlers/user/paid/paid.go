// Package paid содержит HTTP-обработчик управления платной подпиской.
package paid

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/example/sixnumber/internal/domain"
	"github.com/example/sixnumber/internal/http/middlewarectx"
	"github.com/example/sixnumber/internal/http/response"
	"github.com/example/sixnumber/internal/lib/sl"
)

// Request — входные данные для управления подпиской.
// Пустой CancelMsg означает оформление подписки, непустой — отмену
// с записью сообщения.
type Request struct {
	CancelMsg string `json:"cancel_msg,omitempty"`
}

// Service описывает операцию управления платной подпиской.
type Service interface {
	SetPaid(ctx context.Context, userUID string, cancelMsg *string) error
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP обрабатывает POST /users/paid.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.paid"

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

	var cancelMsg *string
	if req.CancelMsg != "" {
		cancelMsg = &req.CancelMsg
	}

	if err := h.service.SetPaid(r.Context(), userUID, cancelMsg); err != nil {
		switch {
		case errors.Is(err, domain.ErrInsufficientFunds):
			render.Status(r, http.StatusPaymentRequired)
			render.JSON(w, r, response.Error("insufficient funds"))
		case errors.Is(err, domain.ErrUserNotFound):
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
		default:
			log.Error("failed to update subscription", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to update subscription"))
		}
		return
	}

	render.JSON(w, r, response.OK())
}
