// Package list содержит HTTP-обработчик просмотра очереди заявок аккаунта.
package list

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/example/sixnumber/internal/domain"
	"github.com/example/sixnumber/internal/http/middlewarectx"
	"github.com/example/sixnumber/internal/http/response"
	"github.com/example/sixnumber/internal/lib/sl"
	"github.com/example/sixnumber/internal/models"
)

// Service описывает операцию чтения живых заявок аккаунта.
type Service interface {
	ListCharges(ctx context.Context, userUID string) ([]models.ChargeRequest, error)
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP обрабатывает GET /charges. Пустая очередь отвечает 404.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.charge.list"

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

	charges, err := h.service.ListCharges(r.Context(), userUID)
	if err != nil {
		if errors.Is(err, domain.ErrNoData) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("no charge requests"))
			return
		}
		log.Error("failed to list charges", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list charges"))
		return
	}

	render.JSON(w, r, response.OKWithData(charges))
}
