// Package get содержит HTTP-обработчик чтения выписки по счёту за месяц.
package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/example/sixnumber/internal/domain"
	"github.com/example/sixnumber/internal/http/middlewarectx"
	"github.com/example/sixnumber/internal/http/response"
	"github.com/example/sixnumber/internal/lib/sl"
	"github.com/example/sixnumber/internal/models"
)

// Service описывает операцию чтения выписки за месяц.
type Service interface {
	GetStatement(ctx context.Context, userUID string, year, monthNum int) ([]models.StatementEntry, error)
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP обрабатывает GET /statement?year=2025&month=3.
// Пустой месяц отвечает 404.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.statement.get"

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

	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil || year < 1970 {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid year"))
		return
	}
	monthNum, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil || monthNum < 1 || monthNum > 12 {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid month"))
		return
	}

	entries, err := h.service.GetStatement(r.Context(), userUID, year, monthNum)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
		case errors.Is(err, domain.ErrNoData):
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("no statement entries"))
		default:
			log.Error("failed to get statement", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to get statement"))
		}
		return
	}

	render.JSON(w, r, response.OKWithData(entries))
}
