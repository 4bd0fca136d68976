// Package signout содержит HTTP-обработчик выхода из системы.
package signout

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/example/sixnumber/internal/http/middlewarectx"
	"github.com/example/sixnumber/internal/http/response"
	"github.com/example/sixnumber/internal/lib/sl"
)

// Service описывает операцию выхода из системы.
type Service interface {
	SignOut(ctx context.Context, userUID string) error
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP обрабатывает POST /auth/signout. Операция идемпотентна.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.signout"

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

	if err := h.service.SignOut(r.Context(), userUID); err != nil {
		log.Error("signout failed", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to sign out"))
		return
	}

	render.JSON(w, r, response.OK())
}
