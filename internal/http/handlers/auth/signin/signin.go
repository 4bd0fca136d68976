// Package signin содержит HTTP-обработчик входа в систему.
package signin

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

// Request — входные данные для входа
type Request struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Service описывает операцию входа в систему.
type Service interface {
	SignIn(ctx context.Context, email, password string) (string, error)
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

// ServeHTTP обрабатывает POST /auth/signin.
// Конфликт с живой сессией отвечает 409: брошенный ключ уже удален,
// повторный вход пройдет успешно.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.signin"

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

	token, err := h.service.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrInvalidCredentials):
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("invalid credentials"))
		case errors.Is(err, domain.ErrStatusNotActive):
			render.Status(r, http.StatusForbidden)
			render.JSON(w, r, response.Error("account is not active"))
		case errors.Is(err, domain.ErrSessionConflict):
			render.Status(r, http.StatusConflict)
			render.JSON(w, r, response.Error("already signed in elsewhere, try again"))
		default:
			log.Error("signin failed", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to sign in"))
		}
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"access_token": token,
	}))
}
