// Package signup содержит HTTP-обработчик регистрации аккаунта.
package signup

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
	userservice "github.com/example/sixnumber/internal/services/user"
)

// Request — входные данные для регистрации
type Request struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Nickname string `json:"nickname" validate:"required,min=3,max=50"`
}

// Service описывает операцию регистрации аккаунта.
type Service interface {
	SignUp(ctx context.Context, email, password, nickname string) (*userservice.SignUpResult, error)
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

// ServeHTTP обрабатывает POST /auth/signup.
// Новый аккаунт отвечает 201, повторная активация спящего аккаунта 200.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.signup"

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

	result, err := h.service.SignUp(r.Context(), req.Email, req.Password, req.Nickname)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateEmail):
			render.Status(r, http.StatusConflict)
			render.JSON(w, r, response.Error("email already in use"))
		case errors.Is(err, domain.ErrDuplicateNickname):
			render.Status(r, http.StatusConflict)
			render.JSON(w, r, response.Error("nickname already in use"))
		case errors.Is(err, domain.ErrInvalidCredentials):
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("invalid credentials"))
		default:
			log.Error("signup failed", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to sign up"))
		}
		return
	}

	status := http.StatusCreated
	message := "account created"
	if result.Reactivated {
		status = http.StatusOK
		message = "account reactivated"
	}
	render.Status(r, status)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"user_uid": result.UserUID,
		"message":  message,
	}))
}
