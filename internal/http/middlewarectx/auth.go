// Package middlewarectx содержит HTTP middleware приложения: проверку
// JWT токена и живой сессии, охрану административных операций и
// ограничение частоты запросов.
//
// JWTMiddleware проверяет наличие и валидность JWT токена в заголовке
// Authorization и наличие живого ключа сессии аккаунта. В случае успеха
// добавляет в контекст uid и email аккаунта для дальнейшего использования
// в обработчиках, иначе возвращает HTTP 401 Unauthorized.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/example/sixnumber/internal/http/response"
	"github.com/example/sixnumber/internal/lib/jwt"
	"github.com/example/sixnumber/internal/lib/sl"
	userservice "github.com/example/sixnumber/internal/services/user"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// UserUID — ключ для uid аккаунта в контексте
	UserUID Key = "user_uid"
	// Email — ключ для email аккаунта в контексте
	Email Key = "email"
)

// SessionReader описывает чтение ключей сессий из хранилища.
type SessionReader interface {
	Get(key string, result any) (bool, error)
}

// JWTMiddleware возвращает HTTP middleware, который проверяет JWT в заголовке
// Authorization и живую сессию аккаунта.
//
// Токен должен быть access токеном. Выход из системы гасит ключ сессии,
// после чего даже неистекший access токен перестает приниматься.
func JWTMiddleware(maker jwt.Maker, sessions SessionReader, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.JWTMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Error("missing or invalid authorization header")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("missing or invalid authorization header"))
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			claims, err := maker.ParseToken(tokenStr)
			if err != nil || claims.TokenType != jwt.TokenAccess {
				log.Error("invalid or expired token", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid or expired token"))
				return
			}

			var stored string
			found, err := sessions.Get(userservice.SessionKey(claims.UserUID), &stored)
			if err != nil {
				log.Error("failed to check session", sl.Err(err))
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("internal error"))
				return
			}
			if !found {
				log.Error("no live session for token")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("session expired"))
				return
			}

			ctx := context.WithValue(r.Context(), UserUID, claims.UserUID)
			ctx = context.WithValue(ctx, Email, claims.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
