// Package sixnumber собирает HTTP-приложение: хранилища, сервисы,
// маршруты и жизненный цикл сервера.
package sixnumber

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/example/sixnumber/internal/config"
	admindiscard "github.com/example/sixnumber/internal/http/handlers/admin/discard"
	adminsettle "github.com/example/sixnumber/internal/http/handlers/admin/settle"
	"github.com/example/sixnumber/internal/http/handlers/auth/signin"
	"github.com/example/sixnumber/internal/http/handlers/auth/signout"
	"github.com/example/sixnumber/internal/http/handlers/auth/signup"
	chargecreate "github.com/example/sixnumber/internal/http/handlers/charge/create"
	chargelist "github.com/example/sixnumber/internal/http/handlers/charge/list"
	"github.com/example/sixnumber/internal/http/handlers/health"
	statementget "github.com/example/sixnumber/internal/http/handlers/statement/get"
	"github.com/example/sixnumber/internal/http/handlers/user/cash"
	"github.com/example/sixnumber/internal/http/handlers/user/paid"
	"github.com/example/sixnumber/internal/http/handlers/user/withdraw"
	"github.com/example/sixnumber/internal/http/middlewarectx"
	"github.com/example/sixnumber/internal/lib/jwt"
	chargeservice "github.com/example/sixnumber/internal/services/charge"
	statementservice "github.com/example/sixnumber/internal/services/statement"
	userservice "github.com/example/sixnumber/internal/services/user"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(
	r chi.Router,
	cfg *config.Config,
	logger *slog.Logger,
	maker jwt.Maker,
	sessions middlewarectx.SessionReader,
	userService *userservice.UserService,
	chargeService *chargeservice.ChargeService,
	statementService *statementservice.StatementService,
) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/auth/signup", signup.New(logger, userService).ServeHTTP)
		r.Post("/auth/signin", signin.New(logger, userService).ServeHTTP)
		r.Get("/health", health.New(logger).ServeHTTP)

		// Группа с JWT аутентификацией и живой сессией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(maker, sessions, logger))
			r.Use(middlewarectx.RateLimitMiddleware(10, 30, logger))
			r.Post("/auth/signout", signout.New(logger, userService).ServeHTTP)
			r.Post("/users/withdraw", withdraw.New(logger, userService).ServeHTTP)
			r.Post("/users/paid", paid.New(logger, userService).ServeHTTP)
			r.Get("/users/cash", cash.New(logger, userService).ServeHTTP)
			r.Post("/charges", chargecreate.New(logger, chargeService).ServeHTTP)
			r.Get("/charges", chargelist.New(logger, chargeService).ServeHTTP)
			r.Get("/statement", statementget.New(logger, statementService).ServeHTTP)
		})

		// Административные конечные точки
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.AdminMiddleware(cfg.AdminToken, logger))
			r.Post("/admin/charges/settle", adminsettle.New(logger, chargeService).ServeHTTP)
			r.Post("/admin/charges/discard", admindiscard.New(logger, chargeService).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
