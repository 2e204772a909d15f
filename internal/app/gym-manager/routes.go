// Package gymmanager предоставляет маршруты для основного приложения.
package gymmanager

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/gym-manager/internal/http/handlers/admin/cleanup"
	adminreminders "github.com/magabrotheeeer/gym-manager/internal/http/handlers/admin/reminders"
	adminrollover "github.com/magabrotheeeer/gym-manager/internal/http/handlers/admin/rollover"
	"github.com/magabrotheeeer/gym-manager/internal/http/handlers/auth/login"
	gymget "github.com/magabrotheeeer/gym-manager/internal/http/handlers/gym/get"
	gymregister "github.com/magabrotheeeer/gym-manager/internal/http/handlers/gym/register"
	"github.com/magabrotheeeer/gym-manager/internal/http/handlers/health"
	memberlist "github.com/magabrotheeeer/gym-manager/internal/http/handlers/member/list"
	memberpayment "github.com/magabrotheeeer/gym-manager/internal/http/handlers/member/payment"
	memberregister "github.com/magabrotheeeer/gym-manager/internal/http/handlers/member/register"
	memberremove "github.com/magabrotheeeer/gym-manager/internal/http/handlers/member/remove"
	membertoggle "github.com/magabrotheeeer/gym-manager/internal/http/handlers/member/toggle"
	notificationbatch "github.com/magabrotheeeer/gym-manager/internal/http/handlers/notification/batch"
	notificationenqueue "github.com/magabrotheeeer/gym-manager/internal/http/handlers/notification/enqueue"
	notificationstatus "github.com/magabrotheeeer/gym-manager/internal/http/handlers/notification/status"
	"github.com/magabrotheeeer/gym-manager/internal/http/handlers/payment/cashverify"
	"github.com/magabrotheeeer/gym-manager/internal/http/handlers/payment/gatewayverify"
	"github.com/magabrotheeeer/gym-manager/internal/http/handlers/payment/ordercreate"
	"github.com/magabrotheeeer/gym-manager/internal/http/handlers/payment/sessioncreate"
	"github.com/magabrotheeeer/gym-manager/internal/http/middlewarectx"
	"github.com/magabrotheeeer/gym-manager/internal/lib/jwt"
	authservice "github.com/magabrotheeeer/gym-manager/internal/services/auth"
	gymservice "github.com/magabrotheeeer/gym-manager/internal/services/gym"
	memberservice "github.com/magabrotheeeer/gym-manager/internal/services/member"
	notificationservice "github.com/magabrotheeeer/gym-manager/internal/services/notification"
	paymentservice "github.com/magabrotheeeer/gym-manager/internal/services/payment"
	rolloverservice "github.com/magabrotheeeer/gym-manager/internal/services/rollover"
)

// Services объединяет сервисы, нужные маршрутам API.
type Services struct {
	Auth         *authservice.Service
	Gym          *gymservice.Service
	Member       *memberservice.Service
	Payment      *paymentservice.Service
	Rollover     *rolloverservice.Service
	Notification *notificationservice.Service
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, tokenMaker jwt.Maker, s *Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/gyms", gymregister.New(logger, s.Gym).ServeHTTP)
		r.Post("/auth/login", login.New(logger, s.Auth).ServeHTTP)

		// Подтверждение от шлюза приходит без авторизации: его
		// аутентифицирует подпись.
		r.Post("/payments/gateway/verify", gatewayverify.New(logger, s.Payment).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(tokenMaker, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Get("/gym", gymget.New(logger, s.Gym).ServeHTTP)

			r.Post("/members", memberregister.New(logger, s.Member).ServeHTTP)
			r.Get("/members", memberlist.New(logger, s.Member).ServeHTTP)
			r.Post("/members/{memberID}/payment", memberpayment.New(logger, s.Payment).ServeHTTP)
			r.Post("/members/{memberID}/toggle", membertoggle.New(logger, s.Member).ServeHTTP)
			r.Delete("/members/{memberID}", memberremove.New(logger, s.Member).ServeHTTP)
			r.Post("/members/{memberID}/session", sessioncreate.New(logger, s.Payment).ServeHTTP)
			r.Post("/members/{memberID}/order", ordercreate.New(logger, s.Payment).ServeHTTP)

			r.Post("/payments/cash/verify", cashverify.New(logger, s.Payment).ServeHTTP)

			r.Post("/notifications", notificationenqueue.New(logger, s.Notification).ServeHTTP)
			r.Get("/notifications/batch", notificationbatch.New(logger, s.Notification).ServeHTTP)
			r.Post("/notifications/{notificationID}/status", notificationstatus.New(logger, s.Notification).ServeHTTP)

			// Административные операции
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireAdmin(logger))
				r.Post("/admin/rollover", adminrollover.New(logger, s.Rollover).ServeHTTP)
				r.Post("/admin/reminders", adminreminders.New(logger, s.Notification).ServeHTTP)
				r.Post("/admin/cleanup", cleanup.New(logger, s.Notification).ServeHTTP)
			})
		})
	})

	r.Get("/health", health.New(logger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
