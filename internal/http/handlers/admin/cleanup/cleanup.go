// Package cleanup реализует HTTP-обработчик ручного запуска зачистки:
// удаление старых терминальных уведомлений и истёкших платёжных сессий.
package cleanup

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/gym-manager/internal/http/response"
	"github.com/magabrotheeeer/gym-manager/internal/lib/sl"
)

// Handler управляет HTTP-запросами на зачистку.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс зачистки.
type Service interface {
	Cleanup(ctx context.Context) (int, int, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Запустить зачистку
// @Description Удаляет доставленные и ошибочные уведомления старше срока
// хранения и истёкшие платёжные сессии.
// @Tags Admin
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Количество удаленных записей"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 403 {object} response.ErrorResponse "Требуется роль admin"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /admin/cleanup [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.cleanup"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	removedNotifications, removedSessions, err := h.service.Cleanup(r.Context())
	if err != nil {
		log.Error("failed to run cleanup", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not run cleanup"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"removed_notifications": removedNotifications,
		"removed_sessions":      removedSessions,
	}))
}
