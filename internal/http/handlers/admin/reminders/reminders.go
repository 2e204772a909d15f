// Package reminders реализует HTTP-обработчик ручного запуска генерации
// месячных напоминаний. Повторный запуск идемпотентен: уже созданные за
// период напоминания пропускаются.
package reminders

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/gym-manager/internal/http/response"
	"github.com/magabrotheeeer/gym-manager/internal/lib/sl"
	"github.com/magabrotheeeer/gym-manager/internal/models"
)

// Handler управляет HTTP-запросами на генерацию напоминаний.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс генерации месячных напоминаний.
type Service interface {
	GenerateMonthlyReminders(ctx context.Context) (*models.GenerateResult, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Сгенерировать напоминания
// @Description Ставит в очередь напоминания всем активным неплательщикам
// каждого зала за текущий период.
// @Tags Admin
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Итог генерации"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 403 {object} response.ErrorResponse "Требуется роль admin"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /admin/reminders [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.reminders"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	result, err := h.service.GenerateMonthlyReminders(r.Context())
	if err != nil {
		log.Error("failed to generate reminders", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not generate reminders"))
		return
	}

	log.Info("reminder generation finished",
		slog.Int("enqueued", result.EnqueuedCount),
		slog.Int("skipped", result.SkippedCount),
		slog.Int("failures", len(result.Failures)))
	render.JSON(w, r, response.OKWithData(result))
}
