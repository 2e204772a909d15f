// Package rollover реализует HTTP-обработчик ручного запуска месячного сброса.
// Доступен только с ролью admin; обычно сброс выполняет планировщик.
package rollover

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

// Handler управляет HTTP-запросами на запуск сброса.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс запуска месячного сброса.
type Service interface {
	ResetAllTenants(ctx context.Context) (*models.RolloverResult, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Запустить месячный сброс
// @Description Переводит активных участников всех залов в unpaid с полной
// месячной ставкой. Сбой одного зала не прерывает остальные.
// @Tags Admin
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Итог сброса"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 403 {object} response.ErrorResponse "Требуется роль admin"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /admin/rollover [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.rollover"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	result, err := h.service.ResetAllTenants(r.Context())
	if err != nil {
		log.Error("failed to run rollover", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not run rollover"))
		return
	}

	log.Info("rollover finished",
		slog.Int("tenants", result.TenantCount),
		slog.Int("updated_members", result.UpdatedMemberCount),
		slog.Int("failures", len(result.Failures)))
	render.JSON(w, r, response.OKWithData(result))
}
