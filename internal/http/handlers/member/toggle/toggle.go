// Package toggle реализует HTTP-обработчик переключения активности участника.
package toggle

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/gym-manager/internal/http/middlewarectx"
	"github.com/magabrotheeeer/gym-manager/internal/http/response"
	"github.com/magabrotheeeer/gym-manager/internal/lib/sl"
	"github.com/magabrotheeeer/gym-manager/internal/storage/repository"
)

// Handler управляет HTTP-запросами на переключение активности.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс переключения активности участника.
type Service interface {
	ToggleActive(ctx context.Context, gymID, memberID string) (bool, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Переключить активность участника
// @Description Деактивирует активного участника и наоборот. Неактивные
// участники не получают напоминаний и не участвуют в месячном сбросе.
// @Tags Members
// @Produce  json
// @Security BearerAuth
// @Param memberID path string true "ID участника"
// @Success 200 {object} map[string]any "Новое значение активности"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 404 {object} response.ErrorResponse "Участник не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /members/{memberID}/toggle [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.member.toggle"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	gymID, ok := r.Context().Value(middlewarectx.GymID).(string)
	if !ok || gymID == "" {
		log.Error("gym id not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}
	memberID := chi.URLParam(r, "memberID")

	isActive, err := h.service.ToggleActive(r.Context(), gymID, memberID)
	if err != nil {
		if errors.Is(err, repository.ErrMemberNotFound) {
			log.Error("member not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("member not found"))
			return
		}
		log.Error("failed to toggle member", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not toggle member"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"member_id": memberID,
		"is_active": isActive,
	}))
}
