// Package remove реализует HTTP-обработчик удаления участника зала.
package remove

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

// Handler управляет HTTP-запросами на удаление участника.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс удаления участника.
type Service interface {
	Remove(ctx context.Context, gymID, memberID string) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Удалить участника
// @Description Удаляет участника из зала текущего владельца.
// @Tags Members
// @Produce  json
// @Security BearerAuth
// @Param memberID path string true "ID участника"
// @Success 200 {object} response.Response "Участник удален"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 404 {object} response.ErrorResponse "Участник не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /members/{memberID} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.member.remove"
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

	if err := h.service.Remove(r.Context(), gymID, memberID); err != nil {
		if errors.Is(err, repository.ErrMemberNotFound) {
			log.Error("member not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("member not found"))
			return
		}
		log.Error("failed to remove member", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not remove member"))
		return
	}

	log.Info("member removed",
		slog.String("gym_id", gymID),
		slog.String("member_id", memberID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"member_id": memberID,
	}))
}
