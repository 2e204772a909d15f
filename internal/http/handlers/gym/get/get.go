// Package get реализует HTTP-обработчик чтения карточки своего зала.
package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/gym-manager/internal/http/middlewarectx"
	"github.com/magabrotheeeer/gym-manager/internal/http/response"
	"github.com/magabrotheeeer/gym-manager/internal/lib/sl"
	"github.com/magabrotheeeer/gym-manager/internal/models"
	"github.com/magabrotheeeer/gym-manager/internal/storage/repository"
)

// Handler управляет HTTP-запросами на чтение зала.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс чтения зала.
type Service interface {
	Get(ctx context.Context, gymID string) (*models.Gym, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Получить свой зал
// @Description Возвращает карточку зала текущего владельца.
// @Tags Gyms
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Карточка зала"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 404 {object} response.ErrorResponse "Зал не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /gym [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.gym.get"
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

	foundGym, err := h.service.Get(r.Context(), gymID)
	if err != nil {
		if errors.Is(err, repository.ErrGymNotFound) {
			log.Error("gym not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("gym not found"))
			return
		}
		log.Error("failed to read gym", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read gym"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"gym_id":       foundGym.ID,
		"owner_name":   foundGym.OwnerName,
		"gym_name":     foundGym.GymName,
		"address":      foundGym.Address,
		"monthly_fee":  foundGym.MonthlyFee.StringFixed(2),
		"sender_phone": foundGym.ReminderSender(),
	}))
}
