// Package sessioncreate реализует HTTP-обработчик создания платёжной сессии.
package sessioncreate

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
	"github.com/magabrotheeeer/gym-manager/internal/models"
	"github.com/magabrotheeeer/gym-manager/internal/storage/repository"
)

// Handler управляет HTTP-запросами на создание платёжной сессии.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс создания платёжной сессии.
type Service interface {
	CreateSession(ctx context.Context, gymID, memberID string) (*models.PaymentSession, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Создать платёжную сессию
// @Description Создает короткоживущую сессию оплаты для участника. Сессия
// потребляется один раз при подтверждении наличной оплаты.
// @Tags Payments
// @Produce  json
// @Security BearerAuth
// @Param memberID path string true "ID участника"
// @Success 200 {object} map[string]any "Созданная сессия"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 404 {object} response.ErrorResponse "Участник не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /members/{memberID}/session [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.sessioncreate"
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

	session, err := h.service.CreateSession(r.Context(), gymID, memberID)
	if err != nil {
		if errors.Is(err, repository.ErrMemberNotFound) {
			log.Error("member not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("member not found"))
			return
		}
		log.Error("failed to create session", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create session"))
		return
	}

	log.Info("payment session created",
		slog.String("gym_id", gymID),
		slog.String("session_id", session.ID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"session_id": session.ID,
		"amount":     session.Amount.StringFixed(2),
		"expires_at": session.ExpiresAt,
	}))
}
