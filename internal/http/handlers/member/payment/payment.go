// Package payment реализует HTTP-обработчик смены способа оплаты участника.
// Успешный запрос переводит участника в статус paid выбранным способом.
package payment

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/gym-manager/internal/http/middlewarectx"
	"github.com/magabrotheeeer/gym-manager/internal/http/response"
	"github.com/magabrotheeeer/gym-manager/internal/lib/sl"
	"github.com/magabrotheeeer/gym-manager/internal/models"
	"github.com/magabrotheeeer/gym-manager/internal/storage/repository"
)

// Handler управляет HTTP-запросами на смену способа оплаты.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики подтверждения оплаты.
type Service interface {
	SetMethod(ctx context.Context, gymID, memberID, method string) (*models.Member, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Сменить способ оплаты
// @Description Фиксирует способ оплаты участника и переводит его в статус paid.
// @Tags Members
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param memberID path string true "ID участника"
// @Param request body models.DummyPaymentUpdate true "Способ оплаты"
// @Success 200 {object} map[string]any "Обновленный участник"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 404 {object} response.ErrorResponse "Участник не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /members/{memberID}/payment [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.member.payment"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyPaymentUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	gymID, ok := r.Context().Value(middlewarectx.GymID).(string)
	if !ok || gymID == "" {
		log.Error("gym id not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}
	memberID := chi.URLParam(r, "memberID")

	updatedMember, err := h.service.SetMethod(r.Context(), gymID, memberID, req.PaymentMethod)
	if err != nil {
		if errors.Is(err, repository.ErrMemberNotFound) {
			log.Error("member not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("member not found"))
			return
		}
		log.Error("failed to update payment", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not update payment"))
		return
	}

	log.Info("payment method updated",
		slog.String("gym_id", gymID),
		slog.String("member_id", memberID),
		slog.String("method", req.PaymentMethod))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"member_id":  updatedMember.ID,
		"fee_status": updatedMember.FeeStatus,
	}))
}
