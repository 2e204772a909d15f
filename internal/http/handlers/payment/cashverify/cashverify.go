// Package cashverify реализует HTTP-обработчик подтверждения оплаты наличными.
//
// Участник ищется по точному телефону и подстроке имени. Если в запросе
// указана платёжная сессия, она проверяется на срок и одноразовость.
package cashverify

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/gym-manager/internal/http/middlewarectx"
	"github.com/magabrotheeeer/gym-manager/internal/http/response"
	"github.com/magabrotheeeer/gym-manager/internal/lib/sl"
	"github.com/magabrotheeeer/gym-manager/internal/models"
	"github.com/magabrotheeeer/gym-manager/internal/services/payment"
	"github.com/magabrotheeeer/gym-manager/internal/storage/repository"
)

// Handler управляет HTTP-запросами на подтверждение наличной оплаты.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики подтверждения наличных.
type Service interface {
	VerifyCash(ctx context.Context, gymID string, req models.DummyCashVerify) (*models.Member, error)
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
// @Summary Подтвердить оплату наличными
// @Description Находит участника по телефону и имени, помечает его оплатившим
// наличными. Опциональная сессия потребляется ровно один раз.
// @Tags Payments
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.DummyCashVerify true "Данные подтверждения"
// @Success 200 {object} map[string]any "Обновленный участник"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 404 {object} response.ErrorResponse "Участник или сессия не найдены"
// @Failure 409 {object} response.ErrorResponse "Сессия уже использована"
// @Failure 410 {object} response.ErrorResponse "Сессия истекла"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /payments/cash/verify [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.cashverify"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyCashVerify
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

	verifiedMember, err := h.service.VerifyCash(r.Context(), gymID, req)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrMemberNotFound):
			log.Error("member not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("member not found"))
		case errors.Is(err, repository.ErrSessionNotFound):
			log.Error("session not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("payment session not found"))
		case errors.Is(err, payment.ErrSessionExpired):
			log.Error("session expired")
			w.WriteHeader(http.StatusGone)
			render.JSON(w, r, response.Error("payment session has expired"))
		case errors.Is(err, payment.ErrSessionConsumed):
			log.Error("session already used")
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("payment session already used"))
		default:
			log.Error("failed to verify cash payment", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not verify payment"))
		}
		return
	}

	log.Info("cash payment verified",
		slog.String("gym_id", gymID),
		slog.String("member_id", verifiedMember.ID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"member_id":  verifiedMember.ID,
		"name":       verifiedMember.Name,
		"fee_status": verifiedMember.FeeStatus,
	}))
}
