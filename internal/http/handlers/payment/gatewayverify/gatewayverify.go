// Package gatewayverify реализует HTTP-обработчик подтверждения оплаты от
// платёжного шлюза. Запрос приходит после завершения оплаты на стороне шлюза
// и содержит подпись, которая проверяется перед сменой статуса участника.
package gatewayverify

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/gym-manager/internal/http/response"
	"github.com/magabrotheeeer/gym-manager/internal/lib/sl"
	"github.com/magabrotheeeer/gym-manager/internal/models"
	"github.com/magabrotheeeer/gym-manager/internal/services/payment"
	"github.com/magabrotheeeer/gym-manager/internal/storage/repository"
)

// Handler управляет HTTP-запросами подтверждения от шлюза.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс подтверждения оплаты шлюза.
type Service interface {
	VerifyGateway(ctx context.Context, req models.DummyGatewayVerify) (*models.GatewayOrder, error)
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
// @Summary Подтвердить оплату шлюза
// @Description Проверяет подпись шлюза и помечает участника оплатившим.
// Неверная подпись отклоняется без смены состояния.
// @Tags Payments
// @Accept  json
// @Produce  json
// @Param request body models.DummyGatewayVerify true "Данные подтверждения"
// @Success 200 {object} map[string]any "Завершенный заказ"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или подпись"
// @Failure 404 {object} response.ErrorResponse "Заказ не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /payments/gateway/verify [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.gatewayverify"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyGatewayVerify
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

	order, err := h.service.VerifyGateway(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrOrderNotFound):
			log.Error("order not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("order not found"))
		case errors.Is(err, payment.ErrInvalidSignature):
			log.Error("invalid gateway signature")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid signature"))
		default:
			log.Error("failed to verify gateway payment", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not verify payment"))
		}
		return
	}

	log.Info("gateway payment verified",
		slog.String("order_id", order.OrderID),
		slog.String("member_id", order.MemberID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"order_id": order.OrderID,
		"status":   order.Status,
	}))
}
