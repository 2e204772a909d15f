// Package ordercreate реализует HTTP-обработчик создания заказа в платёжном шлюзе.
package ordercreate

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

// Handler управляет HTTP-запросами на создание заказа шлюза.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс создания заказа в шлюзе.
type Service interface {
	CreateOrder(ctx context.Context, gymID, memberID string) (*models.GatewayOrder, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Создать заказ в шлюзе
// @Description Создает заказ во внешнем платёжном шлюзе на сумму текущего
// взноса участника.
// @Tags Payments
// @Produce  json
// @Security BearerAuth
// @Param memberID path string true "ID участника"
// @Success 200 {object} map[string]any "Созданный заказ"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 404 {object} response.ErrorResponse "Участник не найден"
// @Failure 502 {object} response.ErrorResponse "Шлюз недоступен"
// @Router /members/{memberID}/order [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.ordercreate"
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

	order, err := h.service.CreateOrder(r.Context(), gymID, memberID)
	if err != nil {
		if errors.Is(err, repository.ErrMemberNotFound) {
			log.Error("member not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("member not found"))
			return
		}
		log.Error("failed to create order", sl.Err(err))
		w.WriteHeader(http.StatusBadGateway)
		render.JSON(w, r, response.Error("could not create order"))
		return
	}

	log.Info("gateway order created",
		slog.String("gym_id", gymID),
		slog.String("order_id", order.OrderID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"order_id": order.OrderID,
		"amount":   order.Amount.StringFixed(2),
		"status":   order.Status,
	}))
}
