// Package status реализует HTTP-обработчик отчёта о доставке уведомления.
// Внешний канал сообщает итог отправки, очередь переводит уведомление в
// терминальный статус.
package status

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/gym-manager/internal/http/response"
	"github.com/magabrotheeeer/gym-manager/internal/lib/sl"
	"github.com/magabrotheeeer/gym-manager/internal/models"
)

// Handler управляет HTTP-запросами отчётов о доставке.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс смены статуса уведомления.
type Service interface {
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id, reason string) error
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
// @Summary Сообщить итог доставки
// @Description Переводит уведомление в sent или failed по отчёту канала.
// Уведомление в терминальном статусе не меняется.
// @Tags Notifications
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param notificationID path string true "ID уведомления"
// @Param request body models.DummyNotificationStatus true "Итог доставки"
// @Success 200 {object} response.Response "Статус обновлен"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /notifications/{notificationID}/status [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.notification.status"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyNotificationStatus
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

	notificationID := chi.URLParam(r, "notificationID")

	var err error
	if req.Status == models.NotificationStatusSent {
		err = h.service.MarkSent(r.Context(), notificationID)
	} else {
		err = h.service.MarkFailed(r.Context(), notificationID, req.Error)
	}
	if err != nil {
		log.Error("failed to update notification status", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not update status"))
		return
	}

	log.Info("notification status updated",
		slog.String("notification_id", notificationID),
		slog.String("status", req.Status))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"notification_id": notificationID,
		"status":          req.Status,
	}))
}
