// Package batch реализует HTTP-обработчик выборки партии уведомлений.
//
// Используется внешними интеграциями и отладкой: возвращает уведомления,
// готовые к отправке, с учётом часового и дневного лимитов. Достигнутый
// лимит не является ошибкой и отдается с кодом 200.
package batch

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/gym-manager/internal/http/response"
	"github.com/magabrotheeeer/gym-manager/internal/lib/sl"
	"github.com/magabrotheeeer/gym-manager/internal/models"
)

const defaultLimit = 20

// Handler управляет HTTP-запросами на выборку партии уведомлений.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс выборки партии из очереди.
type Service interface {
	NextBatch(ctx context.Context, limit int) (*models.NotificationBatch, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Получить партию уведомлений
// @Description Возвращает ожидающие уведомления с учётом лимитов отправки.
// @Tags Notifications
// @Produce  json
// @Security BearerAuth
// @Param limit query int false "Максимальный размер партии"
// @Success 200 {object} map[string]any "Партия или признак лимита"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /notifications/batch [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.notification.batch"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	limit := defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			log.Error("invalid limit query param")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("limit must be a positive integer"))
			return
		}
		limit = parsed
	}

	batch, err := h.service.NextBatch(r.Context(), limit)
	if err != nil {
		log.Error("failed to fetch batch", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not fetch batch"))
		return
	}

	if batch.RateLimited {
		render.JSON(w, r, response.OKWithData(map[string]any{
			"rate_limited": true,
			"message":      batch.Message,
			"hour_count":   batch.HourCount,
			"day_count":    batch.DayCount,
		}))
		return
	}

	items := make([]map[string]any, 0, len(batch.Notifications))
	for _, n := range batch.Notifications {
		items = append(items, map[string]any{
			"notification_id": n.ID,
			"phone":           n.Phone,
			"sender_phone":    n.SenderPhone,
			"message":         n.Message,
			"category":        n.Category,
			"priority":        n.Priority,
		})
	}
	render.JSON(w, r, response.OKWithData(map[string]any{
		"rate_limited":  false,
		"notifications": items,
		"count":         len(items),
	}))
}
