// Package list реализует HTTP-обработчик списка участников зала.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/gym-manager/internal/http/middlewarectx"
	"github.com/magabrotheeeer/gym-manager/internal/http/response"
	"github.com/magabrotheeeer/gym-manager/internal/lib/sl"
	"github.com/magabrotheeeer/gym-manager/internal/models"
)

// Handler управляет HTTP-запросами на список участников.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс чтения участников зала.
type Service interface {
	List(ctx context.Context, gymID string) ([]*models.Member, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список участников
// @Description Возвращает всех участников зала текущего владельца.
// @Tags Members
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Список участников"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /members [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.member.list"
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

	members, err := h.service.List(r.Context(), gymID)
	if err != nil {
		log.Error("failed to list members", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list members"))
		return
	}

	items := make([]map[string]any, 0, len(members))
	for _, m := range members {
		items = append(items, map[string]any{
			"member_id":         m.ID,
			"name":              m.Name,
			"phone":             m.Phone,
			"joining_date":      m.JoiningDate.Format("2006-01-02"),
			"fee_status":        m.FeeStatus,
			"current_month_fee": m.CurrentMonthFee.StringFixed(2),
			"is_active":         m.IsActive,
		})
	}
	render.JSON(w, r, response.OKWithData(map[string]any{
		"members": items,
		"count":   len(items),
	}))
}
