// Package register реализует HTTP-обработчик регистрации участника зала.
//
// Handler принимает JSON с именем и телефоном, извлекает идентификатор зала
// из контекста и возвращает созданного участника с пропорциональным взносом
// за первый цикл.
package register

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
	"github.com/magabrotheeeer/gym-manager/internal/storage/repository"
)

// Handler управляет HTTP-запросами на регистрацию участников.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики регистрации участника.
type Service interface {
	Register(ctx context.Context, gymID string, req models.DummyMember) (*models.Member, error)
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
// @Summary Зарегистрировать участника
// @Description Добавляет участника в зал текущего владельца. Взнос за первый
// цикл пропорционален оставшимся дням месяца.
// @Tags Members
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.DummyMember true "Данные участника"
// @Success 200 {object} map[string]any "Созданный участник"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 409 {object} response.ErrorResponse "Телефон уже занят в зале"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /members [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.member.register"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyMember
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

	createdMember, err := h.service.Register(r.Context(), gymID, req)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicatePhone) {
			log.Error("phone already registered in gym")
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("phone already registered in this gym"))
			return
		}
		log.Error("failed to register member", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not register member"))
		return
	}

	log.Info("member registered",
		slog.String("gym_id", gymID),
		slog.String("member_id", createdMember.ID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"member_id":         createdMember.ID,
		"name":              createdMember.Name,
		"current_month_fee": createdMember.CurrentMonthFee.StringFixed(2),
		"fee_status":        createdMember.FeeStatus,
	}))
}
