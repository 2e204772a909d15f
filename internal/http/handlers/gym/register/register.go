// Package register реализует HTTP-обработчик регистрации владельца зала.
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

	"github.com/magabrotheeeer/gym-manager/internal/http/response"
	"github.com/magabrotheeeer/gym-manager/internal/lib/sl"
	"github.com/magabrotheeeer/gym-manager/internal/models"
	"github.com/magabrotheeeer/gym-manager/internal/services/gym"
	"github.com/magabrotheeeer/gym-manager/internal/storage/repository"
)

// Handler управляет HTTP-запросами на регистрацию зала.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики регистрации зала.
type Service interface {
	Register(ctx context.Context, req models.DummyGym) (*models.Gym, error)
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
// @Summary Зарегистрировать зал
// @Description Создает нового арендатора: зал с владельцем и месячной ставкой.
// @Tags Gyms
// @Accept  json
// @Produce  json
// @Param request body models.DummyGym true "Данные зала"
// @Success 200 {object} map[string]any "ID созданного зала"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или ставка"
// @Failure 409 {object} response.ErrorResponse "Телефон уже занят"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /gyms [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.gym.register"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyGym
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

	createdGym, err := h.service.Register(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, gym.ErrInvalidFee):
			log.Error("invalid monthly fee")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("monthly fee must be a positive number"))
		case errors.Is(err, repository.ErrDuplicatePhone):
			log.Error("phone already registered")
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("phone already registered"))
		default:
			log.Error("failed to register gym", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not register gym"))
		}
		return
	}

	log.Info("gym registered", slog.String("gym_id", createdGym.ID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"gym_id": createdGym.ID,
	}))
}
