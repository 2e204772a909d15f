// Package gym содержит бизнес-логику регистрации арендаторов и доступа
// к их карточкам с кешированием.
package gym

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/gym-manager/internal/lib/password"
	"github.com/magabrotheeeer/gym-manager/internal/models"
)

// ErrInvalidFee возвращается, если месячная ставка не является
// положительным десятичным числом.
var ErrInvalidFee = errors.New("monthly fee must be a positive number")

// Repository определяет методы для работы с залами в хранилище.
type Repository interface {
	// CreateGym добавляет нового арендатора.
	CreateGym(ctx context.Context, gym models.Gym) error
	// ReadGym возвращает зал по ID.
	ReadGym(ctx context.Context, gymID string) (*models.Gym, error)
	// ReadGymByPhone возвращает зал по телефону владельца.
	ReadGymByPhone(ctx context.Context, phone string) (*models.Gym, error)
	// ListGyms возвращает всех арендаторов.
	ListGyms(ctx context.Context) ([]*models.Gym, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// Service реализует бизнес-логику работы с залами, включая кеширование.
type Service struct {
	repo  Repository
	cache Cache
	log   *slog.Logger
	now   func() time.Time
}

// New создает новый экземпляр Service.
func New(repo Repository, cache Cache, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		log:   log,
		now:   time.Now,
	}
}

// Register регистрирует нового владельца зала. Телефон уникален глобально:
// занятый номер возвращает ошибку конфликта из хранилища.
func (s *Service) Register(ctx context.Context, req models.DummyGym) (*models.Gym, error) {
	monthlyFee, err := decimal.NewFromString(req.MonthlyFee)
	if err != nil || !monthlyFee.IsPositive() {
		return nil, ErrInvalidFee
	}

	passwordHash, err := password.GetHash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	var senderPhone *string
	if req.SenderPhone != "" {
		senderPhone = &req.SenderPhone
	}

	newGym := models.Gym{
		ID:           uuid.NewString(),
		OwnerName:    req.OwnerName,
		Phone:        req.Phone,
		PasswordHash: passwordHash,
		GymName:      req.GymName,
		Address:      req.Address,
		MonthlyFee:   monthlyFee,
		SenderPhone:  senderPhone,
		CreatedAt:    s.now(),
	}
	if err := s.repo.CreateGym(ctx, newGym); err != nil {
		return nil, err
	}

	s.log.Info("registered new gym", slog.String("gym_id", newGym.ID))

	cacheKey := fmt.Sprintf("gym:%s", newGym.ID)
	if err := s.cache.Set(cacheKey, newGym, time.Hour); err != nil {
		s.log.Warn("failed to cache gym", slog.String("key", cacheKey), slog.Any("err", err))
	}

	return &newGym, nil
}

// Get возвращает зал по ID, используя кеш или репозиторий.
func (s *Service) Get(ctx context.Context, gymID string) (*models.Gym, error) {
	var result *models.Gym
	cacheKey := fmt.Sprintf("gym:%s", gymID)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		s.log.Warn("failed to read gym from cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	if found && result != nil {
		return result, nil
	}

	result, err = s.repo.ReadGym(ctx, gymID)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(cacheKey, result, time.Hour); err != nil {
		s.log.Warn("failed to cache gym", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return result, nil
}

// List возвращает всех арендаторов.
func (s *Service) List(ctx context.Context) ([]*models.Gym, error) {
	return s.repo.ListGyms(ctx)
}
