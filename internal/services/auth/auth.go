// Package auth содержит логику аутентификации владельцев залов.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/gym-manager/internal/lib/jwt"
	"github.com/magabrotheeeer/gym-manager/internal/lib/password"
	"github.com/magabrotheeeer/gym-manager/internal/models"
	"github.com/magabrotheeeer/gym-manager/internal/storage/repository"
)

// ErrInvalidCredentials возвращается при неверной паре телефон/пароль.
// Ответ не различает "нет такого владельца" и "неверный пароль".
var ErrInvalidCredentials = errors.New("invalid phone or password")

// Repository определяет доступ к владельцам залов.
type Repository interface {
	ReadGymByPhone(ctx context.Context, phone string) (*models.Gym, error)
}

// Service реализует вход владельца и выпуск токена.
type Service struct {
	repo     Repository
	tokenMkr jwt.Maker
	log      *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, tokenMkr jwt.Maker, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		tokenMkr: tokenMkr,
		log:      log,
	}
}

// Login проверяет учетные данные владельца и возвращает JWT.
func (s *Service) Login(ctx context.Context, req models.DummyLogin) (string, *models.Gym, error) {
	foundGym, err := s.repo.ReadGymByPhone(ctx, req.Phone)
	if err != nil {
		if errors.Is(err, repository.ErrGymNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("failed to read gym: %w", err)
	}

	if err := password.CompareHash(foundGym.PasswordHash, req.Password); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokenMkr.GenerateToken(foundGym.ID, jwt.RoleOwner)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.log.Info("owner logged in", slog.String("gym_id", foundGym.ID))
	return token, foundGym, nil
}
