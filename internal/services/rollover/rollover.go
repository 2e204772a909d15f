// Package rollover содержит логику начала нового платёжного цикла для
// всех арендаторов. Сбой одного зала не прерывает обработку остальных.
package rollover

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/gym-manager/internal/lib/sl"
	"github.com/magabrotheeeer/gym-manager/internal/models"
)

// Store определяет операции сброса цикла для участников одного зала.
type Store interface {
	ResetForNewCycle(ctx context.Context, monthlyFee decimal.Decimal, now time.Time) (int, error)
}

// TenantStore возвращает хранилище участников конкретного зала.
type TenantStore func(gymID string) Store

// GymRepository отдает список всех арендаторов.
type GymRepository interface {
	ListGyms(ctx context.Context) ([]*models.Gym, error)
}

// Service выполняет месячный сброс по всем залам.
type Service struct {
	gyms    GymRepository
	members TenantStore
	log     *slog.Logger
	now     func() time.Time
}

// New создает новый экземпляр Service.
func New(gyms GymRepository, members TenantStore, log *slog.Logger) *Service {
	return &Service{
		gyms:    gyms,
		members: members,
		log:     log,
		now:     time.Now,
	}
}

// ResetAllTenants переводит всех активных участников каждого зала в
// unpaid с полной месячной ставкой. Ошибка по одному залу фиксируется в
// результате, остальные залы обрабатываются дальше.
func (s *Service) ResetAllTenants(ctx context.Context) (*models.RolloverResult, error) {
	allGyms, err := s.gyms.ListGyms(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list gyms: %w", err)
	}

	result := &models.RolloverResult{TenantCount: len(allGyms)}
	for _, currentGym := range allGyms {
		updated, err := s.members(currentGym.ID).ResetForNewCycle(ctx, currentGym.MonthlyFee, s.now())
		if err != nil {
			s.log.Error("failed to reset gym for new cycle",
				slog.String("gym_id", currentGym.ID), sl.Err(err))
			result.Failures = append(result.Failures, models.TenantFailure{
				GymID: currentGym.ID,
				Err:   err.Error(),
			})
			continue
		}
		result.UpdatedMemberCount += updated
	}

	s.log.Info("completed monthly rollover",
		slog.Int("tenants", result.TenantCount),
		slog.Int("updated_members", result.UpdatedMemberCount),
		slog.Int("failures", len(result.Failures)))
	return result, nil
}
