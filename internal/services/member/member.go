// Package member содержит бизнес-логику работы с участниками зала.
// Первый месячный взнос считается пропорционально оставшимся дням месяца.
package member

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/gym-manager/internal/lib/fee"
	"github.com/magabrotheeeer/gym-manager/internal/models"
)

// Store определяет операции над участниками одного зала.
type Store interface {
	Create(ctx context.Context, member models.Member) error
	Read(ctx context.Context, memberID string) (*models.Member, error)
	List(ctx context.Context) ([]*models.Member, error)
	ToggleActive(ctx context.Context, memberID string) (bool, error)
	Remove(ctx context.Context, memberID string) error
}

// TenantStore возвращает хранилище участников конкретного зала.
// Все запросы через него ограничены этим залом.
type TenantStore func(gymID string) Store

// GymProvider отдает карточку зала, нужна для расчета взноса.
type GymProvider interface {
	Get(ctx context.Context, gymID string) (*models.Gym, error)
}

// Service реализует бизнес-логику работы с участниками.
type Service struct {
	gyms    GymProvider
	members TenantStore
	log     *slog.Logger
	now     func() time.Time
}

// New создает новый экземпляр Service.
func New(gyms GymProvider, members TenantStore, log *slog.Logger) *Service {
	return &Service{
		gyms:    gyms,
		members: members,
		log:     log,
		now:     time.Now,
	}
}

// Register добавляет участника. Взнос за первый цикл пропорционален
// оставшимся дням месяца, при вступлении первого числа берется полная
// месячная ставка.
func (s *Service) Register(ctx context.Context, gymID string, req models.DummyMember) (*models.Member, error) {
	ownerGym, err := s.gyms.Get(ctx, gymID)
	if err != nil {
		return nil, err
	}

	joiningDate := s.now()
	firstFee := fee.FirstCycleFee(ownerGym.MonthlyFee, joiningDate)

	newMember := models.Member{
		ID:              uuid.NewString(),
		GymID:           gymID,
		Name:            req.Name,
		Phone:           req.Phone,
		JoiningDate:     joiningDate,
		FeeStatus:       models.FeeStatusUnpaid,
		CurrentMonthFee: firstFee,
		IsActive:        true,
		CreatedAt:       s.now(),
	}
	if err := s.members(gymID).Create(ctx, newMember); err != nil {
		return nil, err
	}

	s.log.Info("registered new member",
		slog.String("gym_id", gymID),
		slog.String("member_id", newMember.ID),
		slog.String("first_fee", firstFee.String()))
	return &newMember, nil
}

// Get возвращает участника зала по ID.
func (s *Service) Get(ctx context.Context, gymID, memberID string) (*models.Member, error) {
	return s.members(gymID).Read(ctx, memberID)
}

// List возвращает всех участников зала.
func (s *Service) List(ctx context.Context, gymID string) ([]*models.Member, error) {
	return s.members(gymID).List(ctx)
}

// ToggleActive переключает флаг активности участника и возвращает
// новое значение.
func (s *Service) ToggleActive(ctx context.Context, gymID, memberID string) (bool, error) {
	isActive, err := s.members(gymID).ToggleActive(ctx, memberID)
	if err != nil {
		return false, err
	}
	s.log.Info("toggled member activity",
		slog.String("gym_id", gymID),
		slog.String("member_id", memberID),
		slog.Bool("is_active", isActive))
	return isActive, nil
}

// Remove удаляет участника зала.
func (s *Service) Remove(ctx context.Context, gymID, memberID string) error {
	if err := s.members(gymID).Remove(ctx, memberID); err != nil {
		return err
	}
	s.log.Info("removed member",
		slog.String("gym_id", gymID),
		slog.String("member_id", memberID))
	return nil
}
