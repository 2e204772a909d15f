// Package notification содержит логику очереди уведомлений: генерация
// месячных напоминаний с дедупликацией по периоду, постановка ручных
// сообщений, выборка партий с учётом лимитов отправки и зачистка.
package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/gym-manager/internal/config"
	"github.com/magabrotheeeer/gym-manager/internal/lib/fee"
	"github.com/magabrotheeeer/gym-manager/internal/lib/message"
	"github.com/magabrotheeeer/gym-manager/internal/lib/sl"
	"github.com/magabrotheeeer/gym-manager/internal/models"
	"github.com/magabrotheeeer/gym-manager/internal/storage/repository"
)

// Repository определяет работу с очередью уведомлений в хранилище.
type Repository interface {
	CreateNotification(ctx context.Context, n models.Notification) error
	ReminderExists(ctx context.Context, gymID, memberID, period string) (bool, error)
	CountSentSince(ctx context.Context, since time.Time) (int, error)
	ListPendingNotifications(ctx context.Context, limit int) ([]*models.Notification, error)
	MarkNotificationSent(ctx context.Context, id string, now time.Time) (bool, error)
	MarkNotificationFailed(ctx context.Context, id, reason string, now time.Time) (bool, error)
	DeleteTerminalNotificationsBefore(ctx context.Context, cutoff time.Time) (int, error)
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int, error)
}

// GymRepository отдает арендаторов для генерации напоминаний.
type GymRepository interface {
	ReadGym(ctx context.Context, gymID string) (*models.Gym, error)
	ListGyms(ctx context.Context) ([]*models.Gym, error)
}

// Store определяет операции чтения участников одного зала.
type Store interface {
	Read(ctx context.Context, memberID string) (*models.Member, error)
	ListUnpaidActive(ctx context.Context) ([]*models.Member, error)
}

// TenantStore возвращает хранилище участников конкретного зала.
type TenantStore func(gymID string) Store

// Service реализует бизнес-логику очереди уведомлений.
type Service struct {
	repo      Repository
	gyms      GymRepository
	members   TenantStore
	log       *slog.Logger
	dailyCap  int
	hourlyCap func() int
	retention time.Duration
	now       func() time.Time
}

// New создает новый экземпляр Service. Часовой лимит выбирается случайно
// в диапазоне из конфигурации при каждой выборке партии.
func New(repo Repository, gyms GymRepository, members TenantStore,
	log *slog.Logger, cfg config.Billing) *Service {
	return &Service{
		repo:     repo,
		gyms:     gyms,
		members:  members,
		log:      log,
		dailyCap: cfg.DailyCap,
		hourlyCap: func() int {
			return cfg.HourlyCapMin + rand.IntN(cfg.HourlyCapMax-cfg.HourlyCapMin+1)
		},
		retention: cfg.NotificationTTL,
		now:       time.Now,
	}
}

// GenerateMonthlyReminders ставит в очередь напоминания всем активным
// неплательщикам каждого зала. На пару (участник, период) создаётся не
// более одного напоминания; повторные запуски идемпотентны. Ошибка по
// одному залу не прерывает обход остальных.
func (s *Service) GenerateMonthlyReminders(ctx context.Context) (*models.GenerateResult, error) {
	allGyms, err := s.gyms.ListGyms(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list gyms: %w", err)
	}

	period := fee.Period(s.now())
	result := &models.GenerateResult{TenantCount: len(allGyms)}
	for _, currentGym := range allGyms {
		if err := s.generateForGym(ctx, currentGym, period, result); err != nil {
			s.log.Error("failed to generate reminders for gym",
				slog.String("gym_id", currentGym.ID), sl.Err(err))
			result.Failures = append(result.Failures, models.TenantFailure{
				GymID: currentGym.ID,
				Err:   err.Error(),
			})
		}
	}

	s.log.Info("generated monthly reminders",
		slog.String("period", period),
		slog.Int("enqueued", result.EnqueuedCount),
		slog.Int("skipped", result.SkippedCount),
		slog.Int("failures", len(result.Failures)))
	return result, nil
}

func (s *Service) generateForGym(ctx context.Context, currentGym *models.Gym,
	period string, result *models.GenerateResult) error {
	unpaidMembers, err := s.members(currentGym.ID).ListUnpaidActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to list unpaid members: %w", err)
	}

	for _, unpaidMember := range unpaidMembers {
		exists, err := s.repo.ReminderExists(ctx, currentGym.ID, unpaidMember.ID, period)
		if err != nil {
			return fmt.Errorf("failed to check reminder: %w", err)
		}
		if exists {
			result.SkippedCount++
			continue
		}

		reminder := models.Notification{
			ID:          uuid.NewString(),
			GymID:       currentGym.ID,
			MemberID:    unpaidMember.ID,
			Phone:       unpaidMember.Phone,
			SenderPhone: currentGym.ReminderSender(),
			MemberName:  unpaidMember.Name,
			GymName:     currentGym.GymName,
			Message:     message.Reminder(unpaidMember, currentGym, s.now()),
			Status:      models.NotificationStatusPending,
			Category:    models.NotificationCategoryReminder,
			Period:      &period,
			Priority:    models.PriorityReminder,
			CreatedAt:   s.now(),
		}
		if err := s.repo.CreateNotification(ctx, reminder); err != nil {
			// Параллельный запуск успел вставить то же напоминание.
			if errors.Is(err, repository.ErrDuplicateReminder) {
				result.SkippedCount++
				continue
			}
			return fmt.Errorf("failed to enqueue reminder: %w", err)
		}
		result.EnqueuedCount++
	}
	return nil
}

// EnqueueManual ставит ручное уведомление в очередь с низким приоритетом.
// Пустой текст заменяется стандартным напоминанием об оплате.
func (s *Service) EnqueueManual(ctx context.Context, gymID string, req models.DummyManualNotification) (*models.Notification, error) {
	currentGym, err := s.gyms.ReadGym(ctx, gymID)
	if err != nil {
		return nil, err
	}
	foundMember, err := s.members(gymID).Read(ctx, req.MemberID)
	if err != nil {
		return nil, err
	}

	text := req.Message
	if text == "" {
		text = message.Reminder(foundMember, currentGym, s.now())
	}

	manual := models.Notification{
		ID:          uuid.NewString(),
		GymID:       gymID,
		MemberID:    foundMember.ID,
		Phone:       foundMember.Phone,
		SenderPhone: currentGym.ReminderSender(),
		MemberName:  foundMember.Name,
		GymName:     currentGym.GymName,
		Message:     text,
		Status:      models.NotificationStatusPending,
		Category:    models.NotificationCategoryManual,
		Priority:    models.PriorityManual,
		CreatedAt:   s.now(),
	}
	if err := s.repo.CreateNotification(ctx, manual); err != nil {
		return nil, err
	}

	s.log.Info("enqueued manual notification",
		slog.String("gym_id", gymID),
		slog.String("member_id", foundMember.ID))
	return &manual, nil
}

// NextBatch возвращает очередную партию ожидающих уведомлений с учётом
// лимитов отправки. Достигнутый лимит не ошибка: возвращается партия с
// признаком RateLimited и пояснением.
func (s *Service) NextBatch(ctx context.Context, limit int) (*models.NotificationBatch, error) {
	now := s.now()
	hourStart := time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), 0, 0, 0, now.Location())
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	hourCount, err := s.repo.CountSentSince(ctx, hourStart)
	if err != nil {
		return nil, fmt.Errorf("failed to count hourly sends: %w", err)
	}
	dayCount, err := s.repo.CountSentSince(ctx, dayStart)
	if err != nil {
		return nil, fmt.Errorf("failed to count daily sends: %w", err)
	}

	batch := &models.NotificationBatch{
		HourCount: hourCount,
		DayCount:  dayCount,
		HourlyCap: s.hourlyCap(),
		DailyCap:  s.dailyCap,
	}
	if hourCount >= batch.HourlyCap || dayCount >= batch.DailyCap {
		batch.RateLimited = true
		batch.Message = fmt.Sprintf("sending caps reached: %d/%d this hour, %d/%d today",
			hourCount, batch.HourlyCap, dayCount, batch.DailyCap)
		s.log.Info("notification sending rate limited", slog.String("detail", batch.Message))
		return batch, nil
	}

	slots := min(batch.HourlyCap-hourCount, batch.DailyCap-dayCount, limit)
	batch.Notifications, err = s.repo.ListPendingNotifications(ctx, slots)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending notifications: %w", err)
	}
	return batch, nil
}

// MarkSent помечает уведомление доставленным. Для уведомления в
// терминальном статусе вызов ничего не меняет.
func (s *Service) MarkSent(ctx context.Context, id string) error {
	updated, err := s.repo.MarkNotificationSent(ctx, id, s.now())
	if err != nil {
		return err
	}
	if !updated {
		s.log.Warn("notification already in terminal status", slog.String("id", id))
	}
	return nil
}

// MarkFailed помечает уведомление ошибочным с причиной.
func (s *Service) MarkFailed(ctx context.Context, id, reason string) error {
	updated, err := s.repo.MarkNotificationFailed(ctx, id, reason, s.now())
	if err != nil {
		return err
	}
	if !updated {
		s.log.Warn("notification already in terminal status", slog.String("id", id))
	}
	return nil
}

// Cleanup удаляет доставленные и ошибочные уведомления старше срока
// хранения и истёкшие платёжные сессии. Возвращает количества удалённых
// уведомлений и сессий.
func (s *Service) Cleanup(ctx context.Context) (int, int, error) {
	cutoff := s.now().Add(-s.retention)
	removedNotifications, err := s.repo.DeleteTerminalNotificationsBefore(ctx, cutoff)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to clean notifications: %w", err)
	}
	removedSessions, err := s.repo.DeleteExpiredSessions(ctx, s.now())
	if err != nil {
		return removedNotifications, 0, fmt.Errorf("failed to clean sessions: %w", err)
	}

	s.log.Info("completed cleanup",
		slog.Int("removed_notifications", removedNotifications),
		slog.Int("removed_sessions", removedSessions))
	return removedNotifications, removedSessions, nil
}
