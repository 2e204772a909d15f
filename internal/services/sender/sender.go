// Package sender содержит мост доставки: выбирает партии уведомлений из
// очереди с учётом лимитов и публикует их во внешний канал через брокер.
package sender

import (
	"context"
	"log/slog"

	"github.com/magabrotheeeer/gym-manager/internal/lib/sl"
	"github.com/magabrotheeeer/gym-manager/internal/models"
)

// Queue определяет источник уведомлений и смену их статусов.
type Queue interface {
	NextBatch(ctx context.Context, limit int) (*models.NotificationBatch, error)
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id, reason string) error
}

// Publisher публикует сообщение во внешний канал по ключу маршрутизации.
type Publisher interface {
	Publish(routingKey string, message any) error
}

// DispatchResult — итог обработки одной партии.
type DispatchResult struct {
	Sent        int
	Failed      int
	RateLimited bool
}

// Service публикует уведомления из очереди в брокер.
type Service struct {
	queue     Queue
	publisher Publisher
	log       *slog.Logger
	batchSize int
}

// New создает новый экземпляр Service.
func New(queue Queue, publisher Publisher, log *slog.Logger, batchSize int) *Service {
	return &Service{
		queue:     queue,
		publisher: publisher,
		log:       log,
		batchSize: batchSize,
	}
}

// routingKey выбирает ключ маршрутизации по категории уведомления.
func routingKey(n *models.Notification) string {
	if n.Category == models.NotificationCategoryReminder {
		return "reminders"
	}
	return "manual"
}

// DispatchBatch публикует очередную партию уведомлений. Уведомление,
// которое не удалось опубликовать, помечается ошибочным и не блокирует
// остальные. Достигнутый лимит отправки завершает обработку без ошибки.
func (s *Service) DispatchBatch(ctx context.Context) (*DispatchResult, error) {
	batch, err := s.queue.NextBatch(ctx, s.batchSize)
	if err != nil {
		return nil, err
	}

	result := &DispatchResult{RateLimited: batch.RateLimited}
	if batch.RateLimited {
		s.log.Info("dispatch skipped", slog.String("reason", batch.Message))
		return result, nil
	}

	for _, n := range batch.Notifications {
		if err := s.publisher.Publish(routingKey(n), n); err != nil {
			s.log.Error("failed to publish notification",
				slog.String("id", n.ID), sl.Err(err))
			if markErr := s.queue.MarkFailed(ctx, n.ID, err.Error()); markErr != nil {
				s.log.Error("failed to mark notification as failed",
					slog.String("id", n.ID), sl.Err(markErr))
			}
			result.Failed++
			continue
		}
		if err := s.queue.MarkSent(ctx, n.ID); err != nil {
			s.log.Error("failed to mark notification as sent",
				slog.String("id", n.ID), sl.Err(err))
		}
		result.Sent++
	}

	if result.Sent > 0 || result.Failed > 0 {
		s.log.Info("dispatched notification batch",
			slog.Int("sent", result.Sent),
			slog.Int("failed", result.Failed))
	}
	return result, nil
}
