// Package sender содержит приложение моста доставки: периодически
// выбирает партии уведомлений из очереди и публикует их в брокер.
package sender

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/gym-manager/internal/config"
	"github.com/magabrotheeeer/gym-manager/internal/lib/sl"
	"github.com/magabrotheeeer/gym-manager/internal/rabbitmq"
	notificationservice "github.com/magabrotheeeer/gym-manager/internal/services/notification"
	senderservice "github.com/magabrotheeeer/gym-manager/internal/services/sender"
	"github.com/magabrotheeeer/gym-manager/internal/storage/repository"
)

const (
	batchSize        = 20
	dispatchInterval = time.Minute
)

// App представляет приложение моста доставки.
type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	senderService *senderservice.Service
	db            *repository.Storage
	logger        *slog.Logger
}

// New создает новый экземпляр приложения моста доставки.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect storage: %w", err)
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to connect RabbitMQ: %w", err)
	}

	queues := rabbitmq.GetNotificationQueues()
	ch, err := rabbitmq.SetupChannel(conn, queues)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to setup RabbitMQ channel: %w", err)
	}

	notificationSvc := notificationservice.New(db, db,
		func(gymID string) notificationservice.Store { return db.Members(gymID) },
		logger, cfg.Billing)
	publisher := rabbitmq.NewNotificationPublisher(ch)
	senderSvc := senderservice.New(notificationSvc, publisher, logger, batchSize)

	return &App{
		conn:          conn,
		ch:            ch,
		senderService: senderSvc,
		db:            db,
		logger:        logger,
	}, nil
}

// Run запускает периодическую отправку партий до отмены контекста.
func (a *App) Run(ctx context.Context) error {
	ticker := time.NewTicker(dispatchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("sender service shutting down gracefully")
			if err := a.ch.Close(); err != nil {
				a.logger.Error("failed to close channel", sl.Err(err))
			}
			if err := a.conn.Close(); err != nil {
				a.logger.Error("failed to close connection", sl.Err(err))
			}
			if err := a.db.DB.Close(); err != nil {
				a.logger.Error("failed to close storage", sl.Err(err))
			}
			return nil
		case <-ticker.C:
			if _, err := a.senderService.DispatchBatch(ctx); err != nil {
				a.logger.Error("failed to dispatch batch", sl.Err(err))
			}
		}
	}
}
