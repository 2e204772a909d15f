// Package scheduler содержит приложение планировщика: месячный сброс
// первого числа, ежедневная генерация напоминаний в окне начала месяца и
// ежедневная зачистка.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/gym-manager/internal/config"
	"github.com/magabrotheeeer/gym-manager/internal/lib/fee"
	"github.com/magabrotheeeer/gym-manager/internal/lib/sl"
	notificationservice "github.com/magabrotheeeer/gym-manager/internal/services/notification"
	rolloverservice "github.com/magabrotheeeer/gym-manager/internal/services/rollover"
	"github.com/magabrotheeeer/gym-manager/internal/storage/repository"
)

// App представляет приложение планировщика.
type App struct {
	rolloverService     *rolloverservice.Service
	notificationService *notificationservice.Service
	db                  *repository.Storage
	logger              *slog.Logger
	windowFrom          int
	windowTo            int

	// Период, за который сброс уже выполнен, в формате YYYY-MM.
	lastRolloverPeriod string
}

func waitForDB(db *repository.Storage) error {
	for range 10 {
		err := repository.CheckDatabaseReady(db)
		if err == nil {
			return nil
		}
		time.Sleep(3 * time.Second)
	}
	return fmt.Errorf("database not ready after retries")
}

// New создает новый экземпляр приложения планировщика.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect storage: %w", err)
	}
	if err := waitForDB(db); err != nil {
		return nil, err
	}

	rolloverSvc := rolloverservice.New(db,
		func(gymID string) rolloverservice.Store { return db.Members(gymID) }, logger)
	notificationSvc := notificationservice.New(db, db,
		func(gymID string) notificationservice.Store { return db.Members(gymID) },
		logger, cfg.Billing)

	return &App{
		rolloverService:     rolloverSvc,
		notificationService: notificationSvc,
		db:                  db,
		logger:              logger,
		windowFrom:          cfg.ReminderWindowFrom,
		windowTo:            cfg.ReminderWindowTo,
	}, nil
}

// tick выполняет все работы, чья пора настала.
func (a *App) tick(ctx context.Context, now time.Time) {
	period := fee.Period(now)
	if now.Day() == 1 && a.lastRolloverPeriod != period {
		if _, err := a.rolloverService.ResetAllTenants(ctx); err != nil {
			a.logger.Error("monthly rollover failed", sl.Err(err))
		} else {
			a.lastRolloverPeriod = period
		}
	}

	if now.Day() >= a.windowFrom && now.Day() <= a.windowTo {
		if _, err := a.notificationService.GenerateMonthlyReminders(ctx); err != nil {
			a.logger.Error("reminder generation failed", sl.Err(err))
		}
	}

	if _, _, err := a.notificationService.Cleanup(ctx); err != nil {
		a.logger.Error("cleanup failed", sl.Err(err))
	}
}

// Run запускает планировщик: первый проход сразу, дальше раз в час.
func (a *App) Run(ctx context.Context) error {
	a.tick(ctx, time.Now())

	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("shutting down scheduler service")
			if err := a.db.DB.Close(); err != nil {
				a.logger.Error("failed to close storage", sl.Err(err))
			}
			return nil
		case now := <-ticker.C:
			a.tick(ctx, now)
		}
	}
}
