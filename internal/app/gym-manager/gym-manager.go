// Package gymmanager собирает основное HTTP-приложение: хранилище, кеш,
// сервисы и маршруты API.
package gymmanager

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/gym-manager/internal/cache"
	"github.com/magabrotheeeer/gym-manager/internal/config"
	"github.com/magabrotheeeer/gym-manager/internal/lib/jwt"
	"github.com/magabrotheeeer/gym-manager/internal/migrations"
	"github.com/magabrotheeeer/gym-manager/internal/paymentprovider"
	authservice "github.com/magabrotheeeer/gym-manager/internal/services/auth"
	gymservice "github.com/magabrotheeeer/gym-manager/internal/services/gym"
	memberservice "github.com/magabrotheeeer/gym-manager/internal/services/member"
	notificationservice "github.com/magabrotheeeer/gym-manager/internal/services/notification"
	paymentservice "github.com/magabrotheeeer/gym-manager/internal/services/payment"
	rolloverservice "github.com/magabrotheeeer/gym-manager/internal/services/rollover"
	"github.com/magabrotheeeer/gym-manager/internal/storage/repository"
)

// App — основное приложение API.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
}

// New инициализирует хранилище, миграции, кеш и все сервисы, собирает
// маршруты и возвращает готовое приложение.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	tokenMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	providerClient := paymentprovider.NewClient(cfg.GatewayKeyID, cfg.GatewayKeySecret, cfg.GatewayAPIURL)

	gymSvc := gymservice.New(db, cacheRedis, logger)
	authSvc := authservice.New(db, tokenMaker, logger)
	memberSvc := memberservice.New(gymSvc,
		func(gymID string) memberservice.Store { return db.Members(gymID) }, logger)
	paymentSvc := paymentservice.New(db,
		func(gymID string) paymentservice.Store { return db.Members(gymID) },
		gymSvc, providerClient, logger, cfg.SessionTTL)
	rolloverSvc := rolloverservice.New(db,
		func(gymID string) rolloverservice.Store { return db.Members(gymID) }, logger)
	notificationSvc := notificationservice.New(db, db,
		func(gymID string) notificationservice.Store { return db.Members(gymID) },
		logger, cfg.Billing)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, tokenMaker, &Services{
		Auth:         authSvc,
		Gym:          gymSvc,
		Member:       memberSvc,
		Payment:      paymentSvc,
		Rollover:     rolloverSvc,
		Notification: notificationSvc,
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его при отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.db.DB.Close()
		return err
	}
}
