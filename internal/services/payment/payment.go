// Package payment содержит логику подтверждения оплаты: смена способа
// оплаты, подтверждение наличных (с опциональной QR-сессией) и оплата
// через внешний шлюз.
package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/gym-manager/internal/models"
	"github.com/magabrotheeeer/gym-manager/internal/paymentprovider"
)

// Ошибки сценариев подтверждения оплаты.
var (
	// ErrSessionExpired возвращается при попытке подтвердить оплату по
	// истёкшей сессии. Статус участника при этом не меняется.
	ErrSessionExpired = errors.New("payment session has expired")
	// ErrSessionConsumed возвращается, если сессия уже была использована.
	ErrSessionConsumed = errors.New("payment session already used")
	// ErrInvalidSignature возвращается при неверной подписи шлюза.
	ErrInvalidSignature = errors.New("invalid gateway signature")
)

// Store определяет операции над участниками одного зала.
type Store interface {
	Read(ctx context.Context, memberID string) (*models.Member, error)
	FindByPhoneAndName(ctx context.Context, phone, namePattern string) (*models.Member, error)
	MarkPaid(ctx context.Context, memberID, method string, now time.Time) error
}

// TenantStore возвращает хранилище участников конкретного зала.
type TenantStore func(gymID string) Store

// SessionRepository определяет работу с платёжными сессиями и заказами.
type SessionRepository interface {
	CreateSession(ctx context.Context, session models.PaymentSession) error
	ReadSession(ctx context.Context, gymID, sessionID string) (*models.PaymentSession, error)
	CompleteSession(ctx context.Context, sessionID string) (bool, error)
	CreateOrder(ctx context.Context, order models.GatewayOrder) error
	ReadOrder(ctx context.Context, orderID string) (*models.GatewayOrder, error)
	CompleteOrder(ctx context.Context, orderID string) error
}

// Provider — клиент внешнего платёжного шлюза.
type Provider interface {
	CreateOrder(reqParams paymentprovider.CreateOrderRequest) (*paymentprovider.CreateOrderResponse, error)
	VerifySignature(orderID, paymentID, signature string) bool
}

// GymProvider отдает карточку зала по ID.
type GymProvider interface {
	Get(ctx context.Context, gymID string) (*models.Gym, error)
}

// Service реализует сценарии подтверждения оплаты.
type Service struct {
	repo       SessionRepository
	members    TenantStore
	gyms       GymProvider
	provider   Provider
	log        *slog.Logger
	sessionTTL time.Duration
	now        func() time.Time
}

// New создает новый экземпляр Service.
func New(repo SessionRepository, members TenantStore, gyms GymProvider,
	provider Provider, log *slog.Logger, sessionTTL time.Duration) *Service {
	return &Service{
		repo:       repo,
		members:    members,
		gyms:       gyms,
		provider:   provider,
		log:        log,
		sessionTTL: sessionTTL,
		now:        time.Now,
	}
}

// SetMethod фиксирует способ оплаты и переводит участника в статус paid.
func (s *Service) SetMethod(ctx context.Context, gymID, memberID, method string) (*models.Member, error) {
	collection := s.members(gymID)
	if err := collection.MarkPaid(ctx, memberID, method, s.now()); err != nil {
		return nil, err
	}
	s.log.Info("marked member as paid",
		slog.String("gym_id", gymID),
		slog.String("member_id", memberID),
		slog.String("method", method))
	return collection.Read(ctx, memberID)
}

// VerifyCash подтверждает оплату наличными. Участник ищется по точному
// телефону и подстроке имени без учёта регистра. Если передана сессия,
// она должна быть живой и неиспользованной; сессия потребляется ровно
// один раз.
func (s *Service) VerifyCash(ctx context.Context, gymID string, req models.DummyCashVerify) (*models.Member, error) {
	collection := s.members(gymID)
	foundMember, err := collection.FindByPhoneAndName(ctx, req.Phone, req.Name)
	if err != nil {
		return nil, err
	}

	if req.SessionID != "" {
		session, err := s.repo.ReadSession(ctx, gymID, req.SessionID)
		if err != nil {
			return nil, err
		}
		if session.Expired(s.now()) {
			return nil, ErrSessionExpired
		}
		consumed, err := s.repo.CompleteSession(ctx, session.ID)
		if err != nil {
			return nil, err
		}
		if !consumed {
			return nil, ErrSessionConsumed
		}
	}

	if err := collection.MarkPaid(ctx, foundMember.ID, models.PaymentMethodCash, s.now()); err != nil {
		return nil, err
	}
	s.log.Info("verified cash payment",
		slog.String("gym_id", gymID),
		slog.String("member_id", foundMember.ID))
	return collection.Read(ctx, foundMember.ID)
}

// CreateSession создает короткоживущую платёжную сессию для участника.
func (s *Service) CreateSession(ctx context.Context, gymID, memberID string) (*models.PaymentSession, error) {
	foundMember, err := s.members(gymID).Read(ctx, memberID)
	if err != nil {
		return nil, err
	}

	session := models.PaymentSession{
		ID:        uuid.NewString(),
		GymID:     gymID,
		MemberID:  foundMember.ID,
		Amount:    foundMember.CurrentMonthFee,
		Status:    models.SessionStatusPending,
		ExpiresAt: s.now().Add(s.sessionTTL),
		CreatedAt: s.now(),
	}
	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, err
	}
	return &session, nil
}

// CreateOrder создает заказ во внешнем шлюзе на сумму текущего взноса
// участника и сохраняет его локально.
func (s *Service) CreateOrder(ctx context.Context, gymID, memberID string) (*models.GatewayOrder, error) {
	foundMember, err := s.members(gymID).Read(ctx, memberID)
	if err != nil {
		return nil, err
	}

	// Шлюз принимает сумму в наименьших единицах валюты.
	amountPaise := foundMember.CurrentMonthFee.Mul(models.PaiseInRupee).IntPart()
	resp, err := s.provider.CreateOrder(paymentprovider.CreateOrderRequest{
		Amount:   amountPaise,
		Currency: "INR",
		Receipt:  fmt.Sprintf("member_%s", foundMember.ID),
		Notes: map[string]string{
			"gym_id":    gymID,
			"member_id": foundMember.ID,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gateway order: %w", err)
	}

	order := models.GatewayOrder{
		OrderID:   resp.ID,
		GymID:     gymID,
		MemberID:  foundMember.ID,
		Amount:    foundMember.CurrentMonthFee,
		Status:    models.OrderStatusCreated,
		CreatedAt: s.now(),
	}
	if err := s.repo.CreateOrder(ctx, order); err != nil {
		return nil, err
	}

	s.log.Info("created gateway order",
		slog.String("gym_id", gymID),
		slog.String("member_id", foundMember.ID),
		slog.String("order_id", order.OrderID))
	return &order, nil
}

// VerifyGateway проверяет подпись шлюза и при успехе завершает заказ и
// переводит участника в статус paid. Неверная подпись не меняет ничего.
func (s *Service) VerifyGateway(ctx context.Context, req models.DummyGatewayVerify) (*models.GatewayOrder, error) {
	order, err := s.repo.ReadOrder(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}

	if !s.provider.VerifySignature(req.OrderID, req.PaymentID, req.Signature) {
		s.log.Warn("rejected gateway verification",
			slog.String("order_id", req.OrderID))
		return nil, ErrInvalidSignature
	}

	if err := s.repo.CompleteOrder(ctx, order.OrderID); err != nil {
		return nil, err
	}
	if err := s.members(order.GymID).MarkPaid(ctx, order.MemberID, models.PaymentMethodGateway, s.now()); err != nil {
		return nil, err
	}

	order.Status = models.OrderStatusCompleted
	s.log.Info("verified gateway payment",
		slog.String("gym_id", order.GymID),
		slog.String("member_id", order.MemberID),
		slog.String("order_id", order.OrderID))
	return order, nil
}
