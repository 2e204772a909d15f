package payment

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/gym-manager/internal/models"
	"github.com/magabrotheeeer/gym-manager/internal/paymentprovider"
	"github.com/magabrotheeeer/gym-manager/internal/storage/repository"
)

type StoreMock struct{ mock.Mock }

func (m *StoreMock) Read(ctx context.Context, memberID string) (*models.Member, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Member), args.Error(1)
}
func (m *StoreMock) FindByPhoneAndName(ctx context.Context, phone, namePattern string) (*models.Member, error) {
	args := m.Called(ctx, phone, namePattern)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Member), args.Error(1)
}
func (m *StoreMock) MarkPaid(ctx context.Context, memberID, method string, now time.Time) error {
	return m.Called(ctx, memberID, method, now).Error(0)
}

type SessionRepoMock struct{ mock.Mock }

func (m *SessionRepoMock) CreateSession(ctx context.Context, session models.PaymentSession) error {
	return m.Called(ctx, session).Error(0)
}
func (m *SessionRepoMock) ReadSession(ctx context.Context, gymID, sessionID string) (*models.PaymentSession, error) {
	args := m.Called(ctx, gymID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PaymentSession), args.Error(1)
}
func (m *SessionRepoMock) CompleteSession(ctx context.Context, sessionID string) (bool, error) {
	args := m.Called(ctx, sessionID)
	return args.Bool(0), args.Error(1)
}
func (m *SessionRepoMock) CreateOrder(ctx context.Context, order models.GatewayOrder) error {
	return m.Called(ctx, order).Error(0)
}
func (m *SessionRepoMock) ReadOrder(ctx context.Context, orderID string) (*models.GatewayOrder, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GatewayOrder), args.Error(1)
}
func (m *SessionRepoMock) CompleteOrder(ctx context.Context, orderID string) error {
	return m.Called(ctx, orderID).Error(0)
}

type ProviderMock struct{ mock.Mock }

func (m *ProviderMock) CreateOrder(reqParams paymentprovider.CreateOrderRequest) (*paymentprovider.CreateOrderResponse, error) {
	args := m.Called(reqParams)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentprovider.CreateOrderResponse), args.Error(1)
}
func (m *ProviderMock) VerifySignature(orderID, paymentID, signature string) bool {
	return m.Called(orderID, paymentID, signature).Bool(0)
}

type GymProviderMock struct{ mock.Mock }

func (m *GymProviderMock) Get(ctx context.Context, gymID string) (*models.Gym, error) {
	args := m.Called(ctx, gymID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Gym), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func newService(repo *SessionRepoMock, store *StoreMock, provider *ProviderMock) *Service {
	return New(repo, func(string) Store { return store },
		new(GymProviderMock), provider, newNoopLogger(), 30*time.Minute)
}

func TestPaymentService_VerifyCash(t *testing.T) {
	now := time.Date(2025, time.June, 11, 12, 0, 0, 0, time.UTC)
	paidMethod := models.PaymentMethodCash
	foundMember := &models.Member{ID: "member-1", GymID: "gym-1", Name: "Anil Kumar", Phone: "9000000001"}
	updatedMember := &models.Member{ID: "member-1", FeeStatus: models.FeeStatusPaid, PaymentMethod: &paidMethod}

	tests := []struct {
		name       string
		req        models.DummyCashVerify
		setupMocks func(r *SessionRepoMock, s *StoreMock)
		wantErr    error
	}{
		{
			name: "success without session",
			req:  models.DummyCashVerify{Phone: "9000000001", Name: "anil"},
			setupMocks: func(_ *SessionRepoMock, s *StoreMock) {
				s.On("FindByPhoneAndName", mock.Anything, "9000000001", "anil").
					Return(foundMember, nil).Once()
				s.On("MarkPaid", mock.Anything, "member-1", models.PaymentMethodCash, now).
					Return(nil).Once()
				s.On("Read", mock.Anything, "member-1").Return(updatedMember, nil).Once()
			},
		},
		{
			name: "success consumes live session",
			req:  models.DummyCashVerify{Phone: "9000000001", Name: "anil", SessionID: "sess-1"},
			setupMocks: func(r *SessionRepoMock, s *StoreMock) {
				s.On("FindByPhoneAndName", mock.Anything, "9000000001", "anil").
					Return(foundMember, nil).Once()
				r.On("ReadSession", mock.Anything, "gym-1", "sess-1").
					Return(&models.PaymentSession{
						ID: "sess-1", Status: models.SessionStatusPending,
						ExpiresAt: now.Add(10 * time.Minute),
					}, nil).Once()
				r.On("CompleteSession", mock.Anything, "sess-1").Return(true, nil).Once()
				s.On("MarkPaid", mock.Anything, "member-1", models.PaymentMethodCash, now).
					Return(nil).Once()
				s.On("Read", mock.Anything, "member-1").Return(updatedMember, nil).Once()
			},
		},
		{
			name: "expired session leaves member unchanged",
			req:  models.DummyCashVerify{Phone: "9000000001", Name: "anil", SessionID: "sess-1"},
			setupMocks: func(r *SessionRepoMock, s *StoreMock) {
				s.On("FindByPhoneAndName", mock.Anything, "9000000001", "anil").
					Return(foundMember, nil).Once()
				r.On("ReadSession", mock.Anything, "gym-1", "sess-1").
					Return(&models.PaymentSession{
						ID: "sess-1", Status: models.SessionStatusPending,
						ExpiresAt: now.Add(-time.Minute),
					}, nil).Once()
			},
			wantErr: ErrSessionExpired,
		},
		{
			name: "session already consumed",
			req:  models.DummyCashVerify{Phone: "9000000001", Name: "anil", SessionID: "sess-1"},
			setupMocks: func(r *SessionRepoMock, s *StoreMock) {
				s.On("FindByPhoneAndName", mock.Anything, "9000000001", "anil").
					Return(foundMember, nil).Once()
				r.On("ReadSession", mock.Anything, "gym-1", "sess-1").
					Return(&models.PaymentSession{
						ID: "sess-1", Status: models.SessionStatusCompleted,
						ExpiresAt: now.Add(10 * time.Minute),
					}, nil).Once()
				r.On("CompleteSession", mock.Anything, "sess-1").Return(false, nil).Once()
			},
			wantErr: ErrSessionConsumed,
		},
		{
			name: "member not found",
			req:  models.DummyCashVerify{Phone: "9000000001", Name: "anil"},
			setupMocks: func(_ *SessionRepoMock, s *StoreMock) {
				s.On("FindByPhoneAndName", mock.Anything, "9000000001", "anil").
					Return(nil, repository.ErrMemberNotFound).Once()
			},
			wantErr: repository.ErrMemberNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(SessionRepoMock)
			store := new(StoreMock)
			svc := newService(repo, store, new(ProviderMock))
			svc.now = func() time.Time { return now }

			tt.setupMocks(repo, store)

			got, err := svc.VerifyCash(context.Background(), "gym-1", tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, models.FeeStatusPaid, got.FeeStatus)
			}

			repo.AssertExpectations(t)
			store.AssertExpectations(t)
		})
	}
}

func TestPaymentService_CreateOrder(t *testing.T) {
	now := time.Date(2025, time.June, 11, 12, 0, 0, 0, time.UTC)
	foundMember := &models.Member{
		ID: "member-1", GymID: "gym-1",
		CurrentMonthFee: decimal.RequireFromString("666.67"),
	}

	repo := new(SessionRepoMock)
	store := new(StoreMock)
	provider := new(ProviderMock)
	svc := newService(repo, store, provider)
	svc.now = func() time.Time { return now }

	store.On("Read", mock.Anything, "member-1").Return(foundMember, nil).Once()
	provider.On("CreateOrder", mock.MatchedBy(func(req paymentprovider.CreateOrderRequest) bool {
		// 666.67 рупий это 66667 пайс.
		return req.Amount == 66667 && req.Currency == "INR"
	})).Return(&paymentprovider.CreateOrderResponse{ID: "order_abc", Status: "created"}, nil).Once()
	repo.On("CreateOrder", mock.Anything, mock.MatchedBy(func(o models.GatewayOrder) bool {
		return o.OrderID == "order_abc" && o.GymID == "gym-1" &&
			o.Status == models.OrderStatusCreated
	})).Return(nil).Once()

	got, err := svc.CreateOrder(context.Background(), "gym-1", "member-1")
	assert.NoError(t, err)
	assert.Equal(t, "order_abc", got.OrderID)

	repo.AssertExpectations(t)
	store.AssertExpectations(t)
	provider.AssertExpectations(t)
}

func TestPaymentService_VerifyGateway(t *testing.T) {
	now := time.Date(2025, time.June, 11, 12, 0, 0, 0, time.UTC)
	order := &models.GatewayOrder{
		OrderID: "order_abc", GymID: "gym-1", MemberID: "member-1",
		Status: models.OrderStatusCreated,
	}

	tests := []struct {
		name       string
		setupMocks func(r *SessionRepoMock, s *StoreMock, p *ProviderMock)
		wantErr    error
	}{
		{
			name: "valid signature completes order and marks paid",
			setupMocks: func(r *SessionRepoMock, s *StoreMock, p *ProviderMock) {
				r.On("ReadOrder", mock.Anything, "order_abc").Return(order, nil).Once()
				p.On("VerifySignature", "order_abc", "pay_1", "sig").Return(true).Once()
				r.On("CompleteOrder", mock.Anything, "order_abc").Return(nil).Once()
				s.On("MarkPaid", mock.Anything, "member-1", models.PaymentMethodGateway, now).
					Return(nil).Once()
			},
		},
		{
			name: "invalid signature leaves everything unchanged",
			setupMocks: func(r *SessionRepoMock, _ *StoreMock, p *ProviderMock) {
				r.On("ReadOrder", mock.Anything, "order_abc").Return(order, nil).Once()
				p.On("VerifySignature", "order_abc", "pay_1", "sig").Return(false).Once()
			},
			wantErr: ErrInvalidSignature,
		},
		{
			name: "unknown order",
			setupMocks: func(r *SessionRepoMock, _ *StoreMock, _ *ProviderMock) {
				r.On("ReadOrder", mock.Anything, "order_abc").
					Return(nil, repository.ErrOrderNotFound).Once()
			},
			wantErr: repository.ErrOrderNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(SessionRepoMock)
			store := new(StoreMock)
			provider := new(ProviderMock)
			svc := newService(repo, store, provider)
			svc.now = func() time.Time { return now }

			tt.setupMocks(repo, store, provider)

			got, err := svc.VerifyGateway(context.Background(), models.DummyGatewayVerify{
				OrderID: "order_abc", PaymentID: "pay_1", Signature: "sig",
			})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, models.OrderStatusCompleted, got.Status)
			}

			repo.AssertExpectations(t)
			store.AssertExpectations(t)
			provider.AssertExpectations(t)
		})
	}
}
