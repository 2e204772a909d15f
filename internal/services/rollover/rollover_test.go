package rollover

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/gym-manager/internal/models"
)

type GymRepoMock struct{ mock.Mock }

func (m *GymRepoMock) ListGyms(ctx context.Context) ([]*models.Gym, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Gym), args.Error(1)
}

type StoreMock struct{ mock.Mock }

func (m *StoreMock) ResetForNewCycle(ctx context.Context, monthlyFee decimal.Decimal, now time.Time) (int, error) {
	args := m.Called(ctx, monthlyFee, now)
	return args.Int(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestRolloverService_ResetAllTenants(t *testing.T) {
	gymA := &models.Gym{ID: "gym-a", MonthlyFee: decimal.NewFromInt(1000)}
	gymB := &models.Gym{ID: "gym-b", MonthlyFee: decimal.NewFromInt(1500)}
	gymC := &models.Gym{ID: "gym-c", MonthlyFee: decimal.NewFromInt(800)}

	tests := []struct {
		name         string
		setupMocks   func(g *GymRepoMock, stores map[string]*StoreMock)
		wantUpdated  int
		wantFailures []string
		wantErr      bool
	}{
		{
			name: "all tenants reset",
			setupMocks: func(g *GymRepoMock, stores map[string]*StoreMock) {
				g.On("ListGyms", mock.Anything).Return([]*models.Gym{gymA, gymB}, nil).Once()
				stores["gym-a"].On("ResetForNewCycle", mock.Anything, gymA.MonthlyFee, mock.Anything).
					Return(12, nil).Once()
				stores["gym-b"].On("ResetForNewCycle", mock.Anything, gymB.MonthlyFee, mock.Anything).
					Return(7, nil).Once()
			},
			wantUpdated: 19,
		},
		{
			// Сбой среднего зала не останавливает обход остальных.
			name: "failed tenant is isolated",
			setupMocks: func(g *GymRepoMock, stores map[string]*StoreMock) {
				g.On("ListGyms", mock.Anything).Return([]*models.Gym{gymA, gymB, gymC}, nil).Once()
				stores["gym-a"].On("ResetForNewCycle", mock.Anything, gymA.MonthlyFee, mock.Anything).
					Return(12, nil).Once()
				stores["gym-b"].On("ResetForNewCycle", mock.Anything, gymB.MonthlyFee, mock.Anything).
					Return(0, errors.New("deadlock detected")).Once()
				stores["gym-c"].On("ResetForNewCycle", mock.Anything, gymC.MonthlyFee, mock.Anything).
					Return(5, nil).Once()
			},
			wantUpdated:  17,
			wantFailures: []string{"gym-b"},
		},
		{
			name: "listing gyms fails",
			setupMocks: func(g *GymRepoMock, _ map[string]*StoreMock) {
				g.On("ListGyms", mock.Anything).Return(nil, errors.New("db down")).Once()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gyms := new(GymRepoMock)
			stores := map[string]*StoreMock{
				"gym-a": new(StoreMock),
				"gym-b": new(StoreMock),
				"gym-c": new(StoreMock),
			}
			svc := New(gyms, func(gymID string) Store { return stores[gymID] }, newNoopLogger())

			tt.setupMocks(gyms, stores)

			got, err := svc.ResetAllTenants(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantUpdated, got.UpdatedMemberCount)
				assert.Equal(t, len(tt.wantFailures) > 0, got.PartialFailure())
				var failedIDs []string
				for _, f := range got.Failures {
					failedIDs = append(failedIDs, f.GymID)
				}
				assert.Equal(t, tt.wantFailures, failedIDs)
			}

			gyms.AssertExpectations(t)
			for _, store := range stores {
				store.AssertExpectations(t)
			}
		})
	}
}
