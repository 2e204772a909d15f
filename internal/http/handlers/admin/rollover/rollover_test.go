package rollover

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/gym-manager/internal/models"
)

type ServiceMock struct{ mock.Mock }

func (m *ServiceMock) ResetAllTenants(ctx context.Context) (*models.RolloverResult, error) {
	args := m.Called(ctx)
	result, _ := args.Get(0).(*models.RolloverResult)
	return result, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestRolloverHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		setupMocks     func(s *ServiceMock)
		wantStatusCode int
		wantFailures   int
	}{
		{
			name: "full success",
			setupMocks: func(s *ServiceMock) {
				s.On("ResetAllTenants", mock.Anything).Return(&models.RolloverResult{
					TenantCount: 3, UpdatedMemberCount: 40,
				}, nil).Once()
			},
			wantStatusCode: http.StatusOK,
		},
		{
			// Частичный сбой отдается с кодом 200 и списком ошибок по залам.
			name: "partial failure still returns result",
			setupMocks: func(s *ServiceMock) {
				s.On("ResetAllTenants", mock.Anything).Return(&models.RolloverResult{
					TenantCount: 3, UpdatedMemberCount: 25,
					Failures: []models.TenantFailure{{GymID: "gym-2", Err: "deadlock"}},
				}, nil).Once()
			},
			wantStatusCode: http.StatusOK,
			wantFailures:   1,
		},
		{
			name: "service error",
			setupMocks: func(s *ServiceMock) {
				s.On("ResetAllTenants", mock.Anything).
					Return(nil, errors.New("db down")).Once()
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(ServiceMock)
			handler := New(newNoopLogger(), service)

			tt.setupMocks(service)

			req := httptest.NewRequest(http.MethodPost, "/admin/rollover", nil)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			if tt.wantStatusCode == http.StatusOK {
				var resp struct {
					Status string                `json:"status"`
					Data   models.RolloverResult `json:"data"`
				}
				assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Len(t, resp.Data.Failures, tt.wantFailures)
			}

			service.AssertExpectations(t)
		})
	}
}
