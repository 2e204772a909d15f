package cashverify

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/gym-manager/internal/http/middlewarectx"
	"github.com/magabrotheeeer/gym-manager/internal/models"
	"github.com/magabrotheeeer/gym-manager/internal/services/payment"
	"github.com/magabrotheeeer/gym-manager/internal/storage/repository"
)

type ServiceMock struct{ mock.Mock }

func (m *ServiceMock) VerifyCash(ctx context.Context, gymID string, req models.DummyCashVerify) (*models.Member, error) {
	args := m.Called(ctx, gymID, req)
	member, _ := args.Get(0).(*models.Member)
	return member, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestCashVerifyHandler_ServeHTTP(t *testing.T) {
	validReq := models.DummyCashVerify{Phone: "9000000001", Name: "anil"}
	verified := &models.Member{ID: "member-1", Name: "Anil Kumar", FeeStatus: models.FeeStatusPaid}

	tests := []struct {
		name           string
		requestBody    any
		setupMocks     func(s *ServiceMock)
		wantStatusCode int
	}{
		{
			name:        "success verify",
			requestBody: validReq,
			setupMocks: func(s *ServiceMock) {
				s.On("VerifyCash", mock.Anything, "gym-1", validReq).Return(verified, nil).Once()
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:        "member not found",
			requestBody: validReq,
			setupMocks: func(s *ServiceMock) {
				s.On("VerifyCash", mock.Anything, "gym-1", validReq).
					Return(nil, repository.ErrMemberNotFound).Once()
			},
			wantStatusCode: http.StatusNotFound,
		},
		{
			name:        "expired session",
			requestBody: validReq,
			setupMocks: func(s *ServiceMock) {
				s.On("VerifyCash", mock.Anything, "gym-1", validReq).
					Return(nil, payment.ErrSessionExpired).Once()
			},
			wantStatusCode: http.StatusGone,
		},
		{
			name:        "consumed session",
			requestBody: validReq,
			setupMocks: func(s *ServiceMock) {
				s.On("VerifyCash", mock.Anything, "gym-1", validReq).
					Return(nil, payment.ErrSessionConsumed).Once()
			},
			wantStatusCode: http.StatusConflict,
		},
		{
			name:           "validation error - bad phone",
			requestBody:    models.DummyCashVerify{Phone: "abc", Name: "anil"},
			setupMocks:     func(_ *ServiceMock) {},
			wantStatusCode: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(ServiceMock)
			handler := New(newNoopLogger(), service)

			tt.setupMocks(service)

			body, _ := json.Marshal(tt.requestBody)
			req := httptest.NewRequest(http.MethodPost, "/payments/cash/verify", bytes.NewReader(body))
			ctx := context.WithValue(req.Context(), middlewarectx.GymID, "gym-1")
			req = req.WithContext(ctx)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			service.AssertExpectations(t)
		})
	}
}
