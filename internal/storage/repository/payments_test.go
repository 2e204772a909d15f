package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/gym-manager/internal/models"
)

func TestStorage_ReadSession(t *testing.T) {
	storage, mock := newStorageMock(t)
	sessionID := uuid.NewString()
	memberID := uuid.NewString()
	created := time.Date(2026, time.June, 11, 10, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "gym_id", "member_id", "amount", "status",
		"expires_at", "created_at"}).
		AddRow(sessionID, "gym-1", memberID, "666.67", models.SessionStatusPending,
			created.Add(15*time.Minute), created)

	mock.ExpectQuery("SELECT (.+) FROM payment_sessions WHERE gym_id = (.+) AND id = (.+)").
		WithArgs("gym-1", sessionID).
		WillReturnRows(rows)

	session, err := storage.ReadSession(context.Background(), "gym-1", sessionID)
	require.NoError(t, err)
	assert.Equal(t, memberID, session.MemberID)
	assert.True(t, session.Amount.Equal(decimal.RequireFromString("666.67")))
	assert.False(t, session.Expired(created))
	assert.True(t, session.Expired(created.Add(time.Hour)))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_ReadSession_NotFound(t *testing.T) {
	storage, mock := newStorageMock(t)

	mock.ExpectQuery("SELECT (.+) FROM payment_sessions").
		WillReturnRows(sqlmock.NewRows([]string{"id", "gym_id", "member_id", "amount",
			"status", "expires_at", "created_at"}))

	_, err := storage.ReadSession(context.Background(), "gym-1", uuid.NewString())
	require.ErrorIs(t, err, ErrSessionNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_CompleteSession(t *testing.T) {
	cases := []struct {
		name     string
		affected int64
		want     bool
	}{
		{name: "Success: session consumed", affected: 1, want: true},
		{name: "No-op: session already consumed", affected: 0, want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			storage, mock := newStorageMock(t)
			sessionID := uuid.NewString()

			mock.ExpectExec("UPDATE payment_sessions SET status = (.+)").
				WithArgs(models.SessionStatusCompleted, sessionID, models.SessionStatusPending).
				WillReturnResult(sqlmock.NewResult(0, tc.affected))

			consumed, err := storage.CompleteSession(context.Background(), sessionID)
			require.NoError(t, err)
			assert.Equal(t, tc.want, consumed)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestStorage_DeleteExpiredSessions(t *testing.T) {
	storage, mock := newStorageMock(t)
	now := time.Date(2026, time.June, 11, 10, 0, 0, 0, time.UTC)

	mock.ExpectExec("DELETE FROM payment_sessions").
		WithArgs(now).
		WillReturnResult(sqlmock.NewResult(0, 3))

	deleted, err := storage.DeleteExpiredSessions(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 3, deleted)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_ReadOrder_NotFound(t *testing.T) {
	storage, mock := newStorageMock(t)

	mock.ExpectQuery("SELECT (.+) FROM gateway_orders").
		WithArgs("order_missing").
		WillReturnRows(sqlmock.NewRows([]string{"order_id", "gym_id", "member_id",
			"amount", "status", "created_at"}))

	_, err := storage.ReadOrder(context.Background(), "order_missing")
	require.ErrorIs(t, err, ErrOrderNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_CompleteOrder(t *testing.T) {
	storage, mock := newStorageMock(t)

	mock.ExpectExec("UPDATE gateway_orders SET status = (.+)").
		WithArgs(models.OrderStatusCompleted, "order_abc").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := storage.CompleteOrder(context.Background(), "order_abc")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_CompleteOrder_NotFound(t *testing.T) {
	storage, mock := newStorageMock(t)

	mock.ExpectExec("UPDATE gateway_orders SET status = (.+)").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := storage.CompleteOrder(context.Background(), "order_missing")
	require.ErrorIs(t, err, ErrOrderNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
