package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/gym-manager/internal/models"
)

var gymRowColumns = []string{"id", "owner_name", "phone", "password_hash", "gym_name",
	"address", "monthly_fee", "sender_phone", "created_at"}

func TestStorage_CreateGym_DuplicatePhone(t *testing.T) {
	storage, mock := newStorageMock(t)

	mock.ExpectExec("INSERT INTO gyms").
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})

	err := storage.CreateGym(context.Background(), models.Gym{ID: uuid.NewString()})
	require.ErrorIs(t, err, ErrDuplicatePhone)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_ReadGymByPhone(t *testing.T) {
	storage, mock := newStorageMock(t)
	gymID := uuid.NewString()
	created := time.Date(2026, time.May, 1, 8, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(gymRowColumns).
		AddRow(gymID, "Викрам Сингх", "9111111111", "$2a$10$hash", "Iron Temple",
			"Мумбаи, Андхери", "1000", "9111111111", created)

	mock.ExpectQuery("SELECT (.+) FROM gyms WHERE phone = (.+)").
		WithArgs("9111111111").
		WillReturnRows(rows)

	gym, err := storage.ReadGymByPhone(context.Background(), "9111111111")
	require.NoError(t, err)
	assert.Equal(t, gymID, gym.ID)
	assert.True(t, gym.MonthlyFee.Equal(decimal.RequireFromString("1000")))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_ReadGym_NotFound(t *testing.T) {
	storage, mock := newStorageMock(t)

	mock.ExpectQuery("SELECT (.+) FROM gyms WHERE id = (.+)").
		WillReturnRows(sqlmock.NewRows(gymRowColumns))

	_, err := storage.ReadGym(context.Background(), uuid.NewString())
	require.ErrorIs(t, err, ErrGymNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_ListGyms(t *testing.T) {
	storage, mock := newStorageMock(t)
	created := time.Date(2026, time.May, 1, 8, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(gymRowColumns).
		AddRow(uuid.NewString(), "Викрам Сингх", "9111111111", "$2a$10$hash", "Iron Temple",
			"Мумбаи, Андхери", "1000", "9111111111", created).
		AddRow(uuid.NewString(), "Анил Кумар", "9222222222", "$2a$10$hash", "Steel Works",
			"Дели, Рохини", "1500", "9222222222", created.Add(time.Hour))

	mock.ExpectQuery("SELECT (.+) FROM gyms ORDER BY created_at").
		WillReturnRows(rows)

	gyms, err := storage.ListGyms(context.Background())
	require.NoError(t, err)
	require.Len(t, gyms, 2)
	assert.Equal(t, "Steel Works", gyms[1].GymName)
	require.NoError(t, mock.ExpectationsWereMet())
}
