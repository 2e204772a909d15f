package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/magabrotheeeer/gym-manager/internal/models"
)

// isUniqueViolation сообщает, вызвана ли ошибка нарушением уникального индекса.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// CreateGym вставляет нового арендатора. Телефон владельца уникален
// глобально: занятый номер возвращает ErrDuplicatePhone.
func (s *Storage) CreateGym(ctx context.Context, gym models.Gym) error {
	const op = "storage.CreateGym"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO gyms (id, owner_name, phone, password_hash, gym_name,
			      address, monthly_fee, sender_phone, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := s.DB.ExecContext(ctx, query,
		gym.ID, gym.OwnerName, gym.Phone, gym.PasswordHash, gym.GymName,
		gym.Address, gym.MonthlyFee, gym.SenderPhone, gym.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%s: %w", op, ErrDuplicatePhone)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ReadGym возвращает данные зала по его ID.
func (s *Storage) ReadGym(ctx context.Context, gymID string) (*models.Gym, error) {
	const op = "storage.ReadGym"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, owner_name, phone, password_hash, gym_name, address,
				monthly_fee, sender_phone, created_at
			  FROM gyms WHERE id = $1`
	row := s.DB.QueryRowContext(ctx, query, gymID)

	var result models.Gym
	if err := row.Scan(&result.ID, &result.OwnerName, &result.Phone, &result.PasswordHash,
		&result.GymName, &result.Address, &result.MonthlyFee, &result.SenderPhone,
		&result.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrGymNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// ReadGymByPhone возвращает зал по телефону владельца. Используется при входе.
func (s *Storage) ReadGymByPhone(ctx context.Context, phone string) (*models.Gym, error) {
	const op = "storage.ReadGymByPhone"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, owner_name, phone, password_hash, gym_name, address,
				monthly_fee, sender_phone, created_at
			  FROM gyms WHERE phone = $1`
	row := s.DB.QueryRowContext(ctx, query, phone)

	var result models.Gym
	if err := row.Scan(&result.ID, &result.OwnerName, &result.Phone, &result.PasswordHash,
		&result.GymName, &result.Address, &result.MonthlyFee, &result.SenderPhone,
		&result.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrGymNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// ListGyms возвращает всех арендаторов в порядке создания.
func (s *Storage) ListGyms(ctx context.Context) ([]*models.Gym, error) {
	const op = "storage.ListGyms"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, owner_name, phone, password_hash, gym_name, address,
				monthly_fee, sender_phone, created_at
			  FROM gyms
			  ORDER BY created_at`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var result []*models.Gym
	for rows.Next() {
		var item models.Gym
		if err := rows.Scan(&item.ID, &item.OwnerName, &item.Phone, &item.PasswordHash,
			&item.GymName, &item.Address, &item.MonthlyFee, &item.SenderPhone,
			&item.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
