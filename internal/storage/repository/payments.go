package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/gym-manager/internal/models"
)

// CreateSession вставляет новую платёжную сессию.
func (s *Storage) CreateSession(ctx context.Context, session models.PaymentSession) error {
	const op = "storage.CreateSession"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO payment_sessions (id, gym_id, member_id, amount, status,
			      expires_at, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := s.DB.ExecContext(ctx, query,
		session.ID, session.GymID, session.MemberID, session.Amount,
		session.Status, session.ExpiresAt, session.CreatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ReadSession возвращает платёжную сессию по ID в пределах зала.
func (s *Storage) ReadSession(ctx context.Context, gymID, sessionID string) (*models.PaymentSession, error) {
	const op = "storage.ReadSession"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, gym_id, member_id, amount, status, expires_at, created_at
			  FROM payment_sessions WHERE gym_id = $1 AND id = $2`
	row := s.DB.QueryRowContext(ctx, query, gymID, sessionID)

	var result models.PaymentSession
	if err := row.Scan(&result.ID, &result.GymID, &result.MemberID, &result.Amount,
		&result.Status, &result.ExpiresAt, &result.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrSessionNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// CompleteSession потребляет сессию: переводит pending -> completed.
// Возвращает true, если сессия была потреблена этим вызовом; false означает,
// что сессия уже использована ранее.
func (s *Storage) CompleteSession(ctx context.Context, sessionID string) (bool, error) {
	const op = "storage.CompleteSession"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE payment_sessions SET status = $1
			  WHERE id = $2 AND status = $3`
	result, err := s.DB.ExecContext(ctx, query,
		models.SessionStatusCompleted, sessionID, models.SessionStatusPending)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return affected > 0, nil
}

// DeleteExpiredSessions удаляет сессии с истёкшим сроком независимо от
// статуса. Возвращает количество удалённых записей.
func (s *Storage) DeleteExpiredSessions(ctx context.Context, now time.Time) (int, error) {
	const op = "storage.DeleteExpiredSessions"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM payment_sessions WHERE expires_at < $1`
	result, err := s.DB.ExecContext(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(affected), nil
}

// CreateOrder сохраняет заказ, созданный во внешнем платёжном шлюзе.
func (s *Storage) CreateOrder(ctx context.Context, order models.GatewayOrder) error {
	const op = "storage.CreateOrder"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO gateway_orders (order_id, gym_id, member_id, amount, status, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := s.DB.ExecContext(ctx, query,
		order.OrderID, order.GymID, order.MemberID, order.Amount, order.Status, order.CreatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ReadOrder возвращает заказ шлюза по его идентификатору.
func (s *Storage) ReadOrder(ctx context.Context, orderID string) (*models.GatewayOrder, error) {
	const op = "storage.ReadOrder"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT order_id, gym_id, member_id, amount, status, created_at
			  FROM gateway_orders WHERE order_id = $1`
	row := s.DB.QueryRowContext(ctx, query, orderID)

	var result models.GatewayOrder
	if err := row.Scan(&result.OrderID, &result.GymID, &result.MemberID, &result.Amount,
		&result.Status, &result.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrOrderNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// CompleteOrder переводит заказ из created в completed.
func (s *Storage) CompleteOrder(ctx context.Context, orderID string) error {
	const op = "storage.CompleteOrder"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE gateway_orders SET status = $1 WHERE order_id = $2`
	result, err := s.DB.ExecContext(ctx, query, models.OrderStatusCompleted, orderID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, ErrOrderNotFound)
	}
	return nil
}
