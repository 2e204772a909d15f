package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/magabrotheeeer/gym-manager/internal/models"
)

const notificationColumns = `id, gym_id, member_id, phone, sender_phone, member_name,
	gym_name, message, status, category, period, priority, error, created_at, sent_at, failed_at`

func scanNotification(row interface{ Scan(...any) error }) (*models.Notification, error) {
	var n models.Notification
	err := row.Scan(&n.ID, &n.GymID, &n.MemberID, &n.Phone, &n.SenderPhone, &n.MemberName,
		&n.GymName, &n.Message, &n.Status, &n.Category, &n.Period, &n.Priority,
		&n.Error, &n.CreatedAt, &n.SentAt, &n.FailedAt)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// CreateNotification ставит уведомление в очередь. Для месячных напоминаний
// нарушение уникального индекса (gym, member, category, period) возвращает
// ErrDuplicateReminder: напоминание за этот период уже в очереди.
func (s *Storage) CreateNotification(ctx context.Context, n models.Notification) error {
	const op = "storage.CreateNotification"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO notifications (id, gym_id, member_id, phone, sender_phone,
			      member_name, gym_name, message, status, category, period, priority, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := s.DB.ExecContext(ctx, query,
		n.ID, n.GymID, n.MemberID, n.Phone, n.SenderPhone, n.MemberName,
		n.GymName, n.Message, n.Status, n.Category, n.Period, n.Priority, n.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%s: %w", op, ErrDuplicateReminder)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ReminderExists проверяет, стоит ли уже напоминание участнику за период.
// Проверка выполняется непосредственно перед вставкой; гонку двух
// одновременных генераций закрывает уникальный индекс.
func (s *Storage) ReminderExists(ctx context.Context, gymID, memberID, period string) (bool, error) {
	const op = "storage.ReminderExists"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT EXISTS (
				SELECT 1 FROM notifications
				WHERE gym_id = $1 AND member_id = $2 AND category = $3 AND period = $4)`
	var exists bool
	err := s.DB.QueryRowContext(ctx, query,
		gymID, memberID, models.NotificationCategoryReminder, period).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// CountSentSince возвращает количество уведомлений со статусом sent,
// отправленных начиная с момента since.
func (s *Storage) CountSentSince(ctx context.Context, since time.Time) (int, error) {
	const op = "storage.CountSentSince"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COUNT(*) FROM notifications WHERE status = $1 AND sent_at >= $2`
	var count int
	err := s.DB.QueryRowContext(ctx, query, models.NotificationStatusSent, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// ListPendingNotifications возвращает до limit ожидающих уведомлений:
// сначала по убыванию приоритета, при равенстве — старые раньше.
func (s *Storage) ListPendingNotifications(ctx context.Context, limit int) ([]*models.Notification, error) {
	const op = "storage.ListPendingNotifications"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + notificationColumns + ` FROM notifications
			  WHERE status = $1
			  ORDER BY priority DESC, created_at ASC
			  LIMIT $2`
	rows, err := s.DB.QueryContext(ctx, query, models.NotificationStatusPending, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var result []*models.Notification
	for rows.Next() {
		item, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// MarkNotificationSent переводит уведомление pending -> sent. Переход
// односторонний: для записи не в pending обновление не выполняется и
// ошибки нет. Возвращает true, если запись была обновлена.
func (s *Storage) MarkNotificationSent(ctx context.Context, id string, now time.Time) (bool, error) {
	const op = "storage.MarkNotificationSent"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE notifications SET status = $1, sent_at = $2
			  WHERE id = $3 AND status = $4`
	result, err := s.DB.ExecContext(ctx, query,
		models.NotificationStatusSent, now, id, models.NotificationStatusPending)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return affected > 0, nil
}

// MarkNotificationFailed переводит уведомление pending -> failed с причиной.
// Как и MarkNotificationSent, для записи не в pending — no-op.
func (s *Storage) MarkNotificationFailed(ctx context.Context, id, reason string, now time.Time) (bool, error) {
	const op = "storage.MarkNotificationFailed"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE notifications SET status = $1, failed_at = $2, error = $3
			  WHERE id = $4 AND status = $5`
	result, err := s.DB.ExecContext(ctx, query,
		models.NotificationStatusFailed, now, reason, id, models.NotificationStatusPending)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return affected > 0, nil
}

// DeleteTerminalNotificationsBefore удаляет уведомления в терминальных
// статусах (sent, failed), созданные раньше cutoff. Возвращает количество
// удалённых записей.
func (s *Storage) DeleteTerminalNotificationsBefore(ctx context.Context, cutoff time.Time) (int, error) {
	const op = "storage.DeleteTerminalNotificationsBefore"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM notifications
			  WHERE status IN ($1, $2) AND created_at < $3`
	result, err := s.DB.ExecContext(ctx, query,
		models.NotificationStatusSent, models.NotificationStatusFailed, cutoff)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(affected), nil
}
