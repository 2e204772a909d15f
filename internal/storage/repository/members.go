package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/gym-manager/internal/models"
)

// MemberCollection — дескриптор изолированной коллекции участников одного
// зала. Все запросы несут gym_id в условии, поэтому участник одного зала
// не разрешается через дескриптор другого.
type MemberCollection struct {
	db    *sql.DB
	gymID string
}

// Members возвращает дескриптор коллекции участников зала gymID.
func (s *Storage) Members(gymID string) *MemberCollection {
	return &MemberCollection{db: s.DB, gymID: gymID}
}

// GymID возвращает идентификатор зала, к которому привязан дескриптор.
func (c *MemberCollection) GymID() string {
	return c.gymID
}

const memberColumns = `id, gym_id, name, phone, joining_date, fee_status,
	current_month_fee, payment_method, is_active, created_at, payment_updated_at`

func scanMember(row interface{ Scan(...any) error }) (*models.Member, error) {
	var m models.Member
	err := row.Scan(&m.ID, &m.GymID, &m.Name, &m.Phone, &m.JoiningDate, &m.FeeStatus,
		&m.CurrentMonthFee, &m.PaymentMethod, &m.IsActive, &m.CreatedAt, &m.PaymentUpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create вставляет нового участника. Телефон уникален в пределах зала:
// занятый номер возвращает ErrDuplicatePhone.
func (c *MemberCollection) Create(ctx context.Context, member models.Member) error {
	const op = "storage.members.Create"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO members (id, gym_id, name, phone, joining_date, fee_status,
			      current_month_fee, payment_method, is_active, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := c.db.ExecContext(ctx, query,
		member.ID, c.gymID, member.Name, member.Phone, member.JoiningDate,
		member.FeeStatus, member.CurrentMonthFee, member.PaymentMethod,
		member.IsActive, member.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%s: %w", op, ErrDuplicatePhone)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Read возвращает участника по ID в пределах зала.
func (c *MemberCollection) Read(ctx context.Context, memberID string) (*models.Member, error) {
	const op = "storage.members.Read"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + memberColumns + ` FROM members WHERE gym_id = $1 AND id = $2`
	result, err := scanMember(c.db.QueryRowContext(ctx, query, c.gymID, memberID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrMemberNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// List возвращает всех участников зала в порядке создания.
func (c *MemberCollection) List(ctx context.Context) ([]*models.Member, error) {
	const op = "storage.members.List"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + memberColumns + ` FROM members WHERE gym_id = $1 ORDER BY created_at`
	rows, err := c.db.QueryContext(ctx, query, c.gymID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var result []*models.Member
	for rows.Next() {
		item, err := scanMember(rows)
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

// ListUnpaidActive возвращает активных участников с неоплаченным абонементом.
// Источник выборки для генерации месячных напоминаний.
func (c *MemberCollection) ListUnpaidActive(ctx context.Context) ([]*models.Member, error) {
	const op = "storage.members.ListUnpaidActive"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + memberColumns + ` FROM members
			  WHERE gym_id = $1 AND fee_status = $2 AND is_active = TRUE
			  ORDER BY created_at`
	rows, err := c.db.QueryContext(ctx, query, c.gymID, models.FeeStatusUnpaid)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var result []*models.Member
	for rows.Next() {
		item, err := scanMember(rows)
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

// FindByPhoneAndName ищет участника по точному телефону и подстроке имени
// без учёта регистра. Используется при подтверждении оплаты наличными.
func (c *MemberCollection) FindByPhoneAndName(ctx context.Context, phone, namePattern string) (*models.Member, error) {
	const op = "storage.members.FindByPhoneAndName"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + memberColumns + ` FROM members
			  WHERE gym_id = $1 AND phone = $2 AND name ILIKE '%' || $3 || '%'`
	result, err := scanMember(c.db.QueryRowContext(ctx, query, c.gymID, phone, namePattern))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrMemberNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// MarkPaid переводит участника в статус paid с указанным способом оплаты.
// Повторный вызов перезаписывает способ и отметку времени без ошибки.
func (c *MemberCollection) MarkPaid(ctx context.Context, memberID, method string, now time.Time) error {
	const op = "storage.members.MarkPaid"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE members
			  SET fee_status = $1, payment_method = $2, payment_updated_at = $3
			  WHERE gym_id = $4 AND id = $5`
	result, err := c.db.ExecContext(ctx, query,
		models.FeeStatusPaid, method, now, c.gymID, memberID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, ErrMemberNotFound)
	}
	return nil
}

// ToggleActive инвертирует флаг активности и возвращает новое значение.
func (c *MemberCollection) ToggleActive(ctx context.Context, memberID string) (bool, error) {
	const op = "storage.members.ToggleActive"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE members SET is_active = NOT is_active
			  WHERE gym_id = $1 AND id = $2
			  RETURNING is_active`
	var isActive bool
	err := c.db.QueryRowContext(ctx, query, c.gymID, memberID).Scan(&isActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, fmt.Errorf("%s: %w", op, ErrMemberNotFound)
		}
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return isActive, nil
}

// Remove удаляет участника из коллекции зала.
func (c *MemberCollection) Remove(ctx context.Context, memberID string) error {
	const op = "storage.members.Remove"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM members WHERE gym_id = $1 AND id = $2`
	result, err := c.db.ExecContext(ctx, query, c.gymID, memberID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, ErrMemberNotFound)
	}
	return nil
}

// ResetForNewCycle открывает новый платёжный цикл для всех активных
// участников зала: статус unpaid, способ оплаты сброшен, сумма равна
// месячной ставке. Возвращает количество обновлённых записей. Повторный
// запуск не меняет состояние уже сброшенных участников по существу.
func (c *MemberCollection) ResetForNewCycle(ctx context.Context, monthlyFee decimal.Decimal, now time.Time) (int, error) {
	const op = "storage.members.ResetForNewCycle"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE members
			  SET fee_status = $1, payment_method = NULL,
			      current_month_fee = $2, payment_updated_at = $3
			  WHERE gym_id = $4 AND is_active = TRUE`
	result, err := c.db.ExecContext(ctx, query,
		models.FeeStatusUnpaid, monthlyFee, now, c.gymID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(affected), nil
}
