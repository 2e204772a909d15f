// Package message формирует тексты уведомлений для участников: месячные
// напоминания об оплате и подтверждения платежа. Чистая подстановка полей,
// без обращений к хранилищу.
package message

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/gym-manager/internal/models"
)

// Reminder формирует персональное напоминание об оплате абонемента
// за месяц, содержащий дату due.
func Reminder(member *models.Member, gym *models.Gym, due time.Time) string {
	return fmt.Sprintf(`*%s*

Hi %s!

This is a friendly reminder that your gym membership fee for %s is due.

*Amount Due:* Rs.%s

*Payment Options:*
Cash Payment: visit the gym and pay directly
Online Payment: use our secure payment link

*Contact:* %s
*Address:* %s

Thank you for being a valued member!`,
		gym.GymName,
		member.Name,
		due.Format("January 2006"),
		member.CurrentMonthFee.StringFixed(2),
		gym.Phone,
		gym.Address,
	)
}

// PaymentConfirmation формирует подтверждение полученного платежа.
func PaymentConfirmation(member *models.Member, gym *models.Gym, amount decimal.Decimal, paidAt time.Time) string {
	method := "cash"
	if member.PaymentMethod != nil {
		method = *member.PaymentMethod
	}
	return fmt.Sprintf(`*Payment Confirmed!*

Hi %s!

Your payment of Rs.%s has been successfully received.

*%s*
*Payment Date:* %s
*Method:* %s

Thank you for your prompt payment!`,
		member.Name,
		amount.StringFixed(2),
		gym.GymName,
		paidAt.Format("02 January 2006"),
		method,
	)
}
