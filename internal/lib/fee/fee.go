// Package fee реализует расчёт пропорциональной платы за первый,
// неполный месяц членства.
package fee

import (
	"time"

	"github.com/shopspring/decimal"
)

// Prorate считает плату за остаток месяца вступления по месячной ставке.
//
// Для вступивших первого числа возвращает ноль: такой участник оплачивает
// полный цикл, и вызывающая сторона подставляет полную месячную ставку.
// Иначе плата равна дневной ставке, умноженной на количество оставшихся
// дней месяца включительно, с округлением до двух знаков (half-up).
//
// Функция чистая: единственный источник времени — joinDate.
func Prorate(monthlyFee decimal.Decimal, joinDate time.Time) decimal.Decimal {
	if joinDate.Day() == 1 {
		return decimal.Zero
	}

	daysInMonth := DaysInMonth(joinDate)
	daysRemaining := daysInMonth - joinDate.Day() + 1

	dailyRate := monthlyFee.Div(decimal.NewFromInt(int64(daysInMonth)))
	return dailyRate.Mul(decimal.NewFromInt(int64(daysRemaining))).Round(2)
}

// FirstCycleFee — сумма, выставляемая участнику при регистрации:
// пропорциональная плата либо полная месячная ставка для вступивших
// первого числа.
func FirstCycleFee(monthlyFee decimal.Decimal, joinDate time.Time) decimal.Decimal {
	prorated := Prorate(monthlyFee, joinDate)
	if prorated.IsZero() {
		return monthlyFee
	}
	return prorated
}

// DaysInMonth возвращает число календарных дней в месяце даты d.
func DaysInMonth(d time.Time) int {
	return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, d.Location()).
		AddDate(0, 1, -1).Day()
}

// Period возвращает тег платёжного периода даты d в формате YYYY-MM.
func Period(d time.Time) string {
	return d.Format("2006-01")
}
