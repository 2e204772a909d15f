package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Статусы оплаты абонемента участника.
const (
	FeeStatusUnpaid = "unpaid"
	FeeStatusPaid   = "paid"
)

// Способы оплаты. Пустое значение (NULL) означает, что способ не задан.
const (
	PaymentMethodCash    = "cash"
	PaymentMethodGateway = "gateway"
	PaymentMethodAdmin   = "admin"
)

// Member представляет участника зала. Идентификатор и телефон уникальны
// в пределах зала; дата вступления неизменяема после создания.
type Member struct {
	ID               string          // Уникален в пределах зала (UUID)
	GymID            string          // Зал-владелец
	Name             string          // Имя участника
	Phone            string          // Телефон, уникален в пределах зала
	JoiningDate      time.Time       // Дата вступления (календарная)
	FeeStatus        string          // unpaid | paid
	CurrentMonthFee  decimal.Decimal // Сумма к оплате за текущий цикл (>= 0)
	PaymentMethod    *string         // cash | gateway | admin, nil если не задан
	IsActive         bool
	CreatedAt        time.Time
	PaymentUpdatedAt *time.Time // Последнее обновление статуса оплаты
}

// DummyMember используется для приёма данных регистрации участника из JSON-запроса.
type DummyMember struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone" validate:"required,numeric,len=10"`
}

// DummyPaymentUpdate — запрос смены способа оплаты участника.
type DummyPaymentUpdate struct {
	PaymentMethod string `json:"payment_method" validate:"required,oneof=cash gateway admin"`
}

// DummyCashVerify — запрос подтверждения оплаты наличными.
// Имя сравнивается как подстрока без учёта регистра.
type DummyCashVerify struct {
	Phone     string `json:"phone" validate:"required,numeric,len=10"`
	Name      string `json:"name" validate:"required"`
	SessionID string `json:"session_id,omitempty" validate:"omitempty,uuid"`
}
