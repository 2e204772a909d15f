package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Статусы платёжной сессии.
const (
	SessionStatusPending   = "pending"
	SessionStatusCompleted = "completed"
)

// Статусы заказа платёжного шлюза.
const (
	OrderStatusCreated   = "created"
	OrderStatusCompleted = "completed"
)

// PaiseInRupee — множитель перевода рупий в пайсы для платёжного шлюза.
var PaiseInRupee = decimal.NewFromInt(100)

// PaymentSession — короткоживущая сессия оплаты по QR-коду. Создаётся по
// требованию, потребляется ровно один раз при успешной верификации и
// удаляется зачисткой после истечения срока.
type PaymentSession struct {
	ID        string
	GymID     string
	MemberID  string
	Amount    decimal.Decimal
	Status    string // pending | completed
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired сообщает, истёк ли срок действия сессии на момент now.
func (s *PaymentSession) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// GatewayOrder — заказ, созданный во внешнем платёжном шлюзе.
type GatewayOrder struct {
	OrderID   string
	GymID     string
	MemberID  string
	Amount    decimal.Decimal
	Status    string // created | completed
	CreatedAt time.Time
}

// DummyOrderCreate — запрос создания заказа в шлюзе для участника.
type DummyOrderCreate struct {
	GymID    string `json:"gym_id" validate:"required,uuid"`
	MemberID string `json:"member_id" validate:"required,uuid"`
}

// DummyGatewayVerify — данные подтверждения оплаты от шлюза.
type DummyGatewayVerify struct {
	OrderID   string `json:"order_id" validate:"required"`
	PaymentID string `json:"payment_id" validate:"required"`
	Signature string `json:"signature" validate:"required"`
}
