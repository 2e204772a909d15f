// Package models содержит доменные структуры: зал (арендатор), участник,
// уведомление и платёжные сущности, а также вспомогательные Dummy-типы
// для приёма данных из JSON-запросов до их валидации и конвертации.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Gym представляет арендатора системы: один зал и его изолированную
// коллекцию участников. Телефон владельца уникален во всей системе.
type Gym struct {
	ID           string          // Уникальный идентификатор зала (UUID)
	OwnerName    string          // Имя владельца
	Phone        string          // Телефон владельца, уникален глобально
	PasswordHash string          // Хэш пароля владельца
	GymName      string          // Отображаемое название зала
	Address      string          // Адрес зала
	MonthlyFee   decimal.Decimal // Месячная ставка абонемента (> 0)
	SenderPhone  *string         // Номер отправителя уведомлений, опционально
	CreatedAt    time.Time
}

// ReminderSender возвращает номер, с которого рассылаются уведомления зала:
// заданный номер отправителя либо телефон владельца.
func (g *Gym) ReminderSender() string {
	if g.SenderPhone != nil && *g.SenderPhone != "" {
		return *g.SenderPhone
	}
	return g.Phone
}

// DummyGym используется для приёма данных регистрации владельца зала
// из JSON-запроса, прежде чем конвертировать их в Gym.
type DummyGym struct {
	OwnerName   string `json:"owner_name" validate:"required"`
	Phone       string `json:"phone" validate:"required,numeric,len=10"`
	Password    string `json:"password" validate:"required,min=8"`
	GymName     string `json:"gym_name" validate:"required"`
	Address     string `json:"address" validate:"required"`
	MonthlyFee  string `json:"monthly_fee" validate:"required"` // Десятичная строка, > 0
	SenderPhone string `json:"sender_phone,omitempty" validate:"omitempty,numeric,len=10"`
}

// DummyLogin — данные входа владельца зала.
type DummyLogin struct {
	Phone    string `json:"phone" validate:"required,numeric,len=10"`
	Password string `json:"password" validate:"required"`
}
