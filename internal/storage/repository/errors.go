package repository

import "errors"

// Сентинельные ошибки хранилища. Сервисный слой проверяет их через
// errors.Is и транслирует в ответы операций.
var (
	// ErrGymNotFound — зал с таким идентификатором или телефоном не найден.
	ErrGymNotFound = errors.New("gym not found")
	// ErrMemberNotFound — участник не найден в пределах зала.
	ErrMemberNotFound = errors.New("member not found")
	// ErrNotificationNotFound — запись очереди уведомлений не найдена.
	ErrNotificationNotFound = errors.New("notification not found")
	// ErrSessionNotFound — платёжная сессия не найдена.
	ErrSessionNotFound = errors.New("payment session not found")
	// ErrOrderNotFound — заказ шлюза не найден.
	ErrOrderNotFound = errors.New("gateway order not found")
	// ErrDuplicatePhone — телефон уже занят (зал глобально, участник в пределах зала).
	ErrDuplicatePhone = errors.New("phone already registered")
	// ErrDuplicateReminder — напоминание за этот период уже стоит в очереди.
	// Нарушение уникального индекса трактуется как «уже поставлено», не как сбой.
	ErrDuplicateReminder = errors.New("reminder already queued for period")
)
