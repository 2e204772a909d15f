package models

import "time"

// Статусы жизненного цикла уведомления. Переходы из pending в sent/failed
// односторонние.
const (
	NotificationStatusPending = "pending"
	NotificationStatusSent    = "sent"
	NotificationStatusFailed  = "failed"
)

// Категории уведомлений. Месячные напоминания имеют приоритет выше ручных.
const (
	NotificationCategoryManual   = "manual"
	NotificationCategoryReminder = "monthly_reminder"
)

// Приоритеты в очереди: напоминания обгоняют ручные уведомления.
const (
	PriorityManual   = 0
	PriorityReminder = 1
)

// Notification — запись очереди уведомлений. Для категории monthly_reminder
// поле Period содержит тег платёжного периода (YYYY-MM): на пару
// (участник, период) существует не более одного напоминания.
type Notification struct {
	ID          string
	GymID       string
	MemberID    string
	Phone       string // Телефон получателя
	SenderPhone string // Номер отправителя зала
	MemberName  string
	GymName     string
	Message     string
	Status      string  // pending | sent | failed
	Category    string  // manual | monthly_reminder
	Period      *string // YYYY-MM, только для напоминаний
	Priority    int
	Error       *string // Причина ошибки для failed
	CreatedAt   time.Time
	SentAt      *time.Time
	FailedAt    *time.Time
}

// NotificationBatch — результат выборки очередной партии уведомлений.
// RateLimited не является ошибкой: это штатный сигнал о достижении лимитов
// отправки, Message содержит счётчики и значения лимитов.
type NotificationBatch struct {
	Notifications []*Notification
	RateLimited   bool
	Message       string
	HourCount     int
	DayCount      int
	HourlyCap     int
	DailyCap      int
}

// DummyManualNotification — запрос постановки ручного уведомления в очередь.
// Пустое сообщение заменяется стандартным напоминанием.
type DummyManualNotification struct {
	MemberID string `json:"member_id" validate:"required,uuid"`
	Message  string `json:"message,omitempty"`
}

// DummyNotificationStatus — отчёт внешнего канала о доставке.
type DummyNotificationStatus struct {
	Status string `json:"status" validate:"required,oneof=sent failed"`
	Error  string `json:"error,omitempty"`
}
