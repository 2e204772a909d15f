package rabbitmq

import "github.com/streadway/amqp"

// NotificationPublisher публикует уведомления в exchange notifications.
type NotificationPublisher struct {
	ch *amqp.Channel
}

// NewNotificationPublisher создает публикатор поверх открытого канала.
func NewNotificationPublisher(ch *amqp.Channel) *NotificationPublisher {
	return &NotificationPublisher{ch: ch}
}

// Publish отправляет сообщение с переданным ключом маршрутизации.
func (p *NotificationPublisher) Publish(routingKey string, message any) error {
	return PublishMessage(p.ch, "notifications", routingKey, message)
}
