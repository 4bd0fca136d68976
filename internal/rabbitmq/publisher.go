package rabbitmq

import (
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"

	"github.com/example/sixnumber/internal/models"
)

// NotificationPublisher публикует события обработки заявок и удаления
// аккаунтов в exchange уведомлений.
type NotificationPublisher struct {
	ch *amqp.Channel
}

// NewNotificationPublisher создает новый экземпляр NotificationPublisher.
func NewNotificationPublisher(ch *amqp.Channel) *NotificationPublisher {
	return &NotificationPublisher{ch: ch}
}

// PublishChargeEvent публикует событие о проведённой или отклонённой заявке.
func (p *NotificationPublisher) PublishChargeEvent(event models.ChargeEvent) error {
	return publish(p.ch, routingKeyCharge, event)
}

// PublishPurgeEvent публикует событие об удалённом по сроку аккаунте.
func (p *NotificationPublisher) PublishPurgeEvent(event models.PurgeEvent) error {
	return publish(p.ch, routingKeyPurge, event)
}

// publish публикует сообщение в exchange уведомлений.
func publish(ch *amqp.Channel, routingKey string, message any) error {
	const op = "rabbitmq.publish"
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = ch.Publish(
		NotificationsExchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
