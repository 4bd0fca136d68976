// Package rabbitmq содержит подключение к брокеру, объявление очередей
// уведомлений и публикацию/чтение сообщений.
package rabbitmq

// NotificationsExchange имя direct-exchange почтовых уведомлений.
const NotificationsExchange = "notifications"

// Очереди уведомлений и их ключи маршрутизации.
const (
	QueueCharge = "notifications.charge"
	QueuePurge  = "notifications.purge"

	routingKeyCharge = "charge"
	routingKeyPurge  = "purge"
)

// QueueConfig описывает очередь и её ключ маршрутизации в exchange уведомлений.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetNotificationQueues возвращает очереди уведомлений сервиса:
// обработанные заявки на пополнение и удалённые по сроку аккаунты.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: QueueCharge, RoutingKey: routingKeyCharge},
		{QueueName: QueuePurge, RoutingKey: routingKeyPurge},
	}
}
