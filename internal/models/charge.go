// Package models содержит структуры заявки на пополнение баланса
// и записи выписки по счёту.
package models

import (
	"fmt"
	"time"
)

// ChargeRequest заявка пользователя на пополнение cash.
//
// Живет в хранилище сессий до конца окна подачи, после чего либо
// проводится администратором в выписку, либо истекает по TTL.
type ChargeRequest struct {
	ID        string    `json:"id"`         // Уникальный идентификатор заявки
	UserUID   string    `json:"user_uid"`   // Владелец заявки
	Msg       string    `json:"msg"`        // Сообщение перевода
	Cash      int       `json:"cash"`       // Сумма пополнения
	CreatedAt time.Time `json:"created_at"` // Время подачи заявки
}

// Payload возвращает полезную нагрузку заявки в формате "msg-cash".
// Две заявки с одинаковым Payload в одном окне считаются дубликатами.
func (c ChargeRequest) Payload() string {
	return chargePayload(c.Msg, c.Cash)
}

func chargePayload(msg string, cash int) string {
	return fmt.Sprintf("%s-%d", msg, cash)
}

// StatementEntry одна строка выписки по счёту аккаунта.
// Записи только добавляются и никогда не переставляются.
type StatementEntry struct {
	UserUID string    `json:"user_uid"` // Владелец записи
	Date    time.Time `json:"date"`     // Дата проведения операции
	Msg     string    `json:"msg"`      // Назначение операции
	Cash    int       `json:"cash"`     // Сумма операции
}

// ChargeEvent событие о проведённой или отклонённой заявке,
// публикуемое в очередь уведомлений.
type ChargeEvent struct {
	Email   string `json:"email"`
	UserUID string `json:"user_uid"`
	Msg     string `json:"msg"`
	Cash    int    `json:"cash"`
	Settled bool   `json:"settled"`
}

// PurgeEvent событие об удалении аккаунта по истечении срока хранения,
// публикуемое в очередь уведомлений.
type PurgeEvent struct {
	Email string `json:"email"`
}
