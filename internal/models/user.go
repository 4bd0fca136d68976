// Package models содержит доменную модель аккаунта пользователя:
// учётные данные, баланс cash, роль, статус жизненного цикла и
// счётчик заявок на пополнение. Структуры используются в бизнес-логике
// и при работе с хранилищем.
package models

import (
	"fmt"
	"time"
)

// Role роль аккаунта. Определяет доступ к платным операциям и админке.
type Role string

// Допустимые роли аккаунта.
const (
	RoleUser  Role = "USER"
	RolePaid  Role = "PAID"
	RoleAdmin Role = "ADMIN"
)

// ParseRole преобразует строку в Role, отклоняя неизвестные значения.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser, RolePaid, RoleAdmin:
		return Role(s), nil
	default:
		return "", fmt.Errorf("models.ParseRole: unknown role %q", s)
	}
}

// Status статус жизненного цикла аккаунта. Управляет возможностью входа.
type Status string

// Допустимые статусы аккаунта.
const (
	StatusActive    Status = "ACTIVE"
	StatusSuspended Status = "SUSPENDED"
	StatusDormant   Status = "DORMANT"
)

// ParseStatus преобразует строку в Status, отклоняя неизвестные значения.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusActive, StatusSuspended, StatusDormant:
		return Status(s), nil
	default:
		return "", fmt.Errorf("models.ParseStatus: unknown status %q", s)
	}
}

// SeedCash стартовый баланс нового аккаунта.
const SeedCash = 1000

// User представляет зарегистрированного пользователя сервиса.
//
// Поле Cash неотрицательно: списания проходят только через проверку баланса
// в бизнес-логике. WithdrawExpiration заполнено тогда и только тогда, когда
// статус DORMANT, и отмечает дату, после которой аккаунт подлежит удалению.
type User struct {
	UID                string     // Уникальный идентификатор пользователя
	Email              string     // Электронная почта, ключ для входа
	PasswordHash       string     // Хэш пароля пользователя
	Nickname           string     // Отображаемое имя (уникальное)
	Cash               int        // Баланс в условных единицах
	Role               Role       // Роль: USER, PAID или ADMIN
	Status             Status     // Статус: ACTIVE, SUSPENDED или DORMANT
	PaymentDate        *string    // Токен месяца оплаты или сообщение об отмене подписки
	WithdrawExpiration *time.Time // Дата, после которой DORMANT-аккаунт подлежит удалению
	ChargingCount      int        // Количество заявок на пополнение в текущем цикле
}

// NewUser создает аккаунт с дефолтными значениями регистрации.
func NewUser(email, passwordHash, nickname string) User {
	return User{
		Email:        email,
		PasswordHash: passwordHash,
		Nickname:     nickname,
		Cash:         SeedCash,
		Role:         RoleUser,
		Status:       StatusActive,
	}
}
