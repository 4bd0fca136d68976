// Package domain содержит доменные ошибки сервиса, видимые вызывающему коду.
// Все ошибки этого пакета являются ожидаемыми отказами бизнес-логики и
// сопоставляются через errors.Is; ошибки инфраструктуры оборачиваются
// через fmt.Errorf("%s: %w", ...) и сюда не входят.
package domain

import "errors"

var (
	// ErrDuplicateEmail возвращается при регистрации на занятый email.
	ErrDuplicateEmail = errors.New("email already in use")
	// ErrDuplicateNickname возвращается при регистрации с занятым никнеймом.
	ErrDuplicateNickname = errors.New("nickname already in use")
	// ErrUserNotFound возвращается, когда аккаунт не найден по email или id.
	ErrUserNotFound = errors.New("user not found")
	// ErrStatusNotActive возвращается при входе в аккаунт со статусом DORMANT или SUSPENDED.
	ErrStatusNotActive = errors.New("account status is not active")
	// ErrInvalidCredentials возвращается при несовпадении пароля.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrSessionConflict возвращается, если для аккаунта уже есть живая сессия.
	// Старый ключ сессии при этом удаляется, повторный вход пройдет успешно.
	ErrSessionConflict = errors.New("active session already exists")
	// ErrInsufficientFunds возвращается, когда баланса не хватает для списания.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrInvalidConfirmation возвращается при неверной фразе подтверждения удаления аккаунта.
	ErrInvalidConfirmation = errors.New("invalid confirmation phrase")
	// ErrRateLimited возвращается при превышении лимита заявок на пополнение за окно.
	ErrRateLimited = errors.New("charge request limit exceeded")
	// ErrDuplicateCharge возвращается при повторной заявке с тем же сообщением и суммой.
	ErrDuplicateCharge = errors.New("identical charge request already pending")
	// ErrNoData возвращается, когда запрос списка дал пустой результат.
	ErrNoData = errors.New("no data")
)
