package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/sixnumber/internal/domain"
	"github.com/example/sixnumber/internal/models"
)

const userColumns = `uid, email, password_hash, nickname, cash, role, status,
			      payment_date, withdraw_expiration, charging_count`

// RegisterUser сохраняет новый аккаунт в базу данных и возвращает его UID.
func (s *Storage) RegisterUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.RegisterUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newUID string
	query := `INSERT INTO users (email, password_hash, nickname, cash, role, status, charging_count)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.Email, user.PasswordHash, user.Nickname, user.Cash, string(user.Role),
		string(user.Status), user.ChargingCount).Scan(&newUID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

func (s *Storage) scanUser(row *sql.Row) (*models.User, error) {
	u := &models.User{}
	var role, status string
	var paymentDate sql.NullString
	var withdrawExpiration sql.NullTime
	if err := row.Scan(&u.UID, &u.Email, &u.PasswordHash, &u.Nickname, &u.Cash,
		&role, &status, &paymentDate, &withdrawExpiration, &u.ChargingCount); err != nil {
		return nil, err
	}

	var err error
	if u.Role, err = models.ParseRole(role); err != nil {
		return nil, err
	}
	if u.Status, err = models.ParseStatus(status); err != nil {
		return nil, err
	}
	if paymentDate.Valid {
		u.PaymentDate = &paymentDate.String
	}
	if withdrawExpiration.Valid {
		u.WithdrawExpiration = &withdrawExpiration.Time
	}
	return u, nil
}

// GetUserByEmail возвращает аккаунт по email или domain.ErrUserNotFound.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE email = $1`
	u, err := s.scanUser(s.DB.QueryRowContext(ctx, query, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUser возвращает аккаунт по его UID или domain.ErrUserNotFound.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE uid = $1`
	u, err := s.scanUser(s.DB.QueryRowContext(ctx, query, userUID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUserByStatusAndEmail возвращает аккаунт с заданным статусом и email
// или domain.ErrUserNotFound, если такого нет.
func (s *Storage) GetUserByStatusAndEmail(ctx context.Context, status models.Status, email string) (*models.User, error) {
	const op = "storage.GetUserByStatusAndEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE status = $1 AND email = $2`
	u, err := s.scanUser(s.DB.QueryRowContext(ctx, query, string(status), email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// ExistsLiveByEmail сообщает, занят ли email аккаунтом со статусом ACTIVE или SUSPENDED.
func (s *Storage) ExistsLiveByEmail(ctx context.Context, email string) (bool, error) {
	const op = "storage.ExistsLiveByEmail"
	var exists bool
	query := `SELECT EXISTS (
			      SELECT 1 FROM users WHERE email = $1 AND status IN ('ACTIVE', 'SUSPENDED')
			  )`
	if err := s.DB.QueryRowContext(ctx, query, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// ExistsLiveByNickname сообщает, занят ли никнейм аккаунтом со статусом ACTIVE или SUSPENDED.
func (s *Storage) ExistsLiveByNickname(ctx context.Context, nickname string) (bool, error) {
	const op = "storage.ExistsLiveByNickname"
	var exists bool
	query := `SELECT EXISTS (
			      SELECT 1 FROM users WHERE nickname = $1 AND status IN ('ACTIVE', 'SUSPENDED')
			  )`
	if err := s.DB.QueryRowContext(ctx, query, nickname).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// ReactivateUser переводит DORMANT-аккаунт в ACTIVE и снимает дату удаления.
func (s *Storage) ReactivateUser(ctx context.Context, userUID string) error {
	const op = "storage.ReactivateUser"
	query := `UPDATE users
			  SET status = 'ACTIVE',
			      withdraw_expiration = NULL
			  WHERE uid = $1`
	if _, err := s.DB.ExecContext(ctx, query, userUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// MarkDormant переводит аккаунт в DORMANT и назначает дату, после которой
// его можно удалить.
func (s *Storage) MarkDormant(ctx context.Context, userUID string, withdrawExpiration time.Time) error {
	const op = "storage.MarkDormant"
	query := `UPDATE users
			  SET status = 'DORMANT',
			      withdraw_expiration = $1
			  WHERE uid = $2`
	if _, err := s.DB.ExecContext(ctx, query, withdrawExpiration, userUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SetPaidSubscription атомарно списывает цену подписки, назначает роль PAID
// и записывает токен оплаченного месяца. Возвращает false, если баланса
// не хватило: условие cash >= price входит в сам UPDATE, поэтому баланс
// не может уйти в минус при конкурентных запросах.
func (s *Storage) SetPaidSubscription(ctx context.Context, userUID string, price int, monthToken string) (bool, error) {
	const op = "storage.SetPaidSubscription"
	query := `UPDATE users
			  SET cash = cash - $1,
			      role = 'PAID',
			      payment_date = $2
			  WHERE uid = $3 AND cash >= $1`
	res, err := s.DB.ExecContext(ctx, query, price, monthToken, userUID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return affected > 0, nil
}

// SetPaymentDate записывает в payment_date произвольный токен —
// используется для сообщения об отмене подписки.
func (s *Storage) SetPaymentDate(ctx context.Context, userUID, value string) error {
	const op = "storage.SetPaymentDate"
	query := `UPDATE users
			  SET payment_date = $1
			  WHERE uid = $2`
	if _, err := s.DB.ExecContext(ctx, query, value, userUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// CreditCash увеличивает баланс аккаунта на amount.
func (s *Storage) CreditCash(ctx context.Context, userUID string, amount int) error {
	const op = "storage.CreditCash"
	query := `UPDATE users
			  SET cash = cash + $1
			  WHERE uid = $2`
	if _, err := s.DB.ExecContext(ctx, query, amount, userUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// IncrementChargingCount увеличивает счётчик заявок аккаунта на единицу.
func (s *Storage) IncrementChargingCount(ctx context.Context, userUID string) error {
	const op = "storage.IncrementChargingCount"
	query := `UPDATE users
			  SET charging_count = charging_count + 1
			  WHERE uid = $1`
	if _, err := s.DB.ExecContext(ctx, query, userUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ResetChargingCounts обнуляет счётчики заявок всех аккаунтов.
// Вызывается планировщиком в начале каждого цикла.
func (s *Storage) ResetChargingCounts(ctx context.Context) error {
	const op = "storage.ResetChargingCounts"
	query := `UPDATE users SET charging_count = 0 WHERE charging_count <> 0`
	if _, err := s.DB.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SetAdmin назначает аккаунту роль ADMIN. Доступно только привилегированной
// операции, пользовательские сценарии эту роль выставить не могут.
func (s *Storage) SetAdmin(ctx context.Context, userUID string) error {
	const op = "storage.SetAdmin"
	query := `UPDATE users SET role = 'ADMIN' WHERE uid = $1`
	if _, err := s.DB.ExecContext(ctx, query, userUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DeleteExpiredDormant удаляет DORMANT-аккаунты, у которых истёк срок хранения,
// и возвращает email каждого удалённого аккаунта для уведомления.
func (s *Storage) DeleteExpiredDormant(ctx context.Context, now time.Time) ([]string, error) {
	const op = "storage.DeleteExpiredDormant"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM users
			  WHERE status = 'DORMANT' AND withdraw_expiration <= $1
			  RETURNING email`
	rows, err := s.DB.QueryContext(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var emails []string
	for rows.Next() {
		var email string
		if err = rows.Scan(&email); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		emails = append(emails, email)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return emails, nil
}
