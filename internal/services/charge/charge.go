// Package services содержит бизнес-логику заявок на пополнение баланса:
// подача с дневным лимитом и защитой от дублей, просмотр очереди,
// подтверждение и отклонение администратором, сброс месячных счётчиков.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/example/sixnumber/internal/domain"
	"github.com/example/sixnumber/internal/lib/keymutex"
	"github.com/example/sixnumber/internal/lib/month"
	"github.com/example/sixnumber/internal/lib/sl"
	"github.com/example/sixnumber/internal/models"
)

// ChargeRepository описывает операции с аккаунтами, нужные для обработки заявок.
type ChargeRepository interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	// CreditCash зачисляет сумму на баланс аккаунта.
	CreditCash(ctx context.Context, userUID string, amount int) error
	// IncrementChargingCount увеличивает счётчик поданных заявок.
	IncrementChargingCount(ctx context.Context, userUID string) error
	// ResetChargingCounts обнуляет счётчики всех аккаунтов.
	ResetChargingCounts(ctx context.Context) error
	// AppendStatementEntry дописывает строку в выписку аккаунта.
	AppendStatementEntry(ctx context.Context, entry models.StatementEntry) error
}

// ChargeStore описывает хранилище заявок с TTL и атомарной записью.
type ChargeStore interface {
	SetNX(key string, value any, expiration time.Duration) (bool, error)
	Invalidate(key string) error
	Keys(pattern string) ([]string, error)
	// MultiGet возвращает значения в порядке запрошенных ключей.
	// Для истёкшего ключа на его позиции возвращается пустая строка.
	MultiGet(keys []string) ([]string, error)
}

// EventPublisher публикует события об обработанных заявках для отправки
// уведомлений.
type EventPublisher interface {
	PublishChargeEvent(event models.ChargeEvent) error
}

// ChargeService реализует подачу и администрирование заявок на пополнение.
type ChargeService struct {
	repo      ChargeRepository
	store     ChargeStore
	publisher EventPublisher
	log       *slog.Logger

	// dailyLimit максимум заявок аккаунта в пределах календарного дня
	dailyLimit int

	locks keymutex.KeyMutex
}

// NewChargeService создает новый экземпляр ChargeService.
func NewChargeService(repo ChargeRepository, store ChargeStore, publisher EventPublisher, log *slog.Logger, dailyLimit int) *ChargeService {
	return &ChargeService{
		repo:       repo,
		store:      store,
		publisher:  publisher,
		log:        log,
		dailyLimit: dailyLimit,
	}
}

// dayPrefix возвращает префикс ключей заявок аккаунта за день даты now.
func dayPrefix(userUID string, now time.Time) string {
	return fmt.Sprintf("charge:%s:%s:", userUID, month.DayBucket(now))
}

// userPrefix возвращает префикс всех живых ключей заявок аккаунта.
func userPrefix(userUID string) string {
	return fmt.Sprintf("charge:%s:", userUID)
}

// Submit подает заявку на пополнение. Заявка отклоняется, если аккаунт
// уже исчерпал дневной лимит или за день уже подавал заявку с той же
// парой (msg, cash). Снимок окна и запись нового ключа сериализованы
// мьютексом аккаунта, SetNX страхует от гонки на уровне хранилища.
func (s *ChargeService) Submit(ctx context.Context, userUID, msg string, cash int) (*models.ChargeRequest, error) {
	const op = "services.charge.Submit"

	if _, err := s.repo.GetUser(ctx, userUID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := time.Now()
	req := models.ChargeRequest{
		ID:        uuid.NewString(),
		UserUID:   userUID,
		Msg:       msg,
		Cash:      cash,
		CreatedAt: now,
	}
	key := dayPrefix(userUID, now) + req.Payload()

	s.locks.Lock(userUID)
	defer s.locks.Unlock(userUID)

	keys, err := s.store.Keys(dayPrefix(userUID, now) + "*")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(keys) >= s.dailyLimit {
		return nil, domain.ErrRateLimited
	}
	for _, k := range keys {
		if k == key {
			return nil, domain.ErrDuplicateCharge
		}
	}

	ok, err := s.store.SetNX(key, req, month.UntilEndOfDay(now))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		return nil, domain.ErrDuplicateCharge
	}
	if err := s.repo.IncrementChargingCount(ctx, userUID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("charge request submitted",
		slog.String("user_uid", userUID),
		slog.String("request_id", req.ID),
		slog.Int("cash", cash))
	return &req, nil
}

// ListCharges возвращает живые заявки аккаунта. Если заявок нет,
// возвращается domain.ErrNoData.
func (s *ChargeService) ListCharges(_ context.Context, userUID string) ([]models.ChargeRequest, error) {
	const op = "services.charge.ListCharges"

	keys, err := s.store.Keys(userPrefix(userUID) + "*")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(keys) == 0 {
		return nil, domain.ErrNoData
	}
	values, err := s.store.MultiGet(keys)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := make([]models.ChargeRequest, 0, len(values))
	for _, raw := range values {
		// ключ истёк между Keys и MultiGet
		if raw == "" {
			continue
		}
		var req models.ChargeRequest
		if err := json.Unmarshal([]byte(raw), &req); err != nil {
			s.log.Error("failed to decode charge request", sl.Err(err))
			continue
		}
		result = append(result, req)
	}
	if len(result) == 0 {
		return nil, domain.ErrNoData
	}
	return result, nil
}

// findCharge ищет живую заявку аккаунта по идентификатору.
// Возвращает заявку и её ключ в хранилище.
func (s *ChargeService) findCharge(userUID, requestID string) (*models.ChargeRequest, string, error) {
	keys, err := s.store.Keys(userPrefix(userUID) + "*")
	if err != nil {
		return nil, "", err
	}
	if len(keys) == 0 {
		return nil, "", domain.ErrNoData
	}
	values, err := s.store.MultiGet(keys)
	if err != nil {
		return nil, "", err
	}
	for i, raw := range values {
		if raw == "" {
			continue
		}
		var req models.ChargeRequest
		if err := json.Unmarshal([]byte(raw), &req); err != nil {
			continue
		}
		if req.ID == requestID {
			return &req, keys[i], nil
		}
	}
	return nil, "", domain.ErrNoData
}

// Settle подтверждает заявку: зачисляет сумму на баланс, дописывает строку
// в выписку, удаляет заявку из очереди и публикует событие для уведомления.
// Операция административная.
func (s *ChargeService) Settle(ctx context.Context, userUID, requestID string) error {
	const op = "services.charge.Settle"

	user, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return err
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	req, key, err := s.findCharge(userUID, requestID)
	if err != nil {
		if errors.Is(err, domain.ErrNoData) {
			return err
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.repo.CreditCash(ctx, userUID, req.Cash); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	entry := models.StatementEntry{
		UserUID: userUID,
		Date:    time.Now(),
		Msg:     req.Msg,
		Cash:    req.Cash,
	}
	if err := s.repo.AppendStatementEntry(ctx, entry); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.store.Invalidate(key); err != nil {
		s.log.Error("failed to remove settled charge key", sl.Err(err))
	}

	event := models.ChargeEvent{
		Email:   user.Email,
		UserUID: userUID,
		Msg:     req.Msg,
		Cash:    req.Cash,
		Settled: true,
	}
	if err := s.publisher.PublishChargeEvent(event); err != nil {
		s.log.Error("failed to publish charge event", sl.Err(err))
	}

	s.log.Info("charge request settled",
		slog.String("user_uid", userUID),
		slog.String("request_id", requestID),
		slog.Int("cash", req.Cash))
	return nil
}

// Discard отклоняет заявку без зачисления: удаляет её из очереди и
// публикует событие для уведомления. Операция административная.
func (s *ChargeService) Discard(ctx context.Context, userUID, requestID string) error {
	const op = "services.charge.Discard"

	user, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return err
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	req, key, err := s.findCharge(userUID, requestID)
	if err != nil {
		if errors.Is(err, domain.ErrNoData) {
			return err
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.store.Invalidate(key); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	event := models.ChargeEvent{
		Email:   user.Email,
		UserUID: userUID,
		Msg:     req.Msg,
		Cash:    req.Cash,
		Settled: false,
	}
	if err := s.publisher.PublishChargeEvent(event); err != nil {
		s.log.Error("failed to publish charge event", sl.Err(err))
	}

	s.log.Info("charge request discarded",
		slog.String("user_uid", userUID),
		slog.String("request_id", requestID))
	return nil
}

// ResetCounts обнуляет месячные счётчики заявок всех аккаунтов.
// Вызывается планировщиком первого числа месяца.
func (s *ChargeService) ResetCounts(ctx context.Context) error {
	const op = "services.charge.ResetCounts"
	if err := s.repo.ResetChargingCounts(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("charging counts reset")
	return nil
}
