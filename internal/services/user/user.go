// Package services содержит бизнес-логику жизненного цикла аккаунта и сессий:
// регистрация и повторная активация, вход с контролем единственной живой
// сессии, выход, удаление аккаунта и управление платной подпиской.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/sixnumber/internal/domain"
	"github.com/example/sixnumber/internal/lib/jwt"
	"github.com/example/sixnumber/internal/lib/keymutex"
	"github.com/example/sixnumber/internal/lib/month"
	"github.com/example/sixnumber/internal/lib/password"
	"github.com/example/sixnumber/internal/lib/sl"
	"github.com/example/sixnumber/internal/models"
)

// WithdrawPhrase фраза, которую пользователь обязан ввести дословно
// для удаления аккаунта.
const WithdrawPhrase = "회원탈퇴"

// UserRepository описывает контракт для работы с аккаунтами в базе данных.
type UserRepository interface {
	// RegisterUser сохраняет новый аккаунт и возвращает его UID.
	RegisterUser(ctx context.Context, user models.User) (string, error)
	// GetUserByEmail возвращает аккаунт по email или domain.ErrUserNotFound.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// GetUser возвращает аккаунт по UID или domain.ErrUserNotFound.
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	// GetUserByStatusAndEmail возвращает аккаунт с заданным статусом и email.
	GetUserByStatusAndEmail(ctx context.Context, status models.Status, email string) (*models.User, error)
	// ExistsLiveByEmail сообщает, занят ли email живым аккаунтом.
	ExistsLiveByEmail(ctx context.Context, email string) (bool, error)
	// ExistsLiveByNickname сообщает, занят ли никнейм живым аккаунтом.
	ExistsLiveByNickname(ctx context.Context, nickname string) (bool, error)
	// ReactivateUser возвращает DORMANT-аккаунт в ACTIVE.
	ReactivateUser(ctx context.Context, userUID string) error
	// MarkDormant переводит аккаунт в DORMANT с датой удаления.
	MarkDormant(ctx context.Context, userUID string, withdrawExpiration time.Time) error
	// SetPaidSubscription списывает цену подписки и назначает роль PAID.
	SetPaidSubscription(ctx context.Context, userUID string, price int, monthToken string) (bool, error)
	// SetPaymentDate записывает токен отмены подписки.
	SetPaymentDate(ctx context.Context, userUID, value string) error
}

// SessionStore описывает хранилище ключей сессий с TTL.
type SessionStore interface {
	// Get читает значение ключа; false без ошибки, если ключа нет.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет ключ; отсутствие ключа не ошибка.
	Invalidate(key string) error
}

// SignUpResult результат регистрации: создание нового аккаунта или
// повторная активация спящего. Различие наблюдаемо вызывающим кодом
// (201 против 200).
type SignUpResult struct {
	UserUID     string
	Reactivated bool
}

// UserService реализует жизненный цикл аккаунта и управление сессиями.
type UserService struct {
	repo     UserRepository
	sessions SessionStore
	jwtMaker jwt.Maker
	log      *slog.Logger

	// retention срок хранения DORMANT-аккаунта до удаления
	retention time.Duration
	// price цена месячной платной подписки в единицах cash
	price int

	locks keymutex.KeyMutex
}

// NewUserService создает новый экземпляр UserService.
func NewUserService(repo UserRepository, sessions SessionStore, jwtMaker jwt.Maker, log *slog.Logger, retentionDays, subscriptionPrice int) *UserService {
	return &UserService{
		repo:      repo,
		sessions:  sessions,
		jwtMaker:  jwtMaker,
		log:       log,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		price:     subscriptionPrice,
	}
}

// SessionKey возвращает ключ сессии аккаунта в хранилище.
// Наличие живого ключа — единственный признак того, что пользователь в системе.
func SessionKey(userUID string) string {
	return "session:" + userUID
}

// SignUp регистрирует аккаунт. Если по email существует DORMANT-аккаунт и
// пароль совпадает, аккаунт возвращается в ACTIVE без изменения баланса;
// иначе создается новый аккаунт с стартовым балансом и ролью USER.
func (s *UserService) SignUp(ctx context.Context, email, rawPassword, nickname string) (*SignUpResult, error) {
	const op = "services.user.SignUp"

	dormant, err := s.repo.GetUserByStatusAndEmail(ctx, models.StatusDormant, email)
	if err == nil {
		if err := password.CompareHash(dormant.PasswordHash, rawPassword); err != nil {
			return nil, domain.ErrInvalidCredentials
		}
		if err := s.repo.ReactivateUser(ctx, dormant.UID); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		s.log.Info("dormant account reactivated", slog.String("user_uid", dormant.UID))
		return &SignUpResult{UserUID: dormant.UID, Reactivated: true}, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	exists, err := s.repo.ExistsLiveByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if exists {
		return nil, domain.ErrDuplicateEmail
	}
	exists, err = s.repo.ExistsLiveByNickname(ctx, nickname)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if exists {
		return nil, domain.ErrDuplicateNickname
	}

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	uid, err := s.repo.RegisterUser(ctx, models.NewUser(email, hashed, nickname))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("new account registered", slog.String("user_uid", uid))
	return &SignUpResult{UserUID: uid}, nil
}

// SignIn проверяет учётные данные и выдает access токен, сохраняя refresh
// токен как отметку живой сессии.
//
// Если живая сессия уже есть, старый ключ удаляется и возвращается
// domain.ErrSessionConflict: брошенная сессия не блокирует аккаунт навсегда,
// следующий вход пройдет успешно. Последовательность "проверить ключ —
// создать ключ" сериализована мьютексом аккаунта.
func (s *UserService) SignIn(ctx context.Context, email, rawPassword string) (string, error) {
	const op = "services.user.SignIn"

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", err
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if user.Status != models.StatusActive {
		return "", domain.ErrStatusNotActive
	}

	key := SessionKey(user.UID)
	s.locks.Lock(user.UID)
	defer s.locks.Unlock(user.UID)

	var stale string
	found, err := s.sessions.Get(key, &stale)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if found {
		if err := s.sessions.Invalidate(key); err != nil {
			s.log.Error("failed to evict stale session", sl.Err(err))
		}
		return "", domain.ErrSessionConflict
	}

	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", domain.ErrInvalidCredentials
	}

	access, err := s.jwtMaker.AccessToken(user.UID, user.Email)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	refresh, err := s.jwtMaker.RefreshToken(user.UID, user.Email)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if err := s.sessions.Set(key, refresh, s.jwtMaker.RefreshLifetime()); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("user signed in", slog.String("user_uid", user.UID))
	return access, nil
}

// SignOut удаляет ключ сессии аккаунта. Идемпотентен: отсутствие живой
// сессии не является ошибкой.
func (s *UserService) SignOut(_ context.Context, userUID string) error {
	const op = "services.user.SignOut"
	if err := s.sessions.Invalidate(SessionKey(userUID)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("user signed out", slog.String("user_uid", userUID))
	return nil
}

// Withdraw переводит аккаунт в DORMANT, если фраза подтверждения введена
// дословно. Живая сессия при этом гасится немедленно, не дожидаясь TTL.
func (s *UserService) Withdraw(ctx context.Context, userUID, confirmation string) error {
	const op = "services.user.Withdraw"

	if confirmation != WithdrawPhrase {
		return domain.ErrInvalidConfirmation
	}
	user, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return err
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	expiration := time.Now().Add(s.retention)
	if err := s.repo.MarkDormant(ctx, user.UID, expiration); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.sessions.Invalidate(SessionKey(user.UID)); err != nil {
		s.log.Error("failed to clear session on withdraw", sl.Err(err))
	}
	s.log.Info("account marked dormant",
		slog.String("user_uid", user.UID),
		slog.Time("withdraw_expiration", expiration))
	return nil
}

// SetPaid управляет платной подпиской. Если передано сообщение об отмене,
// оно записывается в paymentDate без списания. Иначе с баланса списывается
// цена подписки, аккаунту назначается роль PAID и текущий токен года-месяца.
func (s *UserService) SetPaid(ctx context.Context, userUID string, cancelMsg *string) error {
	const op = "services.user.SetPaid"

	if cancelMsg != nil {
		if err := s.repo.SetPaymentDate(ctx, userUID, *cancelMsg); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		s.log.Info("subscription cancellation recorded", slog.String("user_uid", userUID))
		return nil
	}

	ok, err := s.repo.SetPaidSubscription(ctx, userUID, s.price, month.Token(time.Now()))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		return domain.ErrInsufficientFunds
	}
	s.log.Info("paid subscription activated", slog.String("user_uid", userUID))
	return nil
}

// GetCash возвращает текущий баланс аккаунта.
func (s *UserService) GetCash(ctx context.Context, userUID string) (int, error) {
	const op = "services.user.GetCash"
	user, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return 0, err
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return user.Cash, nil
}
