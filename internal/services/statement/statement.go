// Package services содержит бизнес-логику выписки по счету: чтение строк
// аккаунта за запрошенный месяц в порядке их добавления.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/example/sixnumber/internal/domain"
	"github.com/example/sixnumber/internal/models"
)

// StatementRepository описывает доступ к строкам выписки в базе данных.
type StatementRepository interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	// AppendStatementEntry дописывает строку в конец выписки аккаунта.
	AppendStatementEntry(ctx context.Context, entry models.StatementEntry) error
	// ListStatementByMonth возвращает строки аккаунта за месяц в порядке вставки.
	ListStatementByMonth(ctx context.Context, userUID string, year, monthNum int) ([]models.StatementEntry, error)
}

// StatementService реализует чтение и пополнение выписки.
type StatementService struct {
	repo StatementRepository
	log  *slog.Logger
}

// NewStatementService создает новый экземпляр StatementService.
func NewStatementService(repo StatementRepository, log *slog.Logger) *StatementService {
	return &StatementService{repo: repo, log: log}
}

// AppendEntry дописывает строку в выписку аккаунта.
func (s *StatementService) AppendEntry(ctx context.Context, entry models.StatementEntry) error {
	const op = "services.statement.AppendEntry"
	if _, err := s.repo.GetUser(ctx, entry.UserUID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return err
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.repo.AppendStatementEntry(ctx, entry); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetStatement возвращает строки выписки аккаунта за запрошенные год и месяц.
// Для неизвестного аккаунта возвращается domain.ErrUserNotFound, для пустого
// месяца domain.ErrNoData.
func (s *StatementService) GetStatement(ctx context.Context, userUID string, year, monthNum int) ([]models.StatementEntry, error) {
	const op = "services.statement.GetStatement"

	if _, err := s.repo.GetUser(ctx, userUID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	entries, err := s.repo.ListStatementByMonth(ctx, userUID, year, monthNum)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(entries) == 0 {
		return nil, domain.ErrNoData
	}
	s.log.Debug("statement fetched",
		slog.String("user_uid", userUID),
		slog.Int("year", year),
		slog.Int("month", monthNum),
		slog.Int("entries", len(entries)))
	return entries, nil
}
