package repository

import (
	"context"
	"fmt"

	"github.com/example/sixnumber/internal/models"
)

// AppendStatementEntry добавляет запись в конец выписки аккаунта.
// Порядок записей определяется возрастающим id, существующие записи
// никогда не изменяются и не удаляются.
func (s *Storage) AppendStatementEntry(ctx context.Context, entry models.StatementEntry) error {
	const op = "storage.AppendStatementEntry"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO statement_entries (user_uid, entry_date, msg, cash)
			  VALUES ($1, $2, $3, $4)`
	if _, err := s.DB.ExecContext(ctx, query,
		entry.UserUID, entry.Date, entry.Msg, entry.Cash); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListStatementByMonth возвращает записи выписки аккаунта за указанный
// год и месяц в порядке добавления.
func (s *Storage) ListStatementByMonth(ctx context.Context, userUID string, year, monthNum int) ([]models.StatementEntry, error) {
	const op = "storage.ListStatementByMonth"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT user_uid, entry_date, msg, cash
			  FROM statement_entries
			  WHERE user_uid = $1
			    AND EXTRACT(YEAR FROM entry_date) = $2
			    AND EXTRACT(MONTH FROM entry_date) = $3
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query, userUID, year, monthNum)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.StatementEntry
	for rows.Next() {
		var e models.StatementEntry
		if err = rows.Scan(&e.UserUID, &e.Date, &e.Msg, &e.Cash); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
