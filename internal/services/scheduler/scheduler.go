// Package services содержит фоновые задания обслуживания аккаунтов:
// ежедневное удаление аккаунтов с истекшим сроком хранения и сброс
// месячных счётчиков заявок первого числа месяца.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/example/sixnumber/internal/lib/month"
	"github.com/example/sixnumber/internal/lib/sl"
	"github.com/example/sixnumber/internal/models"
)

// MaintenanceRepository описывает операции обслуживания аккаунтов.
type MaintenanceRepository interface {
	// DeleteExpiredDormant удаляет DORMANT-аккаунты с истекшим сроком
	// и возвращает их email для уведомления.
	DeleteExpiredDormant(ctx context.Context, now time.Time) ([]string, error)
	// ResetChargingCounts обнуляет месячные счётчики заявок.
	ResetChargingCounts(ctx context.Context) error
}

// PurgePublisher публикует события об удалённых аккаунтах для отправки
// уведомлений.
type PurgePublisher interface {
	PublishPurgeEvent(event models.PurgeEvent) error
}

// SchedulerService запускает периодические задания обслуживания.
type SchedulerService struct {
	repo      MaintenanceRepository
	publisher PurgePublisher
	log       *slog.Logger
}

// NewSchedulerService создает новый экземпляр SchedulerService.
func NewSchedulerService(repo MaintenanceRepository, publisher PurgePublisher, log *slog.Logger) *SchedulerService {
	return &SchedulerService{
		repo:      repo,
		publisher: publisher,
		log:       log,
	}
}

// Run выполняет цикл обслуживания раз в сутки до отмены контекста.
// Первый проход выполняется сразу при запуске.
func (s *SchedulerService) Run(ctx context.Context) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	s.runOnce(ctx, time.Now())
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.runOnce(ctx, now)
		}
	}
}

func (s *SchedulerService) runOnce(ctx context.Context, now time.Time) {
	s.log.Info("starting maintenance pass")
	s.purgeExpired(ctx, now)
	if month.FirstOfMonth(now) {
		if err := s.repo.ResetChargingCounts(ctx); err != nil {
			s.log.Error("failed to reset charging counts", sl.Err(err))
		} else {
			s.log.Info("charging counts reset")
		}
	}
}

// purgeExpired удаляет просроченные DORMANT-аккаунты и публикует событие
// для каждого удаленного email.
func (s *SchedulerService) purgeExpired(ctx context.Context, now time.Time) {
	emails, err := s.repo.DeleteExpiredDormant(ctx, now)
	if err != nil {
		s.log.Error("failed to delete expired dormant accounts", sl.Err(err))
		return
	}
	for _, email := range emails {
		event := models.PurgeEvent{Email: email}
		if err := s.publisher.PublishPurgeEvent(event); err != nil {
			s.log.Error("failed to publish purge event", sl.Err(err))
		}
	}
	if len(emails) > 0 {
		s.log.Info("expired dormant accounts purged", slog.Int("count", len(emails)))
	}
}
