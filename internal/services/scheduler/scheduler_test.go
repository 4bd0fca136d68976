package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/example/sixnumber/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) DeleteExpiredDormant(ctx context.Context, now time.Time) ([]string, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
func (m *RepoMock) ResetChargingCounts(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type PublisherMock struct{ mock.Mock }

func (m *PublisherMock) PublishPurgeEvent(event models.PurgeEvent) error {
	return m.Called(event).Error(0)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunOnce_PublishesPurgeEvents(t *testing.T) {
	repo := new(RepoMock)
	publisher := new(PublisherMock)
	svc := NewSchedulerService(repo, publisher, testLogger())
	ctx := context.Background()

	now := time.Date(2025, 6, 15, 3, 0, 0, 0, time.UTC)
	repo.On("DeleteExpiredDormant", ctx, now).
		Return([]string{"a@example.com", "b@example.com"}, nil)
	publisher.On("PublishPurgeEvent", models.PurgeEvent{Email: "a@example.com"}).Return(nil)
	publisher.On("PublishPurgeEvent", models.PurgeEvent{Email: "b@example.com"}).Return(nil)

	svc.runOnce(ctx, now)
	publisher.AssertExpectations(t)
}

func TestRunOnce_PublishErrorDoesNotStopPass(t *testing.T) {
	repo := new(RepoMock)
	publisher := new(PublisherMock)
	svc := NewSchedulerService(repo, publisher, testLogger())
	ctx := context.Background()

	now := time.Date(2025, 6, 15, 3, 0, 0, 0, time.UTC)
	repo.On("DeleteExpiredDormant", ctx, now).
		Return([]string{"a@example.com", "b@example.com"}, nil)
	publisher.On("PublishPurgeEvent", models.PurgeEvent{Email: "a@example.com"}).
		Return(errors.New("broker down"))
	publisher.On("PublishPurgeEvent", models.PurgeEvent{Email: "b@example.com"}).Return(nil)

	svc.runOnce(ctx, now)
	publisher.AssertExpectations(t)
}

func TestRunOnce_ResetsCountsOnFirstOfMonth(t *testing.T) {
	repo := new(RepoMock)
	svc := NewSchedulerService(repo, new(PublisherMock), testLogger())
	ctx := context.Background()

	now := time.Date(2025, 6, 1, 3, 0, 0, 0, time.UTC)
	repo.On("DeleteExpiredDormant", ctx, now).Return([]string{}, nil)
	repo.On("ResetChargingCounts", ctx).Return(nil)

	svc.runOnce(ctx, now)
	repo.AssertExpectations(t)
}

func TestRunOnce_SkipsResetMidMonth(t *testing.T) {
	repo := new(RepoMock)
	svc := NewSchedulerService(repo, new(PublisherMock), testLogger())
	ctx := context.Background()

	now := time.Date(2025, 6, 15, 3, 0, 0, 0, time.UTC)
	repo.On("DeleteExpiredDormant", ctx, now).Return([]string{}, nil)

	svc.runOnce(ctx, now)
	repo.AssertNotCalled(t, "ResetChargingCounts", mock.Anything)
}

func TestRunOnce_PurgeErrorDoesNotStopPass(t *testing.T) {
	repo := new(RepoMock)
	svc := NewSchedulerService(repo, new(PublisherMock), testLogger())
	ctx := context.Background()

	now := time.Date(2025, 6, 1, 3, 0, 0, 0, time.UTC)
	repo.On("DeleteExpiredDormant", ctx, now).Return(nil, errors.New("db down"))
	repo.On("ResetChargingCounts", ctx).Return(nil)

	svc.runOnce(ctx, now)
	repo.AssertCalled(t, "ResetChargingCounts", ctx)
}
