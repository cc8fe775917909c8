package analytics

import (
	"context"

	"go.uber.org/zap"

	"feedback-tool/internal/kafka"
)

const (
	dayLayout   = "2006-01-02"
	DefaultDays = 7
	MaxDays     = 90
)

type Service struct {
	repo   ActivityRepo
	logger *zap.SugaredLogger
}

func NewService(repo ActivityRepo, logger *zap.SugaredLogger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) ProcessEvent(ctx context.Context, event kafka.Event) error {
	// событие без времени не привязать ко дню
	if event.Timestamp.IsZero() {
		s.logger.Warnw("Skipping event without timestamp", "type", event.Type, "feedback_id", event.FeedbackID)
		return nil
	}

	delta := DailyActivity{Day: event.Timestamp.UTC().Format(dayLayout)}
	switch event.Type {
	case kafka.FeedbackCreated:
		delta.Created = 1
		delta.Words = event.WordCount
	case kafka.FeedbackDeleted:
		delta.Deleted = 1
	default:
		s.logger.Warnw("Skipping unknown event", "type", event.Type)
		return nil
	}

	s.logger.Infow("Feedback event",
		"type", event.Type,
		"feedback_id", event.FeedbackID,
		"word_count", event.WordCount,
	)

	return s.repo.Record(ctx, delta)
}

// Recent ограничивает окно в [1, MaxDays]
func (s *Service) Recent(ctx context.Context, days int) ([]DailyActivity, error) {
	if days <= 0 {
		days = DefaultDays
	}
	if days > MaxDays {
		days = MaxDays
	}

	return s.repo.Recent(ctx, days)
}
