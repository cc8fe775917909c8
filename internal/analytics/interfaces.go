package analytics

import (
	"context"

	"feedback-tool/internal/kafka"
)

// ActivityRepo - хранилище дневных счетчиков активности по отзывам.
type ActivityRepo interface {
	Record(ctx context.Context, delta DailyActivity) error
	Recent(ctx context.Context, limit int) ([]DailyActivity, error)
}

// ActivityService - обработка событий и выдача статистики.
type ActivityService interface {
	ProcessEvent(ctx context.Context, event kafka.Event) error
	Recent(ctx context.Context, days int) ([]DailyActivity, error)
}

// DailyActivity - сколько отзывов за день создано и удалено,
// и сколько слов пришло в созданных
type DailyActivity struct {
	Day     string `json:"day" db:"day"`
	Created int    `json:"created" db:"created"`
	Deleted int    `json:"deleted" db:"deleted"`
	Words   int    `json:"words" db:"words"`
}
