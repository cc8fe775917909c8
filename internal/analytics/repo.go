package analytics

import (
	"context"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	customErrors "feedback-tool/internal/types/errors"
)

type Repository struct {
	DB     *sqlx.DB
	Logger *zap.SugaredLogger
}

func NewRepository(db *sqlx.DB, logger *zap.SugaredLogger) *Repository {
	return &Repository{
		DB:     db,
		Logger: logger,
	}
}

// Record прибавляет delta к счетчикам дня, создавая строку при первом событии
func (r *Repository) Record(ctx context.Context, delta DailyActivity) error {
	query := r.DB.Rebind(`
		INSERT INTO feedback_activity (day, created, deleted, words)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (day)
		DO UPDATE SET
			created = feedback_activity.created + excluded.created,
			deleted = feedback_activity.deleted + excluded.deleted,
			words = feedback_activity.words + excluded.words
	`)

	_, err := r.DB.ExecContext(ctx, query, delta.Day, delta.Created, delta.Deleted, delta.Words)
	if err != nil {
		r.Logger.Errorw("Failed to record activity", zap.Error(err), "day", delta.Day)
		return customErrors.ErrDBInternal
	}

	return nil
}

// Recent возвращает последние limit дней, новые первыми
func (r *Repository) Recent(ctx context.Context, limit int) ([]DailyActivity, error) {
	query := r.DB.Rebind(`
		SELECT day, created, deleted, words
		FROM feedback_activity
		ORDER BY day DESC
		LIMIT ?
	`)

	days := make([]DailyActivity, 0)
	if err := r.DB.SelectContext(ctx, &days, query, limit); err != nil {
		r.Logger.Errorw("Failed to select activity", zap.Error(err), "limit", limit)
		return nil, customErrors.ErrDBInternal
	}

	return days, nil
}
