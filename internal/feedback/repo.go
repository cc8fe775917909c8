package feedback

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	myErr "feedback-tool/internal/types/errors"
)

type FeedbackRepository struct {
	DB     *sqlx.DB
	Logger *zap.SugaredLogger
}

func NewFeedbackRepository(db *sqlx.DB, logger *zap.SugaredLogger) *FeedbackRepository {
	return &FeedbackRepository{
		DB:     db,
		Logger: logger,
	}
}

// Create - создает новый отзыв
// id и timestamp назначает хранилище и возвращает через RETURNING
func (feedbackRepository *FeedbackRepository) Create(
	ctx context.Context,
	text string,
) (*Feedback, error) {
	query := feedbackRepository.DB.Rebind(
		`
		INSERT INTO feedback (text)
		VALUES (?)
		RETURNING id, timestamp
		`,
	)

	created := &Feedback{Text: text}
	err := feedbackRepository.DB.
		QueryRowxContext(ctx, query, text).
		Scan(&created.ID, &created.Timestamp)
	if err != nil {
		feedbackRepository.Logger.Errorw(
			"Failed save feedback to DB",
			zap.Error(err),
		)

		return nil, myErr.ErrDBInternal
	}

	feedbackRepository.Logger.Info(
		fmt.Sprintf("Created feedback with ID: %d", created.ID),
	)

	return created, nil
}

// List - получает все отзывы, сначала новые
func (feedbackRepository *FeedbackRepository) List(ctx context.Context) ([]*Feedback, error) {
	query :=
		`
		SELECT id, text, timestamp
		FROM feedback
		ORDER BY timestamp DESC, id DESC
		`

	feedbacks := make([]*Feedback, 0)
	if err := feedbackRepository.DB.SelectContext(ctx, &feedbacks, query); err != nil {
		feedbackRepository.Logger.Errorw(
			"Failed to get feedback from DB",
			zap.Error(err),
		)

		return nil, myErr.ErrDBInternal
	}

	feedbackRepository.Logger.Infof("Fetched %d feedback entries", len(feedbacks))

	return feedbacks, nil
}

// GetByID - получает конкретный отзыв по ID
func (feedbackRepository *FeedbackRepository) GetByID(
	ctx context.Context,
	feedbackID int64,
) (*Feedback, error) {
	query := feedbackRepository.DB.Rebind(
		`
		SELECT id, text, timestamp
		FROM feedback
		WHERE id = ?
		`,
	)

	feedback := &Feedback{}
	if err := feedbackRepository.DB.GetContext(ctx, feedback, query, feedbackID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, myErr.ErrNotFoundFeedback
		}
		feedbackRepository.Logger.Errorw(
			"Error while load feedback",
			zap.Error(err),
			zap.Int64("feedbackID", feedbackID),
		)

		return nil, myErr.ErrDBInternal
	}

	return feedback, nil
}

// Delete - удаляет отзыв
// Если ни одна строка не затронута, возвращает ErrNotFoundFeedback
func (feedbackRepository *FeedbackRepository) Delete(
	ctx context.Context,
	feedbackID int64,
) (*Deletion, error) {
	query := feedbackRepository.DB.Rebind(
		`
		DELETE FROM feedback
		WHERE id = ?
		`,
	)

	result, err := feedbackRepository.DB.ExecContext(ctx, query, feedbackID)
	if err != nil {
		feedbackRepository.Logger.Errorw(
			"Failed to delete feedback",
			zap.Error(err),
			zap.Int64("feedbackID", feedbackID),
		)

		return nil, myErr.ErrDBInternal
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		feedbackRepository.Logger.Errorw(
			"Failed to get rows affected while deleting feedback",
			zap.Error(err),
			zap.Int64("feedbackID", feedbackID),
		)

		return nil, myErr.ErrDBInternal
	}

	if rowsAffected == 0 {
		feedbackRepository.Logger.Info(
			fmt.Sprintf("No feedback with ID %d found to delete", feedbackID),
		)

		return nil, myErr.ErrNotFoundFeedback
	}

	feedbackRepository.Logger.Info(
		fmt.Sprintf("Deleted feedback with ID: %d", feedbackID),
	)

	return &Deletion{ID: feedbackID, Deleted: true}, nil
}

// ListAllTexts - тексты всех отзывов, сначала старые
func (feedbackRepository *FeedbackRepository) ListAllTexts(ctx context.Context) ([]string, error) {
	query :=
		`
		SELECT text
		FROM feedback
		ORDER BY timestamp ASC, id ASC
		`

	texts := make([]string, 0)
	if err := feedbackRepository.DB.SelectContext(ctx, &texts, query); err != nil {
		feedbackRepository.Logger.Errorw(
			"Error fetching feedback text for summary",
			zap.Error(err),
		)

		return nil, myErr.ErrDBInternal
	}

	return texts, nil
}
