package feedback

import (
	"context"

	"feedback-tool/internal/storage"
)

// Feedback - запись отзыва. Все поля неизменяемы после создания.
type Feedback struct {
	ID        int64             `json:"id" db:"id"`
	Text      string            `json:"text" db:"text"`
	Timestamp storage.Timestamp `json:"timestamp" db:"timestamp"`
}

// Deletion - подтверждение удаления отзыва
type Deletion struct {
	ID      int64 `json:"id"`
	Deleted bool  `json:"deleted"`
}

// FeedbackRepo - репозиторий для работы с отзывами
//
//go:generate mockgen -source=internal/feedback/feedback.go -destination=internal/mocks/mock_feedback_repo.go -package=mocks
type FeedbackRepo interface {
	// Create - сохраняет уже провалидированный текст
	// Возвращает запись с присвоенными хранилищем id и timestamp
	Create(ctx context.Context, text string) (*Feedback, error)

	// List - все отзывы, сначала новые
	List(ctx context.Context) ([]*Feedback, error)

	// GetByID - получает конкретный отзыв по ID
	GetByID(ctx context.Context, id int64) (*Feedback, error)

	// Delete - удаляет отзыв безвозвратно
	Delete(ctx context.Context, id int64) (*Deletion, error)

	// ListAllTexts - тексты всех отзывов в хронологическом порядке, для саммари
	ListAllTexts(ctx context.Context) ([]string, error)
}
