package kafka

import "time"

type EventType string

const (
	FeedbackCreated EventType = "feedback.created"
	FeedbackDeleted EventType = "feedback.deleted"
)

// Event - сообщение о изменении набора отзывов.
// Текст отзыва в топик не попадает, только его размер.
type Event struct {
	Type       EventType `json:"type"`
	FeedbackID int64     `json:"feedback_id"`
	WordCount  int       `json:"word_count,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

func NewCreatedEvent(id int64, wordCount int, at time.Time) Event {
	return Event{
		Type:       FeedbackCreated,
		FeedbackID: id,
		WordCount:  wordCount,
		Timestamp:  at.UTC(),
	}
}

func NewDeletedEvent(id int64, at time.Time) Event {
	return Event{
		Type:       FeedbackDeleted,
		FeedbackID: id,
		Timestamp:  at.UTC(),
	}
}
