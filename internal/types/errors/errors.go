package errors

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

var (
	ErrDBInternal       = errors.New("database internal error")
	ErrNotFoundFeedback = errors.New("Feedback not found")

	ErrTextRequired       = errors.New("Feedback text is required")
	ErrTextEmpty          = errors.New("Feedback text cannot be empty")
	ErrTextTooLong        = errors.New("Feedback cannot exceed 500 words")
	ErrBadID              = errors.New("Valid feedback ID is required")
	ErrInvalidJSONPayload = errors.New("Invalid JSON payload")
	ErrBodyTooLarge       = errors.New("Request body too large")

	ErrNoFeedbackToSummarize = errors.New("No feedback available to summarize")

	// Ответы 500 никогда не раскрывают детали хранилища
	ErrCreateFailed    = errors.New("Failed to create feedback")
	ErrFetchFailed     = errors.New("Failed to fetch feedback")
	ErrDeleteFailed    = errors.New("Failed to delete feedback")
	ErrSummarizeFailed = errors.New("Failed to generate summary")
	ErrActivityFailed  = errors.New("Failed to fetch activity")
)

// IsValidation - относится ли ошибка к ошибкам валидации входных данных (400)
func IsValidation(err error) bool {
	switch {
	case errors.Is(err, ErrTextRequired),
		errors.Is(err, ErrTextEmpty),
		errors.Is(err, ErrTextTooLong),
		errors.Is(err, ErrBadID),
		errors.Is(err, ErrInvalidJSONPayload):
		return true
	}

	return false
}

type ErrorServer struct {
	Error string `json:"error"`
}

/*
NewErrorServer
Функция имеет возможность принимать "nil ошибку"
при получении nil наша функция понимает, что нам
просто надо отдать саксесс клиенту
*/
func NewErrorServer(err error) ErrorServer {
	if err == nil {
		return ErrorServer{
			Error: "success",
		}
	}

	return ErrorServer{
		Error: err.Error(),
	}
}

func SendErrorTo(w http.ResponseWriter, err error, statusCode int, logger *zap.SugaredLogger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if errEncode := json.NewEncoder(w).Encode(NewErrorServer(err)); errEncode != nil {
		logger.Error(errEncode)
	}
}

// RouteError - тело ответа для неизвестного маршрута и для паники в обработчике
type RouteError struct {
	Error RouteErrorBody `json:"error"`
}

type RouteErrorBody struct {
	Message string `json:"message"`
	Path    string `json:"path,omitempty"`
	Stack   string `json:"stack,omitempty"`
}

func SendRouteErrorTo(w http.ResponseWriter, body RouteErrorBody, statusCode int, logger *zap.SugaredLogger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if errEncode := json.NewEncoder(w).Encode(RouteError{Error: body}); errEncode != nil {
		logger.Error(errEncode)
	}
}
