package contextutil

import (
	"context"

	"feedback-tool/internal/middleware"
)

// GetRequestIDFromContext извлекает id запроса из контекста
func GetRequestIDFromContext(ctx context.Context) (string, bool) {
	id := middleware.RequestIDFromContext(ctx)
	if id == "" {
		return "", false
	}
	return id, true
}
