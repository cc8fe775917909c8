package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const RequestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// RequestIDFromContext возвращает id запроса, выставленный AccessLog
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// AccessLog выставляет X-Request-ID (или берет пришедший)
// и пишет одну строку на запрос
func AccessLog(logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(RequestIDHeader)
			if requestID == "" {
				requestID = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, requestID)

			start := time.Now()
			rr := &responseRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rr, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, requestID)))

			logger.Infow("New request",
				"request_id", requestID,
				"method", r.Method,
				"path", r.URL.Path,
				"status", rr.status,
				"remote_addr", r.RemoteAddr,
				"duration", time.Since(start),
			)
		})
	}
}
