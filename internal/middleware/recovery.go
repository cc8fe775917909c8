package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"go.uber.org/zap"

	customErrors "feedback-tool/internal/types/errors"
)

const internalErrorMessage = "Internal server error"

// Recovery переводит панику обработчика в ответ 500.
// Вне production клиент видит текст паники и стек.
func Recovery(logger *zap.SugaredLogger, production bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				stack := string(debug.Stack())
				logger.Errorw("Unhandled error",
					"panic", fmt.Sprint(rec),
					"method", r.Method,
					"path", r.URL.Path,
					"stack", stack,
				)

				body := customErrors.RouteErrorBody{Message: internalErrorMessage}
				if !production {
					body.Message = fmt.Sprint(rec)
					body.Stack = stack
				}

				customErrors.SendRouteErrorTo(w, body, http.StatusInternalServerError, logger)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
