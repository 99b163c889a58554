package errors

import (
	"net/http"
	"runtime/debug"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"pebblevault/pkg/common"
)

// Recoverer converts handler panics into the API's error envelope so a
// crashed handler still answers in the shape clients parse. Panics with
// http.ErrAbortHandler are rethrown, per its contract.
func Recoverer(logger *zap.Logger) func(http.Handler) http.Handler {
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

				logger.Error("Handler panicked",
					zap.Any("panic", rec),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.String("request_id", chimiddleware.GetReqID(r.Context())),
					zap.ByteString("stack", debug.Stack()),
				)
				common.RespondError(w, http.StatusInternalServerError,
					common.StandardErrorCodes.InternalError, "An internal error occurred")
			}()

			next.ServeHTTP(w, r)
		})
	}
}
