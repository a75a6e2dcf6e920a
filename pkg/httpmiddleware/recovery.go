package httpmiddleware

import (
	"net/http"

	"go.uber.org/zap"
)

// Recovery turns a handler panic into a JSON 500 and an error log with the
// stack. It usually sits outermost, before the request logger is injected,
// so it logs to lg. http.ErrAbortHandler is re-panicked for net/http.
func Recovery(lg *zap.Logger) Middleware {
	if lg == nil {
		lg = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				switch rec {
				case nil:
					return
				case http.ErrAbortHandler:
					panic(rec)
				}
				lg.Error("Panic recovered",
					zap.Any("panic", rec),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.String("request_id", RequestIDFromContext(r.Context())),
					zap.Stack("stack"),
				)
				w.Header().Set("Connection", "close")
				writeError(w, http.StatusInternalServerError, "internal server error")
			}()
			next.ServeHTTP(w, r)
		})
	}
}
