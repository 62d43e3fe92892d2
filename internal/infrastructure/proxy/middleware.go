package proxy

import (
	"context"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/bnema/startpage/internal/logging"
)

// requestLogger attaches a request-scoped logger to each request context and
// logs one line per request once the handler returns.
func requestLogger(baseCtx context.Context) func(http.Handler) http.Handler {
	base := *logging.FromContext(logging.WithComponent(baseCtx, "proxy"))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ctx := logging.WithContext(r.Context(), base)
			ctx = logging.WithRequestID(ctx, chimiddleware.GetReqID(r.Context()))
			logger := logging.FromContext(ctx)

			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			event := logger.Debug()
			if status >= http.StatusInternalServerError {
				event = logger.Warn()
			}
			event.
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", status).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Msg("request handled")
		})
	}
}
