package log

import (
	"context"
	"net/http"

	"github.com/go-logr/logr"
)

func FromContext(ctx context.Context) logr.Logger {
	return logr.FromContextOrDiscard(ctx)
}

func WithLogger(ctx context.Context, logger logr.Logger) context.Context {
	return logr.NewContext(ctx, logger)
}

// Middleware кладёт логгер в контекст каждого запроса, чтобы резолверы могли его достать
func Middleware(logger logr.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqLogger := logger.WithValues("method", r.Method, "path", r.URL.Path)
		r = r.WithContext(WithLogger(r.Context(), reqLogger))
		next.ServeHTTP(w, r)
	})
}
