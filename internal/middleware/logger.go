package middleware

import (
	"net/http"
	"time"

	"devblog/internal/auth"
	"devblog/internal/logger"

	"go.uber.org/zap"
)

func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		lrw := &loggingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		// пользователь появляется в контексте ниже по цепочке, поэтому забираем его через указатель
		var principal *auth.Principal
		next.ServeHTTP(lrw, r.WithContext(withPrincipalSink(r.Context(), &principal)))

		fields := []zap.Field{
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", lrw.statusCode),
			zap.Duration("duration", time.Since(start)),
		}
		if principal != nil {
			fields = append(fields, zap.String("user_id", principal.UserID), zap.String("role", principal.Role))
		}

		logger.WithCtx(r.Context()).Info("HTTP-запрос", fields...)
	})
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}
