package middleware

import (
	"context"
	"net/http"
	"strings"

	"devblog/internal/auth"
	"devblog/internal/logger"
	"devblog/internal/reqctx"
	"devblog/internal/utils/helpers"

	"go.uber.org/zap"
)

// Authenticate кладёт пользователя в контекст, если передан Bearer-токен.
// Запрос без заголовка проходит анонимно, с неверным токеном: 401.
func Authenticate(a auth.Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := strings.CutPrefix(header, "Bearer ")
			token = strings.TrimSpace(token)
			if !ok || token == "" {
				logger.WithCtx(r.Context()).Warn("Auth: некорректный заголовок Authorization")
				helpers.Error(w, http.StatusUnauthorized, "Unauthorized", "authorization header must be 'Bearer <token>'")
				return
			}

			p, ok := a.Authenticate(r.Context(), token)
			if !ok {
				logger.WithCtx(r.Context()).Warn("Auth: неверный или просроченный токен")
				helpers.Error(w, http.StatusUnauthorized, "Unauthorized", "invalid or expired token")
				return
			}

			if dst, ok := r.Context().Value(principalSinkKey{}).(**auth.Principal); ok {
				*dst = p
			}
			ctx := auth.WithPrincipal(r.Context(), p)
			ctx = reqctx.WithUserID(ctx, p.UserID)
			logger.WithCtx(ctx).Debug("Auth: токен валиден", zap.String("role", p.Role))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth пропускает только аутентифицированные запросы.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth.FromContext(r.Context()) == nil {
			helpers.Error(w, http.StatusUnauthorized, "Unauthorized", "missing bearer token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

type principalSinkKey struct{}

// withPrincipalSink даёт внешнему middleware увидеть пользователя,
// которого определит Authenticate.
func withPrincipalSink(ctx context.Context, dst **auth.Principal) context.Context {
	return context.WithValue(ctx, principalSinkKey{}, dst)
}
