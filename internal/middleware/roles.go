package middleware

import (
	"net/http"

	"devblog/internal/auth"
	"devblog/internal/logger"
	"devblog/internal/utils/helpers"

	"go.uber.org/zap"
)

func OnlyRole(role string) func(http.Handler) http.Handler {
	return AnyRole(role)
}

// AnyRole: администратор проходит любую проверку роли.
func AnyRole(allowedRoles ...string) func(http.Handler) http.Handler {
	roleSet := make(map[string]struct{})
	for _, r := range allowedRoles {
		roleSet[r] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := auth.FromContext(r.Context())
			if p == nil {
				helpers.Error(w, http.StatusUnauthorized, "Unauthorized", "missing bearer token")
				return
			}
			if p.IsAdmin() {
				next.ServeHTTP(w, r)
				return
			}
			if _, found := roleSet[p.Role]; !found {
				logger.WithCtx(r.Context()).Warn("Доступ запрещён", zap.String("role", p.Role), zap.String("path", r.URL.Path))
				helpers.Error(w, http.StatusForbidden, "Forbidden", "insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
