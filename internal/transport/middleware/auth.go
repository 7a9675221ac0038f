package middleware

import (
	"net/http"

	"github.com/talentra/hiring-management/internal/auth"
	"github.com/talentra/hiring-management/pkg/logger"
)

// UserContext enriches the request-scoped logger with the authenticated
// user. Mount it after the auth middleware; unauthenticated requests pass
// through untouched.
func UserContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := auth.UserFromContext(r.Context())
		if !ok || user == nil {
			next.ServeHTTP(w, r)
			return
		}

		ctx := logger.With(r.Context(), "userID", user.ID, "companyID", user.CompanyID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
