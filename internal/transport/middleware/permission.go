package middleware

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/talentra/hiring-management/internal/accesscontrol"
	"github.com/talentra/hiring-management/internal/auth"
)

// RequireJobTier guards job-scoped routes. It resolves the caller's
// permission tier for the job named by the {id} URL parameter and rejects
// the request unless the tier is at least the required one. The resolver
// fails closed, so lookup errors surface here as 403.
func RequireJobTier(resolver *accesscontrol.Resolver, required accesscontrol.Tier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := auth.UserFromContext(r.Context())
			if !ok || user == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			jobID := chi.URLParam(r, "id")
			if jobID == "" {
				http.Error(w, "missing job id", http.StatusBadRequest)
				return
			}

			if !resolver.CheckAccessAtLeast(r.Context(), user.ID, jobID, required) {
				slog.Warn("job access denied",
					"user_id", user.ID,
					"job_id", jobID,
					"required_tier", required)
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
