package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/talentra/hiring-management/internal/accesscontrol"
	"github.com/talentra/hiring-management/internal/auth"
	"github.com/talentra/hiring-management/internal/billing"
	"github.com/talentra/hiring-management/internal/candidate"
	"github.com/talentra/hiring-management/internal/contract"
	"github.com/talentra/hiring-management/internal/interview"
	"github.com/talentra/hiring-management/internal/job"
	"github.com/talentra/hiring-management/internal/message"
	"github.com/talentra/hiring-management/internal/transport/middleware"
	"github.com/talentra/hiring-management/internal/transport/swagger"
	"github.com/go-chi/chi"
)

// Handlers bundles every HTTP handler the router mounts. Nil entries are
// skipped so partial wiring (tests, workers) stays possible.
type Handlers struct {
	Auth        *auth.Handler
	Grants      *accesscontrol.Handler
	Jobs        *job.Handler
	Candidates  *candidate.Handler
	Interviews  *interview.Handler
	Contracts   *contract.Handler
	Messages    *message.Handler
	Billing     *billing.Handler
	BillingHook *billing.WebhookHandler
}

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, resolver *accesscontrol.Resolver, h Handlers, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	// Apply global middleware
	router.Use(middleware.CORS)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	// Swagger UI route at root
	router.Handle("/swagger/*", swagger.Handler())

	// Mount API under /api/v1 to match OpenAPI basePath
	router.Route("/api/v1", func(r chi.Router) {
		// Health check route
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Provider callbacks, authenticated by shared secret not JWT
		if h.BillingHook != nil {
			r.Post("/billing/callback", h.BillingHook.HandleBillingCallback)
		}
		if h.Contracts != nil {
			r.Post("/contracts/{contractID}/sign", h.Contracts.SignContract)
		}

		// Public application endpoint for candidates
		if h.Candidates != nil {
			r.Post("/jobs/{id}/apply", h.Candidates.Apply)
		}

		// Auth routes
		if h.Auth != nil {
			r.Route("/auth", func(sr chi.Router) {
				sr.Post("/login", h.Auth.Login)
				sr.Post("/refresh", h.Auth.RefreshToken)
				sr.Post("/logout", h.Auth.Logout)
			})
		}

		if h.Auth == nil {
			return
		}

		// Protected routes that require authentication
		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)
			pr.Use(middleware.UserContext)

			// Current user
			pr.Get("/users/me", h.Auth.Me)

			if h.Billing != nil {
				pr.Route("/billing", func(br chi.Router) {
					br.Post("/checkout", h.Billing.CreateCheckout)
					br.Get("/subscription", h.Billing.GetSubscription)
				})
			}

			if h.Jobs == nil {
				return
			}

			pr.Route("/jobs", func(jr chi.Router) {
				jr.Post("/", h.Jobs.CreateJob) // POST /jobs
				jr.Get("/", h.Jobs.ListJobs)   // GET /jobs

				// Everything below is scoped to a single job; the tier
				// groups gate each operation on the caller's resolved
				// permission for that job.
				jr.Route("/{id}", func(sr chi.Router) {
					sr.Group(func(vr chi.Router) {
						vr.Use(middleware.RequireJobTier(resolver, accesscontrol.TierViewer))
						vr.Get("/", h.Jobs.GetJob) // GET /jobs/:id

						if h.Candidates != nil {
							vr.Get("/candidates", h.Candidates.ListCandidates)
						}
						if h.Interviews != nil {
							vr.Get("/interviews", h.Interviews.ListInterviews)
						}
						if h.Messages != nil {
							vr.Post("/messages", h.Messages.PostMessage)
							vr.Get("/messages", h.Messages.ListMessages)
							vr.Post("/messages/read", h.Messages.MarkMessagesRead)
						}
						if h.Grants != nil {
							// Any tier can see who is on the job; writes
							// stay owner-gated in the service.
							vr.Get("/permissions", h.Grants.ListPermissions)
						}
					})

					sr.Group(func(ir chi.Router) {
						ir.Use(middleware.RequireJobTier(resolver, accesscontrol.TierInterviewer))

						if h.Candidates != nil {
							ir.Get("/candidates/{candidateID}", h.Candidates.GetCandidate)
						}
						if h.Interviews != nil {
							ir.Post("/interviews", h.Interviews.ScheduleInterview)
							ir.Patch("/interviews/{interviewID}/cancel", h.Interviews.CancelInterview)
							ir.Patch("/interviews/{interviewID}/complete", h.Interviews.CompleteInterview)
						}
					})

					sr.Group(func(mr chi.Router) {
						mr.Use(middleware.RequireJobTier(resolver, accesscontrol.TierManager))
						mr.Patch("/status", h.Jobs.UpdateJobStatus) // PATCH /jobs/:id/status

						if h.Candidates != nil {
							mr.Patch("/candidates/{candidateID}/advance", h.Candidates.AdvanceCandidate)
							mr.Patch("/candidates/{candidateID}/reject", h.Candidates.RejectCandidate)
						}
						if h.Contracts != nil {
							mr.Post("/contracts", h.Contracts.CreateContract)
							mr.Get("/contracts", h.Contracts.ListContracts)
							mr.Get("/contracts/{contractID}", h.Contracts.GetContract)
							mr.Post("/contracts/{contractID}/send", h.Contracts.SendContract)
						}
					})

					if h.Grants != nil {
						sr.Group(func(or chi.Router) {
							// Only the job's creator or a company admin may
							// rewrite grants; GrantService enforces the same
							// rule.
							or.Use(middleware.RequireJobTier(resolver, accesscontrol.TierOwner))
							or.Post("/permissions", h.Grants.GrantPermission)
							or.Delete("/permissions/{userID}", h.Grants.RevokePermission)
						})
					}
				})
			})
		})
	})
}
