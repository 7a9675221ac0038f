package accesscontrol

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Write-path errors. Unlike the read path these are surfaced to callers:
// granting and revoking are explicit mutations where the actor deserves to
// know why the request was rejected.
var (
	ErrGrantDenied  = errors.New("not allowed to manage grants for this job")
	ErrCrossCompany = errors.New("grantee does not belong to the job's company")
	ErrGrantMissing = errors.New("no grant exists for this user and job")
)

// GrantService is the companion write path to the Resolver: granting and
// revoking per-job tiers, guarded by the same company + role/ownership
// checks before mutating.
type GrantService struct {
	resolver *Resolver
	users    UserStore
	jobs     JobStore
	grants   GrantStore
	logger   *slog.Logger
}

func NewGrantService(resolver *Resolver, users UserStore, jobs JobStore, grants GrantStore, logger *slog.Logger) *GrantService {
	return &GrantService{
		resolver: resolver,
		users:    users,
		jobs:     jobs,
		grants:   grants,
		logger:   logger,
	}
}

// Grant gives granteeID the tier on jobID. Only the job's creator or an
// admin of the job's company may do this: a granted manager runs the job's
// pipeline but never rewrites who is on it, otherwise any grantee could
// elevate their own tier. The grantee must belong to the job's company.
// Re-grant overwrites the previous tier: one effective grant per
// (job, user), last write wins, no history.
func (s *GrantService) Grant(ctx context.Context, actorID, jobID, granteeID string, tier Tier) (*Grant, error) {
	if actorID == "" || jobID == "" || granteeID == "" {
		return nil, ErrInvalidID
	}
	if _, err := ParseTier(string(tier)); err != nil {
		return nil, err
	}

	if actorTier, ok := s.resolver.ResolveTier(ctx, actorID, jobID); !ok || actorTier != TierOwner {
		s.logger.Warn("grant denied: actor is not job owner or company admin", "actor_id", actorID, "job_id", jobID)
		return nil, ErrGrantDenied
	}

	job, err := s.jobs.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	grantee, err := s.users.GetUser(ctx, granteeID)
	if err != nil {
		return nil, err
	}

	if grantee.CompanyID != job.OwnerCompanyID {
		s.logger.Warn("grant denied: grantee outside job company",
			"grantee_id", granteeID,
			"grantee_company", grantee.CompanyID,
			"job_company", job.OwnerCompanyID)
		return nil, ErrCrossCompany
	}

	now := time.Now()
	grant := &Grant{
		ID:        uuid.New().String(),
		JobID:     jobID,
		UserID:    granteeID,
		Tier:      tier,
		GrantedBy: actorID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.grants.UpsertGrant(ctx, grant); err != nil {
		s.logger.Error("failed to upsert grant", "error", err, "job_id", jobID, "grantee_id", granteeID)
		return nil, err
	}

	s.logger.Info("grant upserted",
		"job_id", jobID,
		"grantee_id", granteeID,
		"tier", tier,
		"granted_by", actorID)

	return grant, nil
}

// Revoke removes the grantee's explicit grant on the job. The same
// owner-or-company-admin rule as Grant applies. Revoking a grant that does
// not exist reports ErrGrantMissing.
func (s *GrantService) Revoke(ctx context.Context, actorID, jobID, granteeID string) error {
	if actorID == "" || jobID == "" || granteeID == "" {
		return ErrInvalidID
	}

	if actorTier, ok := s.resolver.ResolveTier(ctx, actorID, jobID); !ok || actorTier != TierOwner {
		s.logger.Warn("revoke denied: actor is not job owner or company admin", "actor_id", actorID, "job_id", jobID)
		return ErrGrantDenied
	}

	if _, err := s.grants.GetGrant(ctx, jobID, granteeID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrGrantMissing
		}
		return err
	}

	if err := s.grants.DeleteGrant(ctx, jobID, granteeID); err != nil {
		s.logger.Error("failed to delete grant", "error", err, "job_id", jobID, "grantee_id", granteeID)
		return err
	}

	s.logger.Info("grant revoked", "job_id", jobID, "grantee_id", granteeID, "revoked_by", actorID)
	return nil
}

// ListForJob returns the explicit grants on a job for team-management UIs.
// Viewer tier is enough to see who else is on the job.
func (s *GrantService) ListForJob(ctx context.Context, actorID, jobID string) ([]*Grant, error) {
	if actorID == "" || jobID == "" {
		return nil, ErrInvalidID
	}

	if !s.resolver.CheckAccess(ctx, actorID, jobID) {
		return nil, ErrGrantDenied
	}

	return s.grants.ListGrantsForJob(ctx, jobID)
}
