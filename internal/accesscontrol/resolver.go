package accesscontrol

import (
	"context"
	"errors"
	"log/slog"
)

// Resolver decides whether a user may act on a job's candidates and at what
// tier. It is a pure decision function over three injected lookups; every
// call is independent and idempotent. All lookup failures collapse to denial
// (fail-closed): callers get a plain boolean and never learn whether the job
// was missing, the grant was absent, or the store was down.
type Resolver struct {
	users  UserStore
	jobs   JobStore
	grants GrantStore
	logger *slog.Logger
}

func NewResolver(users UserStore, jobs JobStore, grants GrantStore, logger *slog.Logger) *Resolver {
	return &Resolver{
		users:  users,
		jobs:   jobs,
		grants: grants,
		logger: logger,
	}
}

// errNoAccess marks a clean denial (facts resolved, no access) as opposed to
// a lookup failure. Both deny; only the log line differs.
var errNoAccess = errors.New("no access")

// CheckAccess reports whether the user may access the job at any tier.
func (r *Resolver) CheckAccess(ctx context.Context, userID, jobID string) bool {
	_, ok := r.ResolveTier(ctx, userID, jobID)
	return ok
}

// CheckAccessAtLeast reports whether the user's resolved tier meets or
// exceeds required. An unknown required tier denies: a caller passing a tier
// outside the ordered set is a bug, and access checks never fail open.
func (r *Resolver) CheckAccessAtLeast(ctx context.Context, userID, jobID string, required Tier) bool {
	if !required.Valid() {
		r.logger.Warn("access check with unknown required tier", "required_tier", required, "user_id", userID, "job_id", jobID)
		return false
	}
	tier, ok := r.ResolveTier(ctx, userID, jobID)
	return ok && tier.AtLeast(required)
}

// ResolveTier returns the user's effective tier on the job. Company admins
// and the job's creator resolve to TierOwner without a grant lookup; other
// users resolve to their explicit grant. ok is false when there is no access
// for any reason, including lookup failures.
func (r *Resolver) ResolveTier(ctx context.Context, userID, jobID string) (Tier, bool) {
	tier, err := r.resolve(ctx, userID, jobID)
	if err != nil {
		if errors.Is(err, errNoAccess) {
			r.logger.Debug("access denied", "user_id", userID, "job_id", jobID)
		} else {
			// Lookup failure, cancellation, bad input: deny and log, never
			// propagate. Availability of the check must not fail open.
			r.logger.Warn("access resolution failed, denying", "error", err, "user_id", userID, "job_id", jobID)
		}
		return "", false
	}
	return tier, true
}

func (r *Resolver) resolve(ctx context.Context, userID, jobID string) (Tier, error) {
	if userID == "" || jobID == "" {
		return "", ErrInvalidID
	}

	user, err := r.users.GetUser(ctx, userID)
	if err != nil {
		return "", err
	}

	job, err := r.jobs.GetJob(ctx, jobID)
	if err != nil {
		return "", err
	}

	// Tenant isolation is absolute and must be checked before any role or
	// ownership short-circuit: an admin of another company never passes.
	if user.CompanyID != job.OwnerCompanyID {
		return "", errNoAccess
	}

	if user.Role == RoleAdmin {
		return TierOwner, nil
	}

	if job.OwnerUserID == userID {
		return TierOwner, nil
	}

	grant, err := r.grants.GetGrant(ctx, jobID, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", errNoAccess
		}
		return "", err
	}

	if !grant.Tier.Valid() {
		return "", errNoAccess
	}
	return grant.Tier, nil
}
