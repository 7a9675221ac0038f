package accesscontrol

import (
	"context"
	"errors"
	"time"
)

// User is the slice of the user record the resolver needs: which company the
// user belongs to and whether they hold the company admin role. Every user
// belongs to exactly one company.
type User struct {
	ID        string
	CompanyID string
	Role      Role
}

// Role is the company-level role, distinct from per-job tiers.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// Job carries the ownership facts for a posting. OwnerCompanyID is derived
// transitively through the creating user's company; a job belongs to exactly
// one company.
type Job struct {
	ID             string
	OwnerUserID    string
	OwnerCompanyID string
}

// Grant is a persisted (job, user) -> tier record. Unique per pair; re-grant
// overwrites (last write wins), revoke deletes.
type Grant struct {
	ID        string
	JobID     string
	UserID    string
	Tier      Tier
	GrantedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store lookup errors. Stores must return ErrNotFound (possibly wrapped) for
// absent records so the resolver can distinguish absence from transient
// store failures in its logs; both collapse to denial either way.
var ErrNotFound = errors.New("record not found")

// ErrInvalidID indicates an empty or malformed identifier: a caller bug,
// rejected before any lookup.
var ErrInvalidID = errors.New("invalid identifier")

// UserStore resolves the user facts the access decision needs.
type UserStore interface {
	GetUser(ctx context.Context, userID string) (*User, error)
}

// JobStore resolves job ownership.
type JobStore interface {
	GetJob(ctx context.Context, jobID string) (*Job, error)
}

// GrantStore reads and mutates explicit permission grants.
type GrantStore interface {
	GetGrant(ctx context.Context, jobID, userID string) (*Grant, error)
	UpsertGrant(ctx context.Context, grant *Grant) error
	DeleteGrant(ctx context.Context, jobID, userID string) error
	ListGrantsForJob(ctx context.Context, jobID string) ([]*Grant, error)
}
