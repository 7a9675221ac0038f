package accesscontrol_test

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/talentra/hiring-management/internal/accesscontrol"
)

// In-memory fakes for the three store interfaces

type fakeUserStore struct {
	users    map[string]*accesscontrol.User
	getError error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*accesscontrol.User)}
}

func (f *fakeUserStore) GetUser(ctx context.Context, userID string) (*accesscontrol.User, error) {
	if f.getError != nil {
		return nil, f.getError
	}
	u, ok := f.users[userID]
	if !ok {
		return nil, accesscontrol.ErrNotFound
	}
	return u, nil
}

type fakeJobStore struct {
	jobs     map[string]*accesscontrol.Job
	getError error
}

func newFakeJobStore() *fakeJobStore {
	return &fakeJobStore{jobs: make(map[string]*accesscontrol.Job)}
}

func (f *fakeJobStore) GetJob(ctx context.Context, jobID string) (*accesscontrol.Job, error) {
	if f.getError != nil {
		return nil, f.getError
	}
	j, ok := f.jobs[jobID]
	if !ok {
		return nil, accesscontrol.ErrNotFound
	}
	return j, nil
}

type fakeGrantStore struct {
	grants      map[string]*accesscontrol.Grant
	getError    error
	upsertError error
	deleteError error
}

func newFakeGrantStore() *fakeGrantStore {
	return &fakeGrantStore{grants: make(map[string]*accesscontrol.Grant)}
}

func grantKey(jobID, userID string) string {
	return fmt.Sprintf("%s/%s", jobID, userID)
}

func (f *fakeGrantStore) GetGrant(ctx context.Context, jobID, userID string) (*accesscontrol.Grant, error) {
	if f.getError != nil {
		return nil, f.getError
	}
	g, ok := f.grants[grantKey(jobID, userID)]
	if !ok {
		return nil, accesscontrol.ErrNotFound
	}
	return g, nil
}

func (f *fakeGrantStore) UpsertGrant(ctx context.Context, grant *accesscontrol.Grant) error {
	if f.upsertError != nil {
		return f.upsertError
	}
	key := grantKey(grant.JobID, grant.UserID)
	if existing, ok := f.grants[key]; ok {
		existing.Tier = grant.Tier
		existing.GrantedBy = grant.GrantedBy
		existing.UpdatedAt = grant.UpdatedAt
		return nil
	}
	f.grants[key] = grant
	return nil
}

func (f *fakeGrantStore) DeleteGrant(ctx context.Context, jobID, userID string) error {
	if f.deleteError != nil {
		return f.deleteError
	}
	delete(f.grants, grantKey(jobID, userID))
	return nil
}

func (f *fakeGrantStore) ListGrantsForJob(ctx context.Context, jobID string) ([]*accesscontrol.Grant, error) {
	var out []*accesscontrol.Grant
	for _, g := range f.grants {
		if g.JobID == jobID {
			out = append(out, g)
		}
	}
	return out, nil
}

var _ = Describe("Resolver", func() {
	var (
		users    *fakeUserStore
		jobs     *fakeJobStore
		grants   *fakeGrantStore
		resolver *accesscontrol.Resolver
		ctx      context.Context
	)

	addUser := func(id, companyID string, role accesscontrol.Role) {
		users.users[id] = &accesscontrol.User{ID: id, CompanyID: companyID, Role: role}
	}

	addJob := func(id, ownerUserID, ownerCompanyID string) {
		jobs.jobs[id] = &accesscontrol.Job{ID: id, OwnerUserID: ownerUserID, OwnerCompanyID: ownerCompanyID}
	}

	addGrant := func(jobID, userID string, tier accesscontrol.Tier) {
		grants.grants[grantKey(jobID, userID)] = &accesscontrol.Grant{
			ID:        fmt.Sprintf("g-%s-%s", jobID, userID),
			JobID:     jobID,
			UserID:    userID,
			Tier:      tier,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
	}

	BeforeEach(func() {
		users = newFakeUserStore()
		jobs = newFakeJobStore()
		grants = newFakeGrantStore()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		resolver = accesscontrol.NewResolver(users, jobs, grants, logger)
		ctx = context.Background()

		// Company C1: owner "owner1" created job J1; "member1" is an ordinary
		// member; "admin1" is company admin. Company C2: "admin2" and "member2".
		addUser("owner1", "C1", accesscontrol.RoleMember)
		addUser("member1", "C1", accesscontrol.RoleMember)
		addUser("admin1", "C1", accesscontrol.RoleAdmin)
		addUser("admin2", "C2", accesscontrol.RoleAdmin)
		addUser("member2", "C2", accesscontrol.RoleMember)
		addJob("J1", "owner1", "C1")
	})

	Describe("tenant isolation", func() {
		It("denies a member of another company even with a forged grant row", func() {
			addGrant("J1", "member2", accesscontrol.TierAdmin)

			Expect(resolver.CheckAccess(ctx, "member2", "J1")).To(BeFalse())
			for _, tier := range []accesscontrol.Tier{
				accesscontrol.TierViewer,
				accesscontrol.TierInterviewer,
				accesscontrol.TierManager,
				accesscontrol.TierAdmin,
			} {
				Expect(resolver.CheckAccessAtLeast(ctx, "member2", "J1", tier)).To(BeFalse())
			}
		})

		It("denies an admin of another company before the admin short-circuit", func() {
			Expect(resolver.CheckAccess(ctx, "admin2", "J1")).To(BeFalse())
			Expect(resolver.CheckAccessAtLeast(ctx, "admin2", "J1", accesscontrol.TierViewer)).To(BeFalse())

			_, ok := resolver.ResolveTier(ctx, "admin2", "J1")
			Expect(ok).To(BeFalse())
		})
	})

	Describe("admin short-circuit", func() {
		It("allows a same-company admin at every tier with no grant row", func() {
			for _, tier := range []accesscontrol.Tier{
				accesscontrol.TierViewer,
				accesscontrol.TierInterviewer,
				accesscontrol.TierManager,
				accesscontrol.TierAdmin,
			} {
				Expect(resolver.CheckAccessAtLeast(ctx, "admin1", "J1", tier)).To(BeTrue())
			}

			tier, ok := resolver.ResolveTier(ctx, "admin1", "J1")
			Expect(ok).To(BeTrue())
			Expect(tier).To(Equal(accesscontrol.TierOwner))
		})
	})

	Describe("owner implicit grant", func() {
		It("treats the job creator as owner without a grant row", func() {
			tier, ok := resolver.ResolveTier(ctx, "owner1", "J1")
			Expect(ok).To(BeTrue())
			Expect(tier).To(Equal(accesscontrol.TierOwner))
			Expect(resolver.CheckAccessAtLeast(ctx, "owner1", "J1", accesscontrol.TierAdmin)).To(BeTrue())
		})
	})

	Describe("explicit grants and tier ordering", func() {
		It("allows a manager grant up to manager and not beyond", func() {
			addGrant("J1", "member1", accesscontrol.TierManager)

			Expect(resolver.CheckAccessAtLeast(ctx, "member1", "J1", accesscontrol.TierViewer)).To(BeTrue())
			Expect(resolver.CheckAccessAtLeast(ctx, "member1", "J1", accesscontrol.TierInterviewer)).To(BeTrue())
			Expect(resolver.CheckAccessAtLeast(ctx, "member1", "J1", accesscontrol.TierManager)).To(BeTrue())
			Expect(resolver.CheckAccessAtLeast(ctx, "member1", "J1", accesscontrol.TierAdmin)).To(BeFalse())
		})

		It("allows a viewer grant only for viewer or no requirement", func() {
			addGrant("J1", "member1", accesscontrol.TierViewer)

			Expect(resolver.CheckAccess(ctx, "member1", "J1")).To(BeTrue())
			Expect(resolver.CheckAccessAtLeast(ctx, "member1", "J1", accesscontrol.TierViewer)).To(BeTrue())
			Expect(resolver.CheckAccessAtLeast(ctx, "member1", "J1", accesscontrol.TierInterviewer)).To(BeFalse())
		})

		It("denies a same-company member with no grant row at every tier", func() {
			Expect(resolver.CheckAccess(ctx, "member1", "J1")).To(BeFalse())
			for _, tier := range []accesscontrol.Tier{
				accesscontrol.TierViewer,
				accesscontrol.TierInterviewer,
				accesscontrol.TierManager,
				accesscontrol.TierAdmin,
			} {
				Expect(resolver.CheckAccessAtLeast(ctx, "member1", "J1", tier)).To(BeFalse())
			}
		})

		It("resolves the granted tier", func() {
			addGrant("J1", "member1", accesscontrol.TierInterviewer)

			tier, ok := resolver.ResolveTier(ctx, "member1", "J1")
			Expect(ok).To(BeTrue())
			Expect(tier).To(Equal(accesscontrol.TierInterviewer))
		})
	})

	Describe("fail-closed behavior", func() {
		It("denies when the user lookup fails", func() {
			users.getError = errors.New("connection reset")
			Expect(resolver.CheckAccess(ctx, "member1", "J1")).To(BeFalse())
		})

		It("denies when the job lookup fails", func() {
			jobs.getError = errors.New("connection reset")
			Expect(resolver.CheckAccess(ctx, "admin1", "J1")).To(BeFalse())
		})

		It("denies when the grant lookup fails with a transient error", func() {
			grants.getError = errors.New("connection reset")
			Expect(resolver.CheckAccess(ctx, "member1", "J1")).To(BeFalse())
		})

		It("denies for an unknown user or job", func() {
			Expect(resolver.CheckAccess(ctx, "ghost", "J1")).To(BeFalse())
			Expect(resolver.CheckAccess(ctx, "member1", "noJob")).To(BeFalse())
		})

		It("denies empty identifiers without any lookup", func() {
			Expect(resolver.CheckAccess(ctx, "", "J1")).To(BeFalse())
			Expect(resolver.CheckAccess(ctx, "member1", "")).To(BeFalse())
		})

		It("denies an unknown required tier", func() {
			addGrant("J1", "member1", accesscontrol.TierAdmin)
			Expect(resolver.CheckAccessAtLeast(ctx, "member1", "J1", accesscontrol.Tier("superuser"))).To(BeFalse())
		})
	})

	Describe("idempotence", func() {
		It("yields identical results for repeated calls with no intervening mutation", func() {
			addGrant("J1", "member1", accesscontrol.TierInterviewer)

			first := resolver.CheckAccessAtLeast(ctx, "member1", "J1", accesscontrol.TierViewer)
			second := resolver.CheckAccessAtLeast(ctx, "member1", "J1", accesscontrol.TierViewer)
			Expect(first).To(Equal(second))
			Expect(first).To(BeTrue())

			firstDeny := resolver.CheckAccessAtLeast(ctx, "member1", "J1", accesscontrol.TierAdmin)
			secondDeny := resolver.CheckAccessAtLeast(ctx, "member1", "J1", accesscontrol.TierAdmin)
			Expect(firstDeny).To(Equal(secondDeny))
			Expect(firstDeny).To(BeFalse())
		})
	})
})

var _ = Describe("Tier", func() {
	It("orders viewer < interviewer < manager < admin", func() {
		Expect(accesscontrol.TierViewer.AtLeast(accesscontrol.TierViewer)).To(BeTrue())
		Expect(accesscontrol.TierViewer.AtLeast(accesscontrol.TierInterviewer)).To(BeFalse())
		Expect(accesscontrol.TierInterviewer.AtLeast(accesscontrol.TierViewer)).To(BeTrue())
		Expect(accesscontrol.TierManager.AtLeast(accesscontrol.TierAdmin)).To(BeFalse())
		Expect(accesscontrol.TierAdmin.AtLeast(accesscontrol.TierManager)).To(BeTrue())
		Expect(accesscontrol.TierOwner.AtLeast(accesscontrol.TierAdmin)).To(BeTrue())
	})

	It("parses only the four grantable tiers", func() {
		for _, s := range []string{"viewer", "interviewer", "manager", "admin"} {
			tier, err := accesscontrol.ParseTier(s)
			Expect(err).ToNot(HaveOccurred())
			Expect(string(tier)).To(Equal(s))
		}

		_, err := accesscontrol.ParseTier("owner")
		Expect(err).To(HaveOccurred())

		_, err = accesscontrol.ParseTier("")
		Expect(err).To(HaveOccurred())
	})
})
