package accesscontrol_test

import (
	"context"
	"log/slog"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/talentra/hiring-management/internal/accesscontrol"
)

var _ = Describe("GrantService", func() {
	var (
		users    *fakeUserStore
		jobs     *fakeJobStore
		grants   *fakeGrantStore
		resolver *accesscontrol.Resolver
		service  *accesscontrol.GrantService
		ctx      context.Context
	)

	BeforeEach(func() {
		users = newFakeUserStore()
		jobs = newFakeJobStore()
		grants = newFakeGrantStore()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		resolver = accesscontrol.NewResolver(users, jobs, grants, logger)
		service = accesscontrol.NewGrantService(resolver, users, jobs, grants, logger)
		ctx = context.Background()

		users.users["owner1"] = &accesscontrol.User{ID: "owner1", CompanyID: "C1", Role: accesscontrol.RoleMember}
		users.users["admin1"] = &accesscontrol.User{ID: "admin1", CompanyID: "C1", Role: accesscontrol.RoleAdmin}
		users.users["member1"] = &accesscontrol.User{ID: "member1", CompanyID: "C1", Role: accesscontrol.RoleMember}
		users.users["outsider"] = &accesscontrol.User{ID: "outsider", CompanyID: "C2", Role: accesscontrol.RoleMember}
		jobs.jobs["J1"] = &accesscontrol.Job{ID: "J1", OwnerUserID: "owner1", OwnerCompanyID: "C1"}
	})

	Describe("Grant", func() {
		It("lets a company admin grant a tier to a same-company member", func() {
			grant, err := service.Grant(ctx, "admin1", "J1", "member1", accesscontrol.TierInterviewer)

			Expect(err).ToNot(HaveOccurred())
			Expect(grant.Tier).To(Equal(accesscontrol.TierInterviewer))
			Expect(grant.GrantedBy).To(Equal("admin1"))

			Expect(resolver.CheckAccessAtLeast(ctx, "member1", "J1", accesscontrol.TierViewer)).To(BeTrue())
			Expect(resolver.CheckAccessAtLeast(ctx, "member1", "J1", accesscontrol.TierManager)).To(BeFalse())
		})

		It("lets the job owner grant", func() {
			_, err := service.Grant(ctx, "owner1", "J1", "member1", accesscontrol.TierViewer)
			Expect(err).ToNot(HaveOccurred())
			Expect(resolver.CheckAccess(ctx, "member1", "J1")).To(BeTrue())
		})

		It("rejects a granted actor who is not the owner or a company admin", func() {
			_, err := service.Grant(ctx, "admin1", "J1", "member1", accesscontrol.TierInterviewer)
			Expect(err).ToNot(HaveOccurred())

			_, err = service.Grant(ctx, "member1", "J1", "outsider", accesscontrol.TierViewer)
			Expect(err).To(MatchError(accesscontrol.ErrGrantDenied))
		})

		It("rejects a granted manager rewriting grants on the job", func() {
			users.users["member2"] = &accesscontrol.User{ID: "member2", CompanyID: "C1", Role: accesscontrol.RoleMember}

			_, err := service.Grant(ctx, "admin1", "J1", "member1", accesscontrol.TierManager)
			Expect(err).ToNot(HaveOccurred())

			_, err = service.Grant(ctx, "member1", "J1", "member2", accesscontrol.TierViewer)
			Expect(err).To(MatchError(accesscontrol.ErrGrantDenied))
		})

		It("rejects a granted manager elevating their own tier", func() {
			_, err := service.Grant(ctx, "admin1", "J1", "member1", accesscontrol.TierManager)
			Expect(err).ToNot(HaveOccurred())

			_, err = service.Grant(ctx, "member1", "J1", "member1", accesscontrol.TierAdmin)
			Expect(err).To(MatchError(accesscontrol.ErrGrantDenied))

			tier, ok := resolver.ResolveTier(ctx, "member1", "J1")
			Expect(ok).To(BeTrue())
			Expect(tier).To(Equal(accesscontrol.TierManager))
		})

		It("rejects a grantee from another company", func() {
			_, err := service.Grant(ctx, "admin1", "J1", "outsider", accesscontrol.TierViewer)
			Expect(err).To(MatchError(accesscontrol.ErrCrossCompany))
			Expect(resolver.CheckAccess(ctx, "outsider", "J1")).To(BeFalse())
		})

		It("rejects an invalid tier", func() {
			_, err := service.Grant(ctx, "admin1", "J1", "member1", accesscontrol.Tier("owner"))
			Expect(err).To(HaveOccurred())
		})

		It("rejects empty identifiers", func() {
			_, err := service.Grant(ctx, "", "J1", "member1", accesscontrol.TierViewer)
			Expect(err).To(MatchError(accesscontrol.ErrInvalidID))
		})

		It("keeps one effective grant per pair with last write winning", func() {
			_, err := service.Grant(ctx, "admin1", "J1", "member1", accesscontrol.TierViewer)
			Expect(err).ToNot(HaveOccurred())

			_, err = service.Grant(ctx, "admin1", "J1", "member1", accesscontrol.TierManager)
			Expect(err).ToNot(HaveOccurred())

			jobGrants, err := service.ListForJob(ctx, "admin1", "J1")
			Expect(err).ToNot(HaveOccurred())
			Expect(jobGrants).To(HaveLen(1))
			Expect(jobGrants[0].Tier).To(Equal(accesscontrol.TierManager))

			tier, ok := resolver.ResolveTier(ctx, "member1", "J1")
			Expect(ok).To(BeTrue())
			Expect(tier).To(Equal(accesscontrol.TierManager))
		})
	})

	Describe("Revoke", func() {
		It("removes access for the revoked pair", func() {
			_, err := service.Grant(ctx, "admin1", "J1", "member1", accesscontrol.TierManager)
			Expect(err).ToNot(HaveOccurred())
			Expect(resolver.CheckAccess(ctx, "member1", "J1")).To(BeTrue())

			err = service.Revoke(ctx, "admin1", "J1", "member1")
			Expect(err).ToNot(HaveOccurred())

			Expect(resolver.CheckAccess(ctx, "member1", "J1")).To(BeFalse())
		})

		It("reports a missing grant", func() {
			err := service.Revoke(ctx, "admin1", "J1", "member1")
			Expect(err).To(MatchError(accesscontrol.ErrGrantMissing))
		})

		It("rejects an unauthorized actor", func() {
			_, err := service.Grant(ctx, "admin1", "J1", "member1", accesscontrol.TierViewer)
			Expect(err).ToNot(HaveOccurred())

			err = service.Revoke(ctx, "outsider", "J1", "member1")
			Expect(err).To(MatchError(accesscontrol.ErrGrantDenied))
		})

		It("rejects a granted manager revoking another grant", func() {
			users.users["member2"] = &accesscontrol.User{ID: "member2", CompanyID: "C1", Role: accesscontrol.RoleMember}

			_, err := service.Grant(ctx, "admin1", "J1", "member1", accesscontrol.TierManager)
			Expect(err).ToNot(HaveOccurred())
			_, err = service.Grant(ctx, "admin1", "J1", "member2", accesscontrol.TierViewer)
			Expect(err).ToNot(HaveOccurred())

			err = service.Revoke(ctx, "member1", "J1", "member2")
			Expect(err).To(MatchError(accesscontrol.ErrGrantDenied))
			Expect(resolver.CheckAccess(ctx, "member2", "J1")).To(BeTrue())
		})
	})

	Describe("ListForJob", func() {
		It("requires any access on the job", func() {
			_, err := service.ListForJob(ctx, "member1", "J1")
			Expect(err).To(MatchError(accesscontrol.ErrGrantDenied))

			_, err = service.Grant(ctx, "admin1", "J1", "member1", accesscontrol.TierViewer)
			Expect(err).ToNot(HaveOccurred())

			jobGrants, err := service.ListForJob(ctx, "member1", "J1")
			Expect(err).ToNot(HaveOccurred())
			Expect(jobGrants).To(HaveLen(1))
		})
	})
})
