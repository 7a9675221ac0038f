package rest_test

import (
	"context"

	"github.com/getkin/kin-openapi/openapi3"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("OpenAPI document", func() {
	var doc *openapi3.T

	BeforeEach(func() {
		loader := openapi3.NewLoader()
		var err error
		doc, err = loader.LoadFromFile("../../../api/openapi.yml")
		Expect(err).NotTo(HaveOccurred())
	})

	It("is a valid OpenAPI 3 document", func() {
		Expect(doc.Validate(context.Background())).To(Succeed())
	})

	It("documents the job-scoped surface", func() {
		for _, path := range []string{
			"/jobs",
			"/jobs/{id}",
			"/jobs/{id}/status",
			"/jobs/{id}/apply",
			"/jobs/{id}/permissions",
			"/jobs/{id}/candidates",
			"/jobs/{id}/interviews",
			"/jobs/{id}/contracts",
			"/jobs/{id}/messages",
		} {
			Expect(doc.Paths.Find(path)).NotTo(BeNil(), "missing path %s", path)
		}
	})

	It("documents the callback endpoints without bearer auth", func() {
		for _, path := range []string{"/billing/callback", "/contracts/{contractID}/sign", "/auth/login"} {
			item := doc.Paths.Find(path)
			Expect(item).NotTo(BeNil(), "missing path %s", path)
			Expect(item.Post).NotTo(BeNil())
			Expect(item.Post.Security).NotTo(BeNil())
			Expect(*item.Post.Security).To(BeEmpty())
		}
	})
})
