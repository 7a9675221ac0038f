package ai

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("parseEvaluation", func() {
	It("parses a plain JSON response", func() {
		eval, err := parseEvaluation(`{"score": 82, "rationale": "Strong backend match."}`)
		Expect(err).NotTo(HaveOccurred())
		Expect(eval.Score).To(Equal(82))
		Expect(eval.Rationale).To(Equal("Strong backend match."))
	})

	It("strips markdown code fences the model adds anyway", func() {
		raw := "```json\n{\"score\": 45, \"rationale\": \"Partial overlap.\"}\n```"
		eval, err := parseEvaluation(raw)
		Expect(err).NotTo(HaveOccurred())
		Expect(eval.Score).To(Equal(45))
	})

	It("strips bare fences without a language tag", func() {
		raw := "```\n{\"score\": 100, \"rationale\": \"Perfect fit.\"}\n```"
		eval, err := parseEvaluation(raw)
		Expect(err).NotTo(HaveOccurred())
		Expect(eval.Score).To(Equal(100))
	})

	It("rejects scores outside 0-100", func() {
		_, err := parseEvaluation(`{"score": 120, "rationale": "Overflowing enthusiasm."}`)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("out of range"))
	})

	It("rejects non-JSON output", func() {
		_, err := parseEvaluation("The candidate looks great, I'd say 90 out of 100.")
		Expect(err).To(HaveOccurred())
	})
})
