package candidate_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/talentra/hiring-management/internal/ai"
	"github.com/talentra/hiring-management/internal/candidate"
	"github.com/talentra/hiring-management/internal/core/events"
	"github.com/talentra/hiring-management/internal/job"
	"github.com/talentra/hiring-management/internal/mailer"
)

type mockCandidateRepository struct {
	mu          sync.Mutex
	candidates  map[string]*candidate.Candidate
	createError error
	getError    error
}

func newMockCandidateRepository() *mockCandidateRepository {
	return &mockCandidateRepository{candidates: make(map[string]*candidate.Candidate)}
}

func (m *mockCandidateRepository) Create(ctx context.Context, c *candidate.Candidate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createError != nil {
		return m.createError
	}
	clone := *c
	m.candidates[c.ID] = &clone
	return nil
}

func (m *mockCandidateRepository) GetByID(ctx context.Context, id string) (*candidate.Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getError != nil {
		return nil, m.getError
	}
	c, ok := m.candidates[id]
	if !ok {
		return nil, errors.New("candidate not found")
	}
	clone := *c
	return &clone, nil
}

func (m *mockCandidateRepository) GetByJob(ctx context.Context, jobID string, limit, offset int) ([]*candidate.Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*candidate.Candidate
	for _, c := range m.candidates {
		if c.JobID == jobID {
			clone := *c
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (m *mockCandidateRepository) UpdateStage(ctx context.Context, id, stage string, decidedAt *time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.candidates[id]
	if !ok {
		return errors.New("candidate not found")
	}
	c.Stage = stage
	c.DecidedAt = decidedAt
	return nil
}

func (m *mockCandidateRepository) UpdateEvaluation(ctx context.Context, id string, score int, notes string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.candidates[id]
	if !ok {
		return errors.New("candidate not found")
	}
	c.AIScore = &score
	c.AINotes = &notes
	return nil
}

func (m *mockCandidateRepository) get(id string) *candidate.Candidate {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.candidates[id]
	if !ok {
		return nil
	}
	clone := *c
	return &clone
}

type fakeJobReader struct {
	jobs map[string]*job.Job
}

func (f *fakeJobReader) GetJob(ctx context.Context, id string) (*job.Job, error) {
	j, ok := f.jobs[id]
	if !ok {
		return nil, job.ErrJobNotFound
	}
	return j, nil
}

type fakeEvaluator struct {
	eval *ai.Evaluation
	err  error
}

func (f *fakeEvaluator) Evaluate(ctx context.Context, jobDescription, candidateSummary string) (*ai.Evaluation, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.eval, nil
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []mailer.Email
}

func (r *recordingMailer) Send(ctx context.Context, email mailer.Email) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, email)
	return nil
}

func (r *recordingMailer) sentCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent)
}

var _ = Describe("CandidateService", func() {
	var (
		repo      *mockCandidateRepository
		jobs      *fakeJobReader
		evaluator *fakeEvaluator
		mail      *recordingMailer
		service   *candidate.Service
		ctx       context.Context
	)

	BeforeEach(func() {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		repo = newMockCandidateRepository()
		jobs = &fakeJobReader{jobs: map[string]*job.Job{
			"job-open": {ID: "job-open", CompanyID: "c-1", Status: job.StatusOpen, Description: "Go backend work"},
			"job-draft": {ID: "job-draft", CompanyID: "c-1", Status: job.StatusDraft},
		}}
		evaluator = &fakeEvaluator{eval: &ai.Evaluation{Score: 82, Rationale: "strong match"}}
		mail = &recordingMailer{}
		bus := events.NewBus(logger)
		service = candidate.NewService(repo, jobs, evaluator, mail, bus, logger)
		ctx = context.Background()
	})

	Describe("Apply", func() {
		It("creates an application in the applied stage", func() {
			cand, err := service.Apply(ctx, "job-open", candidate.ApplyDTO{
				Name:    "Dana",
				Email:   "dana@example.com",
				Summary: "Five years of Go",
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(cand.Stage).To(Equal(candidate.StageApplied))
			Expect(cand.JobID).To(Equal("job-open"))
		})

		It("stores the screening score asynchronously", func() {
			cand, err := service.Apply(ctx, "job-open", candidate.ApplyDTO{
				Name:    "Dana",
				Email:   "dana@example.com",
				Summary: "Five years of Go",
			})
			Expect(err).ToNot(HaveOccurred())

			Eventually(func() *int {
				if c := repo.get(cand.ID); c != nil {
					return c.AIScore
				}
				return nil
			}).ShouldNot(BeNil())

			stored := repo.get(cand.ID)
			Expect(*stored.AIScore).To(Equal(82))
			Expect(*stored.AINotes).To(Equal("strong match"))
		})

		It("leaves the candidate unscored when screening fails", func() {
			evaluator.err = errors.New("llm unavailable")

			cand, err := service.Apply(ctx, "job-open", candidate.ApplyDTO{
				Name:    "Dana",
				Email:   "dana@example.com",
				Summary: "Five years of Go",
			})
			Expect(err).ToNot(HaveOccurred())

			Consistently(func() *int {
				return repo.get(cand.ID).AIScore
			}).Should(BeNil())
		})

		It("rejects applications to jobs that are not open", func() {
			_, err := service.Apply(ctx, "job-draft", candidate.ApplyDTO{
				Name:  "Dana",
				Email: "dana@example.com",
			})
			Expect(err).To(MatchError(candidate.ErrJobNotAccepting))
		})

		It("maps unknown jobs to ErrJobNotFound", func() {
			_, err := service.Apply(ctx, "missing", candidate.ApplyDTO{
				Name:  "Dana",
				Email: "dana@example.com",
			})
			Expect(err).To(MatchError(job.ErrJobNotFound))
		})

		It("rejects an invalid email", func() {
			_, err := service.Apply(ctx, "job-open", candidate.ApplyDTO{
				Name:  "Dana",
				Email: "not-an-email",
			})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Advance", func() {
		var cand *candidate.Candidate

		BeforeEach(func() {
			var err error
			cand, err = service.Apply(ctx, "job-open", candidate.ApplyDTO{
				Name:  "Dana",
				Email: "dana@example.com",
			})
			Expect(err).ToNot(HaveOccurred())
		})

		It("walks the pipeline in order", func() {
			expected := []string{
				candidate.StageScreening,
				candidate.StageInterview,
				candidate.StageOffer,
				candidate.StageHired,
			}

			for _, stage := range expected {
				advanced, err := service.Advance(ctx, cand.ID)
				Expect(err).ToNot(HaveOccurred())
				Expect(advanced.Stage).To(Equal(stage))
			}
		})

		It("sets decided_at when hiring", func() {
			for i := 0; i < 4; i++ {
				_, err := service.Advance(ctx, cand.ID)
				Expect(err).ToNot(HaveOccurred())
			}

			stored := repo.get(cand.ID)
			Expect(stored.Stage).To(Equal(candidate.StageHired))
			Expect(stored.DecidedAt).ToNot(BeNil())
		})

		It("refuses to advance past hired", func() {
			for i := 0; i < 4; i++ {
				_, err := service.Advance(ctx, cand.ID)
				Expect(err).ToNot(HaveOccurred())
			}

			_, err := service.Advance(ctx, cand.ID)
			Expect(err).To(MatchError(candidate.ErrStageTerminal))
		})
	})

	Describe("Reject", func() {
		var cand *candidate.Candidate

		BeforeEach(func() {
			var err error
			cand, err = service.Apply(ctx, "job-open", candidate.ApplyDTO{
				Name:  "Dana",
				Email: "dana@example.com",
			})
			Expect(err).ToNot(HaveOccurred())
		})

		It("moves the candidate to rejected and emails them", func() {
			rejected, err := service.Reject(ctx, cand.ID, candidate.RejectCandidateDTO{Reason: "Role filled"})
			Expect(err).ToNot(HaveOccurred())
			Expect(rejected.Stage).To(Equal(candidate.StageRejected))
			Expect(rejected.DecidedAt).ToNot(BeNil())

			Eventually(mail.sentCount).Should(Equal(1))
		})

		It("refuses to reject a rejected candidate again", func() {
			_, err := service.Reject(ctx, cand.ID, candidate.RejectCandidateDTO{})
			Expect(err).ToNot(HaveOccurred())

			_, err = service.Reject(ctx, cand.ID, candidate.RejectCandidateDTO{})
			Expect(err).To(MatchError(candidate.ErrStageTerminal))
		})
	})
})
