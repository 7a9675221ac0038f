package interview_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/talentra/hiring-management/internal/interview"
)

type mockInterviewRepository struct {
	interviews  map[string]*interview.Interview
	createError error
	getError    error
}

func newMockInterviewRepository() *mockInterviewRepository {
	return &mockInterviewRepository{interviews: make(map[string]*interview.Interview)}
}

func (m *mockInterviewRepository) Create(ctx context.Context, i *interview.Interview) error {
	if m.createError != nil {
		return m.createError
	}
	m.interviews[i.ID] = i
	return nil
}

func (m *mockInterviewRepository) GetByID(ctx context.Context, id string) (*interview.Interview, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	i, ok := m.interviews[id]
	if !ok {
		return nil, errors.New("interview not found")
	}
	return i, nil
}

func (m *mockInterviewRepository) GetByJob(ctx context.Context, jobID string) ([]*interview.Interview, error) {
	var out []*interview.Interview
	for _, i := range m.interviews {
		if i.JobID == jobID {
			out = append(out, i)
		}
	}
	return out, nil
}

func (m *mockInterviewRepository) GetActiveByInterviewer(ctx context.Context, interviewerID string) ([]*interview.Interview, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	var out []*interview.Interview
	for _, i := range m.interviews {
		if i.InterviewerID == interviewerID && i.Status == interview.StatusScheduled {
			out = append(out, i)
		}
	}
	return out, nil
}

func (m *mockInterviewRepository) UpdateStatus(ctx context.Context, id, status string, outcome *string, notes string) error {
	i, ok := m.interviews[id]
	if !ok {
		return errors.New("interview not found")
	}
	i.Status = status
	i.Outcome = outcome
	i.Notes = notes
	return nil
}

var _ = Describe("InterviewService", func() {
	var (
		repo    *mockInterviewRepository
		service *interview.Service
		ctx     context.Context
		base    time.Time
	)

	scheduleDTO := func(interviewerID string, start, end time.Time) interview.ScheduleDTO {
		return interview.ScheduleDTO{
			CandidateID:   "cand-1",
			InterviewerID: interviewerID,
			StartsAt:      start,
			EndsAt:        end,
		}
	}

	BeforeEach(func() {
		repo = newMockInterviewRepository()
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		service = interview.NewService(repo, logger)
		ctx = context.Background()
		base = time.Now().Add(24 * time.Hour).Truncate(time.Hour)
	})

	Describe("Schedule", func() {
		It("books a free slot", func() {
			iv, err := service.Schedule(ctx, "job-1", scheduleDTO("int-1", base, base.Add(time.Hour)))

			Expect(err).ToNot(HaveOccurred())
			Expect(iv.Status).To(Equal(interview.StatusScheduled))
			Expect(iv.JobID).To(Equal("job-1"))
		})

		It("rejects an overlapping slot for the same interviewer", func() {
			_, err := service.Schedule(ctx, "job-1", scheduleDTO("int-1", base, base.Add(time.Hour)))
			Expect(err).ToNot(HaveOccurred())

			_, err = service.Schedule(ctx, "job-1", scheduleDTO("int-1", base.Add(30*time.Minute), base.Add(90*time.Minute)))
			Expect(err).To(MatchError(interview.ErrInterviewConflict))
		})

		It("allows the same slot for a different interviewer", func() {
			_, err := service.Schedule(ctx, "job-1", scheduleDTO("int-1", base, base.Add(time.Hour)))
			Expect(err).ToNot(HaveOccurred())

			_, err = service.Schedule(ctx, "job-1", scheduleDTO("int-2", base, base.Add(time.Hour)))
			Expect(err).ToNot(HaveOccurred())
		})

		It("allows back-to-back slots", func() {
			_, err := service.Schedule(ctx, "job-1", scheduleDTO("int-1", base, base.Add(time.Hour)))
			Expect(err).ToNot(HaveOccurred())

			_, err = service.Schedule(ctx, "job-1", scheduleDTO("int-1", base.Add(time.Hour), base.Add(2*time.Hour)))
			Expect(err).ToNot(HaveOccurred())
		})

		It("ignores cancelled interviews when checking conflicts", func() {
			iv, err := service.Schedule(ctx, "job-1", scheduleDTO("int-1", base, base.Add(time.Hour)))
			Expect(err).ToNot(HaveOccurred())

			Expect(service.Cancel(ctx, iv.ID)).To(Succeed())

			_, err = service.Schedule(ctx, "job-1", scheduleDTO("int-1", base, base.Add(time.Hour)))
			Expect(err).ToNot(HaveOccurred())
		})

		It("rejects a slot in the past", func() {
			past := time.Now().Add(-2 * time.Hour)
			_, err := service.Schedule(ctx, "job-1", scheduleDTO("int-1", past, past.Add(time.Hour)))
			Expect(err).To(HaveOccurred())
		})

		It("rejects an inverted time range", func() {
			_, err := service.Schedule(ctx, "job-1", scheduleDTO("int-1", base.Add(time.Hour), base))
			Expect(err).To(HaveOccurred())
		})

		It("fails closed when the schedule lookup errors", func() {
			repo.getError = errors.New("connection refused")
			_, err := service.Schedule(ctx, "job-1", scheduleDTO("int-1", base, base.Add(time.Hour)))
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Complete", func() {
		var iv *interview.Interview

		BeforeEach(func() {
			var err error
			iv, err = service.Schedule(ctx, "job-1", scheduleDTO("int-1", base, base.Add(time.Hour)))
			Expect(err).ToNot(HaveOccurred())
		})

		It("records the outcome", func() {
			completed, err := service.Complete(ctx, iv.ID, interview.CompleteDTO{
				Outcome: interview.OutcomeAdvance,
				Notes:   "strong systems knowledge",
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(completed.Status).To(Equal(interview.StatusCompleted))
			Expect(*completed.Outcome).To(Equal(interview.OutcomeAdvance))
		})

		It("rejects an unknown outcome", func() {
			_, err := service.Complete(ctx, iv.ID, interview.CompleteDTO{Outcome: "maybe"})
			Expect(err).To(HaveOccurred())
		})

		It("refuses to complete a cancelled interview", func() {
			Expect(service.Cancel(ctx, iv.ID)).To(Succeed())

			_, err := service.Complete(ctx, iv.ID, interview.CompleteDTO{Outcome: interview.OutcomeHold})
			Expect(err).To(MatchError(interview.ErrNotScheduled))
		})
	})

	Describe("Cancel", func() {
		It("refuses to cancel twice", func() {
			iv, err := service.Schedule(ctx, "job-1", scheduleDTO("int-1", base, base.Add(time.Hour)))
			Expect(err).ToNot(HaveOccurred())

			Expect(service.Cancel(ctx, iv.ID)).To(Succeed())
			Expect(service.Cancel(ctx, iv.ID)).To(MatchError(interview.ErrNotScheduled))
		})

		It("maps missing interviews to ErrInterviewNotFound", func() {
			Expect(service.Cancel(ctx, "missing")).To(MatchError(interview.ErrInterviewNotFound))
		})
	})
})
