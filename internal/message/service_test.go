package message_test

import (
	"context"
	"errors"
	"log/slog"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/talentra/hiring-management/internal/message"
)

type mockMessageRepository struct {
	messages    []*message.Message
	createError error
	markError   error
	markedCalls int
}

func (m *mockMessageRepository) Create(ctx context.Context, msg *message.Message) error {
	if m.createError != nil {
		return m.createError
	}
	m.messages = append(m.messages, msg)
	return nil
}

func (m *mockMessageRepository) GetByJob(ctx context.Context, jobID string, limit, offset int) ([]*message.Message, error) {
	var out []*message.Message
	for _, msg := range m.messages {
		if msg.JobID == jobID {
			out = append(out, msg)
		}
	}
	return out, nil
}

func (m *mockMessageRepository) MarkAllRead(ctx context.Context, jobID, userID string) (int64, error) {
	if m.markError != nil {
		return 0, m.markError
	}
	m.markedCalls++
	return int64(len(m.messages)), nil
}

func (m *mockMessageRepository) UnreadCount(ctx context.Context, jobID, userID string) (int64, error) {
	return int64(len(m.messages)), nil
}

var _ = Describe("MessageService", func() {
	var (
		repo    *mockMessageRepository
		service *message.Service
		ctx     context.Context
	)

	BeforeEach(func() {
		repo = &mockMessageRepository{}
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		service = message.NewService(repo, logger)
		ctx = context.Background()
	})

	Describe("Post", func() {
		It("stores a message with an ID and author", func() {
			m, err := service.Post(ctx, "j-1", "u-1", message.PostMessageDTO{Body: "kickoff at noon"})

			Expect(err).ToNot(HaveOccurred())
			Expect(m.ID).ToNot(BeEmpty())
			Expect(m.AuthorID).To(Equal("u-1"))
			Expect(repo.messages).To(HaveLen(1))
		})

		It("rejects an empty body", func() {
			_, err := service.Post(ctx, "j-1", "u-1", message.PostMessageDTO{})
			Expect(err).To(MatchError(message.ErrEmptyMessage))
		})

		It("propagates repository failures", func() {
			repo.createError = errors.New("insert failed")
			_, err := service.Post(ctx, "j-1", "u-1", message.PostMessageDTO{Body: "hi"})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("MarkRead", func() {
		It("returns the number of rows marked", func() {
			_, err := service.Post(ctx, "j-1", "u-1", message.PostMessageDTO{Body: "hi"})
			Expect(err).ToNot(HaveOccurred())

			marked, err := service.MarkRead(ctx, "j-1", "u-2")
			Expect(err).ToNot(HaveOccurred())
			Expect(marked).To(Equal(int64(1)))
			Expect(repo.markedCalls).To(Equal(1))
		})

		It("propagates repository failures", func() {
			repo.markError = errors.New("update failed")
			_, err := service.MarkRead(ctx, "j-1", "u-2")
			Expect(err).To(HaveOccurred())
		})
	})
})
