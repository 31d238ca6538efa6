package testutils

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/rehearse/pkg/storage"
)

// DriverBehaviors registers the specs every storage.Driver must pass. Call it
// inside a Describe; newDriver must return an empty store for each spec.
func DriverBehaviors(newDriver func() storage.Driver) {
	var (
		driver storage.Driver
		ctx    context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		driver = nil
		driver = newDriver()
	})

	AfterEach(func() {
		if driver != nil {
			Expect(driver.Close()).To(Succeed())
		}
	})

	Describe("sessions", func() {
		It("stores and retrieves a session", func() {
			qid := int64(7)
			Expect(driver.PutSession(ctx, storage.SessionState{
				SessionID:         1,
				Title:             "Go backend",
				Status:            "IN_PROGRESS",
				CurrentQuestionID: &qid,
			})).To(Succeed())

			st, err := driver.GetSession(ctx, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(st.Title).To(Equal("Go backend"))
			Expect(st.Status).To(Equal("IN_PROGRESS"))
			Expect(st.CurrentQuestionID).NotTo(BeNil())
			Expect(*st.CurrentQuestionID).To(Equal(int64(7)))
			Expect(st.UpdatedAt).To(BeTemporally("~", time.Now(), time.Minute))
		})

		It("replaces an existing session", func() {
			qid := int64(3)
			Expect(driver.PutSession(ctx, storage.SessionState{SessionID: 1, Title: "a", CurrentQuestionID: &qid})).To(Succeed())
			Expect(driver.PutSession(ctx, storage.SessionState{SessionID: 1, Title: "b"})).To(Succeed())

			st, err := driver.GetSession(ctx, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(st.Title).To(Equal("b"))
			Expect(st.CurrentQuestionID).To(BeNil())
		})

		It("returns NotFoundError for unknown sessions", func() {
			_, err := driver.GetSession(ctx, 404)

			var nf storage.NotFoundError
			Expect(errors.As(err, &nf)).To(BeTrue())
			Expect(nf.SessionID).To(Equal(int64(404)))
		})

		It("rejects a session without id", func() {
			Expect(driver.PutSession(ctx, storage.SessionState{Title: "x"})).NotTo(Succeed())
		})

		It("lists the most recently updated first", func() {
			now := time.Now()
			Expect(driver.PutSession(ctx, storage.SessionState{SessionID: 1, UpdatedAt: now.Add(-time.Hour)})).To(Succeed())
			Expect(driver.PutSession(ctx, storage.SessionState{SessionID: 2, UpdatedAt: now})).To(Succeed())
			Expect(driver.PutSession(ctx, storage.SessionState{SessionID: 3, UpdatedAt: now.Add(-2 * time.Hour)})).To(Succeed())

			list, err := driver.ListSessions(ctx)
			Expect(err).NotTo(HaveOccurred())
			ids := make([]int64, 0, len(list))
			for _, st := range list {
				ids = append(ids, st.SessionID)
			}
			Expect(ids).To(Equal([]int64{2, 1, 3}))
		})

		It("deletes a session with its questions and answers", func() {
			Expect(driver.PutSession(ctx, storage.SessionState{SessionID: 1})).To(Succeed())
			_, err := driver.AddQuestion(ctx, storage.QuestionRecord{SessionID: 1, Text: "q"})
			Expect(err).NotTo(HaveOccurred())
			_, err = driver.AddAnswer(ctx, storage.AnswerRecord{SessionID: 1, QuestionID: 9, Answer: "a"})
			Expect(err).NotTo(HaveOccurred())

			Expect(driver.DeleteSession(ctx, 1)).To(Succeed())

			_, err = driver.GetSession(ctx, 1)
			Expect(err).To(HaveOccurred())
			qs, err := driver.Questions(ctx, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(qs).To(BeEmpty())
			as, err := driver.Answers(ctx, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(as).To(BeEmpty())

			Expect(driver.DeleteSession(ctx, 1)).To(Succeed())
		})
	})

	Describe("questions", func() {
		It("keeps questions in streaming order per session", func() {
			qid := int64(11)
			id1, err := driver.AddQuestion(ctx, storage.QuestionRecord{SessionID: 1, Text: "first", Sentinel: true, QuestionID: &qid})
			Expect(err).NotTo(HaveOccurred())
			id2, err := driver.AddQuestion(ctx, storage.QuestionRecord{SessionID: 1, Text: "second"})
			Expect(err).NotTo(HaveOccurred())
			_, err = driver.AddQuestion(ctx, storage.QuestionRecord{SessionID: 2, Text: "other"})
			Expect(err).NotTo(HaveOccurred())
			Expect(id2).To(BeNumerically(">", id1))

			qs, err := driver.Questions(ctx, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(qs).To(HaveLen(2))
			Expect(qs[0].Text).To(Equal("first"))
			Expect(qs[0].Sentinel).To(BeTrue())
			Expect(*qs[0].QuestionID).To(Equal(int64(11)))
			Expect(qs[1].Text).To(Equal("second"))
			Expect(qs[1].Sentinel).To(BeFalse())
			Expect(qs[1].QuestionID).To(BeNil())
		})
	})

	Describe("answers", func() {
		It("stores answers with their evaluation", func() {
			_, err := driver.AddAnswer(ctx, storage.AnswerRecord{
				SessionID:    4,
				QuestionID:   12,
				Answer:       "use a context",
				OverallScore: 8.5,
				Feedback:     "solid",
			})
			Expect(err).NotTo(HaveOccurred())

			as, err := driver.Answers(ctx, 4)
			Expect(err).NotTo(HaveOccurred())
			Expect(as).To(HaveLen(1))
			Expect(as[0].QuestionID).To(Equal(int64(12)))
			Expect(as[0].Answer).To(Equal("use a context"))
			Expect(as[0].OverallScore).To(Equal(8.5))
			Expect(as[0].Feedback).To(Equal("solid"))
		})
	})
}
