package app_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/rehearse/pkg/app"
	"github.com/papercomputeco/rehearse/pkg/dotdir"
	"github.com/papercomputeco/rehearse/pkg/interview"
	"github.com/papercomputeco/rehearse/pkg/question"
)

var _ = Describe("Runtime", func() {
	var (
		tmpDir string
		ctx    context.Context
	)

	newRuntime := func() *app.Runtime {
		rt, err := app.New(app.Options{ConfigDir: tmpDir, LogWriter: io.Discard})
		Expect(err).NotTo(HaveOccurred())
		return rt
	}

	BeforeEach(func() {
		ctx = context.Background()

		var err error
		tmpDir, err = os.MkdirTemp("", "rehearse-app-*")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(os.RemoveAll, tmpDir)

		GinkgoT().Setenv("HOME", tmpDir)
		GinkgoT().Setenv("XDG_DATA_HOME", "")
		GinkgoT().Setenv("REHEARSE_SQLITE", "")
		GinkgoT().Setenv("REHEARSE_SERVER_BASE_URL", "")
		GinkgoT().Setenv("REHEARSE_STORAGE_PROVIDER", "")
	})

	It("builds a client for the configured backend", func() {
		config := "[server]\nbase_url = \"http://interview.test/api\"\n"
		Expect(os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(config), 0o600)).To(Succeed())

		rt := newRuntime()
		DeferCleanup(rt.Close, ctx)
		Expect(rt.Client.BaseURL()).To(Equal("http://interview.test/api"))
		Expect(rt.Streamer).NotTo(BeNil())
	})

	It("lets the environment override the config file", func() {
		GinkgoT().Setenv("REHEARSE_SERVER_BASE_URL", "https://env.test/api")

		rt := newRuntime()
		DeferCleanup(rt.Close, ctx)
		Expect(rt.Client.BaseURL()).To(Equal("https://env.test/api"))
	})

	Describe("SessionID", func() {
		It("prefers an explicit id", func() {
			rt := newRuntime()
			DeferCleanup(rt.Close, ctx)

			id, err := rt.SessionID(12)
			Expect(err).NotTo(HaveOccurred())
			Expect(id).To(Equal(int64(12)))
		})

		It("falls back to the selected session", func() {
			rt := newRuntime()
			DeferCleanup(rt.Close, ctx)
			Expect(rt.Dotdir.SaveCurrent(&dotdir.CurrentSession{SessionID: 5, SelectedAt: time.Now()}, tmpDir)).To(Succeed())

			id, err := rt.SessionID(0)
			Expect(err).NotTo(HaveOccurred())
			Expect(id).To(Equal(int64(5)))
		})

		It("fails when nothing is selected", func() {
			rt := newRuntime()
			DeferCleanup(rt.Close, ctx)

			_, err := rt.SessionID(0)
			Expect(err).To(MatchError(app.ErrNoSession))
		})
	})

	Describe("recording", func() {
		It("persists the reconciled question id across runs", func() {
			qid := int64(31)
			session := &interview.Session{ID: 8, Title: "Go", Status: interview.StatusInProgress, CurrentQuestionID: &qid}

			rt := newRuntime()
			Expect(rt.RecordQuestion(ctx, session, question.Outcome{Text: "Why?", Complete: true, Sentinel: true}, time.Now(), 2)).To(Succeed())
			Expect(rt.Close(ctx)).To(Succeed())
			Expect(filepath.Join(tmpDir, "rehearse.db")).To(BeAnExistingFile())

			rt = newRuntime()
			DeferCleanup(rt.Close, ctx)

			current, err := rt.CurrentQuestion(ctx, 8)
			Expect(err).NotTo(HaveOccurred())
			Expect(current).NotTo(BeNil())
			Expect(*current).To(Equal(int64(31)))

			driver, err := rt.Storage(ctx)
			Expect(err).NotTo(HaveOccurred())
			questions, err := driver.Questions(ctx, 8)
			Expect(err).NotTo(HaveOccurred())
			Expect(questions).To(HaveLen(1))
			Expect(questions[0].Sentinel).To(BeTrue())
		})

		It("clears the current question once answered", func() {
			qid := int64(31)
			session := &interview.Session{ID: 8, Status: interview.StatusInProgress, CurrentQuestionID: &qid}

			rt := newRuntime()
			Expect(rt.RecordQuestion(ctx, session, question.Outcome{Text: "Why?", Complete: true}, time.Now(), 1)).To(Succeed())
			Expect(rt.RecordAnswer(ctx, session, qid, "Because.", &interview.Evaluation{OverallScore: 5})).To(Succeed())
			Expect(rt.Close(ctx)).To(Succeed())

			rt = newRuntime()
			DeferCleanup(rt.Close, ctx)

			current, err := rt.CurrentQuestion(ctx, 8)
			Expect(err).NotTo(HaveOccurred())
			Expect(current).To(BeNil())
		})

		It("returns nil for an unknown session", func() {
			rt := newRuntime()
			DeferCleanup(rt.Close, ctx)

			current, err := rt.CurrentQuestion(ctx, 999)
			Expect(err).NotTo(HaveOccurred())
			Expect(current).To(BeNil())
		})
	})
})
