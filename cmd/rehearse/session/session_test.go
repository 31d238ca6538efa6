package sessioncmder

import (
	"bytes"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/rehearse/pkg/dotdir"
	"github.com/papercomputeco/rehearse/pkg/interview"
)

var _ = Describe("NewSessionCmd", func() {
	It("has the session lifecycle subcommands", func() {
		cmd := NewSessionCmd()
		names := make([]string, 0, len(cmd.Commands()))
		for _, sub := range cmd.Commands() {
			names = append(names, sub.Name())
		}
		Expect(names).To(ConsistOf("positions", "create", "start", "finish", "list", "show", "delete"))
	})

	It("requires --position on create", func() {
		cmd := newCreateCmd()
		Expect(cmd.Flags().Lookup("position")).NotTo(BeNil())
		Expect(cmd.Flags().Lookup("position").Annotations).To(HaveKey("cobra_annotation_bash_completion_one_required_flag"))
	})
})

var _ = Describe("findPosition", func() {
	positions := []interview.Position{
		{ID: 1, Name: "Go Developer"},
		{ID: 2, Name: "Frontend Engineer"},
	}

	It("matches by id", func() {
		p, err := findPosition(positions, "2")
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Name).To(Equal("Frontend Engineer"))
	})

	It("matches by name ignoring case and surrounding space", func() {
		p, err := findPosition(positions, "  go developer ")
		Expect(err).NotTo(HaveOccurred())
		Expect(p.ID).To(Equal(int64(1)))
	})

	It("lists the available positions when nothing matches", func() {
		_, err := findPosition(positions, "Astronaut")
		Expect(err).To(MatchError(ContainSubstring("Go Developer, Frontend Engineer")))
	})
})

var _ = Describe("sessionMarkdown", func() {
	It("lists questions with their answers", func() {
		s := &interview.Session{ID: 3, Title: "Prep", Status: interview.StatusInProgress, TotalQuestions: 2, AnsweredQuestions: 1}
		md := sessionMarkdown(s, []interview.Question{
			{ID: 10, QuestionText: "What is a channel?", UserAnswer: "A typed conduit.\nIt blocks."},
			{ID: 11, QuestionText: "What is a mutex?"},
		})

		Expect(md).To(ContainSubstring("# Prep"))
		Expect(md).To(ContainSubstring("**Status:** IN_PROGRESS"))
		Expect(md).To(ContainSubstring("### 1. What is a channel?"))
		Expect(md).To(ContainSubstring("> A typed conduit.\n> It blocks.\n"))
		Expect(md).To(ContainSubstring("### 2. What is a mutex?\n\n_Not answered yet._"))
		Expect(md).NotTo(ContainSubstring("## Report"))
	})

	It("includes the report of a completed session", func() {
		s := &interview.Session{
			ID:     4,
			Status: interview.StatusCompleted,
			Report: &interview.Report{OverallScore: 7.5, StrongPoints: "Clear structure."},
		}
		md := sessionMarkdown(s, nil)

		Expect(md).To(ContainSubstring("# Interview #4"))
		Expect(md).To(ContainSubstring("## Report"))
		Expect(md).To(ContainSubstring("| 7.5 |"))
		Expect(md).To(ContainSubstring("### Strong points\n\nClear structure."))
		Expect(md).NotTo(ContainSubstring("### Weak points"))
	})
})

var _ = Describe("printSessions", func() {
	It("suggests creating a session when there are none", func() {
		var out bytes.Buffer
		printSessions(&out, nil, nil)
		Expect(out.String()).To(ContainSubstring("No sessions yet"))
	})

	It("shows status and progress of each session", func() {
		var out bytes.Buffer
		printSessions(&out, []interview.Session{
			{ID: 1, Title: "First", Status: interview.StatusCompleted, TotalQuestions: 5, AnsweredQuestions: 5, OverallScore: 8},
			{ID: 2, Title: "Second", Status: interview.StatusInProgress, TotalQuestions: 5, AnsweredQuestions: 2},
		}, &dotdir.CurrentSession{SessionID: 2, SelectedAt: time.Now()})

		Expect(out.String()).To(ContainSubstring("First"))
		Expect(out.String()).To(ContainSubstring("COMPLETED"))
		Expect(out.String()).To(ContainSubstring("8.0"))
		Expect(out.String()).To(ContainSubstring("2/5"))
	})
})

var _ = Describe("padRight", func() {
	It("pads by runes", func() {
		Expect(padRight("né", 4)).To(Equal("né  "))
		Expect(padRight("long", 2)).To(Equal("long"))
	})
})
