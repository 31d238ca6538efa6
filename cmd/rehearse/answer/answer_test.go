package answercmder

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/rehearse/pkg/interview"
)

var _ = Describe("readAnswer", func() {
	It("joins the arguments", func() {
		c := &answerCommander{}
		answer, err := c.readAnswer(strings.NewReader("ignored"), []string{"Goroutines", "are", "cheap."})
		Expect(err).NotTo(HaveOccurred())
		Expect(answer).To(Equal("Goroutines are cheap."))
	})

	It("reads a file", func() {
		path := filepath.Join(GinkgoT().TempDir(), "answer.md")
		Expect(os.WriteFile(path, []byte("\n  From a file.\n"), 0o600)).To(Succeed())

		c := &answerCommander{file: path}
		answer, err := c.readAnswer(strings.NewReader("ignored"), nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(answer).To(Equal("From a file."))
	})

	It("falls back to stdin", func() {
		c := &answerCommander{}
		answer, err := c.readAnswer(strings.NewReader("line one\nline two\n"), nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(answer).To(Equal("line one\nline two"))
	})

	It("rejects arguments together with --file", func() {
		c := &answerCommander{file: "answer.md"}
		_, err := c.readAnswer(strings.NewReader(""), []string{"text"})
		Expect(err).To(MatchError(ContainSubstring("not both")))
	})

	It("rejects a blank answer", func() {
		c := &answerCommander{}
		_, err := c.readAnswer(strings.NewReader("   \n"), nil)
		Expect(err).To(MatchError("answer cannot be empty"))
	})
})

var _ = Describe("printEvaluation", func() {
	It("prints every score and the feedback", func() {
		var out bytes.Buffer
		printEvaluation(&out, &interview.Evaluation{
			OverallScore:      6.5,
			ProfessionalScore: 7,
			LogicScore:        6,
			CompletenessScore: 5.5,
			AIFeedback:        "Mention buffered channels.",
		})

		Expect(out.String()).To(ContainSubstring("6.5"))
		Expect(out.String()).To(ContainSubstring("5.5"))
		Expect(out.String()).To(ContainSubstring("Mention buffered channels."))
	})
})
