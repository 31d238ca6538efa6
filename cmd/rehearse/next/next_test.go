package nextcmder

import (
	"bytes"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/rehearse/pkg/interview"
	"github.com/papercomputeco/rehearse/pkg/question"
)

var _ = Describe("printFooter", func() {
	var out *bytes.Buffer

	BeforeEach(func() {
		out = &bytes.Buffer{}
	})

	It("shows the reconciled question id", func() {
		id := int64(17)
		session := &interview.Session{ID: 1, CurrentQuestionID: &id}
		printFooter(out, session, question.Outcome{Text: "Q", Complete: true, Sentinel: true}, 1500*time.Millisecond)

		Expect(out.String()).To(ContainSubstring("#17"))
		Expect(out.String()).To(ContainSubstring("1.5s"))
		Expect(out.String()).NotTo(ContainSubstring("ended early"))
	})

	It("warns when the stream ended without the sentinel", func() {
		id := int64(17)
		session := &interview.Session{ID: 1, CurrentQuestionID: &id}
		printFooter(out, session, question.Outcome{Text: "Q", Complete: true}, time.Second)

		Expect(out.String()).To(ContainSubstring("ended early"))
	})

	It("explains when the question id is unknown", func() {
		printFooter(out, &interview.Session{ID: 1}, question.Outcome{Text: "Q", Complete: true, Sentinel: true}, time.Second)

		Expect(out.String()).To(ContainSubstring("could not be determined"))
	})
})

var _ = Describe("NewNextCmd", func() {
	It("takes the session as a flag", func() {
		cmd := NewNextCmd()
		Expect(cmd.Flags().Lookup("session")).NotTo(BeNil())
		Expect(cmd.Flags().Lookup("raw")).NotTo(BeNil())
	})
})
