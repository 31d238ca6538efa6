package cliui_test

import (
	"bytes"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/rehearse/pkg/cliui"
)

var _ = Describe("cliui", func() {
	It("formats short durations in milliseconds", func() {
		Expect(cliui.FormatDuration(120 * time.Millisecond)).To(Equal("120ms"))
		Expect(cliui.FormatDuration(3200 * time.Millisecond)).To(Equal("3.2s"))
	})

	It("marks success and failure", func() {
		Expect(cliui.Mark(nil)).To(Equal(cliui.SuccessMark))
		Expect(cliui.Mark(errors.New("x"))).To(Equal(cliui.FailMark))
	})

	It("returns the error of a step and reports it", func() {
		var buf bytes.Buffer
		err := cliui.Step(&buf, "starting session", func() error { return errors.New("boom") })
		Expect(err).To(MatchError("boom"))
		Expect(buf.String()).To(ContainSubstring("starting session"))
	})

	It("renders statuses by name", func() {
		Expect(cliui.Status("COMPLETED")).To(ContainSubstring("COMPLETED"))
		Expect(cliui.Status("WHATEVER")).To(ContainSubstring("WHATEVER"))
	})

	It("renders markdown", func() {
		out, err := cliui.RenderMarkdown("**Explain** goroutines")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("goroutines"))
	})
})
