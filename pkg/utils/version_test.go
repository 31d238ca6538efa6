package utils

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("build information", func() {
	var version, sha string

	BeforeEach(func() {
		version, sha = Version, Sha
		DeferCleanup(func() { Version, Sha = version, sha })
	})

	It("reports every stamped field", func() {
		Version, Sha = "v1.2.0", "abc1234"
		Expect(BuildInfo()).To(Equal("Version: v1.2.0\nSha: abc1234\nBuilt at: " + Buildtime + "\n"))
	})

	It("shortens the commit in the user agent", func() {
		Version, Sha = "v1.2.0", "0123456789abcdef"
		Expect(UserAgent()).To(Equal("rehearse/v1.2.0 (0123456)"))
	})

	It("keeps a short commit as is", func() {
		Expect(UserAgent()).To(Equal("rehearse/dev (HEAD)"))
	})
})
