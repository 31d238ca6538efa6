package mockserver_test

import (
	"context"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/rehearse/pkg/logger"
	"github.com/papercomputeco/rehearse/pkg/mockserver"
)

const testBank = `
[[position]]
id = 9
name = "Data Engineer"
level = "senior"
skills = ["SQL", "Spark"]

[[question]]
position = "Data Engineer"
text = """
How would you
backfill a partitioned table?"""

[[question]]
position = "data engineer"
text = "Explain exactly-once delivery."

[[question]]
text = "Describe a project you are proud of."
`

var _ = Describe("Bank", func() {
	var (
		tmpDir string
		path   string
	)

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "mockserver-bank-*")
		Expect(err).NotTo(HaveOccurred())
		path = filepath.Join(tmpDir, "bank.toml")
		Expect(os.WriteFile(path, []byte(testBank), 0o600)).To(Succeed())
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	It("ships a built-in bank", func() {
		bank := mockserver.DefaultBank()
		Expect(bank.Len()).To(BeNumerically(">", 0))
		Expect(bank.Positions()).NotTo(BeEmpty())
	})

	It("loads positions and questions from a file", func() {
		bank, err := mockserver.LoadBank(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(bank.Len()).To(Equal(3))

		positions := bank.Positions()
		Expect(positions).To(HaveLen(1))
		Expect(positions[0].ID).To(Equal(int64(9)))
		Expect(positions[0].Skills).To(ConsistOf("SQL", "Spark"))
	})

	It("collapses line breaks inside question text", func() {
		bank, err := mockserver.LoadBank(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(bank.Pick("Data Engineer", 0)).To(Equal("How would you backfill a partitioned table?"))
	})

	It("cycles through the questions of a position", func() {
		bank, err := mockserver.LoadBank(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(bank.Pick("Data Engineer", 1)).To(Equal("Explain exactly-once delivery."))
		Expect(bank.Pick("Data Engineer", 2)).To(Equal(bank.Pick("Data Engineer", 0)))
	})

	It("falls back to general questions for unknown positions", func() {
		bank, err := mockserver.LoadBank(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(bank.Pick("Astronaut", 5)).To(Equal("Describe a project you are proud of."))
	})

	It("rejects a bank without questions", func() {
		Expect(os.WriteFile(path, []byte("[[position]]\nname = \"x\"\n"), 0o600)).To(Succeed())
		_, err := mockserver.LoadBank(path)
		Expect(err).To(MatchError(ContainSubstring("no questions")))
	})

	It("keeps its contents when a reload fails", func() {
		bank, err := mockserver.LoadBank(path)
		Expect(err).NotTo(HaveOccurred())

		Expect(os.WriteFile(path, []byte("not [[ toml"), 0o600)).To(Succeed())
		Expect(bank.Reload(path)).To(HaveOccurred())
		Expect(bank.Len()).To(Equal(3))
	})

	Describe("BankWatcher", func() {
		It("reloads the bank when the file changes", func() {
			bank, err := mockserver.LoadBank(path)
			Expect(err).NotTo(HaveOccurred())

			watcher, err := mockserver.NewBankWatcher(bank, path, logger.Nop())
			Expect(err).NotTo(HaveOccurred())

			ctx, cancel := context.WithCancel(context.Background())
			DeferCleanup(cancel)
			go watcher.Run(ctx)

			Expect(os.WriteFile(path, []byte("[[question]]\ntext = \"Only one now.\"\n"), 0o600)).To(Succeed())

			Eventually(bank.Len).Should(Equal(1))
			Expect(bank.Pick("", 0)).To(Equal("Only one now."))
		})

		It("fails for a missing directory", func() {
			_, err := mockserver.NewBankWatcher(mockserver.DefaultBank(), filepath.Join(tmpDir, "nope", "bank.toml"), logger.Nop())
			Expect(err).To(HaveOccurred())
		})
	})
})
