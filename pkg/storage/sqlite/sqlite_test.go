package sqlite_test

import (
	"context"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/rehearse/pkg/storage"
	"github.com/papercomputeco/rehearse/pkg/storage/sqlite"
	testutils "github.com/papercomputeco/rehearse/pkg/utils/test"
)

var _ = Describe("Driver", func() {
	testutils.DriverBehaviors(func() storage.Driver {
		d, err := sqlite.NewDriver(":memory:")
		Expect(err).NotTo(HaveOccurred())
		return d
	})

	Describe("NewDriver", func() {
		It("creates a file database that survives reopening", func() {
			dbPath := filepath.Join(GinkgoT().TempDir(), "rehearse.sqlite")

			d, err := sqlite.NewDriver(dbPath)
			Expect(err).NotTo(HaveOccurred())
			Expect(d.PutSession(context.Background(), storage.SessionState{SessionID: 5, Title: "kept"})).To(Succeed())
			Expect(d.Close()).To(Succeed())

			_, err = os.Stat(dbPath)
			Expect(err).NotTo(HaveOccurred())

			d, err = sqlite.NewDriver(dbPath)
			Expect(err).NotTo(HaveOccurred())
			defer d.Close()

			st, err := d.GetSession(context.Background(), 5)
			Expect(err).NotTo(HaveOccurred())
			Expect(st.Title).To(Equal("kept"))
		})

		It("fails for an unwritable path", func() {
			_, err := sqlite.NewDriver(filepath.Join(GinkgoT().TempDir(), "missing", "dir", "db.sqlite"))
			Expect(err).To(HaveOccurred())
		})
	})
})
