package storageutils_test

import (
	"context"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/rehearse/pkg/config"
	"github.com/papercomputeco/rehearse/pkg/storage/inmemory"
	"github.com/papercomputeco/rehearse/pkg/storage/sqlite"
	storageutils "github.com/papercomputeco/rehearse/pkg/storage/utils"
)

var _ = Describe("ResolveSQLitePath", func() {
	var (
		homeDir string
		cwdDir  string
		origCwd string
	)

	BeforeEach(func() {
		var err error
		homeDir, err = os.MkdirTemp("", "rehearse-home-*")
		Expect(err).NotTo(HaveOccurred())
		cwdDir, err = os.MkdirTemp("", "rehearse-cwd-*")
		Expect(err).NotTo(HaveOccurred())
		origCwd, err = os.Getwd()
		Expect(err).NotTo(HaveOccurred())

		GinkgoT().Setenv("HOME", homeDir)
		GinkgoT().Setenv("XDG_DATA_HOME", "")
		GinkgoT().Setenv("REHEARSE_SQLITE", "")
		Expect(os.Chdir(cwdDir)).To(Succeed())
	})

	AfterEach(func() {
		Expect(os.Chdir(origCwd)).To(Succeed())
		os.RemoveAll(homeDir)
		os.RemoveAll(cwdDir)
	})

	It("prefers the override", func() {
		GinkgoT().Setenv("REHEARSE_SQLITE", "/tmp/env.db")
		path, err := storageutils.ResolveSQLitePath("/tmp/flag.db", "")
		Expect(err).NotTo(HaveOccurred())
		Expect(path).To(Equal("/tmp/flag.db"))
	})

	It("uses REHEARSE_SQLITE when set", func() {
		GinkgoT().Setenv("REHEARSE_SQLITE", "/tmp/env.db")
		path, err := storageutils.ResolveSQLitePath("", "")
		Expect(err).NotTo(HaveOccurred())
		Expect(path).To(Equal("/tmp/env.db"))
	})

	It("finds an existing database in the working directory", func() {
		Expect(os.WriteFile("rehearse.db", nil, 0o600)).To(Succeed())
		path, err := storageutils.ResolveSQLitePath("", "")
		Expect(err).NotTo(HaveOccurred())
		Expect(path).To(Equal("rehearse.db"))
	})

	It("defaults to the dot directory", func() {
		dotDir := filepath.Join(cwdDir, "state")
		path, err := storageutils.ResolveSQLitePath("", dotDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(path).To(Equal(filepath.Join(dotDir, "rehearse.db")))
		Expect(dotDir).To(BeADirectory())
	})
})

var _ = Describe("NewDriver", func() {
	ctx := context.Background()

	It("creates an in-memory driver", func() {
		d, err := storageutils.NewDriver(ctx, &storageutils.NewDriverOpts{ProviderType: config.StorageMemory})
		Expect(err).NotTo(HaveOccurred())
		Expect(d).To(BeAssignableToTypeOf(&inmemory.Driver{}))
		Expect(d.Close()).To(Succeed())
	})

	It("creates a SQLite driver at the given path", func() {
		tmpDir, err := os.MkdirTemp("", "rehearse-sqlite-*")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(os.RemoveAll, tmpDir)

		d, err := storageutils.NewDriver(ctx, &storageutils.NewDriverOpts{
			ProviderType: config.StorageSQLite,
			SQLitePath:   filepath.Join(tmpDir, "state.db"),
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(d).To(BeAssignableToTypeOf(&sqlite.Driver{}))
		Expect(d.Close()).To(Succeed())
		Expect(filepath.Join(tmpDir, "state.db")).To(BeAnExistingFile())
	})

	It("requires a DSN for postgres", func() {
		_, err := storageutils.NewDriver(ctx, &storageutils.NewDriverOpts{ProviderType: config.StoragePostgres})
		Expect(err).To(MatchError(ContainSubstring("postgres_dsn")))
	})

	It("rejects unknown providers", func() {
		_, err := storageutils.NewDriver(ctx, &storageutils.NewDriverOpts{ProviderType: "redis"})
		Expect(err).To(MatchError(ContainSubstring("unsupported storage provider")))
	})
})
