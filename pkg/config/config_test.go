package config_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/rehearse/pkg/config"
)

var _ = Describe("Configer config", func() {
	var tmpDir string

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
	})

	Describe("LoadConfig", func() {
		It("returns default config when no config file exists", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			cfg, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg).To(Equal(config.NewDefaultConfig()))
		})

		It("loads all config fields", func() {
			data := `version = 0

[server]
base_url = "https://interview.example.com/api"

[stream]
timeout = "2m"
idle_timeout = "15s"

[storage]
provider = "postgres"
postgres_dsn = "postgres://localhost/rehearse"

[events]
provider = "kafka"
brokers = "k1:9092,k2:9092"
topic = "questions"

[telemetry]
enabled = true

[mock]
listen = ":9999"
bank = "/tmp/bank.toml"
delay = "5ms"
`
			Expect(os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(data), 0o600)).To(Succeed())

			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			cfg, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Server.BaseURL).To(Equal("https://interview.example.com/api"))
			Expect(cfg.Stream.Timeout).To(Equal("2m"))
			Expect(cfg.Stream.IdleTimeout).To(Equal("15s"))
			Expect(cfg.Storage.Provider).To(Equal(config.StoragePostgres))
			Expect(cfg.Storage.PostgresDSN).To(Equal("postgres://localhost/rehearse"))
			Expect(cfg.Events.Provider).To(Equal(config.EventsKafka))
			Expect(cfg.Events.Brokers).To(Equal("k1:9092,k2:9092"))
			Expect(cfg.Events.Topic).To(Equal("questions"))
			Expect(cfg.Telemetry.Enabled).To(BeTrue())
			Expect(cfg.Mock.Listen).To(Equal(":9999"))
			Expect(cfg.Mock.Bank).To(Equal("/tmp/bank.toml"))
			Expect(cfg.Mock.Delay).To(Equal("5ms"))
		})

		It("fills omitted fields with defaults", func() {
			data := `[server]
base_url = "http://remote/api"
`
			Expect(os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(data), 0o600)).To(Succeed())

			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			cfg, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Server.BaseURL).To(Equal("http://remote/api"))
			Expect(cfg.Stream.Timeout).To(Equal("10m"))
			Expect(cfg.Stream.IdleTimeout).To(Equal("60s"))
			Expect(cfg.Storage.Provider).To(Equal(config.StorageSQLite))
			Expect(cfg.Events.Provider).To(Equal(config.EventsNone))
		})

		It("returns error for malformed TOML", func() {
			Expect(os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("not valid toml [[["), 0o600)).To(Succeed())

			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			cfg, err := c.LoadConfig()
			Expect(err).To(HaveOccurred())
			Expect(cfg).To(BeNil())
		})

		It("returns error for unsupported config version", func() {
			Expect(os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("version = 99\n"), 0o600)).To(Succeed())

			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			cfg, err := c.LoadConfig()
			Expect(err).To(MatchError(ContainSubstring("unsupported config version")))
			Expect(cfg).To(BeNil())
		})
	})

	Describe("SaveConfig", func() {
		It("round-trips every field", func() {
			cfg := config.NewDefaultConfig()
			cfg.Server.BaseURL = "http://elsewhere/api"
			cfg.Storage.SQLitePath = "/tmp/rehearse.sqlite"
			cfg.Events.Brokers = "localhost:9092"
			cfg.Telemetry.Enabled = true
			cfg.Mock.Bank = "bank.toml"

			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.SaveConfig(cfg)).To(Succeed())

			info, err := os.Stat(filepath.Join(tmpDir, "config.toml"))
			Expect(err).NotTo(HaveOccurred())
			Expect(info.Mode().Perm()).To(Equal(os.FileMode(0o600)))

			loaded, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded).To(Equal(cfg))
		})

		It("returns error for nil config", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.SaveConfig(nil)).NotTo(Succeed())
		})
	})

	Describe("SetConfigValue and GetConfigValue", func() {
		var c *config.Configer

		BeforeEach(func() {
			var err error
			c, err = config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())
		})

		It("sets and gets a string key", func() {
			Expect(c.SetConfigValue("server.base_url", "http://remote:8080/api")).To(Succeed())

			val, err := c.GetConfigValue("server.base_url")
			Expect(err).NotTo(HaveOccurred())
			Expect(val).To(Equal("http://remote:8080/api"))
		})

		It("validates duration keys", func() {
			Expect(c.SetConfigValue("stream.idle_timeout", "30s")).To(Succeed())

			err := c.SetConfigValue("stream.timeout", "forever")
			Expect(err).To(MatchError(ContainSubstring("invalid value for stream.timeout")))

			val, err := c.GetConfigValue("stream.idle_timeout")
			Expect(err).NotTo(HaveOccurred())
			Expect(val).To(Equal("30s"))
		})

		It("validates enumerated keys", func() {
			Expect(c.SetConfigValue("storage.provider", "memory")).To(Succeed())
			Expect(c.SetConfigValue("storage.provider", "redis")).To(MatchError(ContainSubstring("invalid value")))
			Expect(c.SetConfigValue("events.provider", "kafka")).To(Succeed())
			Expect(c.SetConfigValue("events.provider", "nats")).NotTo(Succeed())
		})

		It("sets a bool key", func() {
			Expect(c.SetConfigValue("telemetry.enabled", "true")).To(Succeed())

			val, err := c.GetConfigValue("telemetry.enabled")
			Expect(err).NotTo(HaveOccurred())
			Expect(val).To(Equal("true"))

			Expect(c.SetConfigValue("telemetry.enabled", "maybe")).NotTo(Succeed())
		})

		It("preserves existing values when setting a new key", func() {
			Expect(c.SetConfigValue("events.brokers", "a:9092")).To(Succeed())
			Expect(c.SetConfigValue("events.topic", "t")).To(Succeed())

			cfg, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Events.Brokers).To(Equal("a:9092"))
			Expect(cfg.Events.Topic).To(Equal("t"))
		})

		It("returns defaults when nothing has been set", func() {
			val, err := c.GetConfigValue("mock.listen")
			Expect(err).NotTo(HaveOccurred())
			Expect(val).To(Equal(":8080"))

			val, err = c.GetConfigValue("storage.sqlite_path")
			Expect(err).NotTo(HaveOccurred())
			Expect(val).To(BeEmpty())
		})

		It("rejects unknown keys", func() {
			Expect(c.SetConfigValue("proxy.upstream", "x")).To(MatchError(ContainSubstring("unknown config key")))
			_, err := c.GetConfigValue("nope")
			Expect(err).To(MatchError(ContainSubstring("unknown config key")))
		})
	})

	Describe("ValidConfigKeys", func() {
		It("lists every key in section order", func() {
			keys := config.ValidConfigKeys()
			Expect(keys).To(HaveLen(13))
			Expect(keys[0]).To(Equal("server.base_url"))
			Expect(keys).To(ContainElements("stream.timeout", "events.topic", "mock.delay"))
			for _, k := range keys {
				Expect(config.IsValidConfigKey(k)).To(BeTrue())
			}
		})

		It("rejects empty and flat names", func() {
			Expect(config.IsValidConfigKey("")).To(BeFalse())
			Expect(config.IsValidConfigKey("base_url")).To(BeFalse())
		})
	})
})

var _ = Describe("InitViper", func() {
	var tmpDir string

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
	})

	It("uses defaults when no file or env is present", func() {
		v, err := config.InitViper(tmpDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(v.GetString("server.base_url")).To(Equal("http://localhost:8080/api"))
		Expect(v.GetDuration("stream.timeout").Minutes()).To(BeNumerically("==", 10))
	})

	It("prefers env over file over defaults", func() {
		data := `[stream]
idle_timeout = "5s"
timeout = "1m"
`
		Expect(os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(data), 0o600)).To(Succeed())
		GinkgoT().Setenv("REHEARSE_STREAM_TIMEOUT", "3m")

		v, err := config.InitViper(tmpDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(v.GetString("stream.idle_timeout")).To(Equal("5s"))
		Expect(v.GetString("stream.timeout")).To(Equal("3m"))
	})
})
