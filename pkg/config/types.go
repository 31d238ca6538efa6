package config

import (
	"fmt"
	"strconv"
	"time"
)

// Config represents the persistent rehearse configuration stored as
// config.toml in the .rehearse/ directory. The TOML layout uses sections for
// logical grouping.
type Config struct {
	Version   int             `toml:"version"`
	Server    ServerConfig    `toml:"server"`
	Stream    StreamConfig    `toml:"stream"`
	Storage   StorageConfig   `toml:"storage"`
	Events    EventsConfig    `toml:"events"`
	Telemetry TelemetryConfig `toml:"telemetry"`
	Mock      MockConfig      `toml:"mock"`
}

// ServerConfig points the client at the interview backend.
type ServerConfig struct {
	// BaseURL includes the API prefix, e.g. "http://localhost:8080/api".
	BaseURL string `toml:"base_url,omitempty"`
}

// StreamConfig bounds the question stream. Values are Go duration strings.
type StreamConfig struct {
	// Timeout is the ceiling on a whole stream.
	Timeout string `toml:"timeout,omitempty"`

	// IdleTimeout is the longest gap allowed between two reads.
	IdleTimeout string `toml:"idle_timeout,omitempty"`
}

// StorageConfig selects where local session state is kept.
type StorageConfig struct {
	// Provider is one of "sqlite", "postgres" or "memory".
	Provider    string `toml:"provider,omitempty"`
	SQLitePath  string `toml:"sqlite_path,omitempty"`
	PostgresDSN string `toml:"postgres_dsn,omitempty"`
}

// EventsConfig selects where question-streamed events are published.
type EventsConfig struct {
	// Provider is "none" or "kafka".
	Provider string `toml:"provider,omitempty"`

	// Brokers is a comma separated list of host:port pairs.
	Brokers string `toml:"brokers,omitempty"`
	Topic   string `toml:"topic,omitempty"`
}

// TelemetryConfig toggles OpenTelemetry tracing to stderr.
type TelemetryConfig struct {
	Enabled bool `toml:"enabled,omitempty"`
}

// MockConfig configures "rehearse serve mock".
type MockConfig struct {
	Listen string `toml:"listen,omitempty"`

	// Bank is an optional TOML question bank; it is reloaded on change.
	Bank string `toml:"bank,omitempty"`

	// Delay is the pause between streamed fragments.
	Delay string `toml:"delay,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

func durationKey(get func(c *Config) *string, name string) configKeyInfo {
	return configKeyInfo{
		get: func(c *Config) string { return *get(c) },
		set: func(c *Config, v string) error {
			if _, err := time.ParseDuration(v); err != nil {
				return fmt.Errorf("invalid value for %s: %w", name, err)
			}
			*get(c) = v
			return nil
		},
	}
}

func stringKey(get func(c *Config) *string) configKeyInfo {
	return configKeyInfo{
		get: func(c *Config) string { return *get(c) },
		set: func(c *Config, v string) error { *get(c) = v; return nil },
	}
}

func oneOfKey(get func(c *Config) *string, name string, allowed ...string) configKeyInfo {
	return configKeyInfo{
		get: func(c *Config) string { return *get(c) },
		set: func(c *Config, v string) error {
			for _, a := range allowed {
				if v == a {
					*get(c) = v
					return nil
				}
			}
			return fmt.Errorf("invalid value for %s: %q (allowed: %v)", name, v, allowed)
		},
	}
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"server.base_url":     stringKey(func(c *Config) *string { return &c.Server.BaseURL }),
	"stream.timeout":      durationKey(func(c *Config) *string { return &c.Stream.Timeout }, "stream.timeout"),
	"stream.idle_timeout": durationKey(func(c *Config) *string { return &c.Stream.IdleTimeout }, "stream.idle_timeout"),
	"storage.provider": oneOfKey(func(c *Config) *string { return &c.Storage.Provider }, "storage.provider",
		StorageSQLite, StoragePostgres, StorageMemory),
	"storage.sqlite_path":  stringKey(func(c *Config) *string { return &c.Storage.SQLitePath }),
	"storage.postgres_dsn": stringKey(func(c *Config) *string { return &c.Storage.PostgresDSN }),
	"events.provider": oneOfKey(func(c *Config) *string { return &c.Events.Provider }, "events.provider",
		EventsNone, EventsKafka),
	"events.brokers": stringKey(func(c *Config) *string { return &c.Events.Brokers }),
	"events.topic":   stringKey(func(c *Config) *string { return &c.Events.Topic }),
	"telemetry.enabled": {
		get: func(c *Config) string { return strconv.FormatBool(c.Telemetry.Enabled) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid value for telemetry.enabled: %w", err)
			}
			c.Telemetry.Enabled = b
			return nil
		},
	},
	"mock.listen": stringKey(func(c *Config) *string { return &c.Mock.Listen }),
	"mock.bank":   stringKey(func(c *Config) *string { return &c.Mock.Bank }),
	"mock.delay":  durationKey(func(c *Config) *string { return &c.Mock.Delay }, "mock.delay"),
}
