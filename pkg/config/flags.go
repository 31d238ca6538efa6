package config

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flag is the single source of truth for a CLI flag.
// Commands reference flags by registry key rather than hard-coding names,
// shorthands, defaults, and descriptions inline. The same logical flag
// (e.g. --base-url on "rehearse next" and "rehearse practice") cannot drift.
type Flag struct {
	// Name is the long flag name (e.g. "base-url").
	Name string

	// Shorthand is the one-letter short flag (e.g. "u"). Empty for no shorthand.
	Shorthand string

	// ViperKey is the dotted config key this flag maps to (e.g. "server.base_url").
	ViperKey string

	// Description is the help text shown in --help output.
	Description string
}

// FlagSet is a mapping of flag names to Flag structs that hold their name,
// shorthand, viper key, etc.
type FlagSet map[string]Flag

// Flag registry keys.
const (
	FlagBaseURL         = "base-url"
	FlagTimeout         = "timeout"
	FlagIdleTimeout     = "idle-timeout"
	FlagStorage         = "storage"
	FlagSQLite          = "sqlite"
	FlagPostgresDSN     = "postgres-dsn"
	FlagEventsProvider  = "events"
	FlagKafkaBrokers    = "kafka-brokers"
	FlagKafkaTopic      = "kafka-topic"
	FlagTelemetry       = "telemetry"
	FlagMockListen      = "listen"
	FlagMockBank        = "bank"
	FlagMockStreamDelay = "delay"
)

// ClientFlags are shared by every command that talks to the backend.
var ClientFlags = FlagSet{
	FlagBaseURL: {
		Name:        "base-url",
		Shorthand:   "u",
		ViperKey:    "server.base_url",
		Description: "Interview backend base URL, including the API prefix",
	},
	FlagTimeout: {
		Name:        "timeout",
		ViperKey:    "stream.timeout",
		Description: "Ceiling on a whole question stream",
	},
	FlagIdleTimeout: {
		Name:        "idle-timeout",
		ViperKey:    "stream.idle_timeout",
		Description: "Longest gap allowed between two reads of the question stream",
	},
	FlagStorage: {
		Name:        "storage",
		ViperKey:    "storage.provider",
		Description: "Local state storage provider (sqlite, postgres, memory)",
	},
	FlagSQLite: {
		Name:        "sqlite",
		Shorthand:   "s",
		ViperKey:    "storage.sqlite_path",
		Description: "Path to the SQLite database (default: .rehearse/rehearse.db)",
	},
	FlagPostgresDSN: {
		Name:        "postgres-dsn",
		ViperKey:    "storage.postgres_dsn",
		Description: "PostgreSQL connection string",
	},
	FlagEventsProvider: {
		Name:        "events",
		ViperKey:    "events.provider",
		Description: "Question event publisher (none, kafka)",
	},
	FlagKafkaBrokers: {
		Name:        "kafka-brokers",
		ViperKey:    "events.brokers",
		Description: "Comma separated Kafka brokers",
	},
	FlagKafkaTopic: {
		Name:        "kafka-topic",
		ViperKey:    "events.topic",
		Description: "Kafka topic for question events",
	},
	FlagTelemetry: {
		Name:        "telemetry",
		ViperKey:    "telemetry.enabled",
		Description: "Write OpenTelemetry spans to stderr",
	},
}

// MockFlags are used by "rehearse serve mock".
var MockFlags = FlagSet{
	FlagMockListen: {
		Name:        "listen",
		Shorthand:   "l",
		ViperKey:    "mock.listen",
		Description: "Address for the mock backend to listen on",
	},
	FlagMockBank: {
		Name:        "bank",
		Shorthand:   "b",
		ViperKey:    "mock.bank",
		Description: "TOML question bank, reloaded on change",
	},
	FlagMockStreamDelay: {
		Name:        "delay",
		ViperKey:    "mock.delay",
		Description: "Pause between streamed question fragments",
	},
}

// ClientFlagKeys lists every key in ClientFlags in registration order.
var ClientFlagKeys = []string{
	FlagBaseURL,
	FlagTimeout,
	FlagIdleTimeout,
	FlagStorage,
	FlagSQLite,
	FlagPostgresDSN,
	FlagEventsProvider,
	FlagKafkaBrokers,
	FlagKafkaTopic,
	FlagTelemetry,
}

// MockFlagKeys lists every key in MockFlags in registration order.
var MockFlagKeys = []string{
	FlagMockListen,
	FlagMockBank,
	FlagMockStreamDelay,
}

// AddStringFlag registers a string flag on cmd from the given FlagSet.
// The flag's name, shorthand, default, and description all come from the
// FlagSet entry so they cannot drift across commands.
func AddStringFlag(cmd *cobra.Command, fs FlagSet, key string, target *string) {
	def, ok := fs[key]
	if !ok {
		return
	}

	defaultVal := defaultString(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().StringVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().StringVar(target, def.Name, defaultVal, def.Description)
	}
}

// AddBoolFlag registers a bool flag on cmd from the given FlagSet.
func AddBoolFlag(cmd *cobra.Command, fs FlagSet, key string, target *bool) {
	def, ok := fs[key]
	if !ok {
		return
	}

	defaultVal := defaultBool(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().BoolVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().BoolVar(target, def.Name, defaultVal, def.Description)
	}
}

// BindRegisteredFlags binds already-registered flags to viper using definitions
// from the given FlagSet. Call this in PreRunE after InitViper to connect flags
// to the viper precedence chain (flag > env > config file > default).
func BindRegisteredFlags(v *viper.Viper, cmd *cobra.Command, fs FlagSet, registryKeys []string) {
	for _, registryKey := range registryKeys {
		def, ok := fs[registryKey]
		if !ok {
			continue
		}

		f := cmd.Flags().Lookup(def.Name)
		if f == nil {
			continue
		}

		_ = v.BindPFlag(def.ViperKey, f)
	}
}

// defaultString returns the default string value for a viper key from NewDefaultConfig.
func defaultString(viperKey string) string {
	v := viper.New()
	setViperDefaults(v)
	return v.GetString(viperKey)
}

// defaultBool returns the default bool value for a viper key from NewDefaultConfig.
func defaultBool(viperKey string) bool {
	v := viper.New()
	setViperDefaults(v)
	return v.GetBool(viperKey)
}
