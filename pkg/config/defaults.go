package config

const (
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
	StorageMemory   = "memory"

	EventsNone  = "none"
	EventsKafka = "kafka"
)

const (
	defaultBaseURL = "http://localhost:8080/api"

	// The backend generates questions with an LLM; the web client allowed
	// ten minutes per request.
	defaultStreamTimeout     = "10m"
	defaultStreamIdleTimeout = "60s"

	defaultStorageProvider = StorageSQLite

	defaultEventsProvider = EventsNone
	defaultEventsTopic    = "rehearse.questions"

	defaultMockListen = ":8080"
	defaultMockDelay  = "40ms"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Server: ServerConfig{
			BaseURL: defaultBaseURL,
		},
		Stream: StreamConfig{
			Timeout:     defaultStreamTimeout,
			IdleTimeout: defaultStreamIdleTimeout,
		},
		Storage: StorageConfig{
			Provider: defaultStorageProvider,
		},
		Events: EventsConfig{
			Provider: defaultEventsProvider,
			Topic:    defaultEventsTopic,
		},
		Mock: MockConfig{
			Listen: defaultMockListen,
			Delay:  defaultMockDelay,
		},
	}
}
