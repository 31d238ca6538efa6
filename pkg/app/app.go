// Package app wires configuration, credentials, the interview client and
// local recording into the Runtime shared by rehearse commands.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/papercomputeco/rehearse/pkg/config"
	"github.com/papercomputeco/rehearse/pkg/credentials"
	"github.com/papercomputeco/rehearse/pkg/dotdir"
	"github.com/papercomputeco/rehearse/pkg/eventstream"
	eventstreamutils "github.com/papercomputeco/rehearse/pkg/eventstream/utils"
	"github.com/papercomputeco/rehearse/pkg/interview"
	"github.com/papercomputeco/rehearse/pkg/logger"
	"github.com/papercomputeco/rehearse/pkg/recorder"
	"github.com/papercomputeco/rehearse/pkg/storage"
	storageutils "github.com/papercomputeco/rehearse/pkg/storage/utils"
	"github.com/papercomputeco/rehearse/pkg/telemetry"
	"github.com/papercomputeco/rehearse/pkg/utils"
)

// ErrNoSession is returned when a command needs a session and none was
// given or selected.
var ErrNoSession = errors.New("no session selected: pass --session or run 'rehearse session start <id>'")

// Options configures New.
type Options struct {
	// ConfigDir overrides .rehearse/ directory resolution.
	ConfigDir string

	// Viper carries the resolved configuration. Defaults to InitViper(ConfigDir).
	Viper *viper.Viper

	Debug bool

	// LogWriter receives log output. Defaults to os.Stderr.
	LogWriter io.Writer

	// HTTPClient is passed to the interview client.
	HTTPClient *http.Client
}

// Runtime is everything a command needs to talk to the backend and record
// what happened.
type Runtime struct {
	ConfigDir   string
	Viper       *viper.Viper
	Logger      *slog.Logger
	Credentials *credentials.Manager
	Dotdir      *dotdir.Manager
	Client      *interview.Client
	Streamer    *interview.Streamer

	shutdownTracer telemetry.ShutdownFunc
	driver         storage.Driver
	publisher      eventstream.Publisher
	recorder       *recorder.Pool
}

// New builds a Runtime. Storage and event publishing are only set up once
// Recorder is called.
func New(o Options) (*Runtime, error) {
	v := o.Viper
	if v == nil {
		var err error
		v, err = config.InitViper(o.ConfigDir)
		if err != nil {
			return nil, err
		}
	}

	w := o.LogWriter
	if w == nil {
		w = os.Stderr
	}
	log := logger.New(
		logger.WithDebug(o.Debug),
		logger.WithWriter(w),
	)

	creds, err := credentials.NewManager(o.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("loading credentials: %w", err)
	}

	rt := &Runtime{
		ConfigDir:      o.ConfigDir,
		Viper:          v,
		Logger:         log,
		Credentials:    creds,
		Dotdir:         dotdir.NewManager(),
		shutdownTracer: telemetry.Noop,
	}

	if v.GetBool("telemetry.enabled") {
		rt.shutdownTracer, err = telemetry.InitTracer("rehearse", utils.Version, w, log)
		if err != nil {
			return nil, fmt.Errorf("initializing telemetry: %w", err)
		}
	}

	rt.Client, err = interview.NewClient(interview.Config{
		BaseURL:     v.GetString("server.base_url"),
		Tokens:      creds,
		HTTPClient:  o.HTTPClient,
		Timeout:     v.GetDuration("stream.timeout"),
		IdleTimeout: v.GetDuration("stream.idle_timeout"),
		Logger:      log,
	})
	if err != nil {
		return nil, err
	}
	rt.Streamer = interview.NewStreamer(rt.Client, nil)

	return rt, nil
}

// FromCommand builds a Runtime from the persistent --config-dir and --debug
// flags and the client flags registered with AddClientFlags.
func FromCommand(cmd *cobra.Command) (*Runtime, error) {
	configDir, _ := cmd.Flags().GetString("config-dir")
	debug, _ := cmd.Flags().GetBool("debug")

	v, err := config.InitViper(configDir)
	if err != nil {
		return nil, err
	}
	config.BindRegisteredFlags(v, cmd, config.ClientFlags, config.ClientFlagKeys)

	return New(Options{
		ConfigDir: configDir,
		Viper:     v,
		Debug:     debug,
		LogWriter: cmd.ErrOrStderr(),
	})
}

// AddClientFlags registers every client flag on cmd. Values are read back
// through viper, so the flag targets are not kept.
func AddClientFlags(cmd *cobra.Command) {
	for _, key := range config.ClientFlagKeys {
		if key == config.FlagTelemetry {
			var b bool
			config.AddBoolFlag(cmd, config.ClientFlags, key, &b)
			continue
		}
		var s string
		config.AddStringFlag(cmd, config.ClientFlags, key, &s)
	}
}

// Recorder returns the pool that persists questions and answers locally
// and publishes question events. It is created on first use.
func (r *Runtime) Recorder(ctx context.Context) (*recorder.Pool, error) {
	if r.recorder != nil {
		return r.recorder, nil
	}

	dir, err := r.Dotdir.Target(r.ConfigDir)
	if err != nil {
		return nil, err
	}

	r.driver, err = storageutils.NewDriver(ctx, &storageutils.NewDriverOpts{
		ProviderType: r.Viper.GetString("storage.provider"),
		SQLitePath:   r.Viper.GetString("storage.sqlite_path"),
		PostgresDSN:  r.Viper.GetString("storage.postgres_dsn"),
		DotDir:       dir,
		Logger:       r.Logger,
	})
	if err != nil {
		return nil, err
	}

	r.publisher, err = eventstreamutils.NewPublisher(&eventstreamutils.NewPublisherOpts{
		ProviderType: r.Viper.GetString("events.provider"),
		Brokers:      r.Viper.GetString("events.brokers"),
		Topic:        r.Viper.GetString("events.topic"),
		Logger:       r.Logger,
	})
	if err != nil {
		return nil, err
	}

	r.recorder, err = recorder.NewPool(&recorder.Config{
		Driver:    r.driver,
		Publisher: r.publisher,
		Source: eventstream.EventSource{
			Client:  "rehearse",
			Version: utils.Version,
			Backend: r.Client.BaseURL(),
		},
		Logger: r.Logger,
	})
	if err != nil {
		return nil, err
	}

	return r.recorder, nil
}

// Storage returns the local state driver, creating the recorder if needed.
func (r *Runtime) Storage(ctx context.Context) (storage.Driver, error) {
	if _, err := r.Recorder(ctx); err != nil {
		return nil, err
	}
	return r.driver, nil
}

// SessionID resolves the session a command acts on: the explicit id when
// non-zero, else the one selected with "rehearse session start".
func (r *Runtime) SessionID(explicit int64) (int64, error) {
	if explicit > 0 {
		return explicit, nil
	}

	current, err := r.Dotdir.LoadCurrent(r.ConfigDir)
	if err != nil {
		return 0, err
	}
	if current == nil || current.SessionID == 0 {
		return 0, ErrNoSession
	}
	return current.SessionID, nil
}

// Close drains the recorder, then releases storage, the publisher and the
// tracer.
func (r *Runtime) Close(ctx context.Context) error {
	var errs []error

	if r.recorder != nil {
		r.recorder.Close()
	}
	if r.publisher != nil {
		errs = append(errs, r.publisher.Close())
	}
	if r.driver != nil {
		errs = append(errs, r.driver.Close())
	}
	errs = append(errs, r.shutdownTracer(ctx))

	return errors.Join(errs...)
}
