// Package servecmder provides the serve command with subcommands for running
// local services.
package servecmder

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/rehearse/pkg/config"
	"github.com/papercomputeco/rehearse/pkg/logger"
	"github.com/papercomputeco/rehearse/pkg/mockserver"
)

const serveLongDesc string = `Run local rehearse services.

  rehearse serve mock    Run a mock interview backend`

const serveShortDesc string = "Run local rehearse services"

func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
	}

	cmd.AddCommand(NewMockCmd())

	return cmd
}

const mockLongDesc string = `Run a mock interview backend.

The mock backend serves the same API as the real one under /api, accepts any
username and password, and streams questions from a question bank. Point the
CLI at it with --base-url http://localhost:8080/api.

A custom bank is a TOML file and is reloaded whenever it changes:

  [[position]]
  id = 1
  name = "Go Developer"
  category = "Backend"
  level = "senior"

  [[question]]
  position = "Go Developer"
  text = "How does the Go scheduler multiplex goroutines?"

Examples:
  rehearse serve mock
  rehearse serve mock --listen :9090 --bank questions.toml
  rehearse serve mock --delay 0s --log-file mock.log
  rehearse serve mock --log-format json`

const mockShortDesc string = "Run a mock interview backend"

type mockCommander struct {
	listen  string
	bank    string
	delay   string
	logFile   string
	logFormat string

	debug  bool
	errOut io.Writer
	logger *slog.Logger
}

func NewMockCmd() *cobra.Command {
	cmder := &mockCommander{}

	cmd := &cobra.Command{
		Use:   "mock",
		Short: mockShortDesc,
		Long:  mockLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			v, err := config.InitViper(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			config.BindRegisteredFlags(v, cmd, config.MockFlags, config.MockFlagKeys)

			cmder.listen = v.GetString("mock.listen")
			cmder.bank = v.GetString("mock.bank")
			cmder.delay = v.GetString("mock.delay")
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}
			cmder.errOut = cmd.ErrOrStderr()
			return cmder.run(cmd.Context())
		},
	}

	config.AddStringFlag(cmd, config.MockFlags, config.FlagMockListen, &cmder.listen)
	config.AddStringFlag(cmd, config.MockFlags, config.FlagMockBank, &cmder.bank)
	config.AddStringFlag(cmd, config.MockFlags, config.FlagMockStreamDelay, &cmder.delay)
	cmd.Flags().StringVar(&cmder.logFile, "log-file", "", "Also write JSON logs to this file")
	cmd.Flags().StringVar(&cmder.logFormat, "log-format", string(logger.FormatPretty), "Console log format (pretty, json, text)")

	return cmd
}

func (c *mockCommander) run(ctx context.Context) error {
	delay, err := time.ParseDuration(c.delay)
	if err != nil {
		return fmt.Errorf("invalid --delay %q: %w", c.delay, err)
	}

	closeLog, err := c.setupLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	server, err := mockserver.NewServer(mockserver.Config{
		ListenAddr: c.listen,
		BankPath:   c.bank,
		ChunkDelay: delay,
		Logger:     c.logger,
	})
	if err != nil {
		return fmt.Errorf("creating mock backend: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if c.bank != "" {
		watcher, err := mockserver.NewBankWatcher(server.Bank(), c.bank, c.logger)
		if err != nil {
			return err
		}
		go watcher.Run(ctx)
		c.logger.Info("watching question bank", "path", c.bank)
	}

	errChan := make(chan error, 1)
	go func() {
		if err := server.Run(); err != nil {
			errChan <- fmt.Errorf("mock backend error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		c.logger.Info("received signal, shutting down", "signal", sig.String())
	case <-ctx.Done():
	}

	return server.Shutdown()
}

// setupLogger logs to stderr in --log-format, and to a JSON file as well
// when --log-file is set. The returned func closes the file.
func (c *mockCommander) setupLogger() (func(), error) {
	format, err := logger.ParseFormat(c.logFormat)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-format: %w", err)
	}

	console := logger.New(
		logger.WithDebug(c.debug),
		logger.WithFormat(format),
		logger.WithComponent("mock"),
		logger.WithWriter(c.stderr()),
	)

	if c.logFile == "" {
		c.logger = console
		return func() {}, nil
	}

	file, closeFile, err := logger.OpenFile(c.logFile,
		logger.WithDebug(c.debug),
		logger.WithComponent("mock"),
	)
	if err != nil {
		return nil, err
	}

	c.logger = logger.Multi(console, file)
	return func() { _ = closeFile() }, nil
}

func (c *mockCommander) stderr() io.Writer {
	if c.errOut != nil {
		return c.errOut
	}
	return os.Stderr
}
