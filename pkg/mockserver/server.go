// Package mockserver provides a local stand-in for the interview backend.
// It serves the JSON envelope API and the question event stream, drawing
// questions from a TOML question bank, so the CLI can be exercised without
// the real service.
package mockserver

import (
	"log/slog"
	"net"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/papercomputeco/rehearse/pkg/logger"
)

// Config is the mock server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8080")
	ListenAddr string

	// BankPath is an optional question bank file. The built-in bank is used
	// when empty.
	BankPath string

	// ChunkDelay is the pause between streamed question fragments.
	ChunkDelay time.Duration

	Logger *slog.Logger
}

// Server is the mock interview backend.
type Server struct {
	config Config
	bank   *Bank
	state  *state
	logger *slog.Logger
	app    *fiber.App
}

// NewServer creates a mock server. Routes are mounted under /api to match
// the real backend's base URL.
func NewServer(config Config) (*Server, error) {
	if config.Logger == nil {
		config.Logger = logger.Nop()
	}

	bank := DefaultBank()
	if config.BankPath != "" {
		var err error
		bank, err = LoadBank(config.BankPath)
		if err != nil {
			return nil, err
		}
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{
		config: config,
		bank:   bank,
		state:  newState(),
		logger: config.Logger,
		app:    app,
	}

	api := app.Group("/api")
	api.Post("/auth/login", s.handleLogin)

	authed := api.Group("", s.requireToken)
	authed.Post("/auth/logout", s.handleLogout)
	authed.Get("/auth/profile", s.handleProfile)
	authed.Get("/positions", s.handlePositions)

	authed.Post("/interview/create", s.handleCreate)
	authed.Get("/interview/list", s.handleList)
	authed.Post("/interview/submit-answer", s.handleSubmitAnswer)
	authed.Get("/interview/:id", s.handleGetSession)
	authed.Delete("/interview/:id", s.handleDeleteSession)
	authed.Post("/interview/:id/start", s.handleStart)
	authed.Post("/interview/:id/finish", s.handleFinish)
	authed.Get("/interview/:id/questions", s.handleQuestions)
	authed.Get("/interview/:id/evaluations", s.handleEvaluations)
	authed.Get("/interview/:id/next-question-stream", s.handleQuestionStream)

	return s, nil
}

// Bank returns the question bank served by s.
func (s *Server) Bank() *Bank {
	return s.bank
}

// Run starts the mock server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting mock backend",
		"listen", s.config.ListenAddr,
		"questions", s.bank.Len(),
	)
	return s.app.Listen(s.config.ListenAddr)
}

// RunWithListener starts the mock server using the provided listener.
func (s *Server) RunWithListener(listener net.Listener) error {
	s.logger.Info("starting mock backend",
		"listen", listener.Addr().String(),
		"questions", s.bank.Len(),
	)
	return s.app.Listener(listener)
}

// Shutdown gracefully shuts down the mock server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
