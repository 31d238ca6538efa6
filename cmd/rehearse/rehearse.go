// Package rehearsecmder is the root rehearse command.
package rehearsecmder

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	versioncmder "github.com/papercomputeco/rehearse/cmd/version"
	answercmder "github.com/papercomputeco/rehearse/cmd/rehearse/answer"
	authcmder "github.com/papercomputeco/rehearse/cmd/rehearse/auth"
	configcmder "github.com/papercomputeco/rehearse/cmd/rehearse/config"
	nextcmder "github.com/papercomputeco/rehearse/cmd/rehearse/next"
	practicecmder "github.com/papercomputeco/rehearse/cmd/rehearse/practice"
	servecmder "github.com/papercomputeco/rehearse/cmd/rehearse/serve"
	sessioncmder "github.com/papercomputeco/rehearse/cmd/rehearse/session"
)

const rehearseLongDesc string = `Rehearse is a command line client for AI mock interviews.

Log in, pick a position and practice: questions are streamed from the
interview backend as they are generated and your answers are evaluated.

Getting started:
  rehearse login <username>
  rehearse session positions
  rehearse session create --position "Go Developer"
  rehearse session start <id>
  rehearse next
  rehearse answer "..."

Or practice interactively:
  rehearse practice

Run a local mock backend with:
  rehearse serve mock`

const rehearseShortDesc string = "Rehearse - AI mock interviews"

func NewRehearseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "rehearse",
		Short:        rehearseShortDesc,
		Long:         rehearseLongDesc,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return loadDotEnv()
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override path to .rehearse/ config directory")

	// Add subcommands
	cmd.AddCommand(authcmder.NewLoginCmd())
	cmd.AddCommand(authcmder.NewLogoutCmd())
	cmd.AddCommand(sessioncmder.NewSessionCmd())
	cmd.AddCommand(nextcmder.NewNextCmd())
	cmd.AddCommand(answercmder.NewAnswerCmd())
	cmd.AddCommand(practicecmder.NewPracticeCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}

// loadDotEnv loads a .env file from the working directory so REHEARSE_*
// variables can be kept next to a project. A missing file is fine.
func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}
	return nil
}
