// Package configcmder provides the config command for managing persistent
// rehearse configuration stored in the .rehearse/ directory.
package configcmder

import (
	"github.com/spf13/cobra"

	"github.com/papercomputeco/rehearse/pkg/config"
)

const configLongDesc string = `Manage persistent rehearse configuration.

Configuration is stored as config.toml in the .rehearse/ directory and
provides default values for command flags. CLI flags and REHEARSE_*
environment variables take precedence over config file values.

Keys use dotted notation matching the TOML section structure:
  server.base_url,
  stream.timeout, stream.idle_timeout,
  storage.provider, storage.sqlite_path, storage.postgres_dsn,
  events.provider, events.brokers, events.topic,
  telemetry.enabled,
  mock.listen, mock.bank, mock.delay

Use subcommands to get, set, or list configuration values:
  rehearse config set <key> <value>    Set a configuration value
  rehearse config get <key>            Get a configuration value
  rehearse config list                 List all configuration values

Examples:
  rehearse config set server.base_url https://interview.example.com/api
  rehearse config set stream.idle_timeout 90s
  rehearse config get storage.provider
  rehearse config list`

const configShortDesc string = "Manage persistent rehearse configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}

func completeKeys(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return config.ValidConfigKeys(), cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}
