// Package cli wires configuration, stores and services into the oxidocs
// commands.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/parisxmas/oxidocs/internal/config"
)

// app is the state shared by every subcommand once config is loaded.
type app struct {
	cfgFile string
	cfg     *config.Config
}

// NewRootCommand builds the oxidocs command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "oxidocs",
		Short:         "Document lifecycle administration service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.cfgFile)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.setupLogging()
			return nil
		},
	}
	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (yaml, json or toml)")

	root.AddCommand(
		newServeCommand(a),
		newMigrateCommand(a),
		newSeedCommand(a),
		newUserCommand(a),
	)
	return root
}

// Execute runs the root command with os.Args.
func Execute() error {
	return NewRootCommand().Execute()
}
