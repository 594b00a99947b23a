// Package cli implements the cascade command line tool.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/cascade"
	"github.com/lixenwraith/cascade/internal/logger"
)

var Version = "dev" // Overridden by ldflags

// app holds what every subcommand needs once flags are applied.
type app struct {
	basePath  string
	configDir string
	logLevel  string

	settings cascade.Settings
	log      *logger.Logger
}

// builder returns a loader builder for the resolved settings. The CLI never
// mirrors into its own process environment.
func (a *app) builder() *cascade.Builder {
	return cascade.NewBuilder().
		WithSettings(a.settings).
		WithLogger(a.log).
		WithoutMirror()
}

// NewRootCommand creates the cascade command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "cascade",
		Short: "Inspect and edit layered environment configuration",
		Long: `cascade resolves the environment name and shows how the layered
.env files and the structured base/<env>/local documents merge.

Loader settings are read from CASCADE_* variables; flags override them.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.configure(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.basePath, "base", "", "Directory holding the .env files (default: discovered from CASCADE_BASE_PATH or the working directory)")
	rootCmd.PersistentFlags().StringVar(&a.configDir, "config-dir", "", "Directory holding .environment and the structured layers (default: CASCADE_CONFIG_DIR or the base directory)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(newShowCommand(a))
	rootCmd.AddCommand(newDumpCommand(a))
	rootCmd.AddCommand(newEnvCommand(a))
	rootCmd.AddCommand(newSetCommand(a))

	return rootCmd
}

// configure applies settings from the environment, then the flags.
func (a *app) configure(cmd *cobra.Command) error {
	settings, err := cascade.LoadSettings()
	if err != nil {
		return err
	}

	if a.basePath != "" {
		settings.BasePath = a.basePath
	}
	settings.BasePath, _ = cascade.DiscoverBasePath(cascade.DiscoveryOptions{Explicit: settings.BasePath})

	if a.configDir != "" {
		settings.ConfigDir = a.configDir
	}
	if settings.ConfigDir == "" {
		settings.ConfigDir = settings.BasePath
	}

	if a.logLevel != "" {
		settings.LogLevel = a.logLevel
	}

	a.basePath = settings.BasePath
	a.configDir = settings.ConfigDir
	a.settings = settings
	a.log = logger.Console(cmd.ErrOrStderr(), logger.ParseLevel(settings.LogLevel))
	return nil
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
