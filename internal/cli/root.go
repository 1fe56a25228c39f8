package cli

import (
	"log/slog"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags and the configuration resolved from them.
type RootOptions struct {
	ConfigFile string
	Verbose    bool
	Format     string // "json" | "text"

	// Config and Logger are set before any subcommand runs.
	Config *Config
	Logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the sqlsafe CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "sqlsafe",
		Short: "sqlsafe - injection-safe SELECT builder",
		Long: `Build parameterized SQL SELECT statements from declarative query documents.

Every identifier is validated against a reserved-keyword list and every
literal is bound as an @param_N placeholder.

Configuration is read from sqlsafe.yaml, SQLSAFE_* environment variables
and flags, in increasing order of precedence.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(opts.ConfigFile, cmd.Flags())
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid configuration", err)
			}
			opts.Config = cfg
			opts.Format = cfg.Format
			opts.Verbose = cfg.Verbose
			opts.Logger = newLogger(cmd.ErrOrStderr(), cfg.Verbose)

			if cfg.File != "" {
				opts.Logger.Debug("loaded config", "file", cfg.File)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "config file (default sqlsafe.yaml)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().Bool("parenthesize-groups", false, "wrap nested condition groups in parentheses")
	cmd.PersistentFlags().StringSlice("extra-keywords", nil, "additional reserved words to reject as identifiers")

	// Add subcommands
	cmd.AddCommand(NewBuildCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// config returns the resolved configuration, or defaults when a subcommand
// is run without the root command.
func (o *RootOptions) config() *Config {
	if o.Config != nil {
		return o.Config
	}
	return &Config{Format: o.Format, Verbose: o.Verbose}
}

// logger returns the root logger, or a discarding one.
func (o *RootOptions) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.DiscardHandler)
}
