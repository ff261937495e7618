// Package cli implements the gopherjt command line tool.
package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/crillab/gopherjt/internal/logging"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose   bool
	LogLevel  string // "debug" | "info" | "warn" | "error"
	Format    string // "json" | "text"
	LogFormat string // "json" | "text"

	logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command of the gopherjt tool.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "gopherjt",
		Short: "Find the best joint assignments of discrete variables with a junction tree",
		Long: `gopherjt minimizes scores that decompose over small overlapping sets of variables.

Problems (variables, forbidden tuples, score tables) are described in YAML files,
junction trees in a simple text format listing nodes then edges.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			if !isValidFormat(opts.LogFormat) {
				return fmt.Errorf("invalid log format %q: must be one of %v", opts.LogFormat, ValidFormats)
			}
			level, err := logging.ParseLevel(opts.LogLevel)
			if err != nil {
				return err
			}
			if opts.Verbose {
				level = logging.LevelDebug
			}
			opts.logger = logging.New(logging.Config{
				Level:   level,
				JSON:    opts.LogFormat == "json",
				Writer:  cmd.ErrOrStderr(),
				Service: "gopherjt",
			})
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log debug information (same as --log-level debug)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "warn", "minimum level of logged messages (debug|info|warn|error)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.LogFormat, "log-format", "text", "log format (json|text)")

	cmd.AddCommand(NewInferCommand(opts))
	cmd.AddCommand(NewEnumerateCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
