// Package cli provides the protoguard command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/sirkon/protoguard/internal/config"
)

// Version information, set at build time.
var (
	Version   = "0.1.0-dev"
	GitCommit = ""
)

// ErrViolations is returned by the check command when error severity
// diagnostics were reported.
var ErrViolations = errors.New("contract violations found")

type globalOptions struct {
	configPath string
	logLevel   string
	noColor    bool
}

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}
	rootCmd := &cobra.Command{
		Use:   "protoguard",
		Short: "Check serialization contract annotations of Go types",
		Long: `protoguard validates serialization contract annotations attached to Go types:
field numbers, reservations, includes of embedded sub-types and constructors.

Contracts are declared with //protoguard: directives in type doc comments and
proto:"<n>" struct tags.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default: "+config.FileName+" looked up from the working directory)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level: trace, debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	_ = rootCmd.RegisterFlagCompletionFunc("log-level", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"trace", "debug", "info", "warn", "error"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(newCheckCommand(opts))
	rootCmd.AddCommand(newRulesCommand(opts))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

// Execute runs the root command with process arguments.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

func (o *globalOptions) logger(w io.Writer) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(o.logLevel)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("parse log level: %w", err)
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: o.noColor}).
		Level(level).
		With().
		Timestamp().
		Logger(), nil
}

func (o *globalOptions) config() (*config.Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	cfg, err := config.Resolve(o.configPath, wd)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	return cfg, nil
}
