// Package main provides the lof-merge command-line tool.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
	ExitUsage   = 2
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// logger is installed by the root command before any subcommand runs.
var logger = zap.NewNop()

func main() {
	os.Exit(run())
}

func run() int {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		var cfgErr *configError
		if errors.As(err, &cfgErr) {
			return ExitUsage
		}
		return ExitError
	}
	return ExitSuccess
}

func newRootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:     "lof-merge",
		Short:   "Merge per-study LoF genotype tables for mega-analysis",
		Long:    "lof-merge pools SNP loss-of-function genotype tables from multiple cohort studies into one combined table, recomputing carrier counts and frequencies from the raw per-sample genotypes.",
		Version: fmt.Sprintf("%s (%s) built %s", version, commit, date),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg := zap.NewDevelopmentConfig()
			if !verbose {
				// Keep parse warnings, drop per-study progress.
				cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
			}
			if l, err := cfg.Build(); err == nil {
				logger = l
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")

	cobra.OnInitialize(initConfig)

	cmd.AddCommand(newMergeCmd())
	cmd.AddCommand(newStatsCmd())
	cmd.AddCommand(newConfigCmd())

	return cmd
}

// initConfig loads persisted defaults from ~/.loftk.yaml, if present.
func initConfig() {
	home, err := os.UserHomeDir()
	if err != nil {
		return
	}

	viper.AddConfigPath(home)
	viper.SetConfigName(".loftk")
	viper.SetConfigType("yaml")
	viper.SetConfigFile(filepath.Join(home, ".loftk.yaml"))

	// A missing config file is fine; defaults apply.
	_ = viper.ReadInConfig()
}

// configError marks a command-line or configuration problem, reported
// with the usage exit code and never after output has been written.
type configError struct {
	msg string
}

func (e *configError) Error() string {
	return e.msg
}

func configErrorf(format string, args ...interface{}) error {
	return &configError{msg: fmt.Sprintf(format, args...)}
}
