package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/lensquote/internal/config"
	"github.com/rgehrsitz/lensquote/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "lensquote %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.String()
	}
	return ""
}

// newRootCmd builds the command tree; tests build a fresh one per run
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "lensquote",
		Short: "Contact lens quote calculator",
		Long: `Contact lens pricing for the front desk.

Prices, rebates and fitting fees come from the clinic's pricing spreadsheet
(or inline tables in a quote file); lensquote derives boxes, subtotals,
out-of-pocket totals and the cost per box after rebate.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "Path to the application config (YAML); environment variables override it")
	root.PersistentFlags().Bool("debug", false, "Enable debug logging to stderr")

	root.AddCommand(calculateCmd())
	root.AddCommand(compareCmd())
	root.AddCommand(validateCmd())
	root.AddCommand(tablesCmd())
	root.AddCommand(printCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(tokenCmd())
	root.AddCommand(versionCmd())
	return root
}

// loggerFor returns a stderr logger with --debug, a no-op logger otherwise
func loggerFor(cmd *cobra.Command) logging.Logger {
	debugMode, _ := cmd.Flags().GetBool("debug")
	if !debugMode {
		return logging.NopLogger{}
	}
	return logging.NewStdLogger(cmd.ErrOrStderr(), "", true)
}

// appConfig loads --config plus the environment
func appConfig(cmd *cobra.Command) (*config.AppConfig, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadAppConfig(path)
	if err != nil {
		return nil, err
	}
	if debugMode, _ := cmd.Flags().GetBool("debug"); debugMode {
		cfg.Debug = true
	}
	return cfg, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
