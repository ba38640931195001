package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"qgate/internal/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	logLevel  string
	logFormat string
}

var rootCmd = &cobra.Command{
	Use:   "qgate",
	Short: "Quality gate for agent pipeline completion artifacts",
	Long: "Qgate validates the completion reports an agent pipeline is expected to\n" +
		"produce, aggregates them into a coverage report, and blocks progression\n" +
		"when coverage is incomplete.",
	SilenceUsage: true,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	PersistentPreRun: func(*cobra.Command, []string) {
		logging.Init(logging.ParseLevel(rootFlags.logLevel), rootFlags.logFormat)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&rootFlags.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	pf.StringVar(&rootFlags.logFormat, "log-format", "text", "Log format (text, json)")

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
