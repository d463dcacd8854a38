// Package main provides the entry point for the job assistant CLI.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var rootCmd = &cobra.Command{
	Use:   "job_assistant",
	Short: "Resume analysis and interview answer assistant",
	Long: `Job assistant talks to the resume analysis backend: it analyzes resume text, generates
interview answers scoped to the active analysis, and keeps the saved answers in view.

Configuration can be loaded from a JSON file using --config. Command-line flags override config
file values, which override environment variables.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	rootConfigPath string
	rootBaseURL    string
	rootUserID     int64
	rootTimeout    string
	rootPageSize   int
	rootLogLevel   string
	rootLogFile    string
	rootVerbose    bool
)

func init() {
	bindRootFlags(rootCmd.PersistentFlags())
}

// bindRootFlags registers the flags shared by every command.
func bindRootFlags(flags *pflag.FlagSet) {
	flags.StringVar(&rootConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	flags.StringVar(&rootBaseURL, "base-url", "", "Backend base URL (defaults to JOB_ASSISTANT_BASE_URL or http://localhost:8000)")
	flags.Int64Var(&rootUserID, "user-id", 0, "User to act as; sent as user_id and X-User-Id")
	flags.StringVar(&rootTimeout, "timeout", "", "Per-request deadline, e.g. 30s")
	flags.IntVar(&rootPageSize, "page-size", 0, "Answers fetched per answer list refresh")
	flags.StringVar(&rootLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.StringVar(&rootLogFile, "log-file", "", "Also write JSON logs to this rotating file")
	flags.BoolVarP(&rootVerbose, "verbose", "v", false, "Print detailed debug information")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		reportError(os.Stderr, err, verboseErrors || rootVerbose)
		os.Exit(1)
	}
}
