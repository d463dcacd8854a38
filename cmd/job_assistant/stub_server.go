package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/job-assistant/internal/logging"
	"github.com/jonathan/job-assistant/internal/stubserver"
)

var stubServerCmd = &cobra.Command{
	Use:   "stub-server",
	Short: "Run an in-memory backend for local development",
	Long: `Starts an HTTP server implementing the backend API with in-memory storage and placeholder
analysis and answers. Stops on SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: runStubServer,
}

var (
	stubPort    int
	stubVersion string
)

func init() {
	stubServerCmd.Flags().IntVar(&stubPort, "port", 8000, "Port to listen on")
	stubServerCmd.Flags().StringVar(&stubVersion, "version", "0.1.0", "Version reported by /status")
	rootCmd.AddCommand(stubServerCmd)
}

func runStubServer(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := logging.New(logging.Options{
		Level:      cfg.LogLevel,
		File:       cfg.LogFile,
		Production: cfg.IsProduction(),
		Console:    cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	srv := stubserver.New(stubserver.Config{
		Port:        stubPort,
		Version:     stubVersion,
		Environment: cfg.Environment,
		Logger:      logger,
	})
	return srv.Start()
}
