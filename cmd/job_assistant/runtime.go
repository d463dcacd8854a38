package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/job-assistant/internal/apiclient"
	"github.com/jonathan/job-assistant/internal/assistant"
	"github.com/jonathan/job-assistant/internal/config"
	"github.com/jonathan/job-assistant/internal/logging"
	"github.com/jonathan/job-assistant/internal/observability"
)

// runtime bundles everything a command needs to talk to the backend.
type runtime struct {
	cfg     config.Config
	logger  *zap.Logger
	client  *apiclient.Client
	session *assistant.Session
	printer *observability.Printer
}

// verboseErrors is the resolved verbose setting, used when main reports a command error.
var verboseErrors bool

// resolveConfig layers flags over the config file over the environment over defaults.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	// Step 1: Load config file if provided
	var cfg config.Config
	if rootConfigPath != "" {
		loaded, err := config.LoadConfig(rootConfigPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		if err := loaded.Validate(); err != nil {
			return cfg, err
		}
		cfg = *loaded
	}

	// Step 2: Apply CLI overrides, only for flags explicitly set
	flags := cmd.Flags()
	if flags.Changed("base-url") {
		cfg.BaseURL = rootBaseURL
	}
	if flags.Changed("user-id") {
		id := rootUserID
		cfg.UserID = &id
	}
	if flags.Changed("timeout") {
		d, err := time.ParseDuration(rootTimeout)
		if err != nil {
			return cfg, fmt.Errorf("invalid --timeout %q: %w", rootTimeout, err)
		}
		cfg.RequestTimeout = config.Duration{Duration: d}
	}
	if flags.Changed("page-size") {
		cfg.PageSize = rootPageSize
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = rootLogLevel
	}
	if flags.Changed("log-file") {
		cfg.LogFile = rootLogFile
	}
	if flags.Changed("verbose") {
		cfg.Verbose = rootVerbose
	}

	// Step 3: Fill the rest from the environment, then built-in defaults
	merged := cfg.MergeWithDefaults(config.FromEnv())
	merged = merged.MergeWithDefaults(config.Defaults())

	if err := merged.Validate(); err != nil {
		return merged, err
	}
	verboseErrors = merged.Verbose
	return merged, nil
}

// newRuntime builds the logger, client, session and printer for a command.
func newRuntime(cmd *cobra.Command) (*runtime, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(logging.Options{
		Level:      cfg.LogLevel,
		File:       cfg.LogFile,
		Production: cfg.IsProduction(),
		Console:    cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, err
	}

	client, err := apiclient.New(apiclient.Options{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.RequestTimeout.Duration,
		UserID:  cfg.UserID,
		Logger:  logger.Named("apiclient"),
	})
	if err != nil {
		return nil, err
	}

	session := assistant.NewSession(client, assistant.Options{
		PageSize:       cfg.PageSize,
		RequestTimeout: cfg.RequestTimeout.Duration,
		UserID:         cfg.UserID,
		Logger:         logger,
	})

	logger.Debug("runtime ready",
		zap.String("base_url", client.BaseURL()),
		zap.Duration("timeout", cfg.RequestTimeout.Duration),
		zap.Int("page_size", cfg.PageSize))

	return &runtime{
		cfg:     cfg,
		logger:  logger,
		client:  client,
		session: session,
		printer: observability.NewPrinter(cmd.OutOrStdout()).WithVerbose(cfg.Verbose),
	}, nil
}

// close waits for background refreshes and flushes the logger.
func (rt *runtime) close() {
	rt.session.Wait()
	_ = rt.logger.Sync()
}

// reportError prints a command failure the same way the session prints failures.
func reportError(w io.Writer, err error, verbose bool) {
	observability.NewPrinter(w).WithVerbose(verbose).PrintFailure(err)
}

// parseID parses a positive record id argument.
func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q: must be a positive integer", raw)
	}
	return id, nil
}
