package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/folionote/folio/internal/client"
	"github.com/folionote/folio/internal/pkg/logger"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const cliContextKey contextKey = "cliContext"

// CliContext holds shared CLI context
type CliContext struct {
	Config *Config
	Client *client.Client
	Logger *slog.Logger
}

// Global logging flags
var (
	logLevel      string
	logFile       string
	logToStderr   bool
	alsoLogStderr bool
	logFormat     string
)

// NewRootCommand creates the root cobra command
func NewRootCommand() *cobra.Command {
	var ctx CliContext

	rootCmd := &cobra.Command{
		Use:           "folio",
		Short:         "CLI for managing portfolio projects and notes",
		Long:          `A command line interface for managing portfolio projects, notes, and media via the folio REST API.`,
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors (main.go handles it)
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := setupLogging(); err != nil {
				return fmt.Errorf("failed to setup logging: %w", err)
			}

			ctx.Logger = logger.WithCommand(slog.Default().With("component", "cli"), cmd.Name())
			ctx.Logger.Debug("CLI started")

			config, err := LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			ctx.Config = config

			var apiClient *client.Client
			requiresAuth := commandRequiresAuth(cmd)
			if requiresAuth {
				apiClient, err = NewAPIClient(config)
				if err != nil {
					return fmt.Errorf("authentication required: %w\nPlease run 'folio auth login' first", err)
				}
			} else {
				apiClient, err = NewUnauthenticatedClient(config)
				if err != nil {
					return fmt.Errorf("failed to create client: %w", err)
				}
			}

			ctx.Client = apiClient
			cmd.SetContext(context.WithValue(cmd.Context(), cliContextKey, &ctx))

			return nil
		},
	}

	// Add subcommands
	rootCmd.AddCommand(newAuthCommand())
	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newProjectCommand())
	rootCmd.AddCommand(newNoteCommand())
	rootCmd.AddCommand(newMediaCommand())
	rootCmd.AddCommand(newSearchCommand())
	rootCmd.AddCommand(newDashboardCommand())
	rootCmd.AddCommand(newRepoCommand())

	// Add logging flags
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn",
		"Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"Log file path (if specified, logs to file instead of stderr)")
	rootCmd.PersistentFlags().BoolVar(&logToStderr, "logtostderr", false,
		"Log to stderr (default behavior unless --log-file specified)")
	rootCmd.PersistentFlags().BoolVar(&alsoLogStderr, "alsologtostderr", false,
		"Log to both file and stderr")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"Log format (text, json)")

	return rootCmd
}

// commandRequiresAuth reports whether a command needs a stored token.
// Auth and config commands manage credentials themselves; help and
// completion never talk to the server.
func commandRequiresAuth(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "auth", "config", "help", "completion", "version":
			return false
		}
	}
	return true
}

// setupLogging configures the global logger based on CLI flags
func setupLogging() error {
	// Default to stderr logging unless file is specified
	if logFile == "" {
		logToStderr = true
	}

	cfg := logger.Config{
		Level:         logger.ParseLevel(logLevel),
		LogFile:       logFile,
		LogToStderr:   logToStderr,
		AlsoLogStderr: alsoLogStderr,
		Format:        logFormat,
	}

	globalLogger, err := logger.SetupLogger(cfg)
	if err != nil {
		return err
	}

	slog.SetDefault(globalLogger)
	return nil
}

// getCliContext extracts the CLI context from the command context
func getCliContext(cmd *cobra.Command) *CliContext {
	return cmd.Context().Value(cliContextKey).(*CliContext)
}
