// Package cmd implements the repoaudit CLI commands using Cobra.
package cmd

import (
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/repoaudit/repoaudit/pkg/api"
	"github.com/repoaudit/repoaudit/pkg/audit"
	"github.com/repoaudit/repoaudit/pkg/cli"
	"github.com/repoaudit/repoaudit/pkg/session"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	apiURL  string
	verbose bool
	format  string
	output  string
)

var rootCmd = &cobra.Command{
	Use:   "repoaudit",
	Short: "AI repository audit client",
	Long: `repoaudit drives an AI code-audit backend from the terminal.

It submits a repository for analysis, follows the job until it
completes, renders the report (issues, enhancements, suggested file
changes, deployment configuration), and can ask the backend to open
tracking issues and fix/enhancement/deployment pull requests.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging()
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and returns any error.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path (default: .repoaudit.yml)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "backend base URL (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&format, "format", "f", "", "output format (terminal|json|markdown)")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "", "write output to file instead of stdout")
}

func setupLogging() error {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))

	return nil
}

// loadConfig loads the config file and applies flag overrides.
func loadConfig() (*cli.Config, error) {
	cfg, err := cli.LoadConfig(cfgFile)
	if err != nil {
		return nil, err
	}
	if apiURL != "" {
		cfg.Backend.Endpoint = apiURL
	}
	if format != "" {
		cfg.Output.Format = format
	}
	return cfg, nil
}

// newClient builds the backend client from config.
func newClient(cfg *cli.Config) *api.Client {
	return api.New(cfg.Backend.Endpoint, api.WithTimeout(time.Duration(cfg.Backend.Timeout)))
}

// currentSession loads the saved session; commands that work without a
// credential get a zero session back.
func currentSession() (audit.Session, *session.Store, error) {
	store, err := session.NewStore()
	if err != nil {
		return audit.Session{}, nil, err
	}

	sess, err := store.Load()
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			return audit.Session{}, store, nil
		}
		return audit.Session{}, store, err
	}
	return sess, store, nil
}
