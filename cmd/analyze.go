package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/repoaudit/repoaudit/pkg/audit"
	"github.com/repoaudit/repoaudit/pkg/poller"
	"github.com/repoaudit/repoaudit/pkg/report"
	"github.com/repoaudit/repoaudit/pkg/workflow"
	"github.com/spf13/cobra"
)

var (
	analyzeRepo     string
	analyzePublic   bool
	hostingProvider string
	aiKey           string
	modelPreference string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run an AI audit on a repository and render the report",
	Long: `Analyze submits a repository to the audit backend, follows the job
until it finishes, and renders the resulting report.

Audit one of your own repositories:
  repoaudit analyze --repo myorg/myrepo

Audit any public repository:
  repoaudit analyze --repo vercel/next.js --public

Include deployment configuration for a hosting provider:
  repoaudit analyze --repo myorg/myrepo --provider vercel`,
	Args: cobra.NoArgs,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeRepo, "repo", "r", "", "repository full name (owner/name)")
	analyzeCmd.Flags().BoolVar(&analyzePublic, "public", false, "treat --repo as a public repository instead of one of your own")
	analyzeCmd.Flags().StringVar(&hostingProvider, "provider", "", "hosting provider for deployment configuration (vercel|heroku|railway)")
	analyzeCmd.Flags().StringVar(&aiKey, "ai-key", "", "user-supplied LLM API key forwarded to the backend")
	analyzeCmd.Flags().StringVar(&modelPreference, "model", "", "model preference forwarded to the backend")
	rootCmd.AddCommand(analyzeCmd)
}

// formatter writes a rendered summary to a writer.
type formatter interface {
	Format(w io.Writer, summary *report.Summary) error
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}

	sess, _, err := currentSession()
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}

	req := buildRequest(cfg.Analysis.ModelPreference, cfg.Analysis.HostingProvider, cfg.Analysis.AIKey())

	slog.Debug("analysis request built",
		"repo", req.Locator.FullName,
		"kind", string(req.Locator.Kind),
		"provider", req.HostingProvider,
	)

	printAnalyzeHeader(req)

	// Spinner gives polling feedback; the poller reports a progress
	// estimate plus the backend's textual stage.
	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond)
	s.Suffix = " Submitting analysis..."
	s.Start()

	runner := workflow.NewRunner(newClient(cfg))
	outcome, err := runner.Run(ctx, sess, req, func(u poller.Update) {
		if u.State == poller.StatePolling {
			stage := u.Stage
			if stage == "" {
				stage = "Analyzing..."
			}
			s.Suffix = fmt.Sprintf(" %s (%d%%)", stage, u.Progress)
		}
	})
	s.Stop()
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}

	// Successful submission clears the selection for the next run.
	analyzeRepo = ""
	printSuccess(fmt.Sprintf("Analysis complete (job %s)", outcome.JobID))

	summary := report.NewGenerator().Generate(outcome.JobID, outcome.Result)

	f := selectFormatter(cfg.Output.Format)

	var w io.Writer = os.Stdout
	if output != "" {
		file, fileErr := os.Create(output)
		if fileErr != nil {
			return fmt.Errorf("analyze: creating output file: %w", fileErr)
		}
		defer file.Close() //nolint:errcheck
		w = file
	}

	if err := f.Format(w, summary); err != nil {
		return fmt.Errorf("analyze: writing report: %w", err)
	}

	return nil
}

// buildRequest assembles the AnalysisRequest from flags, with config
// values as fallbacks.
func buildRequest(defaultModel, defaultProvider, defaultKey string) audit.AnalysisRequest {
	kind := audit.LocatorOwned
	if analyzePublic {
		kind = audit.LocatorPublic
	}

	req := audit.AnalysisRequest{
		Locator:         audit.RepositoryLocator{Kind: kind, FullName: analyzeRepo},
		HostingProvider: hostingProvider,
		AIAPIKey:        aiKey,
		ModelPreference: modelPreference,
	}
	if req.HostingProvider == "" {
		req.HostingProvider = defaultProvider
	}
	if req.AIAPIKey == "" {
		req.AIAPIKey = defaultKey
	}
	if req.ModelPreference == "" {
		req.ModelPreference = defaultModel
	}
	return req
}

// selectFormatter returns the appropriate report formatter for the given format name.
func selectFormatter(name string) formatter {
	switch name {
	case "json":
		return report.NewJSONFormatter()
	case "markdown":
		return report.NewMarkdownFormatter()
	default:
		return report.NewTerminalFormatter()
	}
}

func printAnalyzeHeader(req audit.AnalysisRequest) {
	cyan := color.New(color.FgCyan, color.Bold)
	fmt.Println()
	cyan.Println("Repository Audit")
	fmt.Printf("Repository: %s\n", req.Locator.FullName)
	if req.HostingProvider != "" {
		fmt.Printf("Deployment: %s\n", req.HostingProvider)
	}
	fmt.Println()
}

func printSuccess(msg string) {
	green := color.New(color.FgGreen)
	green.Printf("✓ %s\n", msg)
}

func printError(msg string) {
	red := color.New(color.FgRed)
	red.Printf("✗ %s\n", msg)
}
