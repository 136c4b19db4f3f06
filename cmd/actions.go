package cmd

import (
	"context"
	"fmt"

	"github.com/repoaudit/repoaudit/pkg/actions"
	"github.com/repoaudit/repoaudit/pkg/api"
	"github.com/repoaudit/repoaudit/pkg/audit"
	"github.com/spf13/cobra"
)

var (
	issueTitle string
	issueBody  string

	prEnhancements bool
	prDeployment   bool

	reportDir string
)

var issueCmd = &cobra.Command{
	Use:   "issue JOB_ID",
	Short: "Open a tracking issue on the analyzed repository",
	Args:  cobra.ExactArgs(1),
	RunE:  runIssue,
}

var prCmd = &cobra.Command{
	Use:   "pr JOB_ID",
	Short: "Open a pull request from the analysis",
	Long: `PR asks the backend to open a pull request for a completed job.

By default the fix patch is used. --enhancements opens a PR with the
enhancement suggestions, --deployment one with the deployment
configuration. Each variant requires the matching patch on the result.`,
	Args: cobra.ExactArgs(1),
	RunE: runPR,
}

var reportCmd = &cobra.Command{
	Use:   "report JOB_ID",
	Short: "Download the PDF audit report for a job",
	Args:  cobra.ExactArgs(1),
	RunE:  runReport,
}

func init() {
	issueCmd.Flags().StringVar(&issueTitle, "title", "", "issue title")
	issueCmd.Flags().StringVar(&issueBody, "body", "", "issue body")
	prCmd.Flags().BoolVar(&prEnhancements, "enhancements", false, "open the enhancement-suggestions PR")
	prCmd.Flags().BoolVar(&prDeployment, "deployment", false, "open the deployment-configuration PR")
	prCmd.MarkFlagsMutuallyExclusive("enhancements", "deployment")
	reportCmd.Flags().StringVar(&reportDir, "dir", ".", "directory to write the report into")
	rootCmd.AddCommand(issueCmd, prCmd, reportCmd)
}

func runIssue(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("issue: %w", err)
	}
	sess, _, err := currentSession()
	if err != nil {
		return fmt.Errorf("issue: %w", err)
	}

	dispatcher := actions.NewDispatcher(newClient(cfg))
	url, err := dispatcher.CreateIssue(cmd.Context(), sess, args[0], issueTitle, issueBody)
	if err != nil {
		printError("Issue creation failed")
		return fmt.Errorf("issue: %w", err)
	}

	printSuccess(fmt.Sprintf("Issue created: %s", url))
	return nil
}

func runPR(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	jobID := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("pr: %w", err)
	}
	sess, _, err := currentSession()
	if err != nil {
		return fmt.Errorf("pr: %w", err)
	}

	client := newClient(cfg)
	result, err := completedResult(ctx, client, jobID)
	if err != nil {
		return fmt.Errorf("pr: %w", err)
	}

	dispatcher := actions.NewDispatcher(client)

	var url string
	switch {
	case prEnhancements:
		url, err = dispatcher.CreateEnhancementPR(ctx, sess, jobID, result)
	case prDeployment:
		url, err = dispatcher.CreateDeploymentPR(ctx, sess, jobID, result)
	default:
		url, err = dispatcher.CreateFixPR(ctx, sess, jobID, result)
	}
	if err != nil {
		printError("Pull request creation failed")
		return fmt.Errorf("pr: %w", err)
	}

	printSuccess(fmt.Sprintf("Pull request created: %s", url))
	return nil
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}

	dispatcher := actions.NewDispatcher(newClient(cfg))
	path, err := dispatcher.DownloadReport(cmd.Context(), args[0], reportDir)
	if err != nil {
		printError("Report download failed")
		return fmt.Errorf("report: %w", err)
	}

	printSuccess(fmt.Sprintf("Report saved to %s", path))
	return nil
}

// completedResult fetches a job's result, requiring a terminal done state.
func completedResult(ctx context.Context, client *api.Client, jobID string) (*audit.AnalysisResult, error) {
	jr, err := client.Results(ctx, jobID)
	if err != nil {
		return nil, err
	}
	switch jr.Status {
	case audit.JobRunning:
		return nil, fmt.Errorf("job %s is still running", jobID)
	case audit.JobError:
		return nil, fmt.Errorf("job %s failed: %s", jobID, jr.Error)
	}
	return jr.Result, nil
}
