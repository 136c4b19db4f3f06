package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/repoaudit/repoaudit/pkg/audit"
	"github.com/spf13/cobra"
)

var reposCmd = &cobra.Command{
	Use:   "repos",
	Short: "List your repositories",
	Args:  cobra.NoArgs,
	RunE:  runRepos,
}

var reposSearchCmd = &cobra.Command{
	Use:   "search QUERY",
	Short: "Search public repositories",
	Args:  cobra.ExactArgs(1),
	RunE:  runReposSearch,
}

func init() {
	reposCmd.AddCommand(reposSearchCmd)
	rootCmd.AddCommand(reposCmd)
}

func runRepos(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("repos: %w", err)
	}

	sess, _, err := currentSession()
	if err != nil {
		return fmt.Errorf("repos: %w", err)
	}
	if !sess.Authenticated() {
		return fmt.Errorf("repos: not signed in — run `repoaudit login` first")
	}

	repos, err := newClient(cfg).UserRepos(cmd.Context(), sess.Token)
	if err != nil {
		return fmt.Errorf("repos: %w", err)
	}

	printRepos(repos)
	return nil
}

func runReposSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("repos: %w", err)
	}

	// Search works unauthenticated; a token just raises the rate limit.
	sess, _, err := currentSession()
	if err != nil {
		return fmt.Errorf("repos: %w", err)
	}

	repos, err := newClient(cfg).SearchRepos(cmd.Context(), args[0], sess.Token)
	if err != nil {
		return fmt.Errorf("repos: %w", err)
	}

	printRepos(repos)
	return nil
}

func printRepos(repos []audit.Repo) {
	if len(repos) == 0 {
		fmt.Println("no repositories found")
		return
	}

	bold := color.New(color.Bold)
	dim := color.New(color.Faint)
	for _, r := range repos {
		bold.Printf("%-40s", r.FullName)
		meta := []string{fmt.Sprintf("★ %d", r.Stars)}
		if r.Language != "" {
			meta = append(meta, r.Language)
		}
		if r.Private {
			meta = append(meta, "private")
		}
		dim.Printf("  %s\n", strings.Join(meta, " · "))
	}
}
