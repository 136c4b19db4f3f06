package cmd

import (
	"fmt"

	"github.com/repoaudit/repoaudit/pkg/audit"
	"github.com/repoaudit/repoaudit/pkg/session"
	"github.com/spf13/cobra"
)

var (
	loginToken    string
	loginUser     string
	loginCallback string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Save a backend session",
	Long: `Login stores the OAuth credential the backend issued.

Open <backend>/auth/login in a browser, complete the GitHub flow, and
paste the redirect URL here:
  repoaudit login --callback "http://localhost:3000/callback?token=...&user=..."

Or pass the pieces directly:
  repoaudit login --token ghu_xxx --user octocat`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the saved session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := session.NewStore()
		if err != nil {
			return err
		}
		if err := store.Clear(); err != nil {
			return err
		}
		printSuccess("Signed out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, _, err := currentSession()
		if err != nil {
			return err
		}
		if !sess.Authenticated() {
			return fmt.Errorf("whoami: not signed in — run `repoaudit login` first")
		}
		fmt.Println(sess.User)
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginToken, "token", "", "access token issued by the backend's OAuth flow")
	loginCmd.Flags().StringVar(&loginUser, "user", "", "GitHub login of the token owner")
	loginCmd.Flags().StringVar(&loginCallback, "callback", "", "full OAuth redirect URL to extract the session from")
	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	var sess audit.Session

	switch {
	case loginCallback != "":
		parsed, err := session.ParseCallback(loginCallback)
		if err != nil {
			return fmt.Errorf("login: %w", err)
		}
		sess = parsed
	case loginToken != "":
		sess = audit.Session{Token: loginToken, User: loginUser}
	default:
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("login: %w", err)
		}
		return fmt.Errorf("login: open %s/auth/login in a browser, then re-run with --callback or --token", cfg.Backend.Endpoint)
	}

	// Resolve display name and avatar when the backend is reachable.
	// Best effort: a saved token is useful even when it is not.
	if cfg, err := loadConfig(); err == nil {
		if user, err := newClient(cfg).AuthUser(cmd.Context(), sess.Token); err == nil {
			if sess.User == "" {
				sess.User = user.Login
			}
			sess.AvatarURL = user.AvatarURL
		}
	}

	store, err := session.NewStore()
	if err != nil {
		return err
	}
	if err := store.Save(sess); err != nil {
		return err
	}

	if sess.User != "" {
		printSuccess(fmt.Sprintf("Signed in as %s", sess.User))
	} else {
		printSuccess("Signed in")
	}
	return nil
}
