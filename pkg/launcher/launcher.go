// Package launcher validates and submits analysis requests.
package launcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/repoaudit/repoaudit/pkg/api"
	"github.com/repoaudit/repoaudit/pkg/audit"
)

// ErrNotAuthenticated is returned when submission is attempted without
// a credential. No network call is made.
var ErrNotAuthenticated = errors.New("launcher: not authenticated — sign in first")

// RateLimitMessage is the actionable text shown for rate-limited
// submissions, distinct from generic failure pass-through.
const RateLimitMessage = "GitHub rate limit reached — wait a few minutes and try again"

// Launcher submits analysis requests to the backend.
type Launcher struct {
	client *api.Client
	logger *slog.Logger
}

// New creates a Launcher over the given backend client.
func New(client *api.Client) *Launcher {
	return &Launcher{client: client, logger: slog.Default()}
}

// Submit validates the request locally and posts it to the endpoint
// matching the locator kind. Returns the backend's job id.
//
// Local rejections (missing credential, empty locator) never reach the
// network. Rate-limited submissions are reported with RateLimitMessage;
// every other failure passes the server-provided detail through.
func (l *Launcher) Submit(ctx context.Context, sess audit.Session, req audit.AnalysisRequest) (string, error) {
	if !sess.Authenticated() {
		return "", ErrNotAuthenticated
	}
	if err := req.Locator.Validate(); err != nil {
		return "", err
	}

	params := api.AnalyzeParams{
		Token:           sess.Token,
		HostingProvider: req.HostingProvider,
		AIAPIKey:        req.AIAPIKey,
		ModelPreference: req.ModelPreference,
	}
	if params.ModelPreference == "" {
		params.ModelPreference = audit.DefaultModelPreference
	}

	var (
		jobID string
		err   error
	)
	switch req.Locator.Kind {
	case audit.LocatorOwned:
		l.logger.Debug("submitting owned-repo analysis", "repo", req.Locator.FullName)
		jobID, err = l.client.AnalyzeRepo(ctx, req.Locator.FullName, params)
	case audit.LocatorPublic:
		l.logger.Debug("submitting public-repo analysis", "url", req.Locator.URL())
		jobID, err = l.client.Analyze(ctx, req.Locator.URL(), params)
	}

	if err != nil {
		if errors.Is(err, api.ErrRateLimited) {
			return "", fmt.Errorf("launcher: %s: %w", RateLimitMessage, err)
		}
		return "", fmt.Errorf("launcher: submitting analysis: %w", err)
	}

	l.logger.Info("analysis job submitted", "job_id", jobID, "repo", req.Locator.FullName)
	return jobID, nil
}
