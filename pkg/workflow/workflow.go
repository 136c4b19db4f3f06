// Package workflow wires the launcher, poller and aggregator into the
// launch → poll → result sequence the CLI drives.
package workflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/repoaudit/repoaudit/pkg/api"
	"github.com/repoaudit/repoaudit/pkg/audit"
	"github.com/repoaudit/repoaudit/pkg/launcher"
	"github.com/repoaudit/repoaudit/pkg/poller"
	"github.com/repoaudit/repoaudit/pkg/stats"
)

// Outcome is a completed analysis run.
type Outcome struct {
	JobID  string
	Result *audit.AnalysisResult
	Stats  stats.DerivedStats
}

// Runner executes the full analysis workflow.
type Runner struct {
	launcher *launcher.Launcher
	poller   *poller.Poller
}

// NewRunner builds a Runner over a backend client.
func NewRunner(client *api.Client, pollerOpts ...poller.Option) *Runner {
	return &Runner{
		launcher: launcher.New(client),
		poller:   poller.New(client.Results, pollerOpts...),
	}
}

// Run submits the request, polls the job to a terminal state and
// returns the result with its derived statistics. onProgress, when
// non-nil, receives every poller update for user feedback. A terminal
// job error or transport failure is returned as an error carrying the
// backend's message.
func (r *Runner) Run(ctx context.Context, sess audit.Session, req audit.AnalysisRequest, onProgress func(poller.Update)) (*Outcome, error) {
	jobID, err := r.launcher.Submit(ctx, sess, req)
	if err != nil {
		return nil, err
	}

	var terminal poller.Update
	handle := r.poller.Start(ctx, jobID, func(u poller.Update) {
		if onProgress != nil {
			onProgress(u)
		}
		if u.State == poller.StateDone || u.State == poller.StateFailed {
			terminal = u
		}
	})

	select {
	case <-handle.Done():
	case <-ctx.Done():
		handle.Cancel()
		return nil, ctx.Err()
	}

	switch terminal.State {
	case poller.StateDone:
		return &Outcome{
			JobID:  jobID,
			Result: terminal.Result,
			Stats:  stats.Compute(terminal.Result),
		}, nil
	case poller.StateFailed:
		return nil, fmt.Errorf("workflow: analysis failed: %s", terminal.Message)
	default:
		// The loop exited without a terminal update: cancelled.
		return nil, errors.New("workflow: analysis cancelled")
	}
}
