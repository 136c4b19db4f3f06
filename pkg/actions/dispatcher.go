// Package actions dispatches follow-up operations for a completed
// analysis: tracking issues, the three pull-request variants, and the
// PDF report download.
//
// Each operation owns an explicit state slice (Idle → InFlight →
// Succeeded|Failed) so operations never block one another, while a
// single operation cannot be triggered twice concurrently.
package actions

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/repoaudit/repoaudit/pkg/api"
	"github.com/repoaudit/repoaudit/pkg/audit"
)

// Op identifies one dispatchable operation.
type Op string

const (
	OpIssue     Op = "issue"
	OpFixPR     Op = "fix-pr"
	OpEnhancePR Op = "enhancement-pr"
	OpDeployPR  Op = "deployment-pr"
	OpReport    Op = "report"
)

// Phase of one operation's state slice.
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseInFlight  Phase = "in-flight"
	PhaseSucceeded Phase = "succeeded"
	PhaseFailed    Phase = "failed"
)

// Local validation errors. None of these reach the network.
var (
	ErrNotAuthenticated   = errors.New("actions: not authenticated")
	ErrOperationInFlight  = errors.New("actions: operation already in flight")
	ErrNoPatch            = errors.New("actions: no fix patch available for this job")
	ErrNoEnhancementPatch = errors.New("actions: no enhancement suggestions for this job")
	ErrNoDeploymentPatch  = errors.New("actions: no deployment configuration for this job")
	ErrNoIssueTitle       = errors.New("actions: issue title must not be empty")
)

// OpState is a snapshot of one operation's state slice.
type OpState struct {
	Phase Phase
	URL   string // PR/issue URL or report path once succeeded
	Err   error  // terminal failure once failed
}

// Dispatcher runs follow-up operations against the backend.
type Dispatcher struct {
	client *api.Client

	mu  sync.Mutex
	ops map[Op]OpState
}

// NewDispatcher creates a dispatcher over the given backend client.
func NewDispatcher(client *api.Client) *Dispatcher {
	return &Dispatcher{
		client: client,
		ops:    make(map[Op]OpState),
	}
}

// State returns a snapshot of the named operation's state slice.
func (d *Dispatcher) State(op Op) OpState {
	d.mu.Lock()
	defer d.mu.Unlock()
	s, ok := d.ops[op]
	if !ok {
		return OpState{Phase: PhaseIdle}
	}
	return s
}

// begin flips the operation to in-flight, rejecting a concurrent
// re-trigger of the same operation.
func (d *Dispatcher) begin(op Op) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.ops[op].Phase == PhaseInFlight {
		return ErrOperationInFlight
	}
	d.ops[op] = OpState{Phase: PhaseInFlight}
	return nil
}

func (d *Dispatcher) finish(op Op, url string, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err != nil {
		d.ops[op] = OpState{Phase: PhaseFailed, Err: err}
		return
	}
	d.ops[op] = OpState{Phase: PhaseSucceeded, URL: url}
}

// CreateIssue opens a tracking issue on the analyzed repository and
// returns its URL.
func (d *Dispatcher) CreateIssue(ctx context.Context, sess audit.Session, jobID, title, body string) (string, error) {
	if !sess.Authenticated() {
		return "", ErrNotAuthenticated
	}
	if title == "" {
		return "", ErrNoIssueTitle
	}
	if err := d.begin(OpIssue); err != nil {
		return "", err
	}

	url, err := d.client.CreateIssue(ctx, api.IssueParams{
		JobID: jobID,
		Title: title,
		Body:  body,
		Token: sess.Token,
	})
	d.finish(OpIssue, url, err)
	if err != nil {
		return "", fmt.Errorf("actions: creating issue: %w", err)
	}
	return url, nil
}

// CreateFixPR opens a pull request applying the job's fix patch.
// Requires a credential and a non-empty patch on the result.
func (d *Dispatcher) CreateFixPR(ctx context.Context, sess audit.Session, jobID string, result *audit.AnalysisResult) (string, error) {
	if !sess.Authenticated() {
		return "", ErrNotAuthenticated
	}
	if result == nil || result.Patch == "" {
		return "", ErrNoPatch
	}
	return d.createPR(ctx, OpFixPR, d.client.CreateFixPR, jobID, sess.Token)
}

// CreateEnhancementPR opens a pull request with enhancement suggestions.
// Requires a credential and a non-empty enhancement patch.
func (d *Dispatcher) CreateEnhancementPR(ctx context.Context, sess audit.Session, jobID string, result *audit.AnalysisResult) (string, error) {
	if !sess.Authenticated() {
		return "", ErrNotAuthenticated
	}
	if result == nil || result.EnhancementPatch == "" {
		return "", ErrNoEnhancementPatch
	}
	return d.createPR(ctx, OpEnhancePR, d.client.CreateEnhancementPR, jobID, sess.Token)
}

// CreateDeploymentPR opens a pull request adding deployment
// configuration. Requires a credential and a non-empty deployment patch.
func (d *Dispatcher) CreateDeploymentPR(ctx context.Context, sess audit.Session, jobID string, result *audit.AnalysisResult) (string, error) {
	if !sess.Authenticated() {
		return "", ErrNotAuthenticated
	}
	if result == nil || result.DeploymentPatch == "" {
		return "", ErrNoDeploymentPatch
	}
	return d.createPR(ctx, OpDeployPR, d.client.CreateDeploymentPR, jobID, sess.Token)
}

func (d *Dispatcher) createPR(ctx context.Context, op Op, call func(context.Context, string, string) (string, error), jobID, token string) (string, error) {
	if err := d.begin(op); err != nil {
		return "", err
	}
	url, err := call(ctx, jobID, token)
	d.finish(op, url, err)
	if err != nil {
		return "", fmt.Errorf("actions: creating pull request: %w", err)
	}
	return url, nil
}

// DownloadReport fetches the job's PDF report, decodes the hex payload
// and writes it into dir under the backend-provided filename. Returns
// the written path. Any failure is reported as a download error
// wrapping the cause.
func (d *Dispatcher) DownloadReport(ctx context.Context, jobID, dir string) (string, error) {
	if err := d.begin(OpReport); err != nil {
		return "", err
	}

	path, err := d.downloadReport(ctx, jobID, dir)
	d.finish(OpReport, path, err)
	if err != nil {
		return "", fmt.Errorf("actions: report download failed: %w", err)
	}
	return path, nil
}

func (d *Dispatcher) downloadReport(ctx context.Context, jobID, dir string) (string, error) {
	report, err := d.client.DownloadReport(ctx, jobID)
	if err != nil {
		return "", err
	}

	pdf, err := hex.DecodeString(report.PDFHex)
	if err != nil {
		return "", fmt.Errorf("decoding report payload: %w", err)
	}

	name := filepath.Base(report.Filename)
	if name == "." || name == string(filepath.Separator) || name == "" {
		name = fmt.Sprintf("audit_report_%s.pdf", jobID)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, pdf, 0o644); err != nil {
		return "", fmt.Errorf("writing report file: %w", err)
	}
	return path, nil
}
