// Package poller converges an analysis job from running to a terminal
// state without busy-looping the backend.
//
// The poller is an explicit state machine (Idle → Polling → Done|Failed)
// driven by a cancellable tick loop. Ticks for a job are strictly
// sequential: the next fetch is scheduled only after the previous one
// resolves.
package poller

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/repoaudit/repoaudit/pkg/api"
	"github.com/repoaudit/repoaudit/pkg/audit"
)

// State of the polling machine.
type State string

const (
	StateIdle    State = "idle"
	StatePolling State = "polling"
	StateDone    State = "done"
	StateFailed  State = "failed"
)

const (
	// DefaultInterval is the fixed delay between status fetches.
	DefaultInterval = 2 * time.Second

	// Progress is a cosmetic estimate: +10 per running tick, capped at
	// 90 until the job actually completes. Views depend on these exact
	// numbers, so they are fixed.
	progressStep    = 10
	progressCeiling = 90
)

// Update is one observation delivered to the caller. Progress is
// monotonically non-decreasing while polling and only ever resets to 0
// (failed) or jumps to 100 (done).
type Update struct {
	State    State
	Progress int
	Stage    string                // backend's textual stage while running
	Message  string                // terminal failure text
	Result   *audit.AnalysisResult // set on StateDone
}

// FetchFunc fetches the current state of a job.
type FetchFunc func(ctx context.Context, jobID string) (*api.JobResult, error)

// Poller polls jobs at a fixed interval.
type Poller struct {
	fetch    FetchFunc
	interval time.Duration
	logger   *slog.Logger
}

// Option configures a Poller.
type Option func(*Poller)

// WithInterval overrides the fixed delay between ticks.
func WithInterval(d time.Duration) Option {
	return func(p *Poller) {
		p.interval = d
	}
}

// WithLogger overrides the default slog logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Poller) {
		p.logger = l
	}
}

// New creates a Poller around the given fetch function, typically
// (*api.Client).Results.
func New(fetch FetchFunc, opts ...Option) *Poller {
	p := &Poller{
		fetch:    fetch,
		interval: DefaultInterval,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Handle controls one polling run.
type Handle struct {
	mu        sync.Mutex
	cancelled bool
	stop      context.CancelFunc
	done      chan struct{}
}

// Cancel stops the run. After Cancel returns, no further update is
// delivered — including from a fetch already in flight when Cancel was
// called. Safe to call more than once.
func (h *Handle) Cancel() {
	h.mu.Lock()
	h.cancelled = true
	h.mu.Unlock()
	h.stop()
}

// Done is closed when the polling loop has exited.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// deliver invokes onUpdate unless the run was cancelled. The cancelled
// flag and the callback share one critical section so that Cancel
// cannot return while an update is being applied.
func (h *Handle) deliver(onUpdate func(Update), u Update) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cancelled {
		return false
	}
	onUpdate(u)
	return true
}

// Start begins polling jobID and reports every state change through
// onUpdate. The returned handle cancels the run. Terminal states stop
// the loop; transport failures are terminal too — the backend's error
// status and a dead network both leave the job unrecoverable from the
// client's side, and retrying is the user's call.
func (p *Poller) Start(ctx context.Context, jobID string, onUpdate func(Update)) *Handle {
	runCtx, stop := context.WithCancel(ctx)
	h := &Handle{stop: stop, done: make(chan struct{})}

	go func() {
		defer close(h.done)
		defer stop()
		p.run(runCtx, jobID, h, onUpdate)
	}()

	return h
}

func (p *Poller) run(ctx context.Context, jobID string, h *Handle, onUpdate func(Update)) {
	progress := 0

	for {
		res, err := p.fetch(ctx, jobID)
		if err != nil {
			if ctx.Err() != nil {
				// Cancelled while the fetch was in flight.
				return
			}
			h.deliver(onUpdate, Update{
				State:    StateFailed,
				Progress: 0,
				Message:  failureMessage(err),
			})
			return
		}

		switch res.Status {
		case audit.JobRunning:
			progress += progressStep
			if progress > progressCeiling {
				progress = progressCeiling
			}
			if !h.deliver(onUpdate, Update{State: StatePolling, Progress: progress, Stage: res.Stage}) {
				return
			}

		case audit.JobError:
			h.deliver(onUpdate, Update{State: StateFailed, Progress: 0, Message: res.Error})
			return

		default:
			// Anything that is not running or error completes the job.
			// The backend promises "done" here; warn on other values
			// rather than failing, to stay wire-compatible.
			if res.Status != audit.JobDone {
				p.logger.Warn("treating unexpected job status as completion",
					"job_id", jobID, "status", string(res.Status))
			}
			h.deliver(onUpdate, Update{State: StateDone, Progress: 100, Result: res.Result})
			return
		}

		select {
		case <-time.After(p.interval):
		case <-ctx.Done():
			return
		}
	}
}

// failureMessage prefers the backend-provided detail over the transport
// error's text.
func failureMessage(err error) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return err.Error()
}
