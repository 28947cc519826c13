package pipeline

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"newsblog/internal/core"
	"newsblog/internal/logger"
)

// Result is the outcome of an asynchronous run.
type Result struct {
	Record *core.BlogRecord
	Err    error
}

// Start runs the pipeline on its own goroutine and delivers exactly one
// Result. If the run does not finish within timeout (Config.Timeout when
// zero) the Result carries a *Failure wrapping ErrTimeout and the run is
// abandoned: its context is cancelled and later progress is discarded.
// When ctx is cancelled the run is given until the timeout to stop, and a
// record it completed in the meantime is still delivered.
func (p *Pipeline) Start(ctx context.Context, req Request, timeout time.Duration, onProgress ProgressFunc) <-chan Result {
	if timeout <= 0 {
		timeout = p.config.Timeout
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	out := make(chan Result, 1)
	done := make(chan Result, 1)
	runCtx, cancel := context.WithCancel(ctx)

	var abandoned atomic.Bool
	var last atomic.Int32
	report := func(pr Progress) {
		if abandoned.Load() {
			return
		}
		if pr.State != Failed {
			last.Store(int32(pr.State))
		}
		if onProgress != nil {
			onProgress(pr)
		}
	}

	go func() {
		rec, err := p.Run(runCtx, req, report)
		done <- Result{Record: rec, Err: err}
	}()

	go func() {
		defer cancel()
		timer := time.NewTimer(timeout)
		defer timer.Stop()

		select {
		case r := <-done:
			out <- r
		case <-timer.C:
			abandoned.Store(true)
			state := State(last.Load())
			logger.Warn("Blog generation abandoned after timeout", "timeout", timeout.String(), "state", state.String())
			out <- Result{Err: &Failure{
				State:  state,
				Reason: fmt.Sprintf("timed out after %s; the news or AI service is responding slowly, please try again", timeout),
				Err:    ErrTimeout,
			}}
		case <-ctx.Done():
			// The run sees the same cancellation at its next stage boundary.
			// Wait for it so a record finished in the meantime is kept.
			select {
			case r := <-done:
				out <- r
			case <-timer.C:
				abandoned.Store(true)
				out <- Result{Err: interrupted(ctx, State(last.Load()))}
			}
		}
	}()

	return out
}

// RunWithTimeout is Start followed by a wait for its Result.
func (p *Pipeline) RunWithTimeout(ctx context.Context, req Request, onProgress ProgressFunc) (*core.BlogRecord, error) {
	r := <-p.Start(ctx, req, 0, onProgress)
	return r.Record, r.Err
}
