// Package gate runs batches of artifact validations behind a bounded
// worker pool and folds the outcomes into a coverage report that gates
// pipeline progression.
package gate

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"qgate/internal/artifact"
	"qgate/internal/feature"
	"qgate/internal/logging"
)

const (
	// DefaultMaxConcurrency bounds simultaneous open artifact reads.
	// Fixed, not proportional to batch size.
	DefaultMaxConcurrency = 10
	DefaultMaxAttempts    = 3
	DefaultRetryDelay     = 250 * time.Millisecond

	maxRetryDelay = 2 * time.Second
)

// Options tune a validation batch.
type Options struct {
	MaxConcurrency int
	MaxAttempts    int
	RetryDelay     time.Duration // base delay; doubles per attempt, capped
	Timeout        time.Duration // overall batch deadline; 0 = none

	// RetryStatus is the only outcome that gets retried. Defaults to
	// Missing: a producer may not have flushed the artifact yet, whereas
	// malformed content will not change without new input. Integrations
	// with a fix-and-rewrite producer loop may widen this.
	RetryStatus artifact.Status
}

func (o Options) withDefaults() Options {
	if o.MaxConcurrency <= 0 {
		o.MaxConcurrency = DefaultMaxConcurrency
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = DefaultMaxAttempts
	}
	if o.RetryDelay <= 0 {
		o.RetryDelay = DefaultRetryDelay
	}
	if o.RetryStatus == "" {
		o.RetryStatus = artifact.StatusMissing
	}
	return o
}

// Runner validates many units concurrently against a single resolver.
type Runner struct {
	resolver *feature.Resolver
	opts     Options
	log      *slog.Logger
}

// NewRunner returns a Runner rooted at resolver's base directory.
func NewRunner(resolver *feature.Resolver, opts Options) *Runner {
	return &Runner{
		resolver: resolver,
		opts:     opts.withDefaults(),
		log:      logging.New("gate"),
	}
}

// task is one in-flight validation. attempts lives on the task so the
// retry loop is a flat state machine with a single terminal transition.
type task struct {
	index    int
	unitID   int
	spec     *artifact.Spec
	path     string
	attempts int
}

// Validate checks every unit's artifact and returns one Result per unit,
// in input order regardless of completion order.
//
// Every unit's feature identifier is resolved before any work is
// scheduled; a SecurityError for any unit fails the whole batch — a
// rejected identifier is an attack indicator, not a tally entry.
// Missing and Malformed outcomes never fail the batch.
func (r *Runner) Validate(ctx context.Context, units []artifact.Unit) ([]artifact.Result, error) {
	tasks := make([]task, len(units))
	for i, u := range units {
		name, err := r.resolver.Resolve(u.Feature)
		if err != nil {
			return nil, fmt.Errorf("resolve feature for unit %d: %w", u.ID, err)
		}
		path, err := u.Spec.Path(name, u.ID)
		if err != nil {
			return nil, fmt.Errorf("unit %d: %w", u.ID, err)
		}
		tasks[i] = task{index: i, unitID: u.ID, spec: u.Spec, path: path}
	}

	if r.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.opts.Timeout)
		defer cancel()
	}

	r.log.Info("validating batch", "units", len(units), "workers", r.opts.MaxConcurrency, "max_attempts", r.opts.MaxAttempts)

	// Each worker writes only its own slot, so the pre-sized slice needs
	// no lock and output order is a function of input order alone.
	results := make([]artifact.Result, len(units))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.MaxConcurrency)
	for i := range tasks {
		t := &tasks[i]
		g.Go(func() error {
			results[t.index] = r.runTask(gctx, t)
			return nil
		})
	}
	_ = g.Wait() // workers never return errors; outcomes live in results

	return results, nil
}

// runTask drives one unit to a terminal result. Reads are never
// interrupted mid-flight: deadline expiry only stops further retries,
// leaving the last observed outcome with its attempt count.
func (r *Runner) runTask(ctx context.Context, t *task) artifact.Result {
	for {
		t.attempts++
		res := artifact.Validate(t.spec, t.unitID, t.path)
		res.Attempts = t.attempts

		if res.Status != r.opts.RetryStatus || t.attempts >= r.opts.MaxAttempts {
			return res
		}

		r.log.Debug("retrying unit", "unit_id", t.unitID, "attempt", t.attempts, "status", string(res.Status))
		select {
		case <-ctx.Done():
			return res
		case <-time.After(r.retryDelay(t.attempts)):
		}
	}
}

// retryDelay doubles the base delay per completed attempt, capped.
func (r *Runner) retryDelay(attempt int) time.Duration {
	d := r.opts.RetryDelay
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= maxRetryDelay {
			return maxRetryDelay
		}
	}
	return d
}
