package bulk

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/rshade/taskdeck/internal/logging"
)

// Concurrency limits.
const (
	// DefaultConcurrency is the number of mutations in flight at once.
	DefaultConcurrency = 4

	// MaxConcurrency bounds the load a single command puts on the backend.
	MaxConcurrency = 16
)

var (
	ErrInvalidConcurrency = fmt.Errorf("concurrency must be between 1 and %d", MaxConcurrency)
	ErrNilCallback        = errors.New("bulk callback cannot be nil")
	ErrEmptyItems         = errors.New("items slice cannot be empty")
)

// Callback performs the mutation for one item.
type Callback[T any] func(ctx context.Context, item T) error

// ProgressCallback is invoked after each item finishes.
type ProgressCallback func(s ProgressSnapshot)

// Failure records one failed item.
type Failure[T any] struct {
	Index int
	Item  T
	Err   error
}

// Report is the outcome of a Run.
type Report[T any] struct {
	Succeeded int
	Failures  []Failure[T]
	// Skipped counts items never started because the context ended.
	Skipped int
}

// Err joins the failures, or returns nil when every item succeeded.
func (r *Report[T]) Err() error {
	if len(r.Failures) == 0 && r.Skipped == 0 {
		return nil
	}
	errs := make([]error, 0, len(r.Failures)+1)
	for _, f := range r.Failures {
		errs = append(errs, fmt.Errorf("%v: %w", f.Item, f.Err))
	}
	if r.Skipped > 0 {
		errs = append(errs, fmt.Errorf("%d skipped: %w", r.Skipped, context.Canceled))
	}
	return errors.Join(errs...)
}

// Runner executes a Callback for each item.
type Runner[T any] struct {
	concurrency int
	onProgress  ProgressCallback
}

// NewRunner creates a runner with the given concurrency limit.
func NewRunner[T any](concurrency int) (*Runner[T], error) {
	if concurrency < 1 || concurrency > MaxConcurrency {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidConcurrency, concurrency)
	}
	return &Runner[T]{concurrency: concurrency}, nil
}

// NewRunnerWithDefaults creates a runner with DefaultConcurrency.
func NewRunnerWithDefaults[T any]() *Runner[T] {
	return &Runner[T]{concurrency: DefaultConcurrency}
}

// WithProgressCallback sets a progress callback. It may be called from
// several goroutines, one call at a time.
func (r *Runner[T]) WithProgressCallback(cb ProgressCallback) *Runner[T] {
	r.onProgress = cb
	return r
}

// Concurrency returns the configured limit.
func (r *Runner[T]) Concurrency() int {
	return r.concurrency
}

// Run calls fn for every item and waits for all of them. Failures are
// collected in index order.
func (r *Runner[T]) Run(ctx context.Context, items []T, fn Callback[T]) (*Report[T], error) {
	if len(items) == 0 {
		return nil, ErrEmptyItems
	}
	if fn == nil {
		return nil, ErrNilCallback
	}

	log := logging.FromContext(ctx)
	progress := NewProgress(len(items))
	errs := make([]error, len(items))
	started := make([]bool, len(items))

	var g errgroup.Group
	g.SetLimit(r.concurrency)

	for i, item := range items {
		if ctx.Err() != nil {
			break
		}
		started[i] = true
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
			} else {
				errs[i] = fn(ctx, item)
			}
			snap := progress.Add(errs[i] == nil)
			if r.onProgress != nil {
				progress.notify(r.onProgress, snap)
			}
			return nil
		})
	}
	_ = g.Wait()

	report := &Report[T]{}
	for i, item := range items {
		switch {
		case !started[i]:
			report.Skipped++
		case errs[i] != nil:
			report.Failures = append(report.Failures, Failure[T]{Index: i, Item: item, Err: errs[i]})
		default:
			report.Succeeded++
		}
	}

	log.Debug().Ctx(ctx).
		Int("items", len(items)).
		Int("succeeded", report.Succeeded).
		Int("failed", len(report.Failures)).
		Int("skipped", report.Skipped).
		Int("concurrency", r.concurrency).
		Msg("bulk run finished")
	return report, nil
}
