// Package jobs implements the Job Runner / Work Item Queue schedulers
// (spec.md §4.7): a Job interface driven by a Runner under Once, Continuous,
// or Scheduled modes, plus WorkItemQueueJob wrapping queue.Queue.StartWorking.
package jobs

import "context"

// Outcome is a single Job.Run invocation's terminal result (spec.md §4.7:
// "run(cancel) -> {completed | cancelled | failed(reason)}").
type Outcome int

const (
	// Completed means the job did its work and returned normally.
	Completed Outcome = iota
	// Cancelled means the job observed ctx cancellation and unwound cleanly.
	Cancelled
	// Failed means the job encountered an error; Result.Err carries the reason.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Completed:
		return "completed"
	case Cancelled:
		return "cancelled"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is what one Job.Run invocation reports.
type Result struct {
	Outcome Outcome
	Err     error
}

// Done builds a Completed Result.
func Done() Result { return Result{Outcome: Completed} }

// CancelledResult builds a Cancelled Result.
func CancelledResult() Result { return Result{Outcome: Cancelled} }

// FailedResult builds a Failed Result carrying err as the reason.
func FailedResult(err error) Result { return Result{Outcome: Failed, Err: err} }

// Job is one unit of schedulable work.
type Job interface {
	// Run executes the job once, returning when the work is done, ctx is
	// cancelled, or an unrecoverable error occurs.
	Run(ctx context.Context) Result
}

// Func adapts a plain function to the Job interface.
type Func func(ctx context.Context) Result

// Run implements Job.
func (f Func) Run(ctx context.Context) Result { return f(ctx) }
