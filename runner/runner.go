// Package runner is the conversational boundary over the graph engine:
// one call per user turn, with suspended questions surfaced as outcomes
// instead of errors.
package runner

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/voyagerlab/voyager/graph"
	"github.com/voyagerlab/voyager/log"
)

// ErrRunInProgress is returned when a turn arrives for a thread that is
// already executing.
var ErrRunInProgress = errors.New("run already in progress for thread")

// Outcome is the result of one turn: either a final answer or the
// question the workflow suspended on.
type Outcome struct {
	// Done reports whether the run reached the terminal step.
	Done bool `json:"done"`
	// Final is the traveler-facing answer, set when Done.
	Final string `json:"final,omitempty"`
	// Suspend is the pending question, set when not Done.
	Suspend *graph.SuspendPayload `json:"suspend,omitempty"`
	// State is the post-turn session state.
	State graph.State `json:"-"`
}

// Runner serializes turns per thread and decides, from the thread's
// checkpoint, whether an input starts a fresh run or answers a pending
// question.
type Runner struct {
	executor *graph.Executor
	active   sync.Map
}

// New creates a runner over a compiled executor.
func New(executor *graph.Executor) *Runner {
	return &Runner{executor: executor}
}

// Invoke processes one user turn for a thread. When the thread is
// suspended awaiting input, the text answers the pending question;
// otherwise it starts a fresh run against the thread's persisted state.
// A second concurrent turn for the same thread is rejected.
func (r *Runner) Invoke(ctx context.Context, threadID, input string) (*Outcome, error) {
	release, err := r.acquire(threadID)
	if err != nil {
		return nil, err
	}
	defer release()

	pending, err := r.executor.Pending(ctx, threadID)
	if err != nil && !errors.Is(err, graph.ErrNotFound) {
		return nil, err
	}
	if pending != nil {
		log.Debugf("thread %s: input answers pending question %q", threadID, pending.Payload.Key)
		return r.outcome(r.executor.Resume(ctx, threadID, input))
	}
	return r.outcome(r.executor.Run(ctx, threadID, graph.State{
		graph.StateKeyUserInput: input,
	}))
}

// Resume answers the pending question for a suspended thread. Unlike
// Invoke it fails when no question is pending, and accepts structured
// answers.
func (r *Runner) Resume(ctx context.Context, threadID string, answer any) (*Outcome, error) {
	release, err := r.acquire(threadID)
	if err != nil {
		return nil, err
	}
	defer release()
	return r.outcome(r.executor.Resume(ctx, threadID, answer))
}

// Pending returns the question a thread is suspended on, nil when the
// thread is not awaiting input.
func (r *Runner) Pending(ctx context.Context, threadID string) (*graph.SuspendPayload, error) {
	interrupt, err := r.executor.Pending(ctx, threadID)
	if err != nil || interrupt == nil {
		return nil, err
	}
	return interrupt.Payload, nil
}

func (r *Runner) acquire(threadID string) (func(), error) {
	if threadID == "" {
		return nil, graph.ErrThreadIDEmpty
	}
	if _, loaded := r.active.LoadOrStore(threadID, struct{}{}); loaded {
		return nil, fmt.Errorf("thread %s: %w", threadID, ErrRunInProgress)
	}
	return func() { r.active.Delete(threadID) }, nil
}

func (r *Runner) outcome(state graph.State, err error) (*Outcome, error) {
	if err != nil {
		if ie, ok := graph.AsInterruptError(err); ok {
			return &Outcome{Suspend: ie.Payload, State: state}, nil
		}
		return nil, err
	}
	final, _ := state[graph.StateKeyLastResponse].(string)
	return &Outcome{Done: true, Final: final, State: state}, nil
}
