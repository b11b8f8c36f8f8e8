package graph

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/voyagerlab/voyager/log"
	"github.com/voyagerlab/voyager/telemetry/trace"
	"github.com/voyagerlab/voyager/tool"
)

// Defaults for executor limits.
const (
	defaultMaxSteps          = 50
	defaultMaxToolIterations = 8
)

// Executor executes a graph for one thread at a time. It drives the run
// loop: execute current step, run the tool sub-loop when requested,
// resolve the transition, persist the checkpoint, until a terminal step or
// a suspension. A single Executor may serve many threads concurrently;
// per-thread serialization is the caller's responsibility.
type Executor struct {
	graph             *Graph
	saver             CheckpointSaver
	tools             map[string]tool.Tool
	maxSteps          int
	maxToolIterations int
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*ExecutorOptions)

// ExecutorOptions contains configuration options for creating an Executor.
type ExecutorOptions struct {
	// Saver persists checkpoints. Without one, runs are not resumable.
	Saver CheckpointSaver
	// Tools are dispatched by the tool-call sub-loop.
	Tools map[string]tool.Tool
	// MaxSteps caps run-loop iterations.
	MaxSteps int
	// MaxToolIterations caps consecutive tool sub-loop re-entries for one
	// step, guarding against a step that keeps requesting more tools.
	MaxToolIterations int
}

// WithCheckpointSaver sets the checkpoint saver.
func WithCheckpointSaver(saver CheckpointSaver) ExecutorOption {
	return func(opts *ExecutorOptions) {
		opts.Saver = saver
	}
}

// WithTools sets the tools available to the tool-call sub-loop.
func WithTools(tools map[string]tool.Tool) ExecutorOption {
	return func(opts *ExecutorOptions) {
		opts.Tools = tools
	}
}

// WithMaxSteps sets the maximum number of run-loop steps.
func WithMaxSteps(maxSteps int) ExecutorOption {
	return func(opts *ExecutorOptions) {
		opts.MaxSteps = maxSteps
	}
}

// WithMaxToolIterations sets the tool sub-loop iteration cap.
func WithMaxToolIterations(n int) ExecutorOption {
	return func(opts *ExecutorOptions) {
		opts.MaxToolIterations = n
	}
}

// NewExecutor creates a new graph executor.
func NewExecutor(graph *Graph, opts ...ExecutorOption) (*Executor, error) {
	if err := graph.validate(); err != nil {
		return nil, fmt.Errorf("invalid graph: %w", err)
	}
	options := ExecutorOptions{
		MaxSteps:          defaultMaxSteps,
		MaxToolIterations: defaultMaxToolIterations,
	}
	for _, opt := range opts {
		opt(&options)
	}
	return &Executor{
		graph:             graph,
		saver:             options.Saver,
		tools:             options.Tools,
		maxSteps:          options.MaxSteps,
		maxToolIterations: options.MaxToolIterations,
	}, nil
}

// Pending returns the continuation marker for a suspended thread, or
// (nil, nil) when the thread exists but is not awaiting input.
// ErrNotFound is returned for an unknown thread.
func (e *Executor) Pending(ctx context.Context, threadID string) (*InterruptState, error) {
	if e.saver == nil {
		return nil, ErrCheckpointSaverRequired
	}
	checkpoint, err := e.saver.Get(ctx, threadID)
	if err != nil {
		return nil, err
	}
	if checkpoint == nil {
		return nil, ErrNotFound
	}
	return checkpoint.Interrupt, nil
}

// Run starts (or continues, for a known thread) a run with a fresh state
// update, typically carrying the user query. If the thread holds a
// suspended checkpoint, the pending question is superseded: the run starts
// over from the entry point against the persisted state.
func (e *Executor) Run(ctx context.Context, threadID string, update State) (State, error) {
	if threadID == "" {
		return nil, ErrThreadIDEmpty
	}
	state := e.defaultState()
	if e.saver != nil {
		checkpoint, err := e.saver.Get(ctx, threadID)
		if err != nil {
			return nil, fmt.Errorf("load checkpoint: %w", err)
		}
		if checkpoint != nil {
			restored, err := checkpoint.RestoreState(e.graph.Schema())
			if err != nil {
				return nil, fmt.Errorf("restore checkpoint: %w", err)
			}
			state = restored
		}
	}
	if update != nil {
		state = e.graph.Schema().ApplyUpdate(state, update)
	}
	return e.execute(ctx, threadID, state, e.graph.EntryPoint(), nil, nil, false)
}

// Resume re-enters a suspended run with the answer to its pending
// question. The suspended step re-executes from its start: pause points
// below the stored ordinal replay their recorded answers and the pending
// pause point receives the supplied answer.
func (e *Executor) Resume(ctx context.Context, threadID string, answer any) (State, error) {
	if threadID == "" {
		return nil, ErrThreadIDEmpty
	}
	if e.saver == nil {
		return nil, ErrCheckpointSaverRequired
	}
	checkpoint, err := e.saver.Get(ctx, threadID)
	if err != nil {
		return nil, fmt.Errorf("load checkpoint: %w", err)
	}
	if checkpoint == nil {
		return nil, fmt.Errorf("resume thread %s: %w", threadID, ErrNotFound)
	}
	if !checkpoint.IsInterrupted() {
		return nil, fmt.Errorf("resume thread %s: %w", threadID, ErrNoPendingInterrupt)
	}
	state, err := checkpoint.RestoreState(e.graph.Schema())
	if err != nil {
		return nil, fmt.Errorf("restore checkpoint: %w", err)
	}
	interrupt := checkpoint.Interrupt
	return e.execute(ctx, threadID, state, interrupt.NodeID, interrupt.Answers, answer, true)
}

// defaultState builds a state populated with schema defaults.
func (e *Executor) defaultState() State {
	schema := e.graph.Schema()
	schema.mu.RLock()
	defer schema.mu.RUnlock()
	state := make(State)
	for name, field := range schema.Fields {
		if field.Default != nil {
			state[name] = field.Default()
		}
	}
	return state
}

// execute drives the run loop from the given node until terminal,
// suspension, or failure. A failure leaves no new checkpoint: the prior
// checkpoint, if any, remains authoritative.
func (e *Executor) execute(
	ctx context.Context,
	threadID string,
	state State,
	current string,
	answers []any,
	resume any,
	hasResume bool,
) (State, error) {
	ctx, span := trace.Tracer.Start(ctx, "execute_graph")
	defer span.End()
	span.SetAttributes(attribute.String("voyager.thread_id", threadID))

	toolIterations := 0
	for step := 1; ; step++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		if step > e.maxSteps {
			return nil, fmt.Errorf("maximum execution steps (%d) exceeded", e.maxSteps)
		}
		if current == End {
			if err := e.saveCheckpoint(ctx, threadID, state, "", nil); err != nil {
				return nil, err
			}
			return state, nil
		}

		node, exists := e.graph.Node(current)
		if !exists {
			return nil, fmt.Errorf("node %s not found", current)
		}

		result, err := e.executeNode(ctx, node, state, answers, resume, hasResume)
		hasResume = false
		recorded, _ := state[StateKeyPauseAnswers].([]any)
		if err != nil {
			var ie *InterruptError
			if errors.As(err, &ie) {
				ie.NodeID = current
				ie.Step = step
				interrupt := &InterruptState{
					NodeID:     current,
					PauseIndex: ie.PauseIndex,
					Payload:    ie.Payload,
					Answers:    recorded,
					Step:       step,
				}
				clearPauseKeys(state)
				if err := e.saveCheckpoint(ctx, threadID, state, current, interrupt); err != nil {
					return nil, err
				}
				log.Debugf("thread %s suspended at node %s pause %d", threadID, current, ie.PauseIndex)
				return state, ie
			}
			return nil, fmt.Errorf("error executing node %s: %w", current, err)
		}
		// The step completed: recorded answers are consumed and the next
		// step starts with fresh pause bookkeeping.
		answers = nil
		clearPauseKeys(state)

		var goTo string
		switch r := result.(type) {
		case *Command:
			if r.Update != nil {
				state = e.graph.Schema().ApplyUpdate(state, r.Update)
			}
			goTo = r.GoTo
		case State:
			state = e.graph.Schema().ApplyUpdate(state, r)
		case nil:
			// No update.
		default:
			return nil, fmt.Errorf("node %s returned invalid result type: %T", current, result)
		}

		// Tool-call sub-loop: when the step's output requests tools, run
		// them, append results, and loop back to the same step so it can
		// consume them. This is a loop-back edge, not a transition.
		if calls := pendingToolCalls(state); len(calls) > 0 {
			toolIterations++
			if toolIterations > e.maxToolIterations {
				return nil, fmt.Errorf("node %s: %w (%d iterations)",
					current, ErrToolLoopLimit, toolIterations-1)
			}
			results, err := e.dispatchToolCalls(ctx, calls)
			if err != nil {
				return nil, fmt.Errorf("node %s tool dispatch: %w", current, err)
			}
			state = e.graph.Schema().ApplyUpdate(state, State{StateKeyMessages: results})
			if err := e.saveCheckpoint(ctx, threadID, state, current, nil); err != nil {
				return nil, err
			}
			continue
		}
		toolIterations = 0

		next := goTo
		if next == "" {
			next, err = e.selectNextNode(ctx, state, current)
			if err != nil {
				return nil, err
			}
		}
		if err := e.saveCheckpoint(ctx, threadID, state, next, nil); err != nil {
			return nil, err
		}
		current = next
	}
}

// executeNode runs a single node function with pause-replay bookkeeping
// installed in state.
func (e *Executor) executeNode(
	ctx context.Context,
	node *Node,
	state State,
	answers []any,
	resume any,
	hasResume bool,
) (any, error) {
	ctx, span := trace.Tracer.Start(ctx, fmt.Sprintf("execute_node %s", node.ID))
	defer span.End()
	span.SetAttributes(
		attribute.String("voyager.node_id", node.ID),
		attribute.String("voyager.node_name", node.Name),
	)

	state[StateKeyPauseOrdinal] = 0
	if len(answers) > 0 {
		state[StateKeyPauseAnswers] = answers
	}
	if hasResume {
		state[StateKeyResumeValue] = resume
	}

	if node.Function == nil {
		return nil, fmt.Errorf("node %s has no function", node.ID)
	}
	result, err := node.Function(ctx, state)
	if err != nil {
		span.SetAttributes(attribute.String("voyager.error", err.Error()))
	}
	return result, err
}

// selectNextNode resolves the transition after a completed step:
// conditional edge first, then the static edge, else the terminal step.
func (e *Executor) selectNextNode(ctx context.Context, state State, currentNodeID string) (string, error) {
	if condEdge, exists := e.graph.ConditionalEdge(currentNodeID); exists {
		conditionResult, err := condEdge.Condition(ctx, state)
		if err != nil {
			return "", fmt.Errorf("conditional edge evaluation failed: %w", err)
		}
		if nextNode, exists := condEdge.PathMap[conditionResult]; exists {
			return nextNode, nil
		}
		return "", fmt.Errorf("condition result %s not found in path map", conditionResult)
	}
	edges := e.graph.Edges(currentNodeID)
	if len(edges) == 0 {
		// No outgoing edges, assume we should go to End.
		return End, nil
	}
	return edges[0].To, nil
}

// saveCheckpoint overwrites the thread's live checkpoint.
func (e *Executor) saveCheckpoint(
	ctx context.Context,
	threadID string,
	state State,
	nextNode string,
	interrupt *InterruptState,
) error {
	if e.saver == nil {
		return nil
	}
	checkpoint, err := NewCheckpoint(threadID, state, nextNode, interrupt)
	if err != nil {
		return fmt.Errorf("create checkpoint: %w", err)
	}
	if err := e.saver.Put(ctx, checkpoint); err != nil {
		return fmt.Errorf("save checkpoint: %w", err)
	}
	return nil
}

func clearPauseKeys(state State) {
	delete(state, StateKeyPauseOrdinal)
	delete(state, StateKeyPauseAnswers)
	delete(state, StateKeyResumeValue)
}
