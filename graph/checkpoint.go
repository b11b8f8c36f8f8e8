package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"
)

// CheckpointVersion is the current version of the checkpoint format.
const CheckpointVersion = 1

// Checkpoint is a durable snapshot of one thread's session state plus, if
// the run is suspended, the pending continuation marker. Exactly one
// checkpoint is live per thread: every run-loop advance overwrites it.
type Checkpoint struct {
	// Version is the version of the checkpoint format.
	Version int `json:"v"`
	// ID is the unique identifier for this checkpoint.
	ID string `json:"id"`
	// ThreadID correlates the checkpoint with its conversation thread.
	ThreadID string `json:"thread_id"`
	// Timestamp is when the checkpoint was created.
	Timestamp time.Time `json:"ts"`
	// State holds the serialized session state, field by field.
	State map[string]json.RawMessage `json:"state"`
	// NextNode records where the run loop stood when the checkpoint was
	// written: the node due to execute next, or empty once the run
	// reached the terminal step. It is persisted for inspection only;
	// a fresh run always restarts from the entry point and a resume
	// re-enters the suspended node recorded in Interrupt.
	NextNode string `json:"next_node,omitempty"`
	// Interrupt carries the pending continuation marker when the run is
	// suspended awaiting external input.
	Interrupt *InterruptState `json:"interrupt,omitempty"`
}

// InterruptState is the pending continuation marker for a suspended run.
type InterruptState struct {
	// NodeID is the step that raised the interrupt.
	NodeID string `json:"node_id"`
	// PauseIndex is the ordinal pause point inside the step.
	PauseIndex int `json:"pause_index"`
	// Payload is the question surfaced to the caller.
	Payload *SuspendPayload `json:"payload"`
	// Answers holds recorded answers for pause ordinals below PauseIndex.
	// They are replayed when the step re-executes after a resume.
	Answers []any `json:"answers,omitempty"`
	// Step is the run-loop step number when the interrupt occurred.
	Step int `json:"step"`
}

// IsInterrupted reports whether the checkpoint marks a suspended run.
func (c *Checkpoint) IsInterrupted() bool {
	return c != nil && c.Interrupt != nil && c.Interrupt.NodeID != ""
}

// NewCheckpoint serializes state into a fresh checkpoint for threadID.
// Internal (double-underscore) state keys are skipped.
func NewCheckpoint(threadID string, state State, nextNode string, interrupt *InterruptState) (*Checkpoint, error) {
	encoded := make(map[string]json.RawMessage, len(state))
	for key, value := range state {
		if isInternalStateKey(key) {
			continue
		}
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("marshal state field %s: %w", key, err)
		}
		encoded[key] = raw
	}
	return &Checkpoint{
		Version:   CheckpointVersion,
		ID:        uuid.New().String(),
		ThreadID:  threadID,
		Timestamp: time.Now().UTC(),
		State:     encoded,
		NextNode:  nextNode,
		Interrupt: interrupt,
	}, nil
}

// RestoreState decodes the checkpointed state using the schema's field
// types, so typed values (message logs, maps) round-trip correctly.
func (c *Checkpoint) RestoreState(schema *StateSchema) (State, error) {
	state := make(State, len(c.State))
	for key, raw := range c.State {
		if field, ok := schema.Field(key); ok && field.Type != nil {
			holder := reflect.New(field.Type)
			if err := json.Unmarshal(raw, holder.Interface()); err != nil {
				return nil, fmt.Errorf("unmarshal state field %s: %w", key, err)
			}
			state[key] = holder.Elem().Interface()
			continue
		}
		var value any
		if err := json.Unmarshal(raw, &value); err != nil {
			return nil, fmt.Errorf("unmarshal state field %s: %w", key, err)
		}
		state[key] = value
	}
	return state, nil
}

// CheckpointSaver defines the interface for checkpoint storage
// implementations. At most one checkpoint is live per thread id; Put
// overwrites any prior checkpoint for the same thread.
type CheckpointSaver interface {
	// Get retrieves the live checkpoint for a thread id.
	// It returns (nil, nil) when the thread has no checkpoint.
	Get(ctx context.Context, threadID string) (*Checkpoint, error)
	// Put stores the checkpoint, replacing any prior one for its thread.
	Put(ctx context.Context, checkpoint *Checkpoint) error
	// Delete removes the checkpoint for a thread id, if present.
	Delete(ctx context.Context, threadID string) error
	// Close releases resources held by the saver.
	Close() error
}
