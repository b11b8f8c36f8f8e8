package graph

import (
	"errors"
	"fmt"
	"time"
)

// InputShape hints how a suspend question expects to be answered.
type InputShape string

// Input shape constants.
const (
	ShapeFreeText InputShape = "free_text"
	ShapeChoice   InputShape = "choice"
	ShapeConfirm  InputShape = "confirm"
	ShapeDate     InputShape = "date"
)

// SuspendPayload is the question surfaced to the caller when a step
// suspends the run to request external input.
type SuspendPayload struct {
	// Key is a stable identifier for the question.
	Key string `json:"key"`
	// Question is the human-readable question text.
	Question string `json:"question"`
	// Shape hints the expected answer shape.
	Shape InputShape `json:"shape"`
	// Options lists allowed answer labels, when the shape is a choice.
	Options []string `json:"options,omitempty"`
	// Default is an optional default answer.
	Default string `json:"default,omitempty"`
	// Metadata is echoed back unchanged to the caller.
	Metadata map[string]any `json:"metadata,omitempty"`
}

// InterruptError represents an interrupt in graph execution that can be
// resumed. The run loop converts it into a persisted checkpoint carrying
// the continuation marker.
type InterruptError struct {
	// Payload is the question passed to Interrupt().
	Payload *SuspendPayload
	// NodeID is the ID of the node where the interrupt occurred.
	NodeID string
	// PauseIndex is the ordinal of the pause point inside the node, in
	// call order, starting at zero.
	PauseIndex int
	// Step is the run-loop step number when the interrupt occurred.
	Step int
	// Timestamp is when the interrupt occurred.
	Timestamp time.Time
}

// Error returns the error message for the interrupt.
func (e *InterruptError) Error() string {
	key := ""
	if e.Payload != nil {
		key = e.Payload.Key
	}
	return fmt.Sprintf("graph interrupted at node %s (pause %d, question %q)",
		e.NodeID, e.PauseIndex, key)
}

// NewInterruptError creates a new InterruptError with the given payload.
func NewInterruptError(payload *SuspendPayload) *InterruptError {
	return &InterruptError{
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// IsInterruptError checks if an error is an InterruptError.
func IsInterruptError(err error) bool {
	var ie *InterruptError
	return errors.As(err, &ie)
}

// AsInterruptError extracts an InterruptError from an error.
func AsInterruptError(err error) (*InterruptError, bool) {
	var ie *InterruptError
	if errors.As(err, &ie) {
		return ie, true
	}
	return nil, false
}
