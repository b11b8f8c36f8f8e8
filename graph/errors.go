package graph

import "errors"

// Errors.
var (
	// ErrThreadIDEmpty is returned when a thread id is missing.
	ErrThreadIDEmpty = errors.New("thread_id cannot be empty")
	// ErrNotFound is returned when a resume references an unknown thread.
	ErrNotFound = errors.New("thread not found")
	// ErrNoPendingInterrupt is returned when a resume answer arrives for a
	// thread that is not awaiting input.
	ErrNoPendingInterrupt = errors.New("no pending interrupt for thread")
	// ErrToolLoopLimit is returned when a step keeps requesting tool calls
	// past the configured iteration cap.
	ErrToolLoopLimit = errors.New("tool call loop limit exceeded")
	// ErrCheckpointSaverRequired is returned when an operation needs a
	// configured checkpoint saver.
	ErrCheckpointSaverRequired = errors.New("checkpoint saver is not configured")
)
