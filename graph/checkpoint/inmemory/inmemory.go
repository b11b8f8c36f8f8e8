// Package inmemory provides a process-local checkpoint saver. State is
// lost on restart, so it suits tests and single-shot tools rather than
// services that must survive a crash.
package inmemory

import (
	"context"
	"sync"

	"github.com/voyagerlab/voyager/graph"
)

// Saver keeps one live checkpoint per thread in a map.
type Saver struct {
	mu          sync.RWMutex
	checkpoints map[string]*graph.Checkpoint
}

var _ graph.CheckpointSaver = (*Saver)(nil)

// NewSaver creates an empty in-memory saver.
func NewSaver() *Saver {
	return &Saver{
		checkpoints: make(map[string]*graph.Checkpoint),
	}
}

// Get returns the live checkpoint for the thread, or (nil, nil).
func (s *Saver) Get(_ context.Context, threadID string) (*graph.Checkpoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	checkpoint, ok := s.checkpoints[threadID]
	if !ok {
		return nil, nil
	}
	return checkpoint, nil
}

// Put stores the checkpoint, replacing any prior one for its thread.
func (s *Saver) Put(_ context.Context, checkpoint *graph.Checkpoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkpoints[checkpoint.ThreadID] = checkpoint
	return nil
}

// Delete removes the thread's checkpoint, if present.
func (s *Saver) Delete(_ context.Context, threadID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.checkpoints, threadID)
	return nil
}

// Close is a no-op for the in-memory saver.
func (s *Saver) Close() error {
	return nil
}
