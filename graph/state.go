package graph

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/voyagerlab/voyager/model"
)

// State represents the session state that flows through the graph.
// This is the shared data structure that steps read and update. Absence of
// a key means "never set"; a present zero value means "explicitly set to
// nothing" — the two are distinguishable upstream.
type State map[string]any

// Clone creates a shallow copy of the state.
func (s State) Clone() State {
	clone := make(State, len(s))
	for k, v := range s {
		clone[k] = v
	}
	return clone
}

// StateReducer determines how a field's updates are merged.
// It takes existing and new values and returns the merged result.
type StateReducer func(existing, update any) any

// StateField defines a field in the state schema with its type and reducer.
type StateField struct {
	Type     reflect.Type
	Reducer  StateReducer
	Default  func() any
	Required bool
}

// StateSchema defines the structure and merge behavior of graph state.
type StateSchema struct {
	mu     sync.RWMutex
	Fields map[string]StateField
}

// NewStateSchema creates a new state schema.
func NewStateSchema() *StateSchema {
	return &StateSchema{
		Fields: make(map[string]StateField),
	}
}

// AddField adds a field to the state schema.
func (s *StateSchema) AddField(name string, field StateField) *StateSchema {
	s.mu.Lock()
	defer s.mu.Unlock()

	if field.Reducer == nil {
		field.Reducer = DefaultReducer
	}

	s.Fields[name] = field
	return s
}

// Field returns the schema entry for a field name.
func (s *StateSchema) Field(name string) (StateField, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	field, ok := s.Fields[name]
	return field, ok
}

// ApplyUpdate applies a state update using the defined reducers.
func (s *StateSchema) ApplyUpdate(currentState State, update State) State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := currentState.Clone()
	for key, updateValue := range update {
		field, exists := s.Fields[key]
		if !exists {
			// No field definition, use overwrite semantics.
			result[key] = updateValue
			continue
		}
		currentValue, hasCurrentValue := result[key]
		if !hasCurrentValue && field.Default != nil {
			currentValue = field.Default()
		}
		result[key] = field.Reducer(currentValue, updateValue)
	}
	return result
}

// Validate validates a state against the schema.
func (s *StateSchema) Validate(state State) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for name, field := range s.Fields {
		value, exists := state[name]

		if field.Required && !exists {
			return fmt.Errorf("required field %s is missing", name)
		}

		if exists && value != nil {
			valueType := reflect.TypeOf(value)
			if !valueType.AssignableTo(field.Type) {
				return fmt.Errorf("field %s has wrong type: expected %v, got %v",
					name, field.Type, valueType)
			}
		}
	}
	return nil
}

// Common reducer functions.

// DefaultReducer overwrites the existing value with the update.
func DefaultReducer(existing, update any) any {
	return update
}

// AppendReducer appends update to existing slice.
func AppendReducer(existing, update any) any {
	if existing == nil {
		existing = []any{}
	}

	existingSlice, ok1 := existing.([]any)
	updateSlice, ok2 := update.([]any)

	if !ok1 || !ok2 {
		// Fallback to overwrite behavior if not slices.
		return update
	}
	return append(existingSlice, updateSlice...)
}

// StringSliceReducer appends string slices specifically.
func StringSliceReducer(existing, update any) any {
	if existing == nil {
		existing = []string{}
	}

	existingSlice, ok1 := existing.([]string)
	updateSlice, ok2 := update.([]string)

	if !ok1 || !ok2 {
		return update
	}
	return append(existingSlice, updateSlice...)
}

// MergeReducer merges update map into existing map.
func MergeReducer(existing, update any) any {
	if existing == nil {
		existing = make(map[string]any)
	}

	existingMap, ok1 := existing.(map[string]any)
	updateMap, ok2 := update.(map[string]any)

	if !ok1 || !ok2 {
		return update
	}

	result := make(map[string]any, len(existingMap)+len(updateMap))
	for k, v := range existingMap {
		result[k] = v
	}
	for k, v := range updateMap {
		result[k] = v
	}
	return result
}

// MessageReducer appends new messages to the log. Existing entries are
// never replaced or mutated. The update may be a single message or a
// slice of messages.
func MessageReducer(existing, update any) any {
	existingMsgs, ok := existing.([]model.Message)
	if existing != nil && !ok {
		return update
	}
	var updateMsgs []model.Message
	switch u := update.(type) {
	case model.Message:
		updateMsgs = []model.Message{u}
	case []model.Message:
		updateMsgs = u
	default:
		return update
	}
	merged := make([]model.Message, 0, len(existingMsgs)+len(updateMsgs))
	merged = append(merged, existingMsgs...)
	return append(merged, updateMsgs...)
}

// MessagesStateSchema creates a state schema for message-based workflows.
func MessagesStateSchema() *StateSchema {
	schema := NewStateSchema()
	schema.AddField(StateKeyMessages, StateField{
		Type:    reflect.TypeOf([]model.Message{}),
		Reducer: MessageReducer,
		Default: func() any { return []model.Message{} },
	})
	schema.AddField(StateKeyUserInput, StateField{
		Type:    reflect.TypeOf(""),
		Reducer: DefaultReducer,
	})
	schema.AddField(StateKeyLastResponse, StateField{
		Type:    reflect.TypeOf(""),
		Reducer: DefaultReducer,
	})
	schema.AddField(StateKeyMetadata, StateField{
		Type:    reflect.TypeOf(map[string]any{}),
		Reducer: MergeReducer,
		Default: func() any { return make(map[string]any) },
	})
	return schema
}

// Messages extracts the message log from state.
func Messages(state State) []model.Message {
	msgs, _ := state[StateKeyMessages].([]model.Message)
	return msgs
}

// LastMessage returns the most recent message in the log, if any.
func LastMessage(state State) (model.Message, bool) {
	msgs := Messages(state)
	if len(msgs) == 0 {
		return model.Message{}, false
	}
	return msgs[len(msgs)-1], true
}
