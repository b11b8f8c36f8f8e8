package graph

import (
	"context"
	"fmt"
)

// Interrupt suspends execution at the current step and surfaces the given
// payload to the caller. On resume, it returns the answer that was
// supplied for this pause point.
//
// Pause points inside one step invocation are numbered in call order. On
// resume the engine replays the step from its start: calls below the
// suspended ordinal return their previously recorded answers, the call at
// the suspended ordinal returns the caller's answer, and any later call
// suspends again. Step functions that pause more than once must therefore
// derive everything computed before a later pause from State, never from
// volatile local computation, because locals do not survive the
// pause/resume boundary.
func Interrupt(ctx context.Context, state State, payload *SuspendPayload) (any, error) {
	ordinal, _ := state[StateKeyPauseOrdinal].(int)
	state[StateKeyPauseOrdinal] = ordinal + 1

	// Replay a previously recorded answer for this pause point.
	if answers, ok := state[StateKeyPauseAnswers].([]any); ok && ordinal < len(answers) {
		return answers[ordinal], nil
	}

	// Consume the caller-supplied answer for the pending pause point.
	if value, ok := state[StateKeyResumeValue]; ok {
		delete(state, StateKeyResumeValue)
		answers, _ := state[StateKeyPauseAnswers].([]any)
		state[StateKeyPauseAnswers] = append(answers, value)
		return value, nil
	}

	// Not resuming: suspend with the payload.
	err := NewInterruptError(payload)
	err.PauseIndex = ordinal
	return nil, err
}

// InterruptString is a convenience wrapper around Interrupt for the common
// case of a free-form or single-choice text answer.
func InterruptString(ctx context.Context, state State, payload *SuspendPayload) (string, error) {
	value, err := Interrupt(ctx, state, payload)
	if err != nil {
		return "", err
	}
	switch v := value.(type) {
	case string:
		return v, nil
	case nil:
		return "", nil
	default:
		return fmt.Sprintf("%v", v), nil
	}
}
