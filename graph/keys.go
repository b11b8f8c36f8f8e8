package graph

import "strings"

// Well-known state keys shared by the engine and step implementations.
const (
	// StateKeyUserInput is the key of the user input.
	// Typically it remains constant across one run of the graph.
	StateKeyUserInput = "user_input"
	// StateKeyLastResponse is the key of the last response.
	StateKeyLastResponse = "last_response"
	// StateKeyMessages is the key of the message log.
	// The log is append-only; see MessageReducer.
	StateKeyMessages = "messages"
	// StateKeyMetadata is the key of the metadata map.
	StateKeyMetadata = "metadata"
)

// Internal state keys used by the interrupt replay machinery. They are
// ephemeral and never serialized into checkpoints.
const (
	// StateKeyPauseOrdinal counts Interrupt calls within one step
	// invocation, in call order.
	StateKeyPauseOrdinal = "__pause_ordinal__"
	// StateKeyPauseAnswers holds previously recorded answers, indexed by
	// pause ordinal, replayed on re-entry after a resume.
	StateKeyPauseAnswers = "__pause_answers__"
	// StateKeyResumeValue holds the answer supplied by the caller for the
	// pending pause point.
	StateKeyResumeValue = "__resume__"
)

// isInternalStateKey reports whether a state key is internal/ephemeral and
// must not be serialized into checkpoints.
func isInternalStateKey(key string) bool {
	return strings.HasPrefix(key, "__")
}
