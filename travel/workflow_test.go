package travel

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyagerlab/voyager/graph"
	"github.com/voyagerlab/voyager/graph/checkpoint/inmemory"
	"github.com/voyagerlab/voyager/model"
	"github.com/voyagerlab/voyager/tool"
)

// scriptedModel answers each completion by matching a marker substring of
// the system prompt.
type scriptedModel struct {
	responses map[string]string
}

func (m *scriptedModel) Generate(ctx context.Context, req *model.Request) (*model.Response, error) {
	if len(req.Messages) == 0 {
		return nil, fmt.Errorf("no messages")
	}
	system := req.Messages[0].Content
	for marker, content := range m.responses {
		if strings.Contains(system, marker) {
			return &model.Response{Message: model.NewAssistantMessage(content)}, nil
		}
	}
	return nil, fmt.Errorf("no scripted response for system prompt %q", system)
}

func (m *scriptedModel) Info() model.Info {
	return model.Info{Name: "scripted"}
}

// stubTool answers every call with a fixed string.
type stubTool struct {
	name   string
	result string
}

func (s *stubTool) Declaration() *tool.Declaration {
	return &tool.Declaration{Name: s.name, Description: "stub"}
}

func (s *stubTool) Call(ctx context.Context, jsonArgs []byte) (any, error) {
	return s.result, nil
}

func TestWorkflowGraphCompiles(t *testing.T) {
	w := newTestWorkflow(t, nil)

	g, err := w.Graph()
	require.NoError(t, err)
	require.NotNil(t, g)
	assert.Equal(t, nodeQueryIntent, g.EntryPoint())
}

func TestWorkflowPlansTripAcrossSuspensions(t *testing.T) {
	ctx := context.Background()

	gen := &scriptedModel{responses: map[string]string{
		"intent analyzer": `{
			"agents_needed": ["trip_planner"],
			"locations": {"trip_planner": "Mysore"},
			"preferences": {"trip_days": "3"}
		}`,
		"date extraction":     `{"from_date": null, "to_date": null}`,
		"expert trip planner": "Day 1: Mysore Palace. Day 2: Brindavan Gardens. Day 3: Chamundi Hills.",
		"combine trip plans":  "Here is your 3-day Mysore plan.",
	}}
	w, err := NewWorkflow(Deps{
		Generator: gen,
		Tools: map[string]tool.Tool{
			toolWebSearch: &stubTool{name: toolWebSearch, result: "attraction search results"},
			toolWeather:   &stubTool{name: toolWeather, result: "Sunny, 25C"},
		},
	})
	require.NoError(t, err)

	g, err := w.Graph()
	require.NoError(t, err)
	exec, err := graph.NewExecutor(g,
		graph.WithCheckpointSaver(inmemory.NewSaver()),
		graph.WithTools(w.Tools()),
	)
	require.NoError(t, err)

	const thread = "trip-1"
	_, err = exec.Run(ctx, thread, graph.State{
		graph.StateKeyUserInput: "Plan a 3-day trip to Mysore in December",
	})
	ie, ok := graph.AsInterruptError(err)
	require.True(t, ok, "run must suspend for the first preference")
	assert.Equal(t, KeyBudget, ie.Payload.Key)

	// Answer the remaining questions in whatever order they arrive.
	answers := map[string]string{
		KeySourceLocation: "Coimbatore",
		KeyBudget:         "Mid-range",
		KeyExperienceType: "Cultural/Sightseeing",
		KeyPeople:         "Couple",
		KeyMonth:          "December",
	}
	var final graph.State
	for i := 0; i < len(answers); i++ {
		pending, err := exec.Pending(ctx, thread)
		require.NoError(t, err)
		require.NotNil(t, pending)
		answer, ok := answers[pending.Payload.Key]
		require.True(t, ok, "unexpected question %q", pending.Payload.Key)

		final, err = exec.Resume(ctx, thread, answer)
		if i < len(answers)-1 {
			_, isInterrupt := graph.AsInterruptError(err)
			require.True(t, isInterrupt, "question %d must suspend again", i+1)
			continue
		}
		require.NoError(t, err, "last answer must complete the run")
	}

	assert.Equal(t, "Here is your 3-day Mysore plan.", final[graph.StateKeyLastResponse])
	assert.Equal(t, "Here is your 3-day Mysore plan.", final[KeyFinalResult])
	assert.Contains(t, final[KeyTripPlannerResult], "Mysore Palace")
	assert.Equal(t, true, final[KeyTripPlannerCalled])
	assert.Equal(t, "3", final[KeyTripDays], "stated duration is never re-asked")

	pending, err := exec.Pending(ctx, thread)
	require.NoError(t, err)
	assert.Nil(t, pending, "completed thread holds no pending question")
}

func TestWorkflowUnrelatedQueryEndsImmediately(t *testing.T) {
	ctx := context.Background()

	gen := &scriptedModel{responses: map[string]string{
		"intent analyzer": `{"agents_needed": [], "locations": {}, "preferences": {}}`,
		"date extraction": `{"from_date": null, "to_date": null}`,
	}}
	w, err := NewWorkflow(Deps{Generator: gen})
	require.NoError(t, err)

	g, err := w.Graph()
	require.NoError(t, err)
	exec, err := graph.NewExecutor(g, graph.WithCheckpointSaver(inmemory.NewSaver()))
	require.NoError(t, err)

	final, err := exec.Run(ctx, "chat-1", graph.State{
		graph.StateKeyUserInput: "What is the capital of France?",
	})
	require.NoError(t, err)
	assert.Empty(t, stateStrings(final, KeyAgentsNeeded))
}

func TestWorkflowMalformedIntentDegrades(t *testing.T) {
	ctx := context.Background()

	gen := &scriptedModel{responses: map[string]string{
		"intent analyzer": "sorry, I cannot help with that",
		"date extraction": `{"from_date": null, "to_date": null}`,
	}}
	w, err := NewWorkflow(Deps{Generator: gen})
	require.NoError(t, err)

	g, err := w.Graph()
	require.NoError(t, err)
	exec, err := graph.NewExecutor(g, graph.WithCheckpointSaver(inmemory.NewSaver()))
	require.NoError(t, err)

	final, err := exec.Run(ctx, "chat-2", graph.State{
		graph.StateKeyUserInput: "plan something",
	})
	require.NoError(t, err)
	assert.Equal(t, intentFallbackMessage, final[graph.StateKeyLastResponse])
}
