package travel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyagerlab/voyager/graph"
)

func newTestWorkflow(t *testing.T, gen *scriptedModel) *Workflow {
	t.Helper()
	if gen == nil {
		gen = &scriptedModel{}
	}
	w, err := NewWorkflow(Deps{Generator: gen})
	require.NoError(t, err)
	return w
}

// prefState returns a state that already passed date confirmation, with
// the given preference values set.
func prefState(values graph.State) graph.State {
	state := graph.State{KeyDateConfirmationDone: true}
	for key, value := range values {
		state[key] = value
	}
	return state
}

func TestAskPreferenceSuspendsOnFirstMissing(t *testing.T) {
	w := newTestWorkflow(t, nil)

	_, err := w.askPreference(context.Background(), prefState(graph.State{}))
	ie, ok := graph.AsInterruptError(err)
	require.True(t, ok)
	assert.Equal(t, KeyBudget, ie.Payload.Key)
	assert.Equal(t, graph.ShapeChoice, ie.Payload.Shape)
	assert.Equal(t,
		"What's your budget range for this trip?",
		ie.Payload.Question)
	assert.Contains(t, ie.Payload.Options, "Mid-range")
}

func TestAskPreferenceBudgetQuestionNamesDestination(t *testing.T) {
	w := newTestWorkflow(t, nil)

	_, err := w.askPreference(context.Background(), prefState(graph.State{
		KeyAgentLocations: map[string]any{CapabilityPlanner: "Goa"},
	}))
	ie, ok := graph.AsInterruptError(err)
	require.True(t, ok)
	assert.Equal(t, KeyBudget, ie.Payload.Key)
	assert.Equal(t,
		"What's your budget range for this trip to Goa?",
		ie.Payload.Question)
}

func TestPreferenceQuestionPlaceholder(t *testing.T) {
	budget := preferences[KeyBudget]
	assert.Equal(t,
		"What's your budget range for this trip to Bali?",
		budget.question("Bali"))
	assert.Equal(t,
		"What's your budget range for this trip?",
		budget.question(""))

	people := preferences[KeyPeople]
	assert.Equal(t, people.Question, people.question("Bali"),
		"questions without a placeholder are untouched")
}

func TestAskPreferenceStoresAnswerAndLoops(t *testing.T) {
	w := newTestWorkflow(t, nil)

	state := prefState(graph.State{
		graph.StateKeyPauseAnswers: []any{"Mid-range"},
	})
	result, err := w.askPreference(context.Background(), state)
	require.NoError(t, err)

	cmd, ok := result.(*graph.Command)
	require.True(t, ok)
	assert.Equal(t, nodeAskPreference, cmd.GoTo)
	assert.Equal(t, "Mid-range", cmd.Update[KeyBudget])
}

func TestAskPreferenceLastAnswerFinishesCollection(t *testing.T) {
	w := newTestWorkflow(t, nil)

	state := prefState(graph.State{
		KeySourceLocation:          "Coimbatore",
		KeyBudget:                  "Mid-range",
		KeyExperienceType:          "Cultural/Sightseeing",
		KeyPeople:                  "Couple",
		KeyLocation:                "Mysore",
		KeyTripDays:                "3",
		graph.StateKeyPauseAnswers: []any{"December"},
	})
	result, err := w.askPreference(context.Background(), state)
	require.NoError(t, err)

	cmd, ok := result.(*graph.Command)
	require.True(t, ok)
	assert.Equal(t, nodeRouteDescription, cmd.GoTo)
	assert.Equal(t, "December", cmd.Update[KeyMonth])
	assert.Equal(t, true, cmd.Update[KeyPreferencesCollected])
}

func TestAskPreferenceLocationAnswerUpdatesPlannerDestination(t *testing.T) {
	w := newTestWorkflow(t, nil)

	state := prefState(graph.State{
		KeySourceLocation:          "Coimbatore",
		KeyBudget:                  "Mid-range",
		KeyExperienceType:          "Mix of everything",
		KeyPeople:                  "Solo",
		graph.StateKeyPauseAnswers: []any{"Bali"},
	})
	result, err := w.askPreference(context.Background(), state)
	require.NoError(t, err)

	cmd := result.(*graph.Command)
	assert.Equal(t, "Bali", cmd.Update[KeyLocation])
	assert.Equal(t,
		map[string]any{CapabilityPlanner: "Bali"},
		cmd.Update[KeyAgentLocations])
}

func TestAskPreferenceEmptyAnswerBecomesNotSpecified(t *testing.T) {
	w := newTestWorkflow(t, nil)

	state := prefState(graph.State{
		graph.StateKeyPauseAnswers: []any{"  "},
	})
	result, err := w.askPreference(context.Background(), state)
	require.NoError(t, err)

	cmd := result.(*graph.Command)
	assert.Equal(t, "Not specified", cmd.Update[KeyBudget])
}

func TestAskPreferenceAlreadyCollectedGoesToRoute(t *testing.T) {
	w := newTestWorkflow(t, nil)

	result, err := w.askPreference(context.Background(), graph.State{
		KeyPreferencesCollected: true,
	})
	require.NoError(t, err)

	cmd := result.(*graph.Command)
	assert.Equal(t, nodeRouteDescription, cmd.GoTo)
	assert.Nil(t, cmd.Update)
}

func TestConfirmDatesAsksWhenBothDatesParsed(t *testing.T) {
	w := newTestWorkflow(t, nil)

	_, err := w.askPreference(context.Background(), graph.State{
		KeyFromDate: "2026-12-10",
		KeyToDate:   "2026-12-13",
	})
	ie, ok := graph.AsInterruptError(err)
	require.True(t, ok)
	assert.Equal(t, "dates_confirmation", ie.Payload.Key)
	assert.Equal(t, graph.ShapeConfirm, ie.Payload.Shape)
	assert.Equal(t, []string{"Keep", "Change"}, ie.Payload.Options)
	assert.Equal(t, "Keep", ie.Payload.Default)
	assert.Equal(t, "2026-12-10", ie.Payload.Metadata[KeyFromDate])
}

func TestConfirmDatesKeepMovesOn(t *testing.T) {
	w := newTestWorkflow(t, nil)

	result, err := w.askPreference(context.Background(), graph.State{
		KeyFromDate:                "2026-12-10",
		KeyToDate:                  "2026-12-13",
		graph.StateKeyPauseAnswers: []any{"Keep"},
	})
	require.NoError(t, err)

	cmd := result.(*graph.Command)
	assert.Equal(t, nodeAskPreference, cmd.GoTo)
	assert.Equal(t, true, cmd.Update[KeyDateConfirmationDone])
	assert.NotContains(t, cmd.Update, KeyFromDate)
}

func TestConfirmDatesChangeCollectsReplacements(t *testing.T) {
	w := newTestWorkflow(t, nil)

	state := graph.State{
		KeyFromDate:                "2026-12-10",
		KeyToDate:                  "2026-12-13",
		graph.StateKeyPauseAnswers: []any{"Change"},
	}
	_, err := w.askPreference(context.Background(), state)
	ie, ok := graph.AsInterruptError(err)
	require.True(t, ok)
	assert.Equal(t, KeyFromDate, ie.Payload.Key)
	assert.Equal(t, graph.ShapeDate, ie.Payload.Shape)
	assert.Equal(t, 1, ie.PauseIndex)

	state = graph.State{
		KeyFromDate:                "2026-12-10",
		KeyToDate:                  "2026-12-13",
		graph.StateKeyPauseAnswers: []any{"Change", "2027-01-05", "2027-01-09"},
	}
	result, err := w.askPreference(context.Background(), state)
	require.NoError(t, err)

	cmd := result.(*graph.Command)
	assert.Equal(t, "2027-01-05", cmd.Update[KeyFromDate])
	assert.Equal(t, "2027-01-09", cmd.Update[KeyToDate])
	assert.Equal(t, true, cmd.Update[KeyDateConfirmationDone])
}

func TestConfirmDatesSkippedWithoutDates(t *testing.T) {
	w := newTestWorkflow(t, nil)

	result, err := w.askPreference(context.Background(), graph.State{
		KeyFromDate: "sometime next month",
	})
	require.NoError(t, err)

	cmd := result.(*graph.Command)
	assert.Equal(t, nodeAskPreference, cmd.GoTo)
	assert.Equal(t, true, cmd.Update[KeyDateConfirmationDone])
}

func TestDeriveFromDatesFillsDurationAndMonth(t *testing.T) {
	w := newTestWorkflow(t, nil)

	update := graph.State{}
	w.deriveFromDates(graph.State{
		KeyFromDate: "2026-12-10",
		KeyToDate:   "2026-12-13",
	}, update)
	assert.Equal(t, "4", update[KeyTripDays], "day count includes both travel days")
	assert.Equal(t, "December", update[KeyMonth])

	update = graph.State{}
	w.deriveFromDates(graph.State{
		KeyFromDate: "2026-12-10",
		KeyToDate:   "2026-12-10",
		KeySeason:   "Winter",
	}, update)
	assert.Equal(t, "1", update[KeyTripDays], "same-day trips count one day")
	assert.NotContains(t, update, KeyMonth, "a known season suppresses the month")
}

func TestMissingPreferencesSkipsDerivedAndLocated(t *testing.T) {
	state := graph.State{
		KeySourceLocation: "Chennai",
		KeyBudget:         "Luxury",
		KeyExperienceType: "Relaxing/Leisure",
		KeyPeople:         "Family",
		KeyTripDays:       "5",
		KeySeason:         "Summer",
		KeyAgentLocations: map[string]any{CapabilityPlanner: "Bali"},
	}
	assert.Empty(t, missingPreferences(state, graph.State{}))

	delete(state, KeyBudget)
	assert.Equal(t, []string{KeyBudget}, missingPreferences(state, graph.State{}))
}
