package travel

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/voyagerlab/voyager/graph"
	"github.com/voyagerlab/voyager/log"
	"github.com/voyagerlab/voyager/model"
)

const intentFallbackMessage = "I had trouble understanding your request format. Please ask again clearly."

type intentResult struct {
	AgentsNeeded []string          `json:"agents_needed"`
	Locations    map[string]string `json:"locations"`
	Preferences  map[string]any    `json:"preferences"`
}

type dateResult struct {
	FromDate *string `json:"from_date"`
	ToDate   *string `json:"to_date"`
}

// queryIntent analyzes the raw user query: which capabilities are needed,
// destination per capability, and any preferences or dates already
// stated. Malformed model output degrades to a clarification message and
// no selected capabilities, which routes the run to the terminal step.
func (w *Workflow) queryIntent(ctx context.Context, state graph.State) (any, error) {
	userQuery := stateString(state, graph.StateKeyUserInput)
	if userQuery == "" {
		userQuery = stateString(state, KeyUserQuery)
	}

	intentRaw, err := w.invoke(ctx, intentPrompt, buildIntentContext(userQuery))
	if err != nil {
		return nil, err
	}
	dateRaw, err := w.invoke(ctx, dateExtractionPrompt, buildIntentContext(userQuery))
	if err != nil {
		return nil, err
	}

	var intent intentResult
	var dates dateResult
	if err := json.Unmarshal([]byte(stripMarkdown(intentRaw)), &intent); err != nil {
		log.Debugf("intent step: malformed intent JSON: %v", err)
		return intentFallback(), nil
	}
	if err := json.Unmarshal([]byte(stripMarkdown(dateRaw)), &dates); err != nil {
		log.Debugf("intent step: malformed date JSON: %v", err)
		return intentFallback(), nil
	}

	if len(intent.AgentsNeeded) == 0 {
		// Nothing for the workflow to do; the model's reply stands alone.
		return graph.State{
			KeyUserQuery:               userQuery,
			KeyAgentsNeeded:            []string{},
			graph.StateKeyMessages:     model.NewAssistantMessage(intentRaw),
			graph.StateKeyLastResponse: intentRaw,
		}, nil
	}

	// Blank every capability slot first so destinations from a previous
	// run in this thread cannot leak into the new one.
	locations := make(map[string]any, len(capabilityOrder))
	for _, capability := range capabilityOrder {
		locations[capability] = ""
	}
	for capability, place := range intent.Locations {
		if !isNull(place) {
			locations[capability] = place
		}
	}

	update := graph.State{
		KeyUserQuery:           userQuery,
		KeyAgentsNeeded:        intent.AgentsNeeded,
		KeyAgentLocations:      locations,
		graph.StateKeyMessages: model.NewAssistantMessage(intentRaw),

		// Fresh run: clear prior capability results and flags.
		KeyRetrievedDocs:          nil,
		KeyResearchResult:         "",
		KeyTripPlannerResult:      "",
		KeyGeneralAssistantResult: "",
		KeyWeatherAnalystResult:   "",
		KeyRouteLLMResult:         "",
		KeyFinalResult:            "",
		KeyLastActiveAgent:        "",
		KeyPlacesExtracted:        nil,
		KeyOptimizedRoute:         "",
		KeyResearchAgentCalled:    false,
		KeyGeneralAssistantCalled: false,
		KeyTripPlannerCalled:      false,
		KeyWeatherAnalystCalled:   false,
		KeyNeedsGeneralFallback:   false,
		KeyPreferencesCollected:   false,
		KeyDateConfirmationDone:   false,
	}

	// Only set stated preferences; absent keys mean "never asked".
	for _, key := range []string{
		KeyTripDays, KeyBudget, KeySeason, KeyMonth,
		KeyExperienceType, KeyPeople, KeySourceLocation,
	} {
		if value := preferenceString(intent.Preferences[key]); !isNull(value) {
			update[key] = value
		}
	}
	if dates.FromDate != nil && !isNull(*dates.FromDate) {
		update[KeyFromDate] = *dates.FromDate
	}
	if dates.ToDate != nil && !isNull(*dates.ToDate) {
		update[KeyToDate] = *dates.ToDate
	}
	return update, nil
}

func intentFallback() graph.State {
	return graph.State{
		KeyAgentsNeeded:            []string{},
		graph.StateKeyMessages:     model.NewAssistantMessage(intentFallbackMessage),
		graph.StateKeyLastResponse: intentFallbackMessage,
	}
}

// preferenceString coerces a decoded JSON preference value to a string.
func preferenceString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return trimFloat(v)
	default:
		return ""
	}
}

func trimFloat(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
