package travel

import (
	"reflect"

	"github.com/voyagerlab/voyager/graph"
	"github.com/voyagerlab/voyager/knowledge"
	"github.com/voyagerlab/voyager/tool/geo"
)

// State keys for the travel workflow. Preference scalars follow
// absence-means-unasked semantics: a key missing from state has never
// been collected, while an empty string was explicitly cleared.
const (
	// KeyUserQuery is the query driving the current run.
	KeyUserQuery = "user_query"
	// KeyAgentsNeeded lists the capabilities the intent step selected.
	KeyAgentsNeeded = "agents_needed"
	// KeyAgentLocations maps capability name to its destination.
	KeyAgentLocations = "agent_locations"

	// Preference scalars.
	KeyBudget         = "budget"
	KeySeason         = "season"
	KeyMonth          = "month"
	KeyFromDate       = "from_date"
	KeyToDate         = "to_date"
	KeyTripDays       = "trip_days"
	KeyExperienceType = "experience_type"
	KeyPeople         = "people"
	KeySourceLocation = "source_location"
	KeyLocation       = "location"

	// Research keys.
	KeyRetrievedDocs  = "retrieved_docs"
	KeyResearchResult = "research_result"

	// Route keys.
	KeyRouteInfo        = "route_info"
	KeyPlacesAlongRoute = "places_along_route"
	KeyRouteLLMResult   = "route_llm_result"
	KeyPlacesExtracted  = "places_extracted"
	KeyOptimizedRoute   = "optimized_route"

	// Capability results.
	KeyTripPlannerResult      = "trip_planner_result"
	KeyWeatherAnalystResult   = "weather_analyst_result"
	KeyGeneralAssistantResult = "general_assistant_result"
	KeyFinalResult            = "final_result"
	KeyLastActiveAgent        = "last_active_agent"

	// Flags.
	KeyResearchAgentCalled    = "research_agent_called"
	KeyTripPlannerCalled      = "trip_planner_called"
	KeyWeatherAnalystCalled   = "weather_analyst_called"
	KeyGeneralAssistantCalled = "general_assistant_called"
	KeyNeedsGeneralFallback   = "needs_general_fallback"
	KeyPreferencesCollected   = "preferences_collected"
	KeyDateConfirmationDone   = "date_confirmation_done"
)

// Schema returns the travel workflow state schema: the message-based base
// schema extended with the travel fields.
func Schema() *graph.StateSchema {
	schema := graph.MessagesStateSchema()

	stringField := graph.StateField{
		Type:    reflect.TypeOf(""),
		Reducer: graph.DefaultReducer,
	}
	boolField := graph.StateField{
		Type:    reflect.TypeOf(false),
		Reducer: graph.DefaultReducer,
	}

	for _, key := range []string{
		KeyUserQuery,
		KeyBudget, KeySeason, KeyMonth, KeyFromDate, KeyToDate,
		KeyTripDays, KeyExperienceType, KeyPeople, KeySourceLocation,
		KeyResearchResult, KeyRouteLLMResult, KeyOptimizedRoute,
		KeyTripPlannerResult, KeyWeatherAnalystResult,
		KeyGeneralAssistantResult, KeyFinalResult, KeyLastActiveAgent,
	} {
		schema.AddField(key, stringField)
	}
	for _, key := range []string{
		KeyResearchAgentCalled, KeyTripPlannerCalled,
		KeyWeatherAnalystCalled, KeyGeneralAssistantCalled,
		KeyNeedsGeneralFallback, KeyPreferencesCollected,
		KeyDateConfirmationDone,
	} {
		schema.AddField(key, boolField)
	}

	schema.AddField(KeyAgentsNeeded, graph.StateField{
		Type:    reflect.TypeOf([]string{}),
		Reducer: graph.DefaultReducer,
	})
	schema.AddField(KeyAgentLocations, graph.StateField{
		Type:    reflect.TypeOf(map[string]any{}),
		Reducer: graph.MergeReducer,
		Default: func() any { return map[string]any{} },
	})
	schema.AddField(KeyRetrievedDocs, graph.StateField{
		Type:    reflect.TypeOf([]knowledge.Passage{}),
		Reducer: graph.DefaultReducer,
	})
	schema.AddField(KeyRouteInfo, graph.StateField{
		Type:    reflect.TypeOf(map[string]any{}),
		Reducer: graph.DefaultReducer,
	})
	schema.AddField(KeyPlacesAlongRoute, graph.StateField{
		Type:    reflect.TypeOf([]geo.Place{}),
		Reducer: graph.DefaultReducer,
	})
	schema.AddField(KeyPlacesExtracted, graph.StateField{
		Type:    reflect.TypeOf([]string{}),
		Reducer: graph.DefaultReducer,
	})
	return schema
}

// stateString reads a string-valued key, empty when absent.
func stateString(state graph.State, key string) string {
	value, _ := state[key].(string)
	return value
}

// stateBool reads a bool-valued key, false when absent.
func stateBool(state graph.State, key string) bool {
	value, _ := state[key].(bool)
	return value
}

// stateStrings reads a []string key, nil when absent. JSON round-trips
// through a checkpoint may deliver []any, handled here.
func stateStrings(state graph.State, key string) []string {
	switch v := state[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// stateLocations reads the agent locations map.
func stateLocations(state graph.State, key string) map[string]any {
	value, _ := state[key].(map[string]any)
	return value
}

// isNull reports whether a preference value counts as missing.
func isNull(value string) bool {
	switch value {
	case "", "null", "Null", "NULL":
		return true
	default:
		return false
	}
}
