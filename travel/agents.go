package travel

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/voyagerlab/voyager/graph"
	"github.com/voyagerlab/voyager/model"
)

// Tool names the capability steps request.
const (
	toolWebSearch = "web_search"
	toolWeather   = "get_weather"
)

// planTrip builds the itinerary. On first entry it requests web searches
// and a weather lookup; once the tool results are back it writes the
// day-by-day plan.
func (w *Workflow) planTrip(ctx context.Context, state graph.State) (any, error) {
	destination := plannerLocation(state)
	if destination == "" {
		destination = stateString(state, KeyLocation)
	}

	if results := toolResults(state); results != "" {
		plan, err := w.invoke(ctx, tripPlannerPrompt,
			buildTripPlannerContext(snapshotPreferences(state, destination), routeBlock(state), results))
		if err != nil {
			return nil, err
		}
		return graph.State{
			KeyTripPlannerResult:   plan,
			KeyTripPlannerCalled:   true,
			graph.StateKeyMessages: model.NewAssistantMessage(plan),
		}, nil
	}

	month := stateString(state, KeyMonth)
	if month == "" {
		month = stateString(state, KeySeason)
	}
	calls := []model.ToolCall{
		newToolCall(toolWebSearch, map[string]string{
			"query": fmt.Sprintf("top attractions in %s", destination),
		}),
		newToolCall(toolWebSearch, map[string]string{
			"query": fmt.Sprintf("%s %s itinerary %s",
				destination, stateString(state, KeyExperienceType), month),
		}),
		newToolCall(toolWebSearch, map[string]string{
			"query": fmt.Sprintf("%s hotels restaurants %s budget",
				destination, stateString(state, KeyBudget)),
		}),
		newToolCall(toolWeather, map[string]string{"city": destination}),
	}
	return graph.State{
		KeyTripPlannerCalled:   true,
		KeyLastActiveAgent:     CapabilityPlanner,
		graph.StateKeyMessages: model.Message{Role: model.RoleAssistant, ToolCalls: calls},
	}, nil
}

// analyzeWeather reports current weather for the requested location.
func (w *Workflow) analyzeWeather(ctx context.Context, state graph.State) (any, error) {
	locations := stateLocations(state, KeyAgentLocations)
	location, _ := locations[CapabilityWeather].(string)
	if isNull(location) {
		message := "Please specify a location for weather analysis."
		return graph.State{
			KeyWeatherAnalystResult: message,
			KeyWeatherAnalystCalled: true,
			graph.StateKeyMessages:  model.NewAssistantMessage(message),
		}, nil
	}

	if results := toolResults(state); results != "" {
		analysis, err := w.invoke(ctx, weatherAnalystPrompt,
			buildWeatherContext(stateString(state, KeyUserQuery), location, results))
		if err != nil {
			return nil, err
		}
		return graph.State{
			KeyWeatherAnalystResult: analysis,
			KeyWeatherAnalystCalled: true,
			graph.StateKeyMessages:  model.NewAssistantMessage(analysis),
		}, nil
	}

	return graph.State{
		KeyWeatherAnalystCalled: true,
		KeyLastActiveAgent:      CapabilityWeather,
		graph.StateKeyMessages: model.Message{
			Role:      model.RoleAssistant,
			ToolCalls: []model.ToolCall{newToolCall(toolWeather, map[string]string{"city": location})},
		},
	}, nil
}

// generalAssist answers general travel questions backed by web search.
func (w *Workflow) generalAssist(ctx context.Context, state graph.State) (any, error) {
	query := stateString(state, KeyUserQuery)

	if results := toolResults(state); results != "" {
		answer, err := w.invoke(ctx, generalAssistantPrompt, buildGeneralContext(query, results))
		if err != nil {
			return nil, err
		}
		return graph.State{
			KeyGeneralAssistantResult: answer,
			KeyGeneralAssistantCalled: true,
			KeyNeedsGeneralFallback:   false,
			graph.StateKeyMessages:    model.NewAssistantMessage(answer),
		}, nil
	}

	return graph.State{
		KeyGeneralAssistantCalled: true,
		KeyLastActiveAgent:        CapabilityGeneral,
		graph.StateKeyMessages: model.Message{
			Role:      model.RoleAssistant,
			ToolCalls: []model.ToolCall{newToolCall(toolWebSearch, map[string]string{"query": query})},
		},
	}, nil
}

// synthesize composes the final traveler-facing answer from every
// capability result the run produced.
func (w *Workflow) synthesize(ctx context.Context, state graph.State) (any, error) {
	snapshot := graphSnapshot{
		userQuery:      stateString(state, KeyUserQuery),
		tripDays:       stateString(state, KeyTripDays),
		tripPlan:       stateString(state, KeyTripPlannerResult),
		weatherInfo:    stateString(state, KeyWeatherAnalystResult),
		generalInfo:    stateString(state, KeyGeneralAssistantResult),
		researchInfo:   stateString(state, KeyResearchResult),
		optimizedRoute: stateString(state, KeyOptimizedRoute),
	}

	if snapshot.tripPlan == "" && snapshot.weatherInfo == "" &&
		snapshot.generalInfo == "" && snapshot.researchInfo == "" {
		message := "I couldn't gather enough information to answer your query."
		return graph.State{
			KeyFinalResult:             message,
			graph.StateKeyLastResponse: message,
			graph.StateKeyMessages:     model.NewAssistantMessage(message),
		}, nil
	}

	final, err := w.invoke(ctx, synthesizerPrompt, buildSynthesizerContext(snapshot))
	if err != nil {
		return nil, err
	}
	return graph.State{
		KeyFinalResult:             final,
		graph.StateKeyLastResponse: final,
		graph.StateKeyMessages:     model.NewAssistantMessage(final),
	}, nil
}

// toolResults returns the joined trailing tool outputs, empty when the
// step is entered before any tools ran.
func toolResults(state graph.State) string {
	messages, _ := state[graph.StateKeyMessages].([]model.Message)
	if len(messages) == 0 || messages[len(messages)-1].Role != model.RoleTool {
		return ""
	}
	return collectToolResults(messages)
}

// newToolCall builds a function tool call with a fresh short ID.
func newToolCall(name string, args map[string]string) model.ToolCall {
	encoded, _ := json.Marshal(args)
	return model.ToolCall{
		Type: "function",
		ID:   fmt.Sprintf("call_%s", uuid.NewString()[:8]),
		Function: model.FunctionDefinitionParam{
			Name:      name,
			Arguments: encoded,
		},
	}
}

// snapshotPreferences gathers the planner preferences from state.
func snapshotPreferences(state graph.State, destination string) prefSnapshot {
	return prefSnapshot{
		location:   destination,
		tripDays:   stateString(state, KeyTripDays),
		budget:     stateString(state, KeyBudget),
		season:     stateString(state, KeySeason),
		month:      stateString(state, KeyMonth),
		experience: stateString(state, KeyExperienceType),
		people:     stateString(state, KeyPeople),
	}
}

// routeBlock formats the fixed-route context for the planner prompt.
func routeBlock(state graph.State) string {
	description := stateString(state, KeyRouteLLMResult)
	if description == "" {
		return ""
	}
	return "\nROUTE OVERVIEW:\n" + description + "\n"
}
