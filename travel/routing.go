package travel

import (
	"context"

	"github.com/voyagerlab/voyager/graph"
)

// Capability names produced by the intent step.
const (
	CapabilityResearch = "research_agent"
	CapabilityPlanner  = "trip_planner"
	CapabilityWeather  = "weather_analyst"
	CapabilityGeneral  = "general_assistant"
)

// capabilityMeta ties a capability to its completion flag and the step
// that serves it first.
type capabilityMeta struct {
	completeFlag string
	nodeID       string
}

// capabilityOrder is the fixed priority order: when several capabilities
// are pending, the earliest in this list wins.
var capabilityOrder = []string{
	CapabilityResearch,
	CapabilityPlanner,
	CapabilityWeather,
	CapabilityGeneral,
}

var capabilities = map[string]capabilityMeta{
	CapabilityResearch: {completeFlag: KeyResearchAgentCalled, nodeID: nodeRetriever},
	CapabilityPlanner:  {completeFlag: KeyTripPlannerCalled, nodeID: nodeAskPreference},
	CapabilityWeather:  {completeFlag: KeyWeatherAnalystCalled, nodeID: nodeWeatherAnalyst},
	CapabilityGeneral:  {completeFlag: KeyGeneralAssistantCalled, nodeID: nodeGeneralAssistant},
}

// pendingCapabilities returns the requested capabilities whose completion
// flag is not yet set, in priority order.
func pendingCapabilities(state graph.State) []string {
	requested := make(map[string]bool)
	for _, name := range stateStrings(state, KeyAgentsNeeded) {
		requested[name] = true
	}
	var pending []string
	for _, name := range capabilityOrder {
		meta, ok := capabilities[name]
		if !ok || !requested[name] {
			continue
		}
		if !stateBool(state, meta.completeFlag) {
			pending = append(pending, name)
		}
	}
	return pending
}

// routeAfterIntent decides the first step after intent analysis. No
// recognized capabilities means there is nothing to do. Research demanded
// together with planning starts with retrieval, so the plan can build on
// the retrieved material.
func routeAfterIntent(ctx context.Context, state graph.State) (string, error) {
	pending := pendingCapabilities(state)
	if len(pending) == 0 {
		return graph.End, nil
	}
	if contains(pending, CapabilityResearch) && contains(pending, CapabilityPlanner) {
		return nodeRetriever, nil
	}
	return capabilities[pending[0]].nodeID, nil
}

// routeAfterGenerator decides where to go once the research answer is
// built: pending planning first, then the general fallback when research
// came up empty, else synthesis.
func routeAfterGenerator(ctx context.Context, state graph.State) (string, error) {
	if contains(stateStrings(state, KeyAgentsNeeded), CapabilityPlanner) &&
		!stateBool(state, KeyTripPlannerCalled) {
		return nodeAskPreference, nil
	}
	if stateBool(state, KeyNeedsGeneralFallback) && stateBool(state, KeyResearchAgentCalled) {
		return nodeGeneralAssistant, nil
	}
	return nodeSynthesizer, nil
}

// routeAfterAgent decides the next step once a capability step has fully
// consumed its tool results: the next pending capability, then route
// optimization when a plan exists, else synthesis.
func routeAfterAgent(ctx context.Context, state graph.State) (string, error) {
	if pending := pendingCapabilities(state); len(pending) > 0 {
		return capabilities[pending[0]].nodeID, nil
	}
	if stateBool(state, KeyTripPlannerCalled) {
		return nodeRouteOptimizer, nil
	}
	return nodeSynthesizer, nil
}

func contains(list []string, want string) bool {
	for _, item := range list {
		if item == want {
			return true
		}
	}
	return false
}
